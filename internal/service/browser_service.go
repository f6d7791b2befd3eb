package service

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/catalog-browser/internal/repository"
	"github.com/Lixing-Zhang/catalog-browser/internal/view"
)

// BrowserService mounts catalog pages and hands them out by session id
type BrowserService struct {
	repo    repository.SessionRepository
	fetcher view.Fetcher
	logger  *slog.Logger
}

// NewBrowserService creates a new browser service
func NewBrowserService(repo repository.SessionRepository, fetcher view.Fetcher, logger *slog.Logger) *BrowserService {
	return &BrowserService{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Mount creates a page, runs its initial catalog load and registers it.
// A failed initial load still yields a usable, empty page.
func (s *BrowserService) Mount(ctx context.Context) (string, *view.Page, error) {
	page := view.NewPage(s.fetcher, s.logger)

	id, err := s.repo.Create(ctx, page)
	if err != nil {
		return "", nil, err
	}

	page.Mount(ctx)

	s.logger.Info("page mounted", "session_id", id, "products", len(page.Snapshot().Products))
	return id, page, nil
}

// Page returns the mounted page for a session
func (s *BrowserService) Page(ctx context.Context, id string) (*view.Page, error) {
	return s.repo.Get(ctx, id)
}

// Unmount discards a session and its cart
func (s *BrowserService) Unmount(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("page unmounted", "session_id", id)
	return nil
}

// ActiveSessions reports how many pages are currently mounted
func (s *BrowserService) ActiveSessions(ctx context.Context) int {
	return s.repo.Count(ctx)
}
