package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/Lixing-Zhang/catalog-browser/internal/view"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository defines the interface for storing mounted pages
type SessionRepository interface {
	Create(ctx context.Context, page *view.Page) (string, error)
	Get(ctx context.Context, id string) (*view.Page, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) int
}

// InMemorySessionRepository implements SessionRepository with in-memory storage.
// Sessions live until they are deleted or the process exits.
type InMemorySessionRepository struct {
	mu    sync.RWMutex
	pages map[string]*view.Page
}

// NewInMemorySessionRepository creates an empty session repository
func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		pages: make(map[string]*view.Page),
	}
}

// Create stores page under a new random session id
func (r *InMemorySessionRepository) Create(ctx context.Context, page *view.Page) (string, error) {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[id] = page

	return id, nil
}

// Get returns the page for a session id
func (r *InMemorySessionRepository) Get(ctx context.Context, id string) (*view.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, exists := r.pages[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return page, nil
}

// Delete removes a session
func (r *InMemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pages[id]; !exists {
		return ErrSessionNotFound
	}
	delete(r.pages, id)
	return nil
}

// Count returns the number of live sessions
func (r *InMemorySessionRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}
