package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/catalog-browser/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Fetcher is the remote catalog as seen by a page
type Fetcher interface {
	FetchAll(ctx context.Context) (*models.ProductListResult, error)
	Search(ctx context.Context, term string) (*models.ProductListResult, error)
}

// Page owns the state of one mounted catalog page. All mutations go through
// the State reducers under mu; the lock is released while a fetch is on the
// wire so other events keep flowing.
type Page struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

// NewPage creates a page in its initial state. It does not fetch; call Mount.
func NewPage(fetcher Fetcher, logger *slog.Logger) *Page {
	return &Page{
		fetcher: fetcher,
		logger:  logger,
		state:   Initial(),
	}
}

// Mount performs the initial catalog load
func (p *Page) Mount(ctx context.Context) {
	p.FetchAll(ctx)
}

// FetchAll reloads the full catalog
func (p *Page) FetchAll(ctx context.Context) {
	p.fetch(ctx, "fetch all", func(ctx context.Context) (*models.ProductListResult, error) {
		return p.fetcher.FetchAll(ctx)
	})
}

// Search runs a remote search for the current search term. A blank term
// reloads the full catalog.
func (p *Page) Search(ctx context.Context) {
	term := p.Snapshot().SearchTerm

	p.fetch(ctx, "search", func(ctx context.Context) (*models.ProductListResult, error) {
		return p.fetcher.Search(ctx, term)
	})
}

// Clear reloads the full catalog. The search term is left as is.
func (p *Page) Clear(ctx context.Context) {
	p.FetchAll(ctx)
}

func (p *Page) fetch(ctx context.Context, op string, do func(context.Context) (*models.ProductListResult, error)) {
	var seq uint64
	p.update(func(s State) State {
		s, seq = s.BeginFetch()
		return s
	})

	result, err := do(ctx)
	if err != nil {
		p.logger.Error("failed to load products", "op", op, "seq", seq, "error", err)
		p.update(func(s State) State { return s.FetchFailed(seq) })
		return
	}

	var products []models.Product
	if result != nil {
		products = result.Products
	}

	p.update(func(s State) State {
		if s.Seq != seq {
			p.logger.Debug("discarding stale catalog response", "op", op, "seq", seq, "latest", s.Seq)
			return s
		}
		p.logger.Debug("products loaded", "op", op, "seq", seq, "count", len(products))
		return s.FetchSucceeded(seq, products)
	})
}

// SetSearchTerm records the text of the search field
func (p *Page) SetSearchTerm(term string) {
	p.update(func(s State) State { return s.SetSearchTerm(term) })
}

// AddToCart adds product to the cart; products already present are ignored
func (p *Page) AddToCart(product models.Product) {
	p.update(func(s State) State { return s.AddToCart(product) })
}

// AddToCartByID adds the product with the given id from the current product
// list. It returns ErrProductNotFound when the id is not listed.
func (p *Page) AddToCartByID(id int64) error {
	var found bool
	p.update(func(s State) State {
		var product models.Product
		product, found = s.FindProduct(id)
		if !found {
			return s
		}
		return s.AddToCart(product)
	})

	if !found {
		return ErrProductNotFound
	}
	return nil
}

// RemoveFromCart removes the entry with the given id, if any
func (p *Page) RemoveFromCart(id int64) {
	p.update(func(s State) State { return s.RemoveFromCart(id) })
}

// Snapshot returns the current state
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// View returns the view derived from the current state
func (p *Page) View() View {
	return p.Snapshot().View()
}

func (p *Page) update(fn func(State) State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = fn(p.state)
}
