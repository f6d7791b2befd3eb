package view

import (
	"strings"

	"github.com/Lixing-Zhang/catalog-browser/internal/cart"
	"github.com/Lixing-Zhang/catalog-browser/internal/models"
	"github.com/shopspring/decimal"
)

// State is an immutable snapshot of a browser page. Every transition
// returns a new State; slices are never shared with the previous snapshot
// in a way that a later transition could mutate.
type State struct {
	Products   []models.Product
	Loading    bool
	SearchTerm string
	Cart       []models.Product

	// Seq identifies the most recently issued fetch. Completions carrying
	// an older sequence number are stale and ignored.
	Seq uint64
}

// Initial is the state of a freshly mounted page
func Initial() State {
	return State{
		Products: []models.Product{},
		Loading:  true,
		Cart:     []models.Product{},
	}
}

// SetSearchTerm records a keystroke. It does not trigger a fetch.
func (s State) SetSearchTerm(term string) State {
	s.SearchTerm = term
	return s
}

// BeginFetch marks a new fetch as in flight and returns its sequence number
func (s State) BeginFetch() (State, uint64) {
	s.Seq++
	s.Loading = true
	return s, s.Seq
}

// FetchSucceeded replaces the product list if seq is the latest fetch
func (s State) FetchSucceeded(seq uint64, products []models.Product) State {
	if seq != s.Seq {
		return s
	}
	s.Products = append([]models.Product{}, products...)
	s.Loading = false
	return s
}

// FetchFailed clears the loading flag if seq is the latest fetch, keeping
// the previous products on display.
func (s State) FetchFailed(seq uint64) State {
	if seq != s.Seq {
		return s
	}
	s.Loading = false
	return s
}

func (s State) AddToCart(product models.Product) State {
	s.Cart = cart.Add(s.Cart, product)
	return s
}

func (s State) RemoveFromCart(id int64) State {
	s.Cart = cart.Remove(s.Cart, id)
	return s
}

// FindProduct looks id up in the current product list
func (s State) FindProduct(id int64) (models.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Filter returns the products whose title or category contains term,
// ignoring case. An empty term matches everything.
func Filter(products []models.Product, term string) []models.Product {
	needle := strings.ToLower(term)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

// ProductCard is a product as shown in the grid
type ProductCard struct {
	models.Product
	InCart bool `json:"inCart"`
}

// View is what a renderer needs to draw the page. It is derived from State
// on every call and never stored.
type View struct {
	Products         []ProductCard    `json:"products"`
	Loading          bool             `json:"loading"`
	SearchTerm       string           `json:"searchTerm"`
	Cart             []models.Product `json:"cart"`
	CartCount        int              `json:"cartCount"`
	CartTotal        decimal.Decimal  `json:"cartTotal"`
	CartTotalDisplay string           `json:"cartTotalDisplay"`
}

// View derives the renderable view from the snapshot
func (s State) View() View {
	filtered := Filter(s.Products, s.SearchTerm)

	cards := make([]ProductCard, 0, len(filtered))
	for _, p := range filtered {
		cards = append(cards, ProductCard{
			Product: p,
			InCart:  cart.Contains(s.Cart, p.ID),
		})
	}

	total := cart.Total(s.Cart)

	return View{
		Products:         cards,
		Loading:          s.Loading,
		SearchTerm:       s.SearchTerm,
		Cart:             append([]models.Product{}, s.Cart...),
		CartCount:        len(s.Cart),
		CartTotal:        total,
		CartTotalDisplay: cart.FormatTotal(total),
	}
}
