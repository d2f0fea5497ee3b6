// Package cart holds the in-memory shopping carts. Carts are scoped to the
// running process: a restart empties them, by contrast with the durably
// persisted auth state.
package cart

import (
	"fmt"
	"sync"

	"github.com/auracommerce/storefront/internal/models"
)

// Line is one cart entry. Identity is the full (product, color, size)
// tuple, so two colors of the same product are two separate lines.
type Line struct {
	Product       models.Product `json:"product"`
	Quantity      int            `json:"quantity"`
	SelectedColor string         `json:"selectedColor,omitempty"`
	SelectedSize  string         `json:"selectedSize,omitempty"`
}

// Key identifies the line within its cart.
func (l Line) Key() string {
	return LineKey(l.Product.ID, l.SelectedColor, l.SelectedSize)
}

func LineKey(productID, color, size string) string {
	return fmt.Sprintf("%s|%s|%s", productID, color, size)
}

// Snapshot is the state handed to callers after every mutation. Totals are
// recomputed from the lines each time, never cached incrementally.
type Snapshot struct {
	Lines     []Line  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
	IsOpen    bool    `json:"isOpen"`
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
	open  bool
}

// AddItem appends a new line with quantity 1, or bumps the quantity of the
// existing line for the same (product, color, size). Never fails.
func (c *Cart) AddItem(p models.Product, color, size string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := LineKey(p.ID, color, size)
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity++
			return c.snapshot()
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1, SelectedColor: color, SelectedSize: size})
	return c.snapshot()
}

// RemoveItem deletes the line with the given key; removing an absent line is
// a no-op, not an error.
func (c *Cart) RemoveItem(key string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	return c.snapshot()
}

// UpdateQuantity sets the line's quantity. Zero or negative means removal.
func (c *Cart) UpdateQuantity(key string, quantity int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Key() != key {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		break
	}
	return c.snapshot()
}

func (c *Cart) Clear() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.snapshot()
}

// Open, Close and Toggle drive the drawer visibility flag. Pure UI state,
// not business state, but it lives with the cart so callers get one
// snapshot.
func (c *Cart) Open() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	return c.snapshot()
}

func (c *Cart) Close() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return c.snapshot()
}

func (c *Cart) Toggle() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.snapshot()
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Cart) snapshot() Snapshot {
	snap := Snapshot{
		Lines:  make([]Line, len(c.lines)),
		IsOpen: c.open,
	}
	copy(snap.Lines, c.lines)
	for _, l := range c.lines {
		snap.Total += l.Product.Price * float64(l.Quantity)
		snap.ItemCount += l.Quantity
	}
	return snap
}

// Store hands out named carts, one per shopper (session subject or
// client-chosen cart id).
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func (s *Store) Get(id string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		c = &Cart{}
		s.carts[id] = c
	}
	return c
}

// ShippingPolicy is per-storefront display configuration: free shipping
// above the threshold, else a flat fee.
type ShippingPolicy struct {
	FreeThreshold float64
	Fee           float64
}

func (p ShippingPolicy) Quote(subtotal float64) float64 {
	if subtotal >= p.FreeThreshold {
		return 0
	}
	return p.Fee
}

func (p ShippingPolicy) OrderTotal(subtotal float64) float64 {
	return subtotal + p.Quote(subtotal)
}
