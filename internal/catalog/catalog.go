// Package catalog serves the read-only product list. Products are supplied
// externally as a JSON document, validated once at load, and never mutated.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/auracommerce/storefront/internal/models"
)

type Catalog struct {
	products []models.Product
	byID     map[string]models.Product
}

func New(products []models.Product) (*Catalog, error) {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q: empty id", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("product id %q: duplicate", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q: negative price %v", p.ID, p.Price)
		}
		byID[p.ID] = p
	}
	out := make([]models.Product, len(products))
	copy(out, products)
	return &Catalog{products: out, byID: byID}, nil
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(products)
}

// Products returns the catalog in its original order. Callers get a copy;
// catalog order is what the "relevance" sort preserves.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id string) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Brands lists the distinct brands in catalog order, for filter UIs.
func (c *Catalog) Brands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if p.Brand != "" && !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	return out
}

// Categories lists the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
