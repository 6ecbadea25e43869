// Package catalog is the built-in dataset of study notes offered for sale.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/shopspring/decimal"
)

type Note struct {
	ID          string
	Title       string
	Description string
	Subject     string
	Seller      string
	Price       decimal.Decimal
	Pages       int
}

// CartItem converts n to a single-quantity cart line.
func (n Note) CartItem() domain.CartItem {
	return domain.CartItem{
		ID:       n.ID,
		Title:    n.Title,
		Price:    n.Price,
		Seller:   n.Seller,
		Subject:  n.Subject,
		Quantity: 1,
	}
}

// Filter narrows a search. Zero fields match everything; text matching is
// case-insensitive.
type Filter struct {
	Query    string
	Subject  string
	Seller   string
	MaxPrice decimal.Decimal
}

type Catalog struct {
	notes []Note
	byID  map[string]int
}

func New(notes []Note) (*Catalog, error) {
	c := &Catalog{
		notes: slices.Clone(notes),
		byID:  make(map[string]int, len(notes)),
	}

	for i, n := range c.notes {
		if n.ID == "" {
			return nil, fmt.Errorf("notes[%d]: id is empty", i)
		}
		if n.Price.IsNegative() {
			return nil, fmt.Errorf("note[%s]: price is negative", n.ID)
		}
		if _, ok := c.byID[n.ID]; ok {
			return nil, fmt.Errorf("note[%s] is duplicated", n.ID)
		}
		c.byID[n.ID] = i
	}

	return c, nil
}

func (c *Catalog) Get(id string) (Note, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Note{}, false
	}
	return c.notes[i], true
}

func (c *Catalog) All() []Note {
	return slices.Clone(c.notes)
}

// Search returns the notes matching f in catalog order.
func (c *Catalog) Search(f Filter) []Note {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var result []Note
	for _, n := range c.notes {
		if query != "" &&
			!strings.Contains(strings.ToLower(n.Title), query) &&
			!strings.Contains(strings.ToLower(n.Description), query) {
			continue
		}
		if f.Subject != "" && !strings.EqualFold(n.Subject, f.Subject) {
			continue
		}
		if f.Seller != "" && !strings.EqualFold(n.Seller, f.Seller) {
			continue
		}
		if f.MaxPrice.IsPositive() && n.Price.GreaterThan(f.MaxPrice) {
			continue
		}
		result = append(result, n)
	}

	return result
}

// Subjects returns the distinct subjects, sorted.
func (c *Catalog) Subjects() []string {
	subjects := make([]string, 0, len(c.notes))
	for _, n := range c.notes {
		subjects = append(subjects, n.Subject)
	}

	slices.Sort(subjects)
	return slices.Compact(subjects)
}
