// Package cart holds the per-session shopping cart: a mapping from melon id
// to requested quantity. Adds never consult the catalog (deferred
// validation); a cart entry that no longer resolves surfaces as an explicit
// integrity error when the cart is materialized for display.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"melonsite/internal/catalog"
)

// ErrUnknownItem reports a cart entry whose id has no catalog match. It is a
// data-integrity condition, distinct from an empty cart and from a plain
// not-found on a detail page.
var ErrUnknownItem = errors.New("cart references unknown melon")

// Cart maps melon id to a positive quantity. A zero quantity is never stored
// as an entry. The insertion-order slice exists because Go maps iterate in
// random order and cart rendering should be deterministic.
type Cart struct {
	qty   map[string]int
	order []string
}

func New() *Cart {
	return &Cart{qty: make(map[string]int)}
}

// AddOne increments the quantity for id, starting at 1 when the id is
// absent. The id is not checked against the catalog here.
func (c *Cart) AddOne(id string) {
	if _, ok := c.qty[id]; !ok {
		c.order = append(c.order, id)
	}
	c.qty[id]++
}

// Quantity returns the stored quantity for id, zero when absent.
func (c *Cart) Quantity(id string) int {
	return c.qty[id]
}

func (c *Cart) IsEmpty() bool {
	return len(c.qty) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.qty = make(map[string]int)
	c.order = nil
}

// Line is one materialized cart row: the resolved melon, the requested
// quantity and the exact line total in cents.
type Line struct {
	Melon          catalog.Melon
	Qty            int
	LineTotalCents int64
}

func (l Line) LineTotalDisplay() string {
	return catalog.FormatCents(l.LineTotalCents)
}

// Summary is the materialized cart. TotalCents is the exact sum of the line
// totals; formatting to two fraction digits happens only at render time.
type Summary struct {
	Lines      []Line
	TotalCents int64
}

func (s Summary) TotalDisplay() string {
	return catalog.FormatCents(s.TotalCents)
}

// Materialize resolves every cart entry against the catalog in insertion
// order and accumulates the order total. An id with no catalog match yields
// ErrUnknownItem (wrapped with the id); a store failure is returned as-is.
func (c *Cart) Materialize(ctx context.Context, store catalog.Store) (Summary, error) {
	var sum Summary

	for _, id := range c.order {
		m, ok, err := store.Get(ctx, id)
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			return Summary{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}

		qty := c.qty[id]
		line := Line{
			Melon:          m,
			Qty:            qty,
			LineTotalCents: m.PriceCents * int64(qty),
		}
		sum.Lines = append(sum.Lines, line)
		sum.TotalCents += line.LineTotalCents
	}

	return sum, nil
}

type cartJSON struct {
	Order []string       `json:"order"`
	Qty   map[string]int `json:"qty"`
}

// MarshalJSON keeps the insertion order alongside the quantity map so a
// serialized cart round-trips without reordering.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Order: c.order, Qty: c.qty})
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.qty = raw.Qty
	if c.qty == nil {
		c.qty = make(map[string]int)
	}
	c.order = raw.Order
	return nil
}
