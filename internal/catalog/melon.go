package catalog

import "context"

// Melon is one sellable item. Records are built once at load time and never
// mutated afterwards, so values may be shared across goroutines freely.
type Melon struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// PriceDisplay renders the unit price with two fraction digits.
func (m Melon) PriceDisplay() string {
	return FormatCents(m.PriceCents)
}

// Store is a read-only catalog. A missing id is not an error: callers get
// ok=false and are expected to recover (render a not-found page, surface a
// cart integrity problem), never to abort the process.
type Store interface {
	// All returns every melon in load order.
	All(ctx context.Context) ([]Melon, error)

	// Get resolves a single melon by exact id.
	Get(ctx context.Context, id string) (Melon, bool, error)

	Ping(ctx context.Context) error
}
