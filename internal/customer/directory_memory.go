package customer

import (
	"context"
	"sync"
)

// MemDirectory is a fixed in-memory directory, used in tests and wherever a
// file on disk is overkill.
type MemDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]Customer
}

func NewMemDirectory(customers ...Customer) *MemDirectory {
	d := &MemDirectory{byEmail: make(map[string]Customer, len(customers))}
	for _, c := range customers {
		d.byEmail[c.Email] = c
	}
	return d
}

func (d *MemDirectory) Ping(ctx context.Context) error { return nil }

func (d *MemDirectory) GetByEmail(ctx context.Context, email string) (Customer, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.byEmail[email]
	return c, ok, nil
}
