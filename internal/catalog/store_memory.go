package catalog

import "context"

// MemStore serves a fixed snapshot of melons. The snapshot is immutable
// after construction, which makes unsynchronized concurrent reads safe
// without any locking.
type MemStore struct {
	order []Melon
	byID  map[string]Melon
}

// NewMemStore builds a store from melons in load order. Ordering is
// preserved by All; duplicate ids must have been rejected by the loader.
func NewMemStore(melons []Melon) *MemStore {
	s := &MemStore{
		order: make([]Melon, len(melons)),
		byID:  make(map[string]Melon, len(melons)),
	}
	copy(s.order, melons)
	for _, m := range melons {
		s.byID[m.ID] = m
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) All(ctx context.Context) ([]Melon, error) {
	out := make([]Melon, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Melon, bool, error) {
	m, ok := s.byID[id]
	return m, ok, nil
}
