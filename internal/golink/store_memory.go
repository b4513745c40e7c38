package golink

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/golinkhq/golinks/internal/errx"
)

// MemoryStore is a volatile Store backed by a map guarded by a
// readers-writer lock. It owns its map exclusively: every read returns
// a copy, so callers can never mutate stored state. List preserves
// insertion order; deleting and re-creating a name treats it as a
// fresh insertion.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]Link
	order []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[string]Link),
	}
}

func (s *MemoryStore) Create(ctx context.Context, link Link) (Link, error) {
	const op = "golink.MemoryStore.Create"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.ShortLink]; exists {
		return Link{}, errx.E(op, errx.Conflict,
			fmt.Errorf("short link %q already exists", link.ShortLink))
	}

	s.links[link.ShortLink] = link
	s.order = append(s.order, link.ShortLink)
	return link, nil
}

func (s *MemoryStore) Get(ctx context.Context, shortLink string) (Link, error) {
	const op = "golink.MemoryStore.Get"

	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[shortLink]
	if !ok {
		return Link{}, errx.E(op, errx.NotFound,
			fmt.Errorf("short link %q not found", shortLink))
	}
	return link, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Link, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.links[key])
	}
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, shortLink, url string) (Link, error) {
	const op = "golink.MemoryStore.Update"

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[shortLink]
	if !ok {
		return Link{}, errx.E(op, errx.NotFound,
			fmt.Errorf("short link %q not found", shortLink))
	}

	link.URL = url
	s.links[shortLink] = link
	return link, nil
}

func (s *MemoryStore) Delete(ctx context.Context, shortLink string) error {
	const op = "golink.MemoryStore.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[shortLink]; !ok {
		return errx.E(op, errx.NotFound,
			fmt.Errorf("short link %q not found", shortLink))
	}

	delete(s.links, shortLink)
	if i := slices.Index(s.order, shortLink); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}
