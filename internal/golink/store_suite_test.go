package golink

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/golinkhq/golinks/internal/errx"
)

// newTestLink builds a Link the way the service would before handing
// it to a store. Timestamps are spaced out so listing order is
// unambiguous.
func newTestLink(t *testing.T, shortLink, url string, offset time.Duration) Link {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return Link{
		ID:        uuid.New(),
		ShortLink: shortLink,
		URL:       url,
		CreatedAt: base.Add(offset),
	}
}

// runStoreSuite exercises the Store contract. Both backends run the
// identical suite; behavioral equivalence between them is the point.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create and get round-trip", func(t *testing.T) {
		store := newStore(t)
		link := newTestLink(t, "go/github", "https://github.com", 0)

		created, err := store.Create(ctx, link)
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if created.ID != link.ID {
			t.Errorf("created.ID = %v, want %v", created.ID, link.ID)
		}

		got, err := store.Get(ctx, "go/github")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got.URL != "https://github.com" {
			t.Errorf("got.URL = %q, want %q", got.URL, "https://github.com")
		}
		if got.ShortLink != "go/github" {
			t.Errorf("got.ShortLink = %q, want %q", got.ShortLink, "go/github")
		}
		if !got.CreatedAt.Equal(link.CreatedAt) {
			t.Errorf("got.CreatedAt = %v, want %v", got.CreatedAt, link.CreatedAt)
		}
	})

	t.Run("create conflict leaves existing link untouched", func(t *testing.T) {
		store := newStore(t)
		original := newTestLink(t, "go/docs", "https://docs.example.com", 0)

		if _, err := store.Create(ctx, original); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}

		duplicate := newTestLink(t, "go/docs", "https://evil.example.com", time.Second)
		_, err := store.Create(ctx, duplicate)
		if errx.KindOf(err) != errx.Conflict {
			t.Fatalf("Create() duplicate error kind = %v, want Conflict", errx.KindOf(err))
		}

		got, err := store.Get(ctx, "go/docs")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got.URL != "https://docs.example.com" {
			t.Errorf("conflict overwrote url: got %q", got.URL)
		}
		if !got.CreatedAt.Equal(original.CreatedAt) {
			t.Errorf("conflict changed created_at: got %v", got.CreatedAt)
		}
	})

	t.Run("get missing returns NotFound", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "go/nonexistent")
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("Get() error kind = %v, want NotFound", errx.KindOf(err))
		}
	})

	t.Run("get malformed name returns NotFound without crashing", func(t *testing.T) {
		store := newStore(t)

		for _, name := range []string{"", "not a link", "go/", "go/bad name!"} {
			_, err := store.Get(ctx, name)
			if errx.KindOf(err) != errx.NotFound {
				t.Errorf("Get(%q) error kind = %v, want NotFound", name, errx.KindOf(err))
			}
		}
	})

	t.Run("update replaces url only", func(t *testing.T) {
		store := newStore(t)
		link := newTestLink(t, "go/wiki", "https://wiki.example.com", 0)

		if _, err := store.Create(ctx, link); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}

		updated, err := store.Update(ctx, "go/wiki", "https://wiki.example.com/new")
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		if updated.URL != "https://wiki.example.com/new" {
			t.Errorf("updated.URL = %q", updated.URL)
		}
		if updated.ID != link.ID {
			t.Errorf("Update() changed id: %v -> %v", link.ID, updated.ID)
		}
		if !updated.CreatedAt.Equal(link.CreatedAt) {
			t.Errorf("Update() changed created_at: %v -> %v", link.CreatedAt, updated.CreatedAt)
		}

		got, err := store.Get(ctx, "go/wiki")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got.URL != "https://wiki.example.com/new" {
			t.Errorf("Get() after Update() url = %q", got.URL)
		}
	})

	t.Run("update missing returns NotFound", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Update(ctx, "go/nonexistent", "https://example.com")
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("Update() error kind = %v, want NotFound", errx.KindOf(err))
		}
	})

	t.Run("delete removes and repeat delete is NotFound", func(t *testing.T) {
		store := newStore(t)
		link := newTestLink(t, "go/tmp", "https://tmp.example.com", 0)

		if _, err := store.Create(ctx, link); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}

		if err := store.Delete(ctx, "go/tmp"); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}

		_, err := store.Get(ctx, "go/tmp")
		if errx.KindOf(err) != errx.NotFound {
			t.Errorf("Get() after Delete() kind = %v, want NotFound", errx.KindOf(err))
		}

		if err := store.Delete(ctx, "go/tmp"); errx.KindOf(err) != errx.NotFound {
			t.Errorf("second Delete() kind = %v, want NotFound", errx.KindOf(err))
		}
	})

	t.Run("list is empty for fresh store", func(t *testing.T) {
		store := newStore(t)

		links, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(links) != 0 {
			t.Errorf("List() on empty store returned %d links", len(links))
		}
	})

	t.Run("list preserves insertion order across calls", func(t *testing.T) {
		store := newStore(t)

		names := []string{"go/charlie", "go/alpha", "go/bravo"}
		for i, name := range names {
			link := newTestLink(t, name, fmt.Sprintf("https://example.com/%d", i), time.Duration(i)*time.Second)
			if _, err := store.Create(ctx, link); err != nil {
				t.Fatalf("Create(%q) failed: %v", name, err)
			}
		}

		for call := 0; call < 2; call++ {
			links, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if len(links) != len(names) {
				t.Fatalf("List() returned %d links, want %d", len(links), len(names))
			}
			for i, want := range names {
				if links[i].ShortLink != want {
					t.Errorf("call %d: links[%d].ShortLink = %q, want %q", call, i, links[i].ShortLink, want)
				}
			}
		}
	})

	t.Run("deleted name can be recreated as fresh insertion", func(t *testing.T) {
		store := newStore(t)

		first := newTestLink(t, "go/reborn", "https://v1.example.com", 0)
		second := newTestLink(t, "go/zzz", "https://z.example.com", time.Second)
		if _, err := store.Create(ctx, first); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if _, err := store.Create(ctx, second); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if err := store.Delete(ctx, "go/reborn"); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}

		third := newTestLink(t, "go/reborn", "https://v2.example.com", 2*time.Second)
		if _, err := store.Create(ctx, third); err != nil {
			t.Fatalf("re-Create() failed: %v", err)
		}

		links, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		want := []string{"go/zzz", "go/reborn"}
		if len(links) != len(want) {
			t.Fatalf("List() returned %d links, want %d", len(links), len(want))
		}
		for i := range want {
			if links[i].ShortLink != want[i] {
				t.Errorf("links[%d].ShortLink = %q, want %q", i, links[i].ShortLink, want[i])
			}
		}
		if links[1].URL != "https://v2.example.com" {
			t.Errorf("recreated link url = %q", links[1].URL)
		}
	})
}
