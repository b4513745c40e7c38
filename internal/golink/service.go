package golink

import (
	"context"
	"fmt"
	"time"

	"github.com/golinkhq/golinks/internal/errx"
	"github.com/golinkhq/golinks/internal/idgen"
)

// ListParams carries optional pagination parameters. A nil field means
// the caller did not supply that parameter; when both are nil the
// listing is returned unpaginated (backward-compatible shape).
type ListParams struct {
	Page     *int
	PageSize *int
}

func (p ListParams) paginated() bool {
	return p.Page != nil || p.PageSize != nil
}

// ListResult is the outcome of List. Meta is nil for an unpaginated
// listing.
type ListResult struct {
	Links []Link
	Meta  *PageMeta
}

// Service is the registry facade: it composes name validation, a
// Store, and pagination. It is the single entry point the HTTP layer
// talks to.
type Service interface {
	Create(ctx context.Context, shortLink, url string) (Link, error)
	Get(ctx context.Context, shortLink string) (Link, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	Update(ctx context.Context, shortLink, url string) (Link, error)
	Delete(ctx context.Context, shortLink string) error
}

type service struct {
	store   Store
	pattern Pattern
	ids     idgen.Generator
	now     func() time.Time
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Pattern     Pattern         // defaults to DefaultPattern
	IDGenerator idgen.Generator // defaults to UUID v4
	Now         func() time.Time
}

// NewService creates a Service on top of a Store.
func NewService(store Store, cfg *ServiceConfig) Service {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

	pattern := cfg.Pattern
	if pattern.re == nil {
		pattern = DefaultPattern()
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewV4()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		store:   store,
		pattern: pattern,
		ids:     ids,
		now:     now,
	}
}

// Create validates the short-link name, assigns identity and creation
// time, and stores the link. Validation happens before the store is
// touched, so a backend never sees a malformed name.
func (s *service) Create(ctx context.Context, shortLink, url string) (Link, error) {
	const op = "golink.service.Create"

	if !s.pattern.Validate(shortLink) {
		return Link{}, errx.E(op, errx.Invalid,
			fmt.Errorf("invalid golink pattern %q: must match %q", shortLink, s.pattern))
	}

	id, err := s.ids.Generate()
	if err != nil {
		return Link{}, errx.E(op, errx.Unavailable, err)
	}

	// TIMESTAMPTZ resolves to microseconds, so stamp at that precision
	// up front; otherwise the create response would carry nanoseconds
	// that no subsequent read can reproduce.
	created, err := s.store.Create(ctx, Link{
		ID:        id,
		ShortLink: shortLink,
		URL:       url,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return created, nil
}

// Get looks up a link by name. Malformed names are not validated here;
// they simply match nothing and come back as NotFound.
func (s *service) Get(ctx context.Context, shortLink string) (Link, error) {
	const op = "golink.service.Get"

	link, err := s.store.Get(ctx, shortLink)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

// List returns the full ordered listing, paginated when either
// parameter was supplied.
func (s *service) List(ctx context.Context, params ListParams) (ListResult, error) {
	const op = "golink.service.List"

	links, err := s.store.List(ctx)
	if err != nil {
		return ListResult{}, errx.E(op, errx.KindOf(err), err)
	}

	if !params.paginated() {
		return ListResult{Links: links}, nil
	}

	page := DefaultPage
	if params.Page != nil {
		page = *params.Page
	}
	pageSize := DefaultPageSize
	if params.PageSize != nil {
		pageSize = *params.PageSize
	}

	slice, meta := Paginate(links, page, pageSize)
	return ListResult{Links: slice, Meta: &meta}, nil
}

// Update replaces a link's URL. The name is immutable and was
// validated at creation, so no re-check happens here.
func (s *service) Update(ctx context.Context, shortLink, url string) (Link, error) {
	const op = "golink.service.Update"

	link, err := s.store.Update(ctx, shortLink, url)
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

// Delete permanently removes a link. No tombstoning.
func (s *service) Delete(ctx context.Context, shortLink string) error {
	const op = "golink.service.Delete"

	if err := s.store.Delete(ctx, shortLink); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}
