package golink

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into the requested page and returns the slice
// alongside its metadata. Page values below 1 clamp to 1; pageSize is
// clamped into [MinPageSize, MaxPageSize], so an explicit 0 becomes 1,
// not the default (absence is the caller's concern, not Paginate's).
// Requesting a page past the end yields an empty slice with correct
// metadata, never an error.
func Paginate(items []Link, page, pageSize int) ([]Link, PageMeta) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	totalItems := len(items)
	totalPages := (totalItems + pageSize - 1) / pageSize

	meta := PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}

	start := (page - 1) * pageSize
	if start >= totalItems {
		return []Link{}, meta
	}

	end := min(start+pageSize, totalItems)
	return items[start:end:end], meta
}
