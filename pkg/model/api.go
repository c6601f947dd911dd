package model

// Item is implemented by every resource record that has a stable identifier.
type Item interface {
	ItemID() string
}

// Page is the paginated list envelope returned by every list endpoint.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Pagination returns the page metadata without the items.
func (p *Page[T]) Pagination() Pagination {
	return Pagination{
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// NewPage builds a page for the given slice of items and list options,
// computing TotalPages from total and the clamped limit. Page is pulled back
// to max(TotalPages, 1).
func NewPage[T any](items []T, total int, opts ListOptions) *Page[T] {
	opts.Clamp()
	opts.ClampTo(total)
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:       items,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: TotalPages(total, opts.Limit),
	}
}

// Pagination holds pagination metadata for list results.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// RemoveOne accounts for one deleted item: total drops by one, TotalPages is
// recomputed and Page is pulled back so it never exceeds max(TotalPages, 1).
func (p *Pagination) RemoveOne() {
	if p.Total > 0 {
		p.Total--
	}
	p.TotalPages = TotalPages(p.Total, p.Limit)
	last := max(p.TotalPages, 1)
	if p.Page > last {
		p.Page = last
	}
	if p.Page < 1 {
		p.Page = 1
	}
}

// HasNext reports whether a page after the current one exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Default list settings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListOptions configures list queries with pagination.
type ListOptions struct {
	Page  int
	Limit int
}

// DefaultListOptions returns page 1 with the default page size.
func DefaultListOptions() ListOptions {
	return ListOptions{Page: DefaultPage, Limit: DefaultLimit}
}

// Clamp enforces limits (page >= 1, 1 <= limit <= 100).
func (o *ListOptions) Clamp() {
	if o.Page <= 0 {
		o.Page = DefaultPage
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
}

// ClampTo pulls Page back to the last page holding total items, or 1 when
// there are none. Call it after Clamp.
func (o *ListOptions) ClampTo(total int) {
	if last := max(TotalPages(total, o.Limit), 1); o.Page > last {
		o.Page = last
	}
}

// Offset returns the number of rows to skip for the current page.
func (o ListOptions) Offset() int {
	if o.Page <= 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// SortOrder is the direction of a sorted list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// StringList is the `{data: [...]}` body of the tag and category endpoints.
type StringList struct {
	Data []string `json:"data"`
}

// MessageResponse is the `{message}` body returned by deletes and by errors.
type MessageResponse struct {
	Message string `json:"message"`
}
