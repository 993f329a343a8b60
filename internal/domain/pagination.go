package domain

// Page sizes for paginated history reads.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// PageRequest selects one page of a newest-first list. Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest replaces values below 1 with the first page and the default size, and caps
// the size at MaxPageSize.
func NewPageRequest(page, size int) PageRequest {
	if page < 1 {
		page = 1
	}
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size}
}

func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// TotalPages is the number of pages needed to show total rows.
func (p PageRequest) TotalPages(total int) int {
	if p.Size < 1 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}
