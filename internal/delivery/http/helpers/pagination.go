package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"ourdays/internal/domain"
)

// ParsePageRequest reads the page and page_size query parameters. Missing or malformed
// values fall back to the first page and the default size.
func ParsePageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	return domain.NewPageRequest(queryInt(q, "page"), queryInt(q, "page_size"))
}

func queryInt(q url.Values, key string) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return v
}

// PaginationMeta accompanies paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(p domain.PageRequest, total int) PaginationMeta {
	return PaginationMeta{
		Page:       p.Page,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}
