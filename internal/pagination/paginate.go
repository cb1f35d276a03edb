package pagination

import (
	"strconv"

	"brokerage-portal/internal/criteria"
)

// DefaultPageSize is the fixed page size shared by every listing view.
const DefaultPageSize = 9

// Page is one slice of a filtered result set.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// Paginate slices the filtered items for the requested page. An out-of-range
// page yields an empty slice rather than an error; that leniency is
// intentional so stale bookmarked URLs still render.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:       items[start:end],
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

// PageURL builds the URL for page n of the view at path, carrying every
// active filter and setting page exactly once. Page 1 is the canonical bare
// form, so its key is omitted.
func PageURL(path string, c criteria.Criteria, page int) string {
	values := criteria.Encode(c)
	values.Del("page")
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}

	qs := values.Encode()
	if qs == "" {
		return path
	}
	return path + "?" + qs
}

// PageURLs returns the URL per page, 1-indexed, for rendering pagination
// controls.
func PageURLs(path string, c criteria.Criteria, totalPages int) []string {
	if totalPages <= 0 {
		return nil
	}
	urls := make([]string, totalPages)
	for i := range urls {
		urls[i] = PageURL(path, c, i+1)
	}
	return urls
}
