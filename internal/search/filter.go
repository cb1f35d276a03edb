package search

import (
	"fmt"
	"strings"
)

// FilterParams narrows a keyword search by the attributes the index can
// filter on server side.
type FilterParams struct {
	Query      string
	Kind       string
	MarketType string
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	Bedrooms   *int
	SortBy     string
	Limit      int64
}

// FilterSearch performs a keyword search with index-side filters.
func (s *SearchClient) FilterSearch(params FilterParams) ([]Hit, error) {
	var filters []string

	if params.Kind != "" {
		filters = append(filters, fmt.Sprintf("kind = '%s'", escapeFilterValue(params.Kind)))
	}
	if params.MarketType != "" {
		filters = append(filters, fmt.Sprintf("market_type = '%s'", escapeFilterValue(params.MarketType)))
	}
	if params.Category != "" {
		filters = append(filters, fmt.Sprintf("category = '%s'", escapeFilterValue(params.Category)))
	}

	// Price range filter
	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %f", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %f", *params.MaxPrice))
	}

	if params.Bedrooms != nil {
		filters = append(filters, fmt.Sprintf("bedrooms = %d", *params.Bedrooms))
	}

	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	if params.Limit == 0 {
		params.Limit = 20
	}

	result, err := s.AdvancedSearch(Request{
		Query:  params.Query,
		Limit:  params.Limit,
		Filter: filters,
		Sort:   sort,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

func escapeFilterValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
