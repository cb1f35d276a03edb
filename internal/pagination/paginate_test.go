package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerage-portal/internal/criteria"
)

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginateSlices(t *testing.T) {
	page := Paginate(intRange(23), 9, 1)
	assert.Equal(t, 23, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 9)
	assert.Equal(t, 0, page.Items[0])

	page = Paginate(intRange(23), 9, 3)
	require.Len(t, page.Items, 5)
	assert.Equal(t, 18, page.Items[0])
	assert.Equal(t, 22, page.Items[4])
}

func TestPaginateExactMultiple(t *testing.T) {
	page := Paginate(intRange(18), 9, 2)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 9)
}

func TestPaginateOutOfRangeYieldsEmptyPage(t *testing.T) {
	page := Paginate(intRange(23), 9, 7)
	assert.Empty(t, page.Items)
	assert.Equal(t, 7, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
}

func TestPaginateEmptyInput(t *testing.T) {
	page := Paginate([]int{}, 9, 1)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages)
}

func TestPaginateClampsBadArguments(t *testing.T) {
	page := Paginate(intRange(10), 0, 0)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 9)
}

func TestPageURLCarriesFilters(t *testing.T) {
	c := criteria.Default().WithCategory("villa").WithAmenities([]string{"gym"})

	url := PageURL("/api/listings/buy", c, 2)
	assert.Contains(t, url, "category=villa")
	assert.Contains(t, url, "amenities=gym")
	assert.Contains(t, url, "page=2")
}

func TestPageURLOmitsPageOne(t *testing.T) {
	c := criteria.Default().WithCategory("villa")
	assert.NotContains(t, PageURL("/api/listings/buy", c, 1), "page=")
}

func TestPageURLBarePathForDefaults(t *testing.T) {
	assert.Equal(t, "/api/listings/buy", PageURL("/api/listings/buy", criteria.Default(), 1))
}

func TestPageURLReplacesStalePage(t *testing.T) {
	c := criteria.Default().WithCategory("villa").WithPage(5)

	url := PageURL("/api/listings/buy", c, 2)
	assert.Contains(t, url, "page=2")
	assert.NotContains(t, url, "page=5")
}

func TestPageURLs(t *testing.T) {
	c := criteria.Default().WithCategory("villa")

	urls := PageURLs("/api/listings/buy", c, 3)
	require.Len(t, urls, 3)
	assert.Equal(t, "/api/listings/buy?category=villa", urls[0])
	assert.Contains(t, urls[1], "page=2")
	assert.Contains(t, urls[2], "page=3")

	assert.Nil(t, PageURLs("/api/listings/buy", c, 0))
}
