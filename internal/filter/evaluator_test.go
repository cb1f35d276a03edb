package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerage-portal/internal/criteria"
	"brokerage-portal/internal/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func buyEvaluator(t *testing.T) Evaluator {
	t.Helper()
	m, ok := ForView("buy")
	require.True(t, ok)
	return New(m)
}

func baseListing() models.Listing {
	return models.Listing{
		ID:         "l-1",
		Slug:       "marina-heights-2204",
		Kind:       models.KindProperty,
		Title:      "Marina Heights Tower",
		Category:   "apartment",
		MarketType: models.MarketBuy,
		Location:   "Dubai Marina, Dubai",
		Developer:  models.Ref{ID: "d-1", Name: "Emaar"},
		Neighborhood: models.Ref{
			ID:   "n-1",
			Name: "Dubai Marina",
		},
		Price:     floatPtr(2_400_000),
		Area:      floatPtr(180),
		Bedrooms:  intPtr(3),
		Bathrooms: intPtr(4),
		Amenities: models.StringList{"gym", "private-pool", "concierge"},
		Views:     models.StringList{"sea-view"},
	}
}

func TestMarketPinAppliesInMemory(t *testing.T) {
	e := buyEvaluator(t)
	c := criteria.Default().WithMarketType("buy")

	sale := baseListing()
	assert.True(t, e.Match(&sale, c))

	// Mirror fallback collections arrive without an upstream market filter,
	// so the pin has to hold here too
	rental := baseListing()
	rental.MarketType = models.MarketRent
	assert.False(t, e.Match(&rental, c))
}

func TestAmenitiesRequireEverySelection(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	c := criteria.Default().WithAmenities([]string{"gym", "concierge"})
	assert.True(t, e.Match(&l, c))

	c = criteria.Default().WithAmenities([]string{"gym", "private-beach"})
	assert.False(t, e.Match(&l, c), "one missing amenity fails the listing")
}

func TestViewsRequireAnySelection(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	c := criteria.Default().WithViews([]string{"golf-view", "sea-view"})
	assert.True(t, e.Match(&l, c), "a single overlapping view passes")

	c = criteria.Default().WithViews([]string{"golf-view", "park-view"})
	assert.False(t, e.Match(&l, c))
}

func TestTagMatchIsCaseInsensitive(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	c := criteria.Default().WithAmenities([]string{"GYM"})
	assert.True(t, e.Match(&l, c))
}

func TestBedroomsPlusBucket(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	cases := []struct {
		selected string
		want     bool
	}{
		{"3", true},
		{"2", false},
		{"3+", true},
		{"2+", true},
		{"4+", false},
		{"junk", false},
	}
	for _, tc := range cases {
		c := criteria.Default().WithBedrooms(tc.selected)
		assert.Equal(t, tc.want, e.Match(&l, c), "bedrooms %q", tc.selected)
	}
}

func TestBedroomsStudio(t *testing.T) {
	e := buyEvaluator(t)
	c := criteria.Default().WithBedrooms("studio")

	zeroBeds := baseListing()
	zeroBeds.Bedrooms = intPtr(0)
	assert.True(t, e.Match(&zeroBeds, c), "zero bedrooms qualifies as studio")

	typed := baseListing()
	typed.Bedrooms = nil
	typed.Category = "Studio"
	assert.True(t, e.Match(&typed, c), "studio category qualifies regardless of count")

	neither := baseListing()
	assert.False(t, e.Match(&neither, c))
}

func TestMissingCountFieldNeverMatches(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()
	l.Bathrooms = nil

	c := criteria.Default().WithBathrooms("2+")
	assert.False(t, e.Match(&l, c))
}

func TestPriceRangeInclusiveBounds(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	c := criteria.Default().WithPriceRange(2_400_000, 2_400_000)
	assert.True(t, e.Match(&l, c), "bounds are inclusive")

	c = criteria.Default().WithPriceRange(2_400_001, 5_000_000)
	assert.False(t, e.Match(&l, c))

	l.Price = nil
	c = criteria.Default().WithPriceRange(0, 10_000_000)
	assert.False(t, e.Match(&l, c), "a listing without a price cannot satisfy a price constraint")
}

func TestKeywordMatchesAcrossFields(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	for _, kw := range []string{"MARINA", "emaar", "apartment", "dubai"} {
		c := criteria.Default().WithKeyword(kw)
		assert.True(t, e.Match(&l, c), "keyword %q", kw)
	}

	c := criteria.Default().WithKeyword("beachfront")
	assert.False(t, e.Match(&l, c))
}

func TestLocationsSubstringOr(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	c := criteria.Default().WithLocations([]string{"palm", "marina"})
	assert.True(t, e.Match(&l, c))

	c = criteria.Default().WithLocations([]string{"palm", "creek"})
	assert.False(t, e.Match(&l, c))
}

func TestNeighborhoodIDWithNameFallback(t *testing.T) {
	e := buyEvaluator(t)
	l := baseListing()

	c := criteria.Default().WithNeighborhoods([]string{"n-1"})
	assert.True(t, e.Match(&l, c))

	// Reference decoded from a bare string carries only a name
	l.Neighborhood = models.Ref{Name: "Dubai Marina"}
	c = criteria.Default().WithNeighborhoods([]string{"Dubai Marina"})
	assert.True(t, e.Match(&l, c))

	l.Neighborhood = models.Ref{}
	assert.False(t, e.Match(&l, c), "an unset reference never matches")
}

func TestViewManifestGatesDimensions(t *testing.T) {
	m, ok := ForView("buy")
	require.True(t, ok)
	e := New(m)

	// Buy does not expose rental period, so the constraint is inert
	l := baseListing()
	l.RentalPeriod = ""
	c := criteria.Default().WithRentalPeriod("yearly")
	assert.True(t, e.Match(&l, c))

	rentM, ok := ForView("rent")
	require.True(t, ok)
	rentL := baseListing()
	rentL.MarketType = models.MarketRent
	rentL.RentalPeriod = "monthly"
	assert.False(t, New(rentM).Match(&rentL, c), "rent exposes the dimension, so it filters")
}

func TestUnknownViewRejected(t *testing.T) {
	_, ok := ForView("commercial")
	assert.False(t, ok)
}

func TestApplyPreservesOrder(t *testing.T) {
	e := buyEvaluator(t)

	a := baseListing()
	a.ID = "a"
	b := baseListing()
	b.ID = "b"
	b.Amenities = nil
	c := baseListing()
	c.ID = "c"

	out := e.Apply([]models.Listing{a, b, c}, criteria.Default().WithAmenities([]string{"gym"}))
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestCompletionYearPrecedence(t *testing.T) {
	cases := []struct {
		name string
		l    models.Listing
		want string
	}{
		{"explicit field wins", models.Listing{CompletionYear: "2026", CompletionDate: "2028-06-01"}, "2026"},
		{"iso date", models.Listing{CompletionDate: "2027-03-15"}, "2027"},
		{"quarter form", models.Listing{CompletionDate: "Q4 2025"}, "2025"},
		{"month name", models.Listing{CompletionDate: "January 2029"}, "2029"},
		{"regex fallback", models.Listing{CompletionDate: "handover in 2030 (est.)"}, "2030"},
		{"nothing", models.Listing{}, ""},
		{"no digits", models.Listing{CompletionDate: "soon"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompletionYear(&tc.l))
		})
	}
}

func TestCompletionYearFiltersOffPlanView(t *testing.T) {
	m, ok := ForView("off-plan")
	require.True(t, ok)
	e := New(m)

	l := baseListing()
	l.MarketType = models.MarketOffPlan
	l.CompletionDate = "Q2 2027"

	c := criteria.Default().WithCompletionYear("2027")
	assert.True(t, e.Match(&l, c))

	c = criteria.Default().WithCompletionYear("2026")
	assert.False(t, e.Match(&l, c))
}
