package filter

import (
	"strconv"
	"strings"

	"brokerage-portal/internal/criteria"
	"brokerage-portal/internal/models"
)

// Evaluator decides listing inclusion for one view's filter bar. All active
// dimensions combine with AND; the per-dimension rules differ (amenities
// require every selection, views require at least one) and that asymmetry is
// deliberate product behavior.
type Evaluator struct {
	manifest Manifest
}

func New(manifest Manifest) Evaluator {
	return Evaluator{manifest: manifest}
}

// Apply filters listings in memory. Used for the dimensions the content
// source cannot express (keyword full text, array overlap, numeric buckets);
// coarse dimensions are usually already pushed down to the fetch, but
// re-checking them here is harmless since AND order never changes the result.
func (e Evaluator) Apply(listings []models.Listing, c criteria.Criteria) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if e.Match(&listings[i], c) {
			out = append(out, listings[i])
		}
	}
	return out
}

// Match reports whether one listing passes every active dimension. Cheap
// equality dimensions run before substring and list scans; short-circuiting
// is a performance choice only.
func (e Evaluator) Match(l *models.Listing, c criteria.Criteria) bool {
	if e.active(c, criteria.DimMarketType) && string(l.MarketType) != c.MarketType {
		return false
	}
	if e.active(c, criteria.DimCategory) && l.Category != c.Category {
		return false
	}
	if e.active(c, criteria.DimLifestyle) && l.Lifestyle.Name != c.Lifestyle {
		return false
	}
	if e.active(c, criteria.DimDeveloper) && l.Developer.Name != c.Developer {
		return false
	}
	if e.active(c, criteria.DimBedrooms) && !matchBedrooms(l, c.Bedrooms) {
		return false
	}
	if e.active(c, criteria.DimBathrooms) && !matchCount(l.Bathrooms, c.Bathrooms) {
		return false
	}
	if e.active(c, criteria.DimFurnishingStatus) && l.FurnishingStatus != c.FurnishingStatus {
		return false
	}
	if e.active(c, criteria.DimRentalPeriod) && l.RentalPeriod != c.RentalPeriod {
		return false
	}
	if e.active(c, criteria.DimCompletionYear) && CompletionYear(l) != c.CompletionYear {
		return false
	}
	if e.active(c, criteria.DimPriceRange) && !matchRange(l.Price, c.MinPrice, c.MaxPrice) {
		return false
	}
	if e.active(c, criteria.DimAreaRange) && !matchRange(l.Area, c.MinArea, c.MaxArea) {
		return false
	}
	if e.active(c, criteria.DimNeighborhoods) && !matchNeighborhood(l, c.Neighborhoods) {
		return false
	}
	if e.active(c, criteria.DimLocations) && !matchLocations(l.Location, c.Locations) {
		return false
	}
	if e.active(c, criteria.DimAmenities) && !matchAllTags(l.Amenities, c.Amenities) {
		return false
	}
	if e.active(c, criteria.DimViews) && !matchAnyTag(l.Views, c.Views) {
		return false
	}
	if e.active(c, criteria.DimKeyword) && !matchKeyword(l, c.Keyword) {
		return false
	}
	return true
}

// active reports whether the dimension participates: the view exposes it and
// the criteria constrain it.
func (e Evaluator) active(c criteria.Criteria, d criteria.Dimension) bool {
	return e.manifest.Has(d) && !c.IsDefault(d)
}

// matchKeyword is a case-insensitive substring match across title, location,
// description, category and developer name. Absent fields contribute an
// empty string, never a panic.
func matchKeyword(l *models.Listing, keyword string) bool {
	needle := strings.ToLower(keyword)
	for _, field := range []string{l.Title, l.Location, l.Description, l.Category, l.Developer.Name} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// matchLocations: OR over selected tokens, each a substring of the listing's
// free-text location so partial area names still match.
func matchLocations(location string, tokens []string) bool {
	haystack := strings.ToLower(location)
	for _, tok := range tokens {
		if strings.Contains(haystack, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// matchNeighborhood compares the resolved reference identifier; a reference
// that only carried a name falls back to name equality.
func matchNeighborhood(l *models.Listing, selected []string) bool {
	key := l.Neighborhood.ID
	if key == "" {
		key = l.Neighborhood.Name
	}
	if key == "" {
		return false
	}
	for _, id := range selected {
		if id == key {
			return true
		}
	}
	return false
}

// matchAllTags: every selected tag must be present (amenities).
func matchAllTags(have models.StringList, want []string) bool {
	for _, w := range want {
		if !containsFold(have, w) {
			return false
		}
	}
	return true
}

// matchAnyTag: at least one selected tag must be present (views).
func matchAnyTag(have models.StringList, want []string) bool {
	for _, w := range want {
		if containsFold(have, w) {
			return true
		}
	}
	return false
}

func containsFold(list models.StringList, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// matchBedrooms handles the studio special case: bedroom count 0, or a
// category typed "studio", both qualify.
func matchBedrooms(l *models.Listing, selected string) bool {
	if selected == "studio" {
		if l.Bedrooms != nil && *l.Bedrooms == 0 {
			return true
		}
		return strings.EqualFold(l.Category, "studio")
	}
	return matchCount(l.Bedrooms, selected)
}

// matchCount evaluates numeric bucket selections: an exact count, or an
// open-ended "N+" bucket meaning count >= N. A listing without the field
// cannot satisfy a numeric constraint.
func matchCount(count *int, selected string) bool {
	if count == nil {
		return false
	}
	if n, ok := strings.CutSuffix(selected, "+"); ok {
		threshold, err := strconv.Atoi(n)
		if err != nil {
			return false
		}
		return *count >= threshold
	}
	exact, err := strconv.Atoi(selected)
	if err != nil {
		return false
	}
	return *count == exact
}

// matchRange is inclusive interval membership. Missing values are excluded:
// a listing without a price cannot satisfy a price constraint.
func matchRange(value *float64, min, max float64) bool {
	if value == nil {
		return false
	}
	return *value >= min && *value <= max
}
