package criteria

import (
	"net/url"
	"strconv"
	"strings"
)

// Recognized query-string keys. This is the external contract for sharable
// filtered views; absence of a key means "default" for that dimension.
const (
	keyKeyword          = "keyword"
	keyCategory         = "category"
	keyLifestyle        = "lifestyle"
	keyDeveloper        = "developer"
	keyMarketType       = "marketType"
	keyLocations        = "locations"
	keyNeighborhoods    = "neighborhoods"
	keyMinPrice         = "minPrice"
	keyMaxPrice         = "maxPrice"
	keyMinArea          = "minArea"
	keyMaxArea          = "maxArea"
	keyBedrooms         = "bedrooms"
	keyBathrooms        = "bathrooms"
	keyAmenities        = "amenities"
	keyViews            = "views"
	keyCompletionYear   = "completionYear"
	keyFurnishingStatus = "furnishingStatus"
	keyRentalPeriod     = "rentalPeriod"
	keyPage             = "page"
	keyEnablePrice      = "enablePriceFilter"
	keyEnableArea       = "enableAreaFilter"
)

// Encode writes the criteria into URL query values. Dimensions at their
// default are omitted entirely so encoded URLs stay canonical; list values
// are comma-joined; page is carried only when it is not 1.
func Encode(c Criteria) url.Values {
	values := url.Values{}

	if !c.IsDefault(DimKeyword) {
		values.Set(keyKeyword, c.Keyword)
	}
	if !c.IsDefault(DimCategory) {
		values.Set(keyCategory, c.Category)
	}
	if !c.IsDefault(DimLifestyle) {
		values.Set(keyLifestyle, c.Lifestyle)
	}
	if !c.IsDefault(DimDeveloper) {
		values.Set(keyDeveloper, c.Developer)
	}
	if !c.IsDefault(DimMarketType) {
		values.Set(keyMarketType, c.MarketType)
	}
	if !c.IsDefault(DimLocations) {
		values.Set(keyLocations, strings.Join(c.Locations, ","))
	}
	if !c.IsDefault(DimNeighborhoods) {
		values.Set(keyNeighborhoods, strings.Join(c.Neighborhoods, ","))
	}
	if !c.IsDefault(DimPriceRange) {
		values.Set(keyEnablePrice, "true")
		if c.MinPrice != DefaultMinPrice {
			values.Set(keyMinPrice, formatNumber(c.MinPrice))
		}
		if c.MaxPrice != DefaultMaxPrice {
			values.Set(keyMaxPrice, formatNumber(c.MaxPrice))
		}
	}
	if !c.IsDefault(DimAreaRange) {
		values.Set(keyEnableArea, "true")
		if c.MinArea != DefaultMinArea {
			values.Set(keyMinArea, formatNumber(c.MinArea))
		}
		if c.MaxArea != DefaultMaxArea {
			values.Set(keyMaxArea, formatNumber(c.MaxArea))
		}
	}
	if !c.IsDefault(DimBedrooms) {
		values.Set(keyBedrooms, c.Bedrooms)
	}
	if !c.IsDefault(DimBathrooms) {
		values.Set(keyBathrooms, c.Bathrooms)
	}
	if !c.IsDefault(DimAmenities) {
		values.Set(keyAmenities, strings.Join(c.Amenities, ","))
	}
	if !c.IsDefault(DimViews) {
		values.Set(keyViews, strings.Join(c.Views, ","))
	}
	if !c.IsDefault(DimCompletionYear) {
		values.Set(keyCompletionYear, c.CompletionYear)
	}
	if !c.IsDefault(DimFurnishingStatus) {
		values.Set(keyFurnishingStatus, c.FurnishingStatus)
	}
	if !c.IsDefault(DimRentalPeriod) {
		values.Set(keyRentalPeriod, c.RentalPeriod)
	}
	if !c.IsDefault(DimPage) {
		values.Set(keyPage, strconv.Itoa(c.Page))
	}

	return values
}

// Decode is the inverse of Encode. Missing keys leave dimensions at their
// defaults; malformed numerics fall back to the dimension default instead of
// propagating a parse error.
func Decode(values url.Values) Criteria {
	c := Default()

	if v := values.Get(keyKeyword); v != "" {
		c.Keyword = v
	}
	if v := values.Get(keyCategory); v != "" {
		c.Category = v
	}
	if v := values.Get(keyLifestyle); v != "" {
		c.Lifestyle = v
	}
	if v := values.Get(keyDeveloper); v != "" {
		c.Developer = v
	}
	if v := values.Get(keyMarketType); v != "" {
		c.MarketType = v
	}

	c.Locations = splitList(values.Get(keyLocations))
	c.Neighborhoods = splitList(values.Get(keyNeighborhoods))
	c.Amenities = splitList(values.Get(keyAmenities))
	c.Views = splitList(values.Get(keyViews))

	if values.Get(keyEnablePrice) == "true" {
		c.PriceEnabled = true
		c.MinPrice = parseNumber(values.Get(keyMinPrice), DefaultMinPrice)
		c.MaxPrice = parseNumber(values.Get(keyMaxPrice), DefaultMaxPrice)
	}
	if values.Get(keyEnableArea) == "true" {
		c.AreaEnabled = true
		c.MinArea = parseNumber(values.Get(keyMinArea), DefaultMinArea)
		c.MaxArea = parseNumber(values.Get(keyMaxArea), DefaultMaxArea)
	}

	if v := values.Get(keyBedrooms); v != "" {
		c.Bedrooms = v
	}
	if v := values.Get(keyBathrooms); v != "" {
		c.Bathrooms = v
	}
	if v := values.Get(keyCompletionYear); v != "" {
		c.CompletionYear = v
	}
	if v := values.Get(keyFurnishingStatus); v != "" {
		c.FurnishingStatus = v
	}
	if v := values.Get(keyRentalPeriod); v != "" {
		c.RentalPeriod = v
	}

	if v := values.Get(keyPage); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			c.Page = page
		}
	}

	return c
}

// QueryString renders the criteria as an encoded query string without the
// leading "?". Empty when every dimension is at its default.
func (c Criteria) QueryString() string {
	return Encode(c).Encode()
}

// splitList splits a comma-joined value and drops empty tokens, so a trailing
// comma never produces a spurious empty filter entry.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseNumber parses a decimal string, falling back to def on parse failure
// or a negative value.
func parseNumber(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
