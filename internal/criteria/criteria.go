package criteria

// Sentinel values meaning "this dimension is unconstrained".
const (
	All = "all"
	Any = "any"
)

// Documented default numeric bounds. A range constrains listings only while
// its enable flag is on; enabled bounds encode and match even when they sit
// at these defaults.
const (
	DefaultMinPrice = 0.0
	DefaultMaxPrice = 100_000_000.0
	DefaultMinArea  = 0.0
	DefaultMaxArea  = 50_000.0
)

// Dimension names one independent filterable attribute.
type Dimension string

const (
	DimKeyword          Dimension = "keyword"
	DimCategory         Dimension = "category"
	DimLifestyle        Dimension = "lifestyle"
	DimDeveloper        Dimension = "developer"
	DimMarketType       Dimension = "marketType"
	DimLocations        Dimension = "locations"
	DimNeighborhoods    Dimension = "neighborhoods"
	DimPriceRange       Dimension = "priceRange"
	DimAreaRange        Dimension = "areaRange"
	DimBedrooms         Dimension = "bedrooms"
	DimBathrooms        Dimension = "bathrooms"
	DimAmenities        Dimension = "amenities"
	DimViews            Dimension = "views"
	DimCompletionYear   Dimension = "completionYear"
	DimFurnishingStatus Dimension = "furnishingStatus"
	DimRentalPeriod     Dimension = "rentalPeriod"
	DimPage             Dimension = "page"
)

// Criteria holds every user-selectable filter dimension for one listing view.
// It is a value object: constructed once per request, never mutated in place.
// Each With* method returns a new value.
type Criteria struct {
	Keyword    string
	Category   string
	Lifestyle  string
	Developer  string
	MarketType string

	Locations     []string
	Neighborhoods []string

	MinPrice     float64
	MaxPrice     float64
	PriceEnabled bool

	MinArea     float64
	MaxArea     float64
	AreaEnabled bool

	Bedrooms  string
	Bathrooms string

	Amenities []string
	Views     []string

	CompletionYear   string
	FurnishingStatus string
	RentalPeriod     string

	Page int
}

// Default returns the all-defaults Criteria: every dimension unconstrained,
// page 1.
func Default() Criteria {
	return Criteria{
		Category:         All,
		Lifestyle:        All,
		Developer:        All,
		MarketType:       All,
		MinPrice:         DefaultMinPrice,
		MaxPrice:         DefaultMaxPrice,
		MinArea:          DefaultMinArea,
		MaxArea:          DefaultMaxArea,
		Bedrooms:         Any,
		Bathrooms:        Any,
		CompletionYear:   Any,
		FurnishingStatus: Any,
		RentalPeriod:     Any,
		Page:             1,
	}
}

// IsDefault reports whether the dimension is at its unconstrained default.
// The codec uses this to decide whether the dimension's key is emitted at all.
func (c Criteria) IsDefault(d Dimension) bool {
	switch d {
	case DimKeyword:
		return c.Keyword == ""
	case DimCategory:
		return c.Category == "" || c.Category == All
	case DimLifestyle:
		return c.Lifestyle == "" || c.Lifestyle == All
	case DimDeveloper:
		return c.Developer == "" || c.Developer == All
	case DimMarketType:
		return c.MarketType == "" || c.MarketType == All
	case DimLocations:
		return len(c.Locations) == 0
	case DimNeighborhoods:
		return len(c.Neighborhoods) == 0
	case DimPriceRange:
		return !c.PriceEnabled
	case DimAreaRange:
		return !c.AreaEnabled
	case DimBedrooms:
		return c.Bedrooms == "" || c.Bedrooms == Any
	case DimBathrooms:
		return c.Bathrooms == "" || c.Bathrooms == Any
	case DimAmenities:
		return len(c.Amenities) == 0
	case DimViews:
		return len(c.Views) == 0
	case DimCompletionYear:
		return c.CompletionYear == "" || c.CompletionYear == Any
	case DimFurnishingStatus:
		return c.FurnishingStatus == "" || c.FurnishingStatus == Any
	case DimRentalPeriod:
		return c.RentalPeriod == "" || c.RentalPeriod == Any
	case DimPage:
		return c.Page <= 1
	}
	return true
}

// AllDefault reports whether every dimension is unconstrained.
func (c Criteria) AllDefault() bool {
	for _, d := range Dimensions {
		if !c.IsDefault(d) {
			return false
		}
	}
	return true
}

// Dimensions lists every filter dimension in codec order.
var Dimensions = []Dimension{
	DimKeyword, DimCategory, DimLifestyle, DimDeveloper, DimMarketType,
	DimLocations, DimNeighborhoods, DimPriceRange, DimAreaRange,
	DimBedrooms, DimBathrooms, DimAmenities, DimViews,
	DimCompletionYear, DimFurnishingStatus, DimRentalPeriod, DimPage,
}

func (c Criteria) WithKeyword(keyword string) Criteria {
	c.Keyword = keyword
	return c
}

func (c Criteria) WithCategory(category string) Criteria {
	c.Category = category
	return c
}

func (c Criteria) WithLifestyle(lifestyle string) Criteria {
	c.Lifestyle = lifestyle
	return c
}

func (c Criteria) WithDeveloper(developer string) Criteria {
	c.Developer = developer
	return c
}

func (c Criteria) WithMarketType(marketType string) Criteria {
	c.MarketType = marketType
	return c
}

func (c Criteria) WithLocations(locations []string) Criteria {
	c.Locations = copyList(locations)
	return c
}

func (c Criteria) WithNeighborhoods(neighborhoods []string) Criteria {
	c.Neighborhoods = copyList(neighborhoods)
	return c
}

func (c Criteria) WithPriceRange(min, max float64) Criteria {
	c.MinPrice = min
	c.MaxPrice = max
	c.PriceEnabled = true
	return c
}

func (c Criteria) WithoutPriceRange() Criteria {
	c.MinPrice = DefaultMinPrice
	c.MaxPrice = DefaultMaxPrice
	c.PriceEnabled = false
	return c
}

func (c Criteria) WithAreaRange(min, max float64) Criteria {
	c.MinArea = min
	c.MaxArea = max
	c.AreaEnabled = true
	return c
}

func (c Criteria) WithoutAreaRange() Criteria {
	c.MinArea = DefaultMinArea
	c.MaxArea = DefaultMaxArea
	c.AreaEnabled = false
	return c
}

func (c Criteria) WithBedrooms(bedrooms string) Criteria {
	c.Bedrooms = bedrooms
	return c
}

func (c Criteria) WithBathrooms(bathrooms string) Criteria {
	c.Bathrooms = bathrooms
	return c
}

func (c Criteria) WithAmenities(amenities []string) Criteria {
	c.Amenities = copyList(amenities)
	return c
}

func (c Criteria) WithViews(views []string) Criteria {
	c.Views = copyList(views)
	return c
}

func (c Criteria) WithCompletionYear(year string) Criteria {
	c.CompletionYear = year
	return c
}

func (c Criteria) WithFurnishingStatus(status string) Criteria {
	c.FurnishingStatus = status
	return c
}

func (c Criteria) WithRentalPeriod(period string) Criteria {
	c.RentalPeriod = period
	return c
}

func (c Criteria) WithPage(page int) Criteria {
	if page < 1 {
		page = 1
	}
	c.Page = page
	return c
}

// Equal compares two Criteria dimension by dimension.
func (c Criteria) Equal(other Criteria) bool {
	if c.Keyword != other.Keyword ||
		c.Category != other.Category ||
		c.Lifestyle != other.Lifestyle ||
		c.Developer != other.Developer ||
		c.MarketType != other.MarketType ||
		c.PriceEnabled != other.PriceEnabled ||
		c.AreaEnabled != other.AreaEnabled ||
		c.MinPrice != other.MinPrice ||
		c.MaxPrice != other.MaxPrice ||
		c.MinArea != other.MinArea ||
		c.MaxArea != other.MaxArea ||
		c.Bedrooms != other.Bedrooms ||
		c.Bathrooms != other.Bathrooms ||
		c.CompletionYear != other.CompletionYear ||
		c.FurnishingStatus != other.FurnishingStatus ||
		c.RentalPeriod != other.RentalPeriod ||
		c.Page != other.Page {
		return false
	}
	return listsEqual(c.Locations, other.Locations) &&
		listsEqual(c.Neighborhoods, other.Neighborhoods) &&
		listsEqual(c.Amenities, other.Amenities) &&
		listsEqual(c.Views, other.Views)
}

func copyList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func listsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
