package models

// Neighborhood is a CMS neighborhood document, used for navigation and as a
// filter facet source.
type Neighborhood struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Developer is a CMS developer document.
type Developer struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	LogoURL  string `json:"logo_url,omitempty"`
	About    string `json:"about,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Lifestyle is a CMS lifestyle document (waterfront, golf, urban, ...).
type Lifestyle struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// FilterOptions is the facet metadata bundle the filter UI renders from.
type FilterOptions struct {
	Categories    []string       `json:"categories"`
	MarketTypes   []string       `json:"market_types"`
	Neighborhoods []Neighborhood `json:"neighborhoods"`
	Developers    []Developer    `json:"developers"`
	Lifestyles    []Lifestyle    `json:"lifestyles"`
	Amenities     []string       `json:"amenities"`
	ListingViews  []string       `json:"views"`
	PriceRange    *PriceBounds   `json:"price_range,omitempty"`
}

// PriceBounds is the min/max price across active listings.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
