package filter

import (
	"brokerage-portal/internal/criteria"
	"brokerage-portal/internal/models"
)

// View names a listing page served by the portal.
type View string

const (
	ViewBuy      View = "buy"
	ViewRent     View = "rent"
	ViewOffPlan  View = "off-plan"
	ViewProjects View = "projects"
)

// Manifest declares, per view, the content kind, the market the view is
// pinned to, and which dimensions its filter bar exposes. One parameterized
// evaluator replaces a near-identical filter copy per page.
//
// Pinned views list DimMarketType so the pin also holds for collections that
// bypass the content source's market filter, such as the mirror fallback.
type Manifest struct {
	View       View
	Kind       models.Kind
	Market     models.MarketType // empty means the view spans markets
	Dimensions []criteria.Dimension
}

var manifests = map[View]Manifest{
	ViewBuy: {
		View:   ViewBuy,
		Kind:   models.KindProperty,
		Market: models.MarketBuy,
		Dimensions: []criteria.Dimension{
			criteria.DimMarketType,
			criteria.DimKeyword, criteria.DimCategory, criteria.DimLifestyle,
			criteria.DimDeveloper, criteria.DimLocations, criteria.DimNeighborhoods,
			criteria.DimPriceRange, criteria.DimAreaRange,
			criteria.DimBedrooms, criteria.DimBathrooms,
			criteria.DimAmenities, criteria.DimViews,
		},
	},
	ViewRent: {
		View:   ViewRent,
		Kind:   models.KindProperty,
		Market: models.MarketRent,
		Dimensions: []criteria.Dimension{
			criteria.DimMarketType,
			criteria.DimKeyword, criteria.DimCategory, criteria.DimLifestyle,
			criteria.DimDeveloper, criteria.DimLocations, criteria.DimNeighborhoods,
			criteria.DimPriceRange, criteria.DimAreaRange,
			criteria.DimBedrooms, criteria.DimBathrooms,
			criteria.DimAmenities, criteria.DimViews,
			criteria.DimFurnishingStatus, criteria.DimRentalPeriod,
		},
	},
	ViewOffPlan: {
		View:   ViewOffPlan,
		Kind:   models.KindProperty,
		Market: models.MarketOffPlan,
		Dimensions: []criteria.Dimension{
			criteria.DimMarketType,
			criteria.DimKeyword, criteria.DimCategory, criteria.DimLifestyle,
			criteria.DimDeveloper, criteria.DimLocations, criteria.DimNeighborhoods,
			criteria.DimPriceRange, criteria.DimAreaRange,
			criteria.DimBedrooms, criteria.DimBathrooms,
			criteria.DimAmenities, criteria.DimViews,
			criteria.DimCompletionYear,
		},
	},
	ViewProjects: {
		View: ViewProjects,
		Kind: models.KindProject,
		Dimensions: []criteria.Dimension{
			criteria.DimKeyword, criteria.DimCategory, criteria.DimLifestyle,
			criteria.DimDeveloper, criteria.DimLocations, criteria.DimNeighborhoods,
			criteria.DimPriceRange, criteria.DimAreaRange,
			criteria.DimBedrooms, criteria.DimAmenities,
			criteria.DimCompletionYear, criteria.DimMarketType,
		},
	},
}

// ForView looks up the manifest for a view path segment.
func ForView(view string) (Manifest, bool) {
	m, ok := manifests[View(view)]
	return m, ok
}

// Views lists the registered listing views.
func Views() []View {
	return []View{ViewBuy, ViewRent, ViewOffPlan, ViewProjects}
}

// Has reports whether the view filters on the dimension.
func (m Manifest) Has(d criteria.Dimension) bool {
	for _, dim := range m.Dimensions {
		if dim == d {
			return true
		}
	}
	return false
}
