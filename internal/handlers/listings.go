package handlers

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"brokerage-portal/internal/cache"
	"brokerage-portal/internal/content"
	"brokerage-portal/internal/criteria"
	"brokerage-portal/internal/filter"
	"brokerage-portal/internal/mirror"
	"brokerage-portal/internal/models"
	"brokerage-portal/internal/pagination"
)

// ListingsHandler serves the listing views. Each request decodes the filter
// criteria from the query string, fetches the view's collection (cache, then
// CMS, then the local mirror as a fallback), evaluates the criteria in memory
// and returns one page.
type ListingsHandler struct {
	cms      *content.Client
	cache    *cache.CollectionCache
	store    mirror.Store
	assets   *content.AssetResolver
	pageSize int
}

func NewListingsHandler(cms *content.Client, cc *cache.CollectionCache, store mirror.Store,
	assets *content.AssetResolver, pageSize int) *ListingsHandler {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &ListingsHandler{
		cms:      cms,
		cache:    cc,
		store:    store,
		assets:   assets,
		pageSize: pageSize,
	}
}

// cardImage is the CDN transform for listing card thumbnails.
var cardImage = content.ImageOptions{Width: 640, Height: 480}

// GetListings handles GET /api/listings/:view
func (h *ListingsHandler) GetListings(c *gin.Context) {
	manifest, ok := filter.ForView(c.Param("view"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown listing view"})
		return
	}

	crit := criteria.Decode(c.Request.URL.Query())
	if manifest.Market != "" {
		// Views pinned to one market ignore any marketType in the query
		crit = crit.WithMarketType(string(manifest.Market))
	}

	listings := h.fetchCollection(c, manifest, crit)

	matched := filter.New(manifest).Apply(listings, crit)
	page := pagination.Paginate(matched, h.pageSize, crit.Page)
	for i := range page.Items {
		h.resolveImages(&page.Items[i], cardImage)
	}

	path := "/api/listings/" + string(manifest.View)
	c.JSON(http.StatusOK, gin.H{
		"view":      manifest.View,
		"page":      page,
		"page_urls": pagination.PageURLs(path, crit, page.TotalPages),
		"criteria":  crit.QueryString(),
	})
}

// fetchCollection resolves the view's listing collection: collection cache
// first, then the CMS with coarse filters pushed down, then the mirror when
// the CMS is unreachable. When every source fails the view degrades to an
// empty collection; only detail pages surface fetch failures as errors.
func (h *ListingsHandler) fetchCollection(c *gin.Context, manifest filter.Manifest, crit criteria.Criteria) []models.Listing {
	filters := serverFilters(manifest, crit)
	key := cache.Key(manifest.Kind, filters.Query().Encode())

	if h.cache != nil {
		if listings, ok := h.cache.Get(c.Request.Context(), key); ok {
			return listings
		}
	}

	listings, err := h.cms.FetchCollection(c.Request.Context(), manifest.Kind, filters)
	if err != nil {
		log.Printf("[Listings] CMS fetch failed, falling back to mirror: %v", err)
		if h.store != nil {
			mirrored, merr := h.store.GetActiveListings(manifest.Kind)
			if merr == nil {
				return mirrored
			}
			log.Printf("[Listings] mirror fallback failed: %v", merr)
		}
		return nil
	}

	if h.cache != nil {
		h.cache.Set(c.Request.Context(), key, listings)
	}
	return listings
}

// resolveImages fills ImageURLs from the listing's raw CMS image references.
func (h *ListingsHandler) resolveImages(l *models.Listing, opts content.ImageOptions) {
	if h.assets == nil || len(l.Images) == 0 {
		return
	}
	urls := make([]string, len(l.Images))
	for i, ref := range l.Images {
		urls[i] = h.assets.ResolveAssetURL(ref, opts)
	}
	l.ImageURLs = urls
}

// serverFilters maps the coarse criteria dimensions onto the CMS fetch. Only
// single-valued exact-match dimensions push down; list and bucket dimensions
// stay in the in-memory evaluator.
func serverFilters(manifest filter.Manifest, crit criteria.Criteria) content.ServerFilters {
	f := content.ServerFilters{}
	if !crit.IsDefault(criteria.DimMarketType) {
		f.MarketType = crit.MarketType
	}
	if !crit.IsDefault(criteria.DimCategory) {
		f.Category = crit.Category
	}
	if !crit.IsDefault(criteria.DimLifestyle) {
		f.Lifestyle = crit.Lifestyle
	}
	if !crit.IsDefault(criteria.DimDeveloper) {
		f.Developer = crit.Developer
	}
	if len(crit.Neighborhoods) == 1 {
		f.NeighborhoodID = crit.Neighborhoods[0]
	}
	if crit.PriceEnabled && manifest.Has(criteria.DimPriceRange) {
		min, max := crit.MinPrice, crit.MaxPrice
		f.MinPrice = &min
		f.MaxPrice = &max
	}
	return f
}

// GetListing handles GET /api/listing/:slug
func (h *ListingsHandler) GetListing(c *gin.Context) {
	slug := c.Param("slug")

	listing, err := h.cms.FetchOne(c.Request.Context(), models.KindProperty, slug)
	if errors.Is(err, content.ErrNotFound) {
		// Projects share the slug namespace on detail pages
		listing, err = h.cms.FetchOne(c.Request.Context(), models.KindProject, slug)
	}
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	if err != nil {
		log.Printf("[Listings] CMS detail fetch failed, falling back to mirror: %v", err)
		if h.store != nil {
			if mirrored, merr := h.store.GetListingBySlug(slug); merr == nil && mirrored != nil {
				h.resolveImages(mirrored, content.ImageOptions{})
				c.JSON(http.StatusOK, gin.H{"listing": mirrored})
				return
			}
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "listing source unavailable"})
		return
	}

	h.resolveImages(listing, content.ImageOptions{})
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// GetFilterOptions handles GET /api/filters/options. It assembles the facet
// metadata the filter bars render from: reference collections from the CMS
// plus value distributions from mirrored listings.
func (h *ListingsHandler) GetFilterOptions(c *gin.Context) {
	ctx := c.Request.Context()
	options := models.FilterOptions{
		MarketTypes: []string{
			string(models.MarketBuy), string(models.MarketRent),
			string(models.MarketOffPlan), string(models.MarketSecondary),
		},
	}

	if neighborhoods, err := h.cms.FetchNeighborhoods(ctx); err == nil {
		options.Neighborhoods = neighborhoods
	} else {
		log.Printf("[Listings] fetch neighborhoods failed: %v", err)
	}
	if developers, err := h.cms.FetchDevelopers(ctx); err == nil {
		options.Developers = developers
	} else {
		log.Printf("[Listings] fetch developers failed: %v", err)
	}
	if lifestyles, err := h.cms.FetchLifestyles(ctx); err == nil {
		options.Lifestyles = lifestyles
	} else {
		log.Printf("[Listings] fetch lifestyles failed: %v", err)
	}

	if gs, ok := h.store.(*mirror.GormStore); ok {
		if categories, err := gs.DistinctValues("category"); err == nil {
			options.Categories = categories
		}
		if bounds, err := gs.PriceBounds(); err == nil {
			options.PriceRange = bounds
		}
	}
	if len(options.Categories) == 0 {
		options.Categories = fallbackCategories()
	}
	options.Amenities = commonAmenities()
	options.ListingViews = commonViews()

	c.JSON(http.StatusOK, options)
}

// GetNeighborhoods handles GET /api/neighborhoods
func (h *ListingsHandler) GetNeighborhoods(c *gin.Context) {
	neighborhoods, err := h.cms.FetchNeighborhoods(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "content source unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"neighborhoods": neighborhoods, "count": len(neighborhoods)})
}

// GetDevelopers handles GET /api/developers
func (h *ListingsHandler) GetDevelopers(c *gin.Context) {
	developers, err := h.cms.FetchDevelopers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "content source unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"developers": developers, "count": len(developers)})
}

// GetLifestyles handles GET /api/lifestyles
func (h *ListingsHandler) GetLifestyles(c *gin.Context) {
	lifestyles, err := h.cms.FetchLifestyles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "content source unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lifestyles": lifestyles, "count": len(lifestyles)})
}

func fallbackCategories() []string {
	return []string{"apartment", "villa", "townhouse", "penthouse", "duplex", "studio"}
}

func commonAmenities() []string {
	amenities := []string{
		"private-pool", "gym", "concierge", "maid-room", "balcony",
		"smart-home", "private-beach", "garden", "parking", "security",
	}
	sort.Strings(amenities)
	return amenities
}

func commonViews() []string {
	return []string{"sea-view", "marina-view", "golf-view", "skyline-view", "park-view"}
}
