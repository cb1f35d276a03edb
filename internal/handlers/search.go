package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brokerage-portal/internal/mirror"
	"brokerage-portal/internal/search"
)

// SearchHandler serves the sitewide search box from the Meilisearch index.
type SearchHandler struct {
	search *search.SearchClient
	store  mirror.Store
}

func NewSearchHandler(sc *search.SearchClient, store mirror.Store) *SearchHandler {
	return &SearchHandler{search: sc, store: store}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'q'"})
		return
	}

	params := search.FilterParams{
		Query:      query,
		Kind:       c.Query("kind"),
		MarketType: c.Query("marketType"),
		Category:   c.Query("category"),
		SortBy:     c.Query("sort"),
	}
	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinPrice = &price
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &price
		}
	}
	if v := c.Query("bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Bedrooms = &n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			params.Limit = n
		}
	}

	hits, err := h.search.FilterSearch(params)
	if err != nil {
		log.Printf("[Search] query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"hits":  hits,
		"count": len(hits),
	})
}

// Reindex handles POST /api/search/reindex: rebuild the index from active
// mirrored listings.
func (h *SearchHandler) Reindex(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mirror store not available"})
		return
	}

	listings, err := h.store.GetActiveListings("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.search.IndexListings(listings); err != nil {
		log.Printf("[Search] reindex failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reindex failed"})
		return
	}

	log.Printf("[Search] reindexed %d listings", len(listings))
	c.JSON(http.StatusOK, gin.H{
		"message": "reindex completed",
		"indexed": len(listings),
	})
}

// Facets handles GET /api/search/facets
func (h *SearchHandler) Facets(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	facets, err := h.search.GetFacets([]string{"kind", "market_type", "category", "neighborhood"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"facets": facets})
}
