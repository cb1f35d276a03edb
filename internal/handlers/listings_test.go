package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerage-portal/internal/content"
	"brokerage-portal/internal/mirror"
	"brokerage-portal/internal/models"
)

func newTestRouter(cmsURL string) *gin.Engine {
	return newTestRouterWithStore(cmsURL, nil)
}

func newTestRouterWithStore(cmsURL string, store mirror.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cms := content.NewClient(cmsURL, "test", "", time.Second)
	assets := content.NewAssetResolver("https://cdn.test", "test")
	h := NewListingsHandler(cms, nil, store, assets, 9)

	r := gin.New()
	r.GET("/api/listings/:view", h.GetListings)
	r.GET("/api/listing/:slug", h.GetListing)
	return r
}

// fakeMirror is an in-memory mirror.Store for fallback tests.
type fakeMirror struct {
	listings []models.Listing
}

func (f *fakeMirror) InitSchema() error                   { return nil }
func (f *fakeMirror) SaveListing(l *models.Listing) error { return nil }
func (f *fakeMirror) Close() error                        { return nil }

func (f *fakeMirror) GetActiveListings(kind models.Kind) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.listings {
		if kind == "" || l.Kind == kind {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeMirror) GetListingBySlug(slug string) (*models.Listing, error) {
	for i := range f.listings {
		if f.listings[i].Slug == slug {
			return &f.listings[i], nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeMirror) MarkListingsAsRemoved(ids []string) error { return nil }

func brokenCMS(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
}

func fakeCMS(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/data/test/properties":
			w.Write([]byte(`{"items": [
				{"slug": "a", "title": "Marina Apartment", "marketType": "buy", "category": "apartment",
				 "amenities": ["gym"], "price": 2000000, "images": ["image-abc123-1200x800-jpg"]},
				{"slug": "b", "title": "Palm Villa", "marketType": "buy", "category": "villa",
				 "amenities": ["gym", "private-pool"], "price": 9000000},
				{"slug": "c", "title": "Downtown Penthouse", "marketType": "buy", "category": "penthouse",
				 "price": 15000000}
			]}`))
		case "/v1/data/test/properties/a":
			w.Write([]byte(`{"item": {"slug": "a", "title": "Marina Apartment", "images": ["image-abc123-1200x800-jpg"]}}`))
		case "/v1/data/test/properties/missing", "/v1/data/test/projects/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

type listingsResponse struct {
	View string `json:"view"`
	Page struct {
		Items       []map[string]interface{} `json:"items"`
		TotalItems  int                      `json:"total_items"`
		TotalPages  int                      `json:"total_pages"`
		CurrentPage int                      `json:"current_page"`
	} `json:"page"`
	PageURLs []string `json:"page_urls"`
}

func TestGetListingsAppliesFilter(t *testing.T) {
	srv := fakeCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/listings/buy?amenities=gym,private-pool", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp listingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, 1, resp.Page.TotalItems, "only the villa has both amenities")
	assert.Equal(t, "b", resp.Page.Items[0]["slug"])
	require.Len(t, resp.PageURLs, 1)
	assert.Contains(t, resp.PageURLs[0], "amenities=")
}

func TestGetListingsDefaultReturnsAll(t *testing.T) {
	srv := fakeCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/buy", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp listingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page.TotalItems)
	assert.Equal(t, 1, resp.Page.TotalPages)
}

func TestGetListingsOutOfRangePageIsEmptyNot404(t *testing.T) {
	srv := fakeCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/buy?page=9", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp listingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Page.Items)
	assert.Equal(t, 9, resp.Page.CurrentPage)
}

func TestGetListingsMirrorFallbackKeepsMarketPin(t *testing.T) {
	srv := brokenCMS(t)
	defer srv.Close()

	store := &fakeMirror{listings: []models.Listing{
		{Slug: "rental-apt", Kind: models.KindProperty, Title: "Rental Apartment", MarketType: models.MarketRent},
		{Slug: "sale-villa", Kind: models.KindProperty, Title: "Sale Villa", MarketType: models.MarketBuy},
	}}
	r := newTestRouterWithStore(srv.URL, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/buy", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp listingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Page.TotalItems, "rent listings stay off the buy view")
	assert.Equal(t, "sale-villa", resp.Page.Items[0]["slug"])
}

func TestGetListingsEmptyWhenAllSourcesFail(t *testing.T) {
	srv := brokenCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/buy", nil))

	require.Equal(t, http.StatusOK, w.Code, "a failed collection fetch renders as no results")
	var resp listingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Page.Items)
	assert.Equal(t, 0, resp.Page.TotalItems)
}

func TestGetListingsResolvesCardImages(t *testing.T) {
	srv := fakeCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/buy?category=apartment", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp listingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Page.TotalItems)

	urls, ok := resp.Page.Items[0]["imageUrls"].([]interface{})
	require.True(t, ok, "card items carry resolved image URLs")
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "https://cdn.test/images/test/abc123-1200x800.jpg")
	assert.Contains(t, urls[0], "w=640")
}

func TestGetListingsUnknownView(t *testing.T) {
	srv := fakeCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listings/commercial", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetListingDetail(t *testing.T) {
	srv := fakeCMS(t)
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listing/a", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn.test/images/test/abc123-1200x800.jpg")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/listing/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
