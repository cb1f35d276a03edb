package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerage-portal/internal/models"
)

func TestFetchCollectionDecodesAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/data/production/properties", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "buy", r.URL.Query().Get("marketType"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"slug": "one", "title": "One", "description": "<p>Sea   view</p>", "neighborhood": "Palm"},
			{"slug": "two", "title": "Two", "kind": "property"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "production", "secret", time.Second)
	listings, err := c.FetchCollection(context.Background(), models.KindProperty, ServerFilters{MarketType: "buy"})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, models.KindProperty, listings[0].Kind, "omitted kind is filled in")
	assert.Equal(t, models.ListingStatusActive, listings[0].Status)
	assert.Equal(t, "Sea view", listings[0].Description, "rich text collapses to plain text")
	assert.Equal(t, "Palm", listings[0].Neighborhood.Name)
	assert.False(t, listings[0].FetchedAt.IsZero())
}

func TestFetchOneNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "production", "", time.Second)
	_, err := c.FetchOne(context.Background(), models.KindProperty, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchOneNullItemIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"item": null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "production", "", time.Second)
	_, err := c.FetchOne(context.Background(), models.KindProperty, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchCollectionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "production", "", time.Second)
	_, err := c.FetchCollection(context.Background(), models.KindProperty, ServerFilters{})
	assert.Error(t, err)
}

func TestServerFiltersQueryIsCanonical(t *testing.T) {
	min, max := 1000000.0, 5000000.0
	f := ServerFilters{
		MarketType:     "buy",
		Category:       "villa",
		NeighborhoodID: "n-1",
		MinPrice:       &min,
		MaxPrice:       &max,
	}

	// url.Values.Encode sorts keys, so equal filters always produce equal
	// cache keys
	assert.Equal(t, f.Query().Encode(), f.Query().Encode())
	assert.Equal(t,
		"category=villa&marketType=buy&maxPrice=5000000&minPrice=1000000&neighborhood=n-1",
		f.Query().Encode())

	assert.Empty(t, ServerFilters{}.Query().Encode())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Sea view penthouse", PlainText("<p>Sea   view\n<b>penthouse</b></p>"))
	assert.Equal(t, "already plain", PlainText("already plain"))
}

func TestResolveAssetURL(t *testing.T) {
	r := NewAssetResolver("https://cdn.example.com/", "production")

	url := r.ResolveAssetURL("image-abc123-1200x800-jpg", ImageOptions{Width: 600, Height: 400})
	assert.Contains(t, url, "https://cdn.example.com/images/production/abc123-1200x800.jpg")
	assert.Contains(t, url, "w=600")
	assert.Contains(t, url, "h=400")
	assert.Contains(t, url, "fit=crop")

	assert.Equal(t,
		"https://cdn.example.com/images/production/abc123-1200x800.jpg",
		r.ResolveAssetURL("image-abc123-1200x800-jpg", ImageOptions{}))
}

func TestResolveAssetURLPassesThroughAbsolute(t *testing.T) {
	r := NewAssetResolver("https://cdn.example.com", "production")
	assert.Equal(t, "https://elsewhere.example.com/a.jpg",
		r.ResolveAssetURL("https://elsewhere.example.com/a.jpg", ImageOptions{}))
}

func TestResolveAssetURLMalformedFallsBackToPlaceholder(t *testing.T) {
	r := NewAssetResolver("https://cdn.example.com", "production")
	for _, ref := range []string{"", "not-an-image-ref-at-all-x", "image-onlytwo"} {
		assert.Equal(t, PlaceholderImageURL, r.ResolveAssetURL(ref, ImageOptions{}), "ref %q", ref)
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "production", "", time.Second)
	for i := 0; i < 3; i++ {
		_, err := c.FetchCollection(context.Background(), models.KindProperty, ServerFilters{})
		require.Error(t, err)
	}

	_, err := c.FetchCollection(context.Background(), models.KindProperty, ServerFilters{})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable, "breaker fails fast once open")
}

func TestCircuitBreakerRecovery(t *testing.T) {
	cb := NewCircuitBreaker(2, 10*time.Millisecond)
	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.CanProceed())

	time.Sleep(15 * time.Millisecond)
	assert.True(t, cb.CanProceed(), "half-open after the reset timeout")

	open, _, _ := cb.GetStatus()
	assert.False(t, open)
}
