package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brokerage-portal/internal/models"
)

// ErrNotFound is returned by FetchOne when the CMS has no record for the
// slug. Detail routes surface it as a 404; collection fetch failures are
// downgraded to empty collections by callers instead.
var ErrNotFound = errors.New("content: record not found")

// Client talks to the headless CMS query API. A circuit breaker fails fast
// after repeated upstream errors so callers can fall back to the mirror.
type Client struct {
	baseURL  string
	dataset  string
	apiToken string
	http     *http.Client
	breaker  *CircuitBreaker
}

func NewClient(baseURL, dataset, apiToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		dataset:  dataset,
		apiToken: apiToken,
		http:     &http.Client{Timeout: timeout},
		breaker:  NewCircuitBreaker(3, time.Minute),
	}
}

// ServerFilters is the coarse criteria subset pushed down to the CMS fetch to
// shrink the payload. Everything else (keyword full text, array overlap,
// numeric buckets) is applied in memory after the fetch.
type ServerFilters struct {
	MarketType     string
	Category       string
	Lifestyle      string
	Developer      string
	NeighborhoodID string
	MinPrice       *float64
	MaxPrice       *float64
}

// Query renders the filters as CMS query parameters. The encoding is also the
// collection cache key, so it must be canonical: url.Values.Encode sorts keys.
func (f ServerFilters) Query() url.Values {
	values := url.Values{}
	if f.MarketType != "" {
		values.Set("marketType", f.MarketType)
	}
	if f.Category != "" {
		values.Set("category", f.Category)
	}
	if f.Lifestyle != "" {
		values.Set("lifestyle", f.Lifestyle)
	}
	if f.Developer != "" {
		values.Set("developer", f.Developer)
	}
	if f.NeighborhoodID != "" {
		values.Set("neighborhood", f.NeighborhoodID)
	}
	if f.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	return values
}

// FetchCollection fetches listings of the given kind with the coarse filters
// applied upstream.
func (c *Client) FetchCollection(ctx context.Context, kind models.Kind, filters ServerFilters) ([]models.Listing, error) {
	var payload struct {
		Items []models.Listing `json:"items"`
	}
	if err := c.get(ctx, c.collectionPath(kind), filters.Query(), &payload); err != nil {
		return nil, fmt.Errorf("fetch %s collection: %w", kind, err)
	}

	for i := range payload.Items {
		normalizeListing(&payload.Items[i], kind)
	}
	return payload.Items, nil
}

// FetchOne fetches a single record by slug. Returns ErrNotFound when absent.
func (c *Client) FetchOne(ctx context.Context, kind models.Kind, slug string) (*models.Listing, error) {
	var payload struct {
		Item *models.Listing `json:"item"`
	}
	path := c.collectionPath(kind) + "/" + url.PathEscape(slug)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch %s %q: %w", kind, slug, err)
	}
	if payload.Item == nil {
		return nil, ErrNotFound
	}
	normalizeListing(payload.Item, kind)
	return payload.Item, nil
}

// FetchNeighborhoods fetches the neighborhood collection.
func (c *Client) FetchNeighborhoods(ctx context.Context) ([]models.Neighborhood, error) {
	var payload struct {
		Items []models.Neighborhood `json:"items"`
	}
	if err := c.get(ctx, c.collectionPath(models.KindNeighborhood), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch neighborhoods: %w", err)
	}
	return payload.Items, nil
}

// FetchDevelopers fetches the developer collection.
func (c *Client) FetchDevelopers(ctx context.Context) ([]models.Developer, error) {
	var payload struct {
		Items []models.Developer `json:"items"`
	}
	if err := c.get(ctx, c.collectionPath(models.KindDeveloper), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch developers: %w", err)
	}
	return payload.Items, nil
}

// FetchLifestyles fetches the lifestyle collection.
func (c *Client) FetchLifestyles(ctx context.Context) ([]models.Lifestyle, error) {
	var payload struct {
		Items []models.Lifestyle `json:"items"`
	}
	if err := c.get(ctx, c.collectionPath(models.KindLifestyle), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch lifestyles: %w", err)
	}
	return payload.Items, nil
}

func (c *Client) collectionPath(kind models.Kind) string {
	return fmt.Sprintf("/v1/data/%s/%s", c.dataset, collectionName(kind))
}

func collectionName(kind models.Kind) string {
	switch kind {
	case models.KindProperty:
		return "properties"
	case models.KindProject:
		return "projects"
	case models.KindNeighborhood:
		return "neighborhoods"
	case models.KindDeveloper:
		return "developers"
	case models.KindLifestyle:
		return "lifestyles"
	}
	return string(kind)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if !c.breaker.CanProceed() {
		return ErrUpstreamUnavailable
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// A 404 is an answer, not an upstream fault
		c.breaker.RecordSuccess()
		return ErrNotFound
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		c.breaker.RecordFailure()
		return fmt.Errorf("cms returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.breaker.RecordSuccess()
		return fmt.Errorf("cms returned status %d", resp.StatusCode)
	}
	c.breaker.RecordSuccess()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode cms response: %w", err)
	}
	return nil
}

// normalizeListing fills the fields the evaluator relies on so absence never
// crashes a predicate: the kind when the CMS omits it, and a plain-text
// description when the CMS ships rich-text HTML.
func normalizeListing(l *models.Listing, kind models.Kind) {
	if l.Kind == "" {
		l.Kind = kind
	}
	if l.Status == "" {
		l.Status = models.ListingStatusActive
	}
	if strings.Contains(l.Description, "<") {
		l.Description = PlainText(l.Description)
	}
	if l.FetchedAt.IsZero() {
		l.FetchedAt = time.Now()
	}
}
