package search

import (
	"brokerage-portal/internal/content"
	"brokerage-portal/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// SearchClient backs the sitewide search box with a Meilisearch index over
// mirrored listings. The per-view filter bars stay in-memory; this index only
// serves free-text search with typo tolerance.
type SearchClient struct {
	client *meilisearch.Client
	index  string
	assets *content.AssetResolver
}

// NewSearchClient connects to Meilisearch. A nil asset resolver indexes raw
// image references instead of CDN URLs.
func NewSearchClient(host, apiKey string, assets *content.AssetResolver) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
		assets: assets,
	}
}

// hitImage is the CDN transform for search result thumbnails.
var hitImage = content.ImageOptions{Width: 640, Height: 480}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"location",
		"category",
		"neighborhood",
		"developer",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"kind",
		"market_type",
		"category",
		"price",
		"area",
		"bedrooms",
		"neighborhood",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"area",
		"bedrooms",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// document is the flattened index shape: references collapse to their names
// so search and facets work over plain strings.
type document struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	MarketType   string   `json:"market_type,omitempty"`
	Location     string   `json:"location,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Developer    string   `json:"developer,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Area         *float64 `json:"area,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

func (s *SearchClient) toDocument(l *models.Listing) document {
	doc := document{
		ID:           l.ID,
		Slug:         l.Slug,
		Kind:         string(l.Kind),
		Title:        l.Title,
		Description:  l.Description,
		Category:     l.Category,
		MarketType:   string(l.MarketType),
		Location:     l.Location,
		Neighborhood: l.Neighborhood.Name,
		Developer:    l.Developer.Name,
		Price:        l.Price,
		Area:         l.Area,
		Bedrooms:     l.Bedrooms,
		CreatedAt:    l.CreatedAt.Unix(),
	}
	if len(l.Images) > 0 {
		doc.ImageURL = l.Images[0]
		if s.assets != nil {
			doc.ImageURL = s.assets.ResolveAssetURL(l.Images[0], hitImage)
		}
	}
	return doc
}

// IndexListing indexes a single listing
func (s *SearchClient) IndexListing(listing *models.Listing) error {
	_, err := s.client.Index(s.index).AddDocuments([]document{s.toDocument(listing)})
	return err
}

// IndexListings indexes multiple listings
func (s *SearchClient) IndexListings(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	docs := make([]document, len(listings))
	for i := range listings {
		docs[i] = s.toDocument(&listings[i])
	}
	_, err := s.client.Index(s.index).AddDocuments(docs)
	return err
}

// Hit is one search result row.
type Hit struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	Category     string   `json:"category,omitempty"`
	MarketType   string   `json:"market_type,omitempty"`
	Location     string   `json:"location,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Developer    string   `json:"developer,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// Result carries hits plus facet distributions.
type Result struct {
	Hits           []Hit
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search performs a basic keyword search.
func (s *SearchClient) Search(query string, limit int64) ([]Hit, error) {
	result, err := s.AdvancedSearch(Request{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// Request represents advanced search parameters
type Request struct {
	Query  string
	Limit  int64
	Offset int64
	Filter []string
	Sort   []string
	Facets []string
}

// AdvancedSearch performs a search with filters and facets.
func (s *SearchClient) AdvancedSearch(req Request) (*Result, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}
	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}
	if len(req.Facets) > 0 {
		searchReq.Facets = req.Facets
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(searchRes.Hits))
	for _, raw := range searchRes.Hits {
		hits = append(hits, parseHit(raw))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	return &Result{
		Hits:           hits,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}, nil
}

// parseHit converts a raw search hit to a Hit
func parseHit(raw interface{}) Hit {
	hitMap, ok := raw.(map[string]interface{})
	if !ok {
		return Hit{}
	}

	hit := Hit{
		ID:           getString(hitMap, "id"),
		Slug:         getString(hitMap, "slug"),
		Kind:         getString(hitMap, "kind"),
		Title:        getString(hitMap, "title"),
		Category:     getString(hitMap, "category"),
		MarketType:   getString(hitMap, "market_type"),
		Location:     getString(hitMap, "location"),
		Neighborhood: getString(hitMap, "neighborhood"),
		Developer:    getString(hitMap, "developer"),
		ImageURL:     getString(hitMap, "image_url"),
	}
	if price, ok := hitMap["price"].(float64); ok {
		hit.Price = &price
	}
	return hit
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
