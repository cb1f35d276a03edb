package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerage-portal/internal/content"
	"brokerage-portal/internal/models"
)

func TestToDocumentResolvesImageURL(t *testing.T) {
	l := models.Listing{
		ID:     "l-1",
		Slug:   "marina-heights-2204",
		Kind:   models.KindProperty,
		Title:  "Marina Heights Tower",
		Images: models.StringList{"image-abc123-1200x800-jpg"},
	}

	assets := content.NewAssetResolver("https://cdn.test", "production")
	s := NewSearchClient("http://localhost:7700", "", assets)

	doc := s.toDocument(&l)
	require.Contains(t, doc.ImageURL, "https://cdn.test/images/production/abc123-1200x800.jpg")
	assert.Contains(t, doc.ImageURL, "w=640")
}

func TestToDocumentWithoutResolverKeepsRawReference(t *testing.T) {
	l := models.Listing{
		ID:     "l-1",
		Slug:   "marina-heights-2204",
		Kind:   models.KindProperty,
		Title:  "Marina Heights Tower",
		Images: models.StringList{"image-abc123-1200x800-jpg"},
	}

	s := NewSearchClient("http://localhost:7700", "", nil)
	assert.Equal(t, "image-abc123-1200x800-jpg", s.toDocument(&l).ImageURL)
}
