package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText reduces rich-text HTML from the CMS to plain text with collapsed
// whitespace, for keyword matching and search indexing. On a parse failure
// the raw input comes back unchanged; a broken fragment should degrade, not
// drop content.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
