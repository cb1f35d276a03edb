package filter

import (
	"regexp"
	"strconv"
	"time"

	"brokerage-portal/internal/models"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// completionDateLayouts covers the date shapes the CMS has been seen to emit.
var completionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"Q1 2006", "Q2 2006", "Q3 2006", "Q4 2006",
}

// CompletionYear derives the listing's completion year as a string. The
// explicit field wins over a conflicting date; then date parsing; then a
// bare 4-digit extraction. Empty when nothing yields a year.
func CompletionYear(l *models.Listing) string {
	if l.CompletionYear != "" {
		return l.CompletionYear
	}
	if l.CompletionDate == "" {
		return ""
	}
	for _, layout := range completionDateLayouts {
		if t, err := time.Parse(layout, l.CompletionDate); err == nil {
			return strconv.Itoa(t.Year())
		}
	}
	return yearPattern.FindString(l.CompletionDate)
}
