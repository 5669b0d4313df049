package filter

import (
	"sort"
	"strings"

	"stratint/outlook/app/feed"
)

// LegalNote records an item that mentions a known law firm for a country.
type LegalNote struct {
	Country string `json:"country"`
	Firm    string `json:"firm"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}

// DetectLegal scans items for law-firm mentions. Countries are visited in
// sorted order and firms in configured order, so output is deterministic.
func DetectLegal(items []feed.Item, firms map[string][]string) []LegalNote {
	countries := make([]string, 0, len(firms))
	for c := range firms {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	notes := []LegalNote{}
	for _, it := range items {
		text := strings.ToLower(it.Text())
		for _, country := range countries {
			for _, firm := range firms[country] {
				if firm == "" || !strings.Contains(text, strings.ToLower(firm)) {
					continue
				}
				notes = append(notes, LegalNote{
					Country: country,
					Firm:    firm,
					Summary: it.Headline,
					Link:    it.Link,
				})
			}
		}
	}
	return notes
}
