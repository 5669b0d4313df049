// Package filter narrows fetched items to the ones relevant to a country and
// a topic's keywords.
package filter

import (
	"fmt"
	"strings"

	"stratint/outlook/app/feed"
)

// DefaultMax bounds the filtered result when Criteria.Max is not positive.
const DefaultMax = 8

// Policy decides how the country and keyword predicates combine.
type Policy string

const (
	// PolicyAll keeps items matching the country and, when keywords are
	// configured, at least one keyword.
	PolicyAll Policy = "all"
	// PolicyAny keeps items matching the country or a keyword.
	PolicyAny Policy = "any"
	// PolicyCountry ignores keywords.
	PolicyCountry Policy = "country"
	// PolicyKeyword ignores the country.
	PolicyKeyword Policy = "keyword"
)

// ParsePolicy accepts a policy name; "" selects PolicyAll.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAll, nil
	case PolicyAll, PolicyAny, PolicyCountry, PolicyKeyword:
		return p, nil
	default:
		return "", fmt.Errorf("unknown filter policy %q (want all, any, country or keyword)", s)
	}
}

// Criteria configures one Apply call.
type Criteria struct {
	Country  string
	Keywords []string
	Policy   Policy
	Max      int
}

// Apply deduplicates items by headline, keeps the relevant ones in their
// original order and truncates the result to c.Max.
func Apply(items []feed.Item, c Criteria) []feed.Item {
	limit := c.Max
	if limit <= 0 {
		limit = DefaultMax
	}
	policy := c.Policy
	if policy == "" {
		policy = PolicyAll
	}
	country := strings.ToLower(strings.TrimSpace(c.Country))
	keywords := lowerAll(c.Keywords)

	out := []feed.Item{}
	for _, it := range Dedupe(items) {
		if len(out) >= limit {
			break
		}
		if keep(policy, strings.ToLower(it.Text()), country, keywords) {
			out = append(out, it)
		}
	}
	return out
}

func keep(policy Policy, text, country string, keywords []string) bool {
	countryOK := country == "" || strings.Contains(text, country)
	keywordOK := len(keywords) == 0 || containsAny(text, keywords)

	switch policy {
	case PolicyCountry:
		return countryOK
	case PolicyKeyword:
		return keywordOK
	case PolicyAny:
		switch {
		case country == "":
			return keywordOK
		case len(keywords) == 0:
			return countryOK
		}
		return countryOK || keywordOK
	default:
		return countryOK && keywordOK
	}
}

// Dedupe drops items whose headline was already seen; the first occurrence wins.
func Dedupe(items []feed.Item) []feed.Item {
	seen := make(map[string]bool, len(items))
	out := make([]feed.Item, 0, len(items))
	for _, it := range items {
		if seen[it.Headline] {
			continue
		}
		seen[it.Headline] = true
		out = append(out, it)
	}
	return out
}

// TagCountries returns copies of items with Countries set to the countries
// mentioned in each item's text.
func TagCountries(items []feed.Item, countries []string) []feed.Item {
	out := make([]feed.Item, 0, len(items))
	for _, it := range items {
		text := strings.ToLower(it.Text())
		var hits []string
		for _, c := range countries {
			if c != "" && strings.Contains(text, strings.ToLower(c)) {
				hits = append(hits, c)
			}
		}
		it.Countries = hits
		out = append(out, it)
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
