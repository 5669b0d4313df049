package analysis

import (
	"strings"

	"stratint/outlook/app/feed"
)

const (
	offlineDrivers  = 3
	offlineNews     = 5
	driverTextRunes = 80

	offlineBull    = "If capacity shortages persist -> prices rise -> merchant returns improve"
	offlineBear    = "If storage and transmission scale rapidly -> prices compress -> merchant returns fall"
	offlineVerdict = "BALANCED: Offsetting supply/demand and policy risk"

	// VerdictUnavailable is the verdict of every failure record.
	VerdictUnavailable = "N/A"
)

// Offline builds the deterministic record used when no credential is set.
func Offline(in Input) Record {
	country := strings.ToLower(strings.TrimSpace(in.Country))

	drivers := make([]Driver, 0, offlineDrivers)
	for i, it := range in.Items {
		if i >= offlineDrivers {
			break
		}
		sign := Negative
		if strings.Contains(strings.ToLower(it.Text()), country) {
			sign = Positive
		}
		drivers = append(drivers, Driver{Sign: sign, Text: cutRunes(it.Headline, driverTextRunes)})
	}

	return Record{
		Topic:      in.Topic,
		CoreThesis: "Monitor structural grid stress and contract exposure in " + in.Topic + ".",
		Drivers:    drivers,
		BullCase:   []string{offlineBull},
		BearCase:   []string{offlineBear},
		Verdict:    offlineVerdict,
		News:       newsFrom(in.Items, offlineNews),
	}.WithDefaults()
}

// Failure builds the placeholder record for a degraded outcome. The news
// list still points at the input items so the card stays useful.
func Failure(topic string, items []feed.Item, outcome Outcome) Record {
	thesis := "Analysis unavailable: the model reply could not be parsed."
	if outcome == OutcomeTransportFailed {
		thesis = "Analysis unavailable: the model request failed."
	}
	return Record{
		Topic:      topic,
		CoreThesis: thesis,
		Verdict:    VerdictUnavailable,
		News:       newsFrom(items, MaxNews),
	}.WithDefaults()
}

func newsFrom(items []feed.Item, n int) []NewsLink {
	out := make([]NewsLink, 0, min(len(items), n))
	for _, it := range items {
		if len(out) == n {
			break
		}
		out = append(out, NewsLink{Headline: it.Headline, Link: it.Link})
	}
	return out
}

func cutRunes(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
