package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrMalformedResponse marks a model reply that holds no decodable record.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrTransport marks a failed model call.
	ErrTransport = errors.New("model transport failed")
)

var jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSONSpan returns the greedy span running from the first '{' to the
// last '}' of raw.
func ExtractJSONSpan(raw string) (string, bool) {
	span := jsonSpan.FindString(raw)
	return span, span != ""
}

// Parse turns a model reply into a Record. The reply is first decoded as a
// whole; when that fails the greedy {...} span is decoded instead. topic
// fills the record's topic when the reply leaves it out.
func Parse(topic, raw string) (Record, Outcome, error) {
	rec, err := decodeRecord(topic, raw)
	if err == nil {
		return rec, OutcomeParsed, nil
	}

	span, ok := ExtractJSONSpan(raw)
	if !ok {
		return Record{}, OutcomeMalformed, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	rec, spanErr := decodeRecord(topic, span)
	if spanErr != nil {
		return Record{}, OutcomeMalformed, fmt.Errorf("%w: %v", ErrMalformedResponse, spanErr)
	}
	return rec, OutcomeRecovered, nil
}

// decodeRecord decodes a JSON object field by field. Missing or oddly shaped
// fields fall back to their defaults instead of failing the whole record.
func decodeRecord(topic, text string) (Record, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &doc); err != nil {
		return Record{}, err
	}
	if doc == nil {
		return Record{}, errors.New("reply is not a JSON object")
	}

	rec := Record{
		Topic:      firstText(doc, "topic"),
		CoreThesis: firstText(doc, "core_thesis", "core_stance", "thesis"),
		Drivers:    decodeDrivers(doc["drivers"]),
		BullCase:   decodeBullets(doc["bull_case"]),
		BearCase:   decodeBullets(doc["bear_case"]),
		Verdict:    decodeVerdict(doc),
		News:       decodeNews(first(doc, "news", "news_items")),
	}
	if rec.Topic == "" {
		rec.Topic = topic
	}
	return rec.WithDefaults(), nil
}

func first(doc map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstText(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := text(doc[k]); s != "" {
			return s
		}
	}
	return ""
}

// text coerces a scalar to a string. Objects yield their "text"-like field.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		return firstText(t, "text", "headline", "title", "summary", "description")
	}
	return ""
}

func decodeVerdict(doc map[string]any) string {
	if v := text(doc["verdict"]); v != "" {
		return v
	}
	winner := strings.ToUpper(strings.TrimSpace(text(doc["winner"])))
	rationale := strings.TrimSpace(text(doc["winner_rationale"]))
	switch {
	case winner != "" && rationale != "":
		return winner + ": " + rationale
	case winner != "":
		return winner
	}
	return rationale
}

func decodeBullets(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			if s, ok := el.(string); ok {
				out = append(out, s)
				continue
			}
			if s := text(el); s != "" {
				out = append(out, s)
			}
		}
		return out
	case nil:
		return nil
	}
	if s := text(v); s != "" {
		return []string{s}
	}
	return nil
}

func decodeNews(v any) []NewsLink {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]NewsLink, 0, len(list))
	for _, el := range list {
		switch t := el.(type) {
		case map[string]any:
			out = append(out, NewsLink{
				Headline: firstText(t, "headline", "title"),
				Link:     firstText(t, "link", "url"),
			})
		case string:
			if t != "" {
				out = append(out, NewsLink{Headline: t})
			}
		}
	}
	return out
}

// decodeDrivers accepts a flat list, or maps nesting region -> country ->
// list. Map keys are visited in sorted order; the innermost key scopes the
// driver text.
func decodeDrivers(v any) []Driver {
	var out []Driver
	collectDrivers(v, "", &out)
	return out
}

func collectDrivers(v any, scope string, out *[]Driver) {
	switch t := v.(type) {
	case []any:
		for _, el := range t {
			collectDrivers(el, scope, out)
		}
	case map[string]any:
		if isDriverObject(t) {
			if d, ok := driverFrom(t, scope); ok {
				*out = append(*out, d)
			}
			return
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectDrivers(t[k], k, out)
		}
	case string:
		if strings.TrimSpace(t) != "" {
			*out = append(*out, Driver{Sign: Positive, Text: scoped(scope, t)})
		}
	}
}

func isDriverObject(m map[string]any) bool {
	for _, k := range []string{"sign", "text", "driver", "description"} {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func driverFrom(m map[string]any, scope string) (Driver, bool) {
	body := firstText(m, "text", "driver", "description")
	if notes := strings.TrimSpace(text(m["notes"])); notes != "" && body != "" {
		body = body + " (" + notes + ")"
	}
	sign, hasSign := m["sign"]
	if body == "" {
		// An empty text is kept when the driver is otherwise well formed.
		return Driver{Sign: parseSign(sign), Text: ""}, hasSign
	}
	if c := strings.TrimSpace(text(m["country"])); c != "" {
		scope = c
	}
	return Driver{Sign: parseSign(sign), Text: scoped(scope, body)}, true
}

func scoped(scope, s string) string {
	if scope == "" {
		return s
	}
	return scope + ": " + s
}

// parseSign treats a missing sign as positive and anything unrecognised as
// negative.
func parseSign(v any) Sign {
	switch t := v.(type) {
	case nil:
		return Positive
	case bool:
		if t {
			return Positive
		}
		return Negative
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "positive", "pos", "+", "bullish", "up", "tailwind", "✅":
			return Positive
		}
	}
	return Negative
}
