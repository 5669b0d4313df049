package prompt

import (
	"fmt"
	"strings"

	"stratint/outlook/app/feed"
)

// MaxItems bounds the number of headline lines in one prompt.
const MaxItems = 10

// SystemPrompt is the analyst persona contract sent with every request.
const SystemPrompt = `You are a senior strategic research lead preparing a concise investment-committee style analysis of the renewable energy sector.
Output MUST be a single valid JSON object (no extra commentary, no markdown fences) with exactly this structure:

{
  "topic": "<subject block>",
  "core_thesis": "<one-line high-conviction statement>",
  "drivers": [
    {"sign": "positive" | "negative", "text": "<short driver with reason>"}
  ],
  "bull_case": ["<short causal chain: If X -> Then Y -> Result>"],
  "bear_case": ["<short causal chain: If X -> Then Y -> Result>"],
  "verdict": "<BULL | BEAR | BALANCED>: <one-line rationale>",
  "news": [
    {"headline": "<headline copied from the input>", "link": "<url from the input or empty>"}
  ]
}

Rules:
- core_thesis: one short sentence, no paragraphs.
- drivers: up to 6, each tied to the requested country where possible.
- bull_case and bear_case: 2-4 bullets each.
- news: only the 3-8 most relevant items from the provided headlines; never invent headlines or links.`

// Build renders the user message for one topic. Each item becomes one
// "- headline (source) link" line; at most MaxItems items are included.
func Build(topic, country string, items []feed.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", flatten(topic))
	fmt.Fprintf(&b, "Country: %s\n", flatten(country))
	b.WriteString("Headlines:\n")

	if len(items) == 0 {
		b.WriteString("- (no headlines matched)\n")
	}
	for i, it := range items {
		if i >= MaxItems {
			break
		}
		b.WriteString(Line(it))
		b.WriteByte('\n')
	}

	b.WriteString("\nProduce the JSON exactly as instructed in the system prompt.")
	return b.String()
}

// Line serializes one item onto a single line.
func Line(it feed.Item) string {
	parts := []string{"- " + flatten(it.Headline)}
	if src := flatten(it.Source); src != "" {
		parts = append(parts, "("+src+")")
	}
	if link := flatten(it.Link); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, " ")
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
