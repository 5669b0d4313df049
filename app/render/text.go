package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"stratint/outlook/app/analysis"
	"stratint/outlook/app/feed"
	"stratint/outlook/app/pipeline"
)

const (
	maxCardNews  = 5
	maxCardLegal = 6
	maxRawRunes  = 200
)

// Printer writes cards as terminal text.
type Printer struct {
	out       io.Writer
	useColors bool
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

// Card prints one labeled card.
func (p *Printer) Card(c pipeline.Card) {
	rec := c.Result.Record

	p.paint(fmt.Sprintf("\n%s · %s", c.Topic, c.Country), color.FgWhite, color.Bold)
	fmt.Fprintln(p.out, strings.Repeat("─", len([]rune(c.Topic))+len([]rune(c.Country))+3))

	p.label("Core thesis")
	fmt.Fprintln(p.out, " "+rec.CoreThesis)

	p.label("Drivers")
	fmt.Fprintln(p.out)
	if len(rec.Drivers) == 0 {
		fmt.Fprintln(p.out, "  "+p.dim("no structured drivers detected"))
	}
	for _, d := range rec.Drivers {
		fmt.Fprintf(p.out, "  %s %s\n", signMark(d.Sign), d.Text)
	}

	p.bullets("Bull case", rec.BullCase, color.FgGreen)
	p.bullets("Bear case", rec.BearCase, color.FgRed)

	p.label("Verdict")
	fmt.Fprintln(p.out, " "+p.verdict(rec.Verdict))

	if len(rec.News) > 0 {
		p.label("Key news")
		fmt.Fprintln(p.out)
		for i, n := range rec.News {
			if i == maxCardNews {
				break
			}
			fmt.Fprintf(p.out, "  - %s %s\n", n.Headline, p.dim(n.Link))
		}
	}

	if len(c.Legal) > 0 {
		p.label("Legal / policy notes")
		fmt.Fprintln(p.out)
		for i, l := range c.Legal {
			if i == maxCardLegal {
				break
			}
			fmt.Fprintf(p.out, "  - [%s] %s: %s %s\n", l.Country, l.Firm, l.Summary, p.dim(l.Link))
		}
	}

	p.status(c)
}

func (p *Printer) status(c pipeline.Card) {
	meta := fmt.Sprintf("%d headlines, %s", len(c.Items), c.Elapsed.Round(time.Millisecond))
	switch {
	case c.Result.Outcome.Degraded():
		msg := fmt.Sprintf("analysis degraded (%s)", c.Result.Outcome)
		if c.Result.Err != nil {
			msg += ": " + c.Result.Err.Error()
		}
		p.paint(msg, color.FgYellow)
		if c.Result.Outcome == analysis.OutcomeMalformed && strings.TrimSpace(c.Result.Raw) != "" {
			fmt.Fprintln(p.out, "  raw reply: "+p.dim(rawExcerpt(c.Result.Raw)))
		}
	case c.Result.Outcome == analysis.OutcomeOffline:
		p.paint("offline analysis (no API key set)", color.FgYellow)
	}
	fmt.Fprintln(p.out, p.dim(meta))
}

func (p *Printer) bullets(title string, lines []string, attr color.Attribute) {
	p.label(title)
	fmt.Fprintln(p.out)
	if len(lines) == 0 {
		fmt.Fprintln(p.out, "  "+p.dim("none"))
	}
	for _, l := range lines {
		if p.useColors {
			fmt.Fprintf(p.out, "  %s %s\n", p.sprint("-", attr), l)
			continue
		}
		fmt.Fprintf(p.out, "  - %s\n", l)
	}
}

func (p *Printer) verdict(v string) string {
	switch {
	case strings.HasPrefix(strings.ToUpper(v), "BULL"):
		return p.sprint(v, color.FgGreen, color.Bold)
	case strings.HasPrefix(strings.ToUpper(v), "BEAR"):
		return p.sprint(v, color.FgRed, color.Bold)
	}
	return p.sprint(v, color.Bold)
}

func (p *Printer) label(s string) {
	fmt.Fprint(p.out, p.sprint(s+":", color.FgCyan))
}

func (p *Printer) paint(s string, attrs ...color.Attribute) {
	fmt.Fprintln(p.out, p.sprint(s, attrs...))
}

func (p *Printer) dim(s string) string {
	return p.sprint(s, color.Faint)
}

func (p *Printer) sprint(s string, attrs ...color.Attribute) string {
	if !p.useColors || s == "" {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func signMark(s analysis.Sign) string {
	if s == analysis.Positive {
		return "✅"
	}
	return "❌"
}

// rawExcerpt flattens a model reply onto one line and cuts it for display.
func rawExcerpt(raw string) string {
	return feed.Truncate(strings.Join(strings.Fields(raw), " "), maxRawRunes)
}
