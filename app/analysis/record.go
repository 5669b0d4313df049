package analysis

// Sign marks a driver as a tailwind or a headwind.
type Sign string

const (
	Positive Sign = "positive"
	Negative Sign = "negative"
)

const (
	MaxCaseBullets = 4
	MaxNews        = 8
)

// Driver is one signed market driver.
type Driver struct {
	Sign Sign   `json:"sign"`
	Text string `json:"text"`
}

// NewsLink is a headline the analysis points back to.
type NewsLink struct {
	Headline string `json:"headline"`
	Link     string `json:"link"`
}

// Record is the normalized analysis of one topic. Every field has a usable
// zero value once WithDefaults has run: slices are empty, never nil.
type Record struct {
	Topic      string     `json:"topic"`
	CoreThesis string     `json:"core_thesis"`
	Drivers    []Driver   `json:"drivers"`
	BullCase   []string   `json:"bull_case"`
	BearCase   []string   `json:"bear_case"`
	Verdict    string     `json:"verdict"`
	News       []NewsLink `json:"news"`
}

// WithDefaults returns r with nil slices replaced by empty ones and list
// fields capped to their schema bounds.
func (r Record) WithDefaults() Record {
	if r.Drivers == nil {
		r.Drivers = []Driver{}
	}
	r.BullCase = capStrings(r.BullCase, MaxCaseBullets)
	r.BearCase = capStrings(r.BearCase, MaxCaseBullets)
	if r.News == nil {
		r.News = []NewsLink{}
	}
	if len(r.News) > MaxNews {
		r.News = r.News[:MaxNews]
	}
	return r
}

func capStrings(in []string, n int) []string {
	if in == nil {
		return []string{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}
