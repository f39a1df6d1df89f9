package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Kind is the classification of a single physical line.
type Kind int

const (
	// KindHeader starts a new message: timestamp, sender and first body line.
	KindHeader Kind = iota
	// KindSystem is a dated line without a sender (group renames, encryption
	// notices, joins/leaves).
	KindSystem
	// KindContinuation belongs to the body of the previous message.
	KindContinuation
)

// Classification is the result of classifying one raw line.
// Timestamp and Sender are only set for KindHeader; Timestamp is also set
// for KindSystem. Text holds the remainder after the header for KindHeader
// and KindSystem, and the full line for KindContinuation.
type Classification struct {
	Kind      Kind
	Timestamp time.Time
	Sender    string
	Text      string
}

type pattern struct {
	re        *regexp.Regexp
	layouts   []string
	tsIdx     int
	senderIdx int // -1 for system-notice patterns
	textIdx   int
}

// Profile is an ordered set of header patterns for one export dialect.
// Classification is first-match-wins over the pattern list, so a profile
// must list its sender-header pattern before its system-notice pattern.
type Profile struct {
	Name     string
	patterns []pattern
}

// PatternSpec describes one header pattern as plain data, suitable for
// loading from a config file. The regexp must anchor at the start of the
// line and use the named groups "ts", "text" and, for sender headers,
// "sender". Layouts are tried in order with time.Parse.
type PatternSpec struct {
	Pattern string   `toml:"pattern"`
	Layouts []string `toml:"layouts"`
}

// ProfileSpec is a named list of patterns, loadable from config.
type ProfileSpec struct {
	Name     string        `toml:"name"`
	Patterns []PatternSpec `toml:"patterns"`
}

// NewProfile compiles a profile from specs. It fails on an invalid regexp,
// a pattern without the required named groups, or an empty layout list.
func NewProfile(name string, specs []PatternSpec) (*Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("grammar: profile name is empty")
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("grammar: profile %q has no patterns", name)
	}
	p := &Profile{Name: name}
	for i, spec := range specs {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("grammar: profile %q pattern %d: %w", name, i, err)
		}
		if len(spec.Layouts) == 0 {
			return nil, fmt.Errorf("grammar: profile %q pattern %d: no time layouts", name, i)
		}
		pat := pattern{re: re, layouts: spec.Layouts, tsIdx: -1, senderIdx: -1, textIdx: -1}
		for gi, gname := range re.SubexpNames() {
			switch gname {
			case "ts":
				pat.tsIdx = gi
			case "sender":
				pat.senderIdx = gi
			case "text":
				pat.textIdx = gi
			}
		}
		if pat.tsIdx < 0 || pat.textIdx < 0 {
			return nil, fmt.Errorf("grammar: profile %q pattern %d: missing ts/text groups", name, i)
		}
		p.patterns = append(p.patterns, pat)
	}
	return p, nil
}

// Classify classifies a single raw line. Pure function of (line, profile):
// the first pattern whose regexp matches the start of the line wins. A line
// that matches a pattern but whose timestamp text parses under none of the
// pattern's layouts is a continuation, never an error.
func (p *Profile) Classify(line string) Classification {
	line = strings.TrimRight(line, "\r\n")
	// iOS exports prefix lines with direction marks.
	trimmed := strings.TrimLeft(line, "‎‏\uFEFF")

	for _, pat := range p.patterns {
		m := pat.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		ts, ok := parseTimestamp(m[pat.tsIdx], pat.layouts)
		if !ok {
			// header-shaped but undated: fail open
			return Classification{Kind: KindContinuation, Text: line}
		}
		if pat.senderIdx >= 0 && m[pat.senderIdx] != "" {
			return Classification{
				Kind:      KindHeader,
				Timestamp: ts,
				Sender:    strings.TrimSpace(m[pat.senderIdx]),
				Text:      m[pat.textIdx],
			}
		}
		return Classification{Kind: KindSystem, Timestamp: ts, Text: m[pat.textIdx]}
	}
	return Classification{Kind: KindContinuation, Text: line}
}

func parseTimestamp(s string, layouts []string) (time.Time, bool) {
	// US exports separate time and meridiem with a narrow no-break space.
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Built-in profiles, keyed by name. The android-eu shape
// ("02/01/2021, 08:18 - Kyle: hello") is the day-first 24h export; the US
// variant is month-first with an optional AM/PM suffix; the iOS variant
// wraps the timestamp in brackets and includes seconds.
var builtins = map[string]*Profile{}

func mustProfile(name string, specs []PatternSpec) {
	p, err := NewProfile(name, specs)
	if err != nil {
		panic(err)
	}
	builtins[name] = p
}

func init() {
	mustProfile("android-eu", []PatternSpec{
		{
			Pattern: `^(?P<ts>\d{1,2}/\d{1,2}/\d{2,4}, \d{2}:\d{2}) - (?P<sender>[^:]+?): (?P<text>.*)$`,
			Layouts: []string{"2/1/2006, 15:04", "2/1/06, 15:04"},
		},
		{
			Pattern: `^(?P<ts>\d{1,2}/\d{1,2}/\d{2,4}, \d{2}:\d{2}) - (?P<text>.*)$`,
			Layouts: []string{"2/1/2006, 15:04", "2/1/06, 15:04"},
		},
	})
	mustProfile("android-us", []PatternSpec{
		{
			Pattern: `^(?P<ts>\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}(?:\x{202f}| )?(?:[APap][Mm])?) - (?P<sender>[^:]+?): (?P<text>.*)$`,
			Layouts: []string{"1/2/06, 3:04 PM", "1/2/06, 15:04", "1/2/2006, 3:04 PM", "1/2/2006, 15:04"},
		},
		{
			Pattern: `^(?P<ts>\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}(?:\x{202f}| )?(?:[APap][Mm])?) - (?P<text>.*)$`,
			Layouts: []string{"1/2/06, 3:04 PM", "1/2/06, 15:04", "1/2/2006, 3:04 PM", "1/2/2006, 15:04"},
		},
	})
	mustProfile("ios", []PatternSpec{
		{
			Pattern: `^\[(?P<ts>\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}:\d{2})\] (?P<sender>[^:]+?): (?P<text>.*)$`,
			Layouts: []string{"2/1/2006, 15:04:05", "2/1/06, 15:04:05"},
		},
		{
			Pattern: `^\[(?P<ts>\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}:\d{2})\] (?P<text>.*)$`,
			Layouts: []string{"2/1/2006, 15:04:05", "2/1/06, 15:04:05"},
		},
	})
}

// Lookup returns a built-in profile by name. Unknown names are a
// configuration error and fail with the list of known profiles.
func Lookup(name string) (*Profile, error) {
	if p, ok := builtins[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("grammar: unknown profile %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
