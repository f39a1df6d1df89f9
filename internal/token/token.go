package token

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// RuleSpec is one suffix-stripping rule as plain data. Pattern is a regexp
// matched against the end of a token; the matched suffix is replaced by
// Replace. Rules are tried in order and the first match is applied once.
type RuleSpec struct {
	Pattern string `toml:"pattern"`
	Replace string `toml:"replace"`
}

type rule struct {
	re      *regexp.Regexp
	replace string
}

// Options configures a Tokenizer. Zero values select the defaults.
type Options struct {
	StopWords   []string
	Rules       []RuleSpec // nil means DefaultRules
	MinTokenLen int        // tokens shorter than this are dropped (default 1)
	MinStemLen  int        // tokens shorter than this are not stemmed (default 3)
}

// Tokenizer normalizes message bodies into stemmed lowercase tokens.
// Tokenize is a pure function: the same body always yields the same
// token sequence.
type Tokenizer struct {
	stop     map[string]struct{}
	rules    []rule
	minToken int
	minStem  int
}

// DefaultRules reproduces the original suffix list: ing, ed, er, s, y, e,
// stripped in that order, first match wins.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		{Pattern: "ing$", Replace: ""},
		{Pattern: "ed$", Replace: ""},
		{Pattern: "er$", Replace: ""},
		{Pattern: "s$", Replace: ""},
		{Pattern: "y$", Replace: ""},
		{Pattern: "e$", Replace: ""},
	}
}

// New builds a Tokenizer. Invalid rule patterns fail at construction.
func New(opts Options) (*Tokenizer, error) {
	specs := opts.Rules
	if specs == nil {
		specs = DefaultRules()
	}
	t := &Tokenizer{
		stop:     make(map[string]struct{}, len(opts.StopWords)),
		minToken: opts.MinTokenLen,
		minStem:  opts.MinStemLen,
	}
	if t.minToken < 1 {
		t.minToken = 1
	}
	if t.minStem == 0 {
		t.minStem = 3
	}
	for _, w := range opts.StopWords {
		t.stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for i, spec := range specs {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("token: stem rule %d: %w", i, err)
		}
		t.rules = append(t.rules, rule{re: re, replace: spec.Replace})
	}
	return t, nil
}

// Tokenize segments body into tokens, lowercases them, drops stop words
// and applies the stemming rules. URLs and emoji runs pass through as
// single opaque tokens, unstemmed.
func (t *Tokenizer) Tokenize(body string) []string {
	var out []string
	for _, field := range strings.Fields(body) {
		if isURL(field) {
			out = append(out, field)
			continue
		}
		for _, seg := range segment(field) {
			tok := seg.text
			if !seg.opaque {
				tok = strings.ToLower(tok)
			}
			if len([]rune(tok)) < t.minToken {
				continue
			}
			if _, stopped := t.stop[tok]; stopped {
				continue
			}
			if !seg.opaque {
				tok = t.Stem(tok)
				if tok == "" {
					continue
				}
			}
			out = append(out, tok)
		}
	}
	return out
}

// Stem applies the first matching suffix rule once. Tokens below the
// minimum stem length pass through unchanged.
func (t *Tokenizer) Stem(tok string) string {
	if len([]rune(tok)) < t.minStem {
		return tok
	}
	for _, r := range t.rules {
		if loc := r.re.FindStringIndex(tok); loc != nil {
			return tok[:loc[0]] + r.replace + tok[loc[1]:]
		}
	}
	return tok
}

type segmentRun struct {
	text   string
	opaque bool // emoji run, not lowercased or stemmed
}

// segment splits one whitespace-free field on punctuation boundaries.
// Letter/digit runs become word segments; emoji runs (including ZWJ
// sequences, variation selectors and skin tones) become opaque segments;
// everything else is a separator.
func segment(field string) []segmentRun {
	var segs []segmentRun
	var cur []rune
	curEmoji := false

	emit := func() {
		if len(cur) > 0 {
			segs = append(segs, segmentRun{text: string(cur), opaque: curEmoji})
			cur = nil
		}
	}

	for _, r := range field {
		switch {
		case isEmoji(r):
			if !curEmoji {
				emit()
			}
			curEmoji = true
			cur = append(cur, r)
		case curEmoji && isEmojiJoiner(r):
			cur = append(cur, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if curEmoji {
				emit()
				curEmoji = false
			}
			cur = append(cur, r)
		default:
			emit()
			curEmoji = false
		}
	}
	emit()
	return segs
}

func isURL(field string) bool {
	lower := strings.ToLower(field)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.")
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	}
	return false
}

// isEmojiJoiner reports whether r extends an emoji sequence in progress.
func isEmojiJoiner(r rune) bool {
	return r == 0x200D || r == 0xFE0F || (r >= 0x1F3FB && r <= 0x1F3FF)
}
