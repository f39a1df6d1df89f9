package stats

import (
	"sort"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/token"
)

// Result holds the aggregate counts over one message store. The store is
// immutable, so aggregating the same store twice yields identical results.
type Result struct {
	BySender  map[string]int // message count per sender
	ByDate    map[string]int // message count per calendar date
	TokenFreq map[string]int // global count per stemmed token

	Verbosity map[string]Verbosity

	firstSeen map[string]int // token -> seq of first containing message
}

// Verbosity is per-sender body length statistics.
type Verbosity struct {
	Messages int
	Chars    int
	Mean     float64
}

// TokenCount is one entry of a top-N token ranking.
type TokenCount struct {
	Token string
	Count int
}

// Aggregate computes all counters in one pass over the store. System
// notices count toward dates but not senders.
func Aggregate(store *chat.Store, tk *token.Tokenizer) *Result {
	r := &Result{
		BySender:  make(map[string]int),
		ByDate:    make(map[string]int),
		TokenFreq: make(map[string]int),
		Verbosity: make(map[string]Verbosity),
		firstSeen: make(map[string]int),
	}

	for _, m := range store.Messages() {
		r.ByDate[m.Date()]++
		if !m.IsSystem() {
			r.BySender[m.Sender]++
			v := r.Verbosity[m.Sender]
			v.Messages++
			v.Chars += len([]rune(m.Body))
			r.Verbosity[m.Sender] = v
		}
		for _, tok := range tk.Tokenize(m.Body) {
			if _, seen := r.firstSeen[tok]; !seen {
				r.firstSeen[tok] = m.Seq
			}
			r.TokenFreq[tok]++
		}
	}

	for sender, v := range r.Verbosity {
		if v.Messages > 0 {
			v.Mean = float64(v.Chars) / float64(v.Messages)
		}
		r.Verbosity[sender] = v
	}
	return r
}

// TopTokens ranks tokens by frequency, n <= 0 meaning all. Ties are broken
// by the sequence index of the earliest message containing the token, so
// the ranking is deterministic.
func (r *Result) TopTokens(n int) []TokenCount {
	ranked := make([]TokenCount, 0, len(r.TokenFreq))
	for tok, count := range r.TokenFreq {
		ranked = append(ranked, TokenCount{Token: tok, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return r.firstSeen[ranked[i].Token] < r.firstSeen[ranked[j].Token]
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// WordCounts counts, per sender, how often any of the given words appears
// in their messages. Words are stemmed with the same tokenizer before
// matching, so surface variations of a word all count.
func WordCounts(store *chat.Store, tk *token.Tokenizer, words []string) map[string]int {
	want := make(map[string]struct{}, len(words))
	for _, w := range words {
		for _, tok := range tk.Tokenize(w) {
			want[tok] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for _, sender := range store.Senders() {
		counts[sender] = 0
		for _, m := range store.BySender(sender) {
			for _, tok := range tk.Tokenize(m.Body) {
				if _, ok := want[tok]; ok {
					counts[sender]++
				}
			}
		}
	}
	return counts
}
