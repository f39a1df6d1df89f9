package tfidf

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/token"
)

// ErrEmptyCorpus is returned when the grouping yields zero documents.
var ErrEmptyCorpus = errors.New("tfidf: corpus has no documents")

// Grouping selects how messages are partitioned into documents.
type Grouping string

const (
	PerMessage Grouping = "per-message"
	PerSender  Grouping = "per-sender"
	PerDay     Grouping = "per-day"
)

// ParseGrouping validates a grouping option from config or a flag.
// Unknown options fail fast rather than defaulting.
func ParseGrouping(s string) (Grouping, error) {
	switch Grouping(s) {
	case PerMessage, PerSender, PerDay:
		return Grouping(s), nil
	}
	return "", fmt.Errorf("tfidf: unknown grouping %q (known: %s, %s, %s)",
		s, PerMessage, PerSender, PerDay)
}

// Corpus is an immutable document-term weight table. Weights follow
// tf(term, doc) * ln(N / df(term)) with raw term counts; zero weights are
// not stored, so a term present in every document appears in the
// vocabulary but in no weight vector.
type Corpus struct {
	docs     []string
	docIndex map[string]int
	vocab    []string
	termIdx  map[string]int
	df       []int
	weights  []map[int]float64 // per document, term index -> weight
	norms    []float64         // per document, L2 norm of the weight vector
}

// TermWeight is one vocabulary entry of a document vector.
type TermWeight struct {
	Term   string
	Weight float64
}

// DocScore is one entry of a similarity ranking.
type DocScore struct {
	Doc   string
	Score float64
}

// Build partitions the store's messages into documents, tokenizes each
// document and computes the weight table. The store must already be
// frozen; rebuilding after new data means calling Build again.
func Build(store *chat.Store, tk *token.Tokenizer, g Grouping) (*Corpus, error) {
	if _, err := ParseGrouping(string(g)); err != nil {
		return nil, err
	}

	docIDs, docMsgs := partition(store, g)
	if len(docIDs) == 0 {
		return nil, ErrEmptyCorpus
	}

	c := &Corpus{
		docs:     docIDs,
		docIndex: make(map[string]int, len(docIDs)),
		termIdx:  make(map[string]int),
	}
	for i, id := range docIDs {
		c.docIndex[id] = i
	}

	// raw term counts per document; vocabulary indices are assigned in
	// order of first appearance, which keeps them stable across rebuilds
	// of the same store
	counts := make([]map[int]int, len(docIDs))
	for di, msgs := range docMsgs {
		tc := make(map[int]int)
		for _, m := range msgs {
			for _, tok := range tk.Tokenize(m.Body) {
				ti, ok := c.termIdx[tok]
				if !ok {
					ti = len(c.vocab)
					c.termIdx[tok] = ti
					c.vocab = append(c.vocab, tok)
				}
				tc[ti]++
			}
		}
		counts[di] = tc
	}

	c.df = make([]int, len(c.vocab))
	for _, tc := range counts {
		for ti := range tc {
			c.df[ti]++
		}
	}

	n := float64(len(docIDs))
	c.weights = make([]map[int]float64, len(docIDs))
	c.norms = make([]float64, len(docIDs))
	for di, tc := range counts {
		vec := make(map[int]float64)
		var sq float64
		for ti, tf := range tc {
			idf := math.Log(n / float64(c.df[ti]))
			if w := float64(tf) * idf; w > 0 {
				vec[ti] = w
				sq += w * w
			}
		}
		c.weights[di] = vec
		c.norms[di] = math.Sqrt(sq)
	}
	return c, nil
}

func partition(store *chat.Store, g Grouping) ([]string, [][]chat.Message) {
	var ids []string
	var docs [][]chat.Message

	switch g {
	case PerMessage:
		for _, m := range store.Messages() {
			ids = append(ids, fmt.Sprintf("msg:%d", m.Seq))
			docs = append(docs, []chat.Message{m})
		}
	case PerSender:
		for _, sender := range store.Senders() {
			ids = append(ids, sender)
			docs = append(docs, store.BySender(sender))
		}
	case PerDay:
		for _, date := range store.Dates() {
			ids = append(ids, date)
			docs = append(docs, store.ByDate(date))
		}
	}
	return ids, docs
}

// Documents returns the document identifiers in corpus order.
func (c *Corpus) Documents() []string { return c.docs }

// Vocabulary returns the distinct stemmed terms in index order.
func (c *Corpus) Vocabulary() []string { return c.vocab }

// DF returns the document frequency of a term, 0 if absent.
func (c *Corpus) DF(term string) int {
	if ti, ok := c.termIdx[term]; ok {
		return c.df[ti]
	}
	return 0
}

// IDF returns ln(N/df) for a term, 0 if the term is absent.
func (c *Corpus) IDF(term string) float64 {
	if ti, ok := c.termIdx[term]; ok {
		return math.Log(float64(len(c.docs)) / float64(c.df[ti]))
	}
	return 0
}

// Weight returns the tf-idf weight of term in doc, 0 if either is absent.
func (c *Corpus) Weight(doc, term string) float64 {
	di, ok := c.docIndex[doc]
	if !ok {
		return 0
	}
	ti, ok := c.termIdx[term]
	if !ok {
		return 0
	}
	return c.weights[di][ti]
}

// Vector returns the document's nonzero weights in vocabulary-index
// order.
func (c *Corpus) Vector(doc string) ([]TermWeight, error) {
	di, ok := c.docIndex[doc]
	if !ok {
		return nil, fmt.Errorf("tfidf: unknown document %q", doc)
	}
	indices := make([]int, 0, len(c.weights[di]))
	for ti := range c.weights[di] {
		indices = append(indices, ti)
	}
	sort.Ints(indices)
	vec := make([]TermWeight, len(indices))
	for i, ti := range indices {
		vec[i] = TermWeight{Term: c.vocab[ti], Weight: c.weights[di][ti]}
	}
	return vec, nil
}

// TopTerms ranks a document's terms by weight, n <= 0 meaning all. Ties
// are broken by vocabulary index, so the ranking is deterministic.
func (c *Corpus) TopTerms(doc string, n int) ([]TermWeight, error) {
	di, ok := c.docIndex[doc]
	if !ok {
		return nil, fmt.Errorf("tfidf: unknown document %q", doc)
	}
	ranked := make([]TermWeight, 0, len(c.weights[di]))
	order := make(map[string]int, len(c.weights[di]))
	for ti, w := range c.weights[di] {
		ranked = append(ranked, TermWeight{Term: c.vocab[ti], Weight: w})
		order[c.vocab[ti]] = ti
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return order[ranked[i].Term] < order[ranked[j].Term]
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// Similar ranks the other documents by cosine similarity to doc,
// n <= 0 meaning all. Documents whose weight vector is all zeros score 0.
func (c *Corpus) Similar(doc string, n int) ([]DocScore, error) {
	di, ok := c.docIndex[doc]
	if !ok {
		return nil, fmt.Errorf("tfidf: unknown document %q", doc)
	}
	ranked := make([]DocScore, 0, len(c.docs)-1)
	for dj := range c.docs {
		if dj == di {
			continue
		}
		ranked = append(ranked, DocScore{Doc: c.docs[dj], Score: c.cosine(di, dj)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (c *Corpus) cosine(di, dj int) float64 {
	if c.norms[di] == 0 || c.norms[dj] == 0 {
		return 0
	}
	a, b := c.weights[di], c.weights[dj]
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for ti, w := range a {
		dot += w * b[ti]
	}
	return dot / (c.norms[di] * c.norms[dj])
}
