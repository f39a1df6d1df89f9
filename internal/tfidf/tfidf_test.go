package tfidf

import (
	"math"
	"testing"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/grammar"
	"github.com/nicelgueta/whatsapp-utility/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, lines []string) *chat.Store {
	t.Helper()
	p, err := grammar.Lookup("android-eu")
	require.NoError(t, err)
	store, err := chat.NewParser(p).ParseLines(lines)
	require.NoError(t, err)
	return store
}

func newTokenizer(t *testing.T) *token.Tokenizer {
	t.Helper()
	tk, err := token.New(token.Options{})
	require.NoError(t, err)
	return tk
}

func TestParseGrouping(t *testing.T) {
	for _, s := range []string{"per-message", "per-sender", "per-day"} {
		g, err := ParseGrouping(s)
		require.NoError(t, err)
		assert.Equal(t, Grouping(s), g)
	}

	_, err := ParseGrouping("per-week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per-week")
}

func TestBuildRejectsUnknownGrouping(t *testing.T) {
	store := parseFixture(t, []string{"1/1/23, 10:00 - Alice: hi"})
	_, err := Build(store, newTokenizer(t), Grouping("per-week"))
	assert.Error(t, err)
}

func TestBuildPerSenderWeights(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: hello world",
		"1/1/23, 10:01 - Bob: world peace",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Bob"}, c.Documents())

	// "world" occurs in both documents: idf is zero and its weight is
	// omitted, but it remains in the vocabulary
	assert.Contains(t, c.Vocabulary(), "world")
	assert.Equal(t, 2, c.DF("world"))
	assert.InDelta(t, 0, c.IDF("world"), 1e-9)
	assert.Zero(t, c.Weight("Alice", "world"))
	assert.Zero(t, c.Weight("Bob", "world"))

	// "hello" is Alice-only
	assert.Equal(t, 1, c.DF("hello"))
	assert.InDelta(t, math.Log(2), c.IDF("hello"), 1e-9)
	assert.InDelta(t, math.Log(2), c.Weight("Alice", "hello"), 1e-9)
	assert.Zero(t, c.Weight("Bob", "hello"))

	// absent term
	assert.Zero(t, c.DF("absent"))
	assert.Zero(t, c.Weight("Alice", "absent"))
}

func TestBuildRawTermFrequency(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: spam spam spam",
		"1/1/23, 10:01 - Bob: quiet",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	assert.InDelta(t, 3*math.Log(2), c.Weight("Alice", "spam"), 1e-9)
}

func TestBuildPerMessage(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: milk",
		"1/1/23, 10:01 - Bob: fish",
	})
	c, err := Build(store, newTokenizer(t), PerMessage)
	require.NoError(t, err)

	assert.Equal(t, []string{"msg:0", "msg:1"}, c.Documents())
	assert.Positive(t, c.Weight("msg:0", "milk"))
	assert.Zero(t, c.Weight("msg:1", "milk"))
}

func TestBuildPerDay(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: monda",
		"2/1/23, 10:00 - Bob: tuesda",
	})
	c, err := Build(store, newTokenizer(t), PerDay)
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-01-01", "2023-01-02"}, c.Documents())
	assert.Positive(t, c.Weight("2023-01-01", "monda"))
}

func TestVector(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: zig zag shared",
		"1/1/23, 10:01 - Bob: shared",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	vec, err := c.Vector("Alice")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	// vocabulary order: zig before zag; "shared" is zero weight and absent
	assert.Equal(t, "zig", vec[0].Term)
	assert.Equal(t, "zag", vec[1].Term)
	assert.InDelta(t, math.Log(2), vec[0].Weight, 1e-9)

	vec, err = c.Vector("Bob")
	require.NoError(t, err)
	assert.Empty(t, vec)

	_, err = c.Vector("Nobody")
	assert.Error(t, err)
}

func TestTopTerms(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: zig zig zag common",
		"1/1/23, 10:01 - Bob: common",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	top, err := c.TopTerms("Alice", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "zig", top[0].Term)
	assert.Equal(t, "zag", top[1].Term)
	// "common" has zero idf and never appears in the ranking
	all, err := c.TopTerms("Alice", 0)
	require.NoError(t, err)
	for _, tw := range all {
		assert.NotEqual(t, "common", tw.Term)
	}

	_, err = c.TopTerms("Nobody", 1)
	assert.Error(t, err)
}

func TestTopTermsTieBreakByVocabIndex(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: alpha beta",
		"1/1/23, 10:01 - Bob: filler",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	top, err := c.TopTerms("Alice", 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	// equal weights: first-appearance vocabulary order decides
	assert.Equal(t, "alpha", top[0].Term)
	assert.Equal(t, "beta", top[1].Term)
}

func TestSimilar(t *testing.T) {
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: zig zag",
		"1/1/23, 10:01 - Bob: zig zag",
		"1/1/23, 10:02 - Carol: unrelated",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	ranked, err := c.Similar("Alice", 0)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Bob", ranked[0].Doc)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
	assert.Equal(t, "Carol", ranked[1].Doc)
	assert.InDelta(t, 0.0, ranked[1].Score, 1e-9)

	_, err = c.Similar("Nobody", 1)
	assert.Error(t, err)
}

func TestSimilarZeroVectorScoresZero(t *testing.T) {
	// a document whose every term occurs everywhere has an all-zero vector
	store := parseFixture(t, []string{
		"1/1/23, 10:00 - Alice: shared",
		"1/1/23, 10:01 - Bob: shared",
		"1/1/23, 10:02 - Carol: shared distinct",
	})
	c, err := Build(store, newTokenizer(t), PerSender)
	require.NoError(t, err)

	ranked, err := c.Similar("Alice", 0)
	require.NoError(t, err)
	for _, ds := range ranked {
		assert.Zero(t, ds.Score)
	}
}
