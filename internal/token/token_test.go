package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	tk, err := New(Options{})
	require.NoError(t, err)
	return tk
}

func TestDefaultStemRules(t *testing.T) {
	tk := defaultTokenizer(t)

	cases := map[string]string{
		"running": "runn",
		"walked":  "walk",
		"player":  "play",
		"cats":    "cat",
		"happy":   "happ",
		"table":   "tabl",
		"world":   "world", // no suffix matches
		"go":      "go",    // below minimum stem length
	}
	for in, want := range cases {
		assert.Equal(t, want, tk.Stem(in), "stem(%q)", in)
	}
}

func TestStemFirstMatchWinsOnce(t *testing.T) {
	tk := defaultTokenizer(t)

	// "ing" is stripped, not "ing" then "s"
	assert.Equal(t, "cross", tk.Stem("crossing"))
	// only one rule applies per token
	assert.Equal(t, "walk", tk.Stem("walks"))
}

func TestCustomRules(t *testing.T) {
	tk, err := New(Options{Rules: []RuleSpec{
		{Pattern: "ing$", Replace: ""},
		{Pattern: "s$", Replace: ""},
	}})
	require.NoError(t, err)

	assert.Equal(t, "runn", tk.Stem("running"))
	assert.Equal(t, "cat", tk.Stem("cats"))
	assert.Equal(t, "walked", tk.Stem("walked")) // no ed rule here
}

func TestNewRejectsBadRule(t *testing.T) {
	_, err := New(Options{Rules: []RuleSpec{{Pattern: "("}}})
	assert.Error(t, err)
}

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	tk := defaultTokenizer(t)

	assert.Equal(t, []string{"hello", "world"}, tk.Tokenize("Hello, WORLD!"))
}

func TestTokenizeStopWords(t *testing.T) {
	tk, err := New(Options{StopWords: []string{"the", "A"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "sat"}, tk.Tokenize("The cat sat a"))
}

func TestTokenizeURLOpaque(t *testing.T) {
	tk := defaultTokenizer(t)

	got := tk.Tokenize("visit https://example.com/page today")
	assert.Equal(t, []string{"visit", "https://example.com/page", "toda"}, got)

	got = tk.Tokenize("WWW.Example.org link")
	assert.Equal(t, []string{"WWW.Example.org", "link"}, got)
}

func TestTokenizeEmojiOpaque(t *testing.T) {
	tk := defaultTokenizer(t)

	got := tk.Tokenize("nice 🎉🎉 work")
	assert.Equal(t, []string{"nic", "🎉🎉", "work"}, got)

	// mixed field splits into word and emoji segments
	got = tk.Tokenize("go🚀now")
	assert.Equal(t, []string{"go", "🚀", "now"}, got)
}

func TestTokenizeEmojiSequences(t *testing.T) {
	tk := defaultTokenizer(t)

	// ZWJ sequence stays a single opaque token
	got := tk.Tokenize("👨‍👩‍👧 family")
	assert.Equal(t, []string{"👨‍👩‍👧", "famil"}, got)

	// skin tone modifier extends the run
	got = tk.Tokenize("👍🏽 ok")
	assert.Equal(t, []string{"👍🏽", "ok"}, got)
}

func TestTokenizeDropsEmptyAfterStem(t *testing.T) {
	tk := defaultTokenizer(t)

	// "ing" stems to the empty string and is dropped
	assert.Empty(t, tk.Tokenize("ing"))
}

func TestTokenizeMinTokenLen(t *testing.T) {
	tk, err := New(Options{MinTokenLen: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "tall"}, tk.Tokenize("a to cat tall"))
}

func TestTokenizeDeterministic(t *testing.T) {
	tk := defaultTokenizer(t)

	body := "Running fast, running FAR! 🎉 https://x.org/a"
	first := tk.Tokenize(body)
	second := tk.Tokenize(body)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"runn", "fast", "runn", "far", "🎉", "https://x.org/a"}, first)
}

func TestTokenizeEmptyBody(t *testing.T) {
	tk := defaultTokenizer(t)

	assert.Empty(t, tk.Tokenize(""))
	assert.Empty(t, tk.Tokenize("   \n\t"))
}
