package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicelgueta/whatsapp-utility/internal/grammar"
	"github.com/nicelgueta/whatsapp-utility/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "whatsapp-exports"), cfg.ExportRoot)
	assert.Equal(t, filepath.Join(home, ".config", "wau", "wau.db"), cfg.DBPath)
	assert.Equal(t, "android-eu", cfg.Profile)
	assert.Equal(t, "per-sender", cfg.Grouping)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "wau")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
export_root = "~/exports"
profile = "ios"
grouping = "per-day"
stop_words = ["the", "a"]
min_stem_len = 4
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "exports"), cfg.ExportRoot)
	assert.Equal(t, "ios", cfg.Profile)
	assert.Equal(t, "per-day", cfg.Grouping)
	assert.Equal(t, []string{"the", "a"}, cfg.StopWords)
	assert.Equal(t, 4, cfg.MinStemLen)
}

func TestLoadBadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "wau")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("= not toml"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", "x"), expandHome("~/x", "/home/u"))
	assert.Equal(t, "/abs/x", expandHome("/abs/x", "/home/u"))
	assert.Equal(t, "~", expandHome("~", "/home/u"))
	assert.Equal(t, "", expandHome("", "/home/u"))
}

func TestGrammarProfileBuiltin(t *testing.T) {
	cfg := &Config{Profile: "android-us"}
	p, err := cfg.GrammarProfile()
	require.NoError(t, err)
	assert.Equal(t, "android-us", p.Name)
}

func TestGrammarProfileCustomWinsOverBuiltin(t *testing.T) {
	cfg := &Config{
		Profile: "android-eu",
		Profiles: []grammar.ProfileSpec{{
			Name: "android-eu",
			Patterns: []grammar.PatternSpec{{
				Pattern: `^(?P<ts>\d{2}:\d{2}) (?P<sender>\S+): (?P<text>.*)$`,
				Layouts: []string{"15:04"},
			}},
		}},
	}
	p, err := cfg.GrammarProfile()
	require.NoError(t, err)

	c := p.Classify("10:30 alice: hi")
	assert.Equal(t, grammar.KindHeader, c.Kind)
	assert.Equal(t, "alice", c.Sender)
}

func TestGrammarProfileUnknown(t *testing.T) {
	cfg := &Config{Profile: "nokia"}
	_, err := cfg.GrammarProfile()
	assert.Error(t, err)
}

func TestTokenizerMergesStopWordsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(file, []byte("# comment\nthe\n\n  and  \n"), 0o644))

	cfg := &Config{
		StopWords:     []string{"or"},
		StopWordsFile: file,
	}
	tk, err := cfg.Tokenizer()
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "dog"}, tk.Tokenize("the cat and or dog"))
}

func TestTokenizerMissingStopWordsFile(t *testing.T) {
	cfg := &Config{StopWordsFile: filepath.Join(t.TempDir(), "nope.txt")}
	_, err := cfg.Tokenizer()
	assert.Error(t, err)
}

func TestTokenizerCustomRules(t *testing.T) {
	cfg := &Config{StemRules: []token.RuleSpec{{Pattern: "ing$", Replace: ""}}}
	tk, err := cfg.Tokenizer()
	require.NoError(t, err)

	assert.Equal(t, "runn", tk.Stem("running"))
	assert.Equal(t, "cats", tk.Stem("cats"))
}
