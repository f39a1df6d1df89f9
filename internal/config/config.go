package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicelgueta/whatsapp-utility/internal/grammar"
	"github.com/nicelgueta/whatsapp-utility/internal/token"
)

type Config struct {
	ExportRoot string `toml:"export_root"`
	DBPath     string `toml:"db_path"`
	Profile    string `toml:"profile"`
	Grouping   string `toml:"grouping"`

	StopWords     []string `toml:"stop_words"`
	StopWordsFile string   `toml:"stop_words_file"`

	StemRules   []token.RuleSpec `toml:"stem_rules"`
	MinTokenLen int              `toml:"min_token_len"`
	MinStemLen  int              `toml:"min_stem_len"`

	Profiles []grammar.ProfileSpec `toml:"profiles"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ExportRoot: filepath.Join(home, "whatsapp-exports"),
		DBPath:     filepath.Join(home, ".config", "wau", "wau.db"),
		Profile:    "android-eu",
		Grouping:   "per-sender",
	}

	cfgPath := filepath.Join(home, ".config", "wau", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.StopWordsFile = expandHome(cfg.StopWordsFile, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

// GrammarProfile resolves the configured profile name, checking custom
// profiles from the config file before the built-in set. Unknown names
// fail here, before any parsing starts.
func (c *Config) GrammarProfile() (*grammar.Profile, error) {
	for _, spec := range c.Profiles {
		if spec.Name == c.Profile {
			return grammar.NewProfile(spec.Name, spec.Patterns)
		}
	}
	return grammar.Lookup(c.Profile)
}

// Tokenizer builds the configured tokenizer, merging inline stop words
// with the optional stop-words file (one word per line, # comments).
func (c *Config) Tokenizer() (*token.Tokenizer, error) {
	stop := append([]string(nil), c.StopWords...)
	if c.StopWordsFile != "" {
		fromFile, err := readWordList(c.StopWordsFile)
		if err != nil {
			return nil, fmt.Errorf("stop words file: %w", err)
		}
		stop = append(stop, fromFile...)
	}
	return token.New(token.Options{
		StopWords:   stop,
		Rules:       c.StemRules,
		MinTokenLen: c.MinTokenLen,
		MinStemLen:  c.MinStemLen,
	})
}

func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	return words, scanner.Err()
}
