package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/nicelgueta/whatsapp-utility/internal/search"
	"github.com/nicelgueta/whatsapp-utility/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset = "\033[0m"
	sColorRed   = "\033[1;31m"
	sColorDim   = "\033[2m"
)

// senderColors mirrors the palette used by the render package.
var senderColors = []string{
	"\033[1;34m", // blue
	"\033[1;32m", // green
	"\033[1;36m", // cyan
	"\033[1;33m", // yellow
	"\033[1;35m", // magenta
	"\033[1;31m", // red
}

func colorizeSender(sender, senders string) string {
	if sender == "" {
		return sColorDim + "system" + sColorReset
	}
	for i, s := range strings.Split(senders, ", ") {
		if s == sender {
			return senderColors[i%len(senderColors)] + sender + sColorReset
		}
	}
	return sender
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func searchCmd() *cobra.Command {
	var sender, since, chatKey string
	var limit int
	var dedup bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed chats",
		Long: `Search indexed chats using FTS5. Output is TSV for fzf integration:
  chatKey, seq, ts, sender, chat, snippet

Recommended shell function (add to .zshrc):
  wauf() {
    wau search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'wau preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --preview-debounce=150 \
      --bind 'enter:execute(wau open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			profile, err := cfg.GrammarProfile()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			// Auto-update index before searching
			index.IndexAll(db, cfg.ExportRoot, chat.NewParser(profile), profile.Name)

			opts := search.Options{
				Sender: sender,
				Since:  since,
				Chat:   chatKey,
				Dedup:  dedup,
				Limit:  limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
				snippet = strings.ReplaceAll(snippet, "\n", " ")
				snippet = colorizeSnippet(snippet)
				// first two fields (chatKey, seq) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%s\t%s\n",
					r.ChatKey,
					r.Seq,
					sColorDim, r.Ts, sColorReset,
					colorizeSender(r.Sender, r.Senders),
					r.ChatKey,
					snippet,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Filter by sender display name")
	cmd.Flags().StringVar(&since, "since", "", "Filter messages since date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&chatKey, "chat", "", "Restrict to one chat key")
	cmd.Flags().BoolVar(&dedup, "dedup", false, "Show only the best hit per chat")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
