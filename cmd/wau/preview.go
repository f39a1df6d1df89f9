package main

import (
	"fmt"
	"os"

	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/nicelgueta/whatsapp-utility/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func previewCmd() *cobra.Command {
	var hit, context, width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <chat-key>",
		Short: "Render a chat window around a message (for fzf preview)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if width <= 0 {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				} else {
					width = 80
				}
			}

			out, _, err := render.RenderChat(db, args[0], render.Options{
				HitSeq:  hit,
				Context: context,
				Width:   width,
				Query:   query,
			})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hit, "hit", -1, "Sequence number of the hit message to center on")
	cmd.Flags().IntVar(&context, "context", 5, "Messages of context on each side of the hit")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = detect terminal)")
	cmd.Flags().StringVar(&query, "query", "", "Highlight these query keywords")

	return cmd
}
