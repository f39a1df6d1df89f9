package main

import (
	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/nicelgueta/whatsapp-utility/internal/search"
	"github.com/nicelgueta/whatsapp-utility/internal/tui"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all indexed chats interactively",
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

			// Auto-update index before listing
			index.IndexAll(db, cfg.ExportRoot, chat.NewParser(profile), profile.Name)

			return tui.RunList(db, search.Options{Limit: limit})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 500, "Max chats to list")

	return cmd
}
