package main

import (
	"fmt"
	"os"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan and index exported WhatsApp chats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			profile, err := cfg.GrammarProfile()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning export root...\n")
			fmt.Fprintf(os.Stderr, "  Root:    %s\n", cfg.ExportRoot)
			fmt.Fprintf(os.Stderr, "  Profile: %s\n", profile.Name)

			stats, err := index.IndexAll(db, cfg.ExportRoot, chat.NewParser(profile), profile.Name)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
