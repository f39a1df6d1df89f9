package main

import (
	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/nicelgueta/whatsapp-utility/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var hit int

	cmd := &cobra.Command{
		Use:   "open <chat-key>",
		Short: "Open a chat's export file in $EDITOR at a message",
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

			return open.OpenChat(db, args[0], hit)
		},
	}

	cmd.Flags().IntVar(&hit, "hit", -1, "Sequence number of the message to jump to")

	return cmd
}
