package main

import (
	"fmt"
	"os"

	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/nicelgueta/whatsapp-utility/internal/scan"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the export root, database and index health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ok := true

			if fi, err := os.Stat(cfg.ExportRoot); err != nil {
				fmt.Printf("✗ export root %s: %v\n", cfg.ExportRoot, err)
				ok = false
			} else if !fi.IsDir() {
				fmt.Printf("✗ export root %s is not a directory\n", cfg.ExportRoot)
				ok = false
			} else {
				files, err := scan.ScanRoot(cfg.ExportRoot)
				if err != nil {
					fmt.Printf("✗ scan %s: %v\n", cfg.ExportRoot, err)
					ok = false
				} else {
					fmt.Printf("✓ export root %s (%d .txt files)\n", cfg.ExportRoot, len(files))
				}
			}

			if _, err := cfg.GrammarProfile(); err != nil {
				fmt.Printf("✗ grammar profile: %v\n", err)
				ok = false
			} else {
				fmt.Printf("✓ grammar profile %q\n", cfg.Profile)
			}

			fi, err := os.Stat(cfg.DBPath)
			if err != nil {
				fmt.Printf("- database %s not created yet (run `wau index`)\n", cfg.DBPath)
				if !ok {
					return fmt.Errorf("doctor found problems")
				}
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				fmt.Printf("✗ open database %s: %v\n", cfg.DBPath, err)
				return fmt.Errorf("doctor found problems")
			}
			defer db.Close()

			chats, err := db.ChatCount()
			if err != nil {
				return err
			}
			msgs, err := db.MessageCount()
			if err != nil {
				return err
			}
			fmt.Printf("✓ database %s (%d chats, %d messages, %.1f MB)\n",
				cfg.DBPath, chats, msgs, float64(fi.Size())/(1024*1024))

			var ftsCount int
			if err := db.Raw().QueryRow(`SELECT count(*) FROM messages_fts`).Scan(&ftsCount); err != nil {
				fmt.Printf("✗ fts index: %v\n", err)
				ok = false
			} else if ftsCount != msgs {
				fmt.Printf("✗ fts index out of sync: %d rows vs %d messages (run `wau index`)\n", ftsCount, msgs)
				ok = false
			} else {
				fmt.Printf("✓ fts index in sync (%d rows)\n", ftsCount)
			}

			if !ok {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}
