package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/stats"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var top int
	var words []string
	var profileName string

	cmd := &cobra.Command{
		Use:   "stats <export.txt>",
		Short: "Per-sender and per-day statistics for one export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if profileName != "" {
				cfg.Profile = profileName
			}

			profile, err := cfg.GrammarProfile()
			if err != nil {
				return err
			}
			tk, err := cfg.Tokenizer()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			store, err := chat.NewParser(profile).Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			r := stats.Aggregate(store, tk)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "SENDER\tMESSAGES\tCHARS\tMEAN")
			for _, sender := range store.Senders() {
				v := r.Verbosity[sender]
				fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\n", sender, v.Messages, v.Chars, v.Mean)
			}
			fmt.Fprintln(w)

			fmt.Fprintln(w, "DATE\tMESSAGES")
			for _, date := range store.Dates() {
				fmt.Fprintf(w, "%s\t%d\n", date, r.ByDate[date])
			}
			fmt.Fprintln(w)

			fmt.Fprintln(w, "TOKEN\tCOUNT")
			for _, tc := range r.TopTokens(top) {
				fmt.Fprintf(w, "%s\t%d\n", tc.Token, tc.Count)
			}

			if len(words) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintf(w, "WORD HUNT (%v)\tCOUNT\n", words)
				counts := stats.WordCounts(store, tk, words)
				senders := make([]string, 0, len(counts))
				for sender := range counts {
					senders = append(senders, sender)
				}
				sort.Slice(senders, func(i, j int) bool {
					if counts[senders[i]] != counts[senders[j]] {
						return counts[senders[i]] > counts[senders[j]]
					}
					return senders[i] < senders[j]
				})
				for _, sender := range senders {
					fmt.Fprintf(w, "%s\t%d\n", sender, counts[sender])
				}
			}

			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&top, "top", 20, "Number of top tokens to show")
	cmd.Flags().StringSliceVar(&words, "words", nil, "Count occurrences of these words per sender")
	cmd.Flags().StringVar(&profileName, "profile", "", "Override the grammar profile")

	return cmd
}
