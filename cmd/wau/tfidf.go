package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/config"
	"github.com/nicelgueta/whatsapp-utility/internal/tfidf"
	"github.com/spf13/cobra"
)

func tfidfCmd() *cobra.Command {
	var grouping, terms, similar, profileName string
	var top int

	cmd := &cobra.Command{
		Use:   "tfidf <export.txt>",
		Short: "TF-IDF term weights for one export file",
		Long: `Build a TF-IDF corpus from an export file. By default documents are
grouped per sender; use --grouping to change that. With no --terms or
--similar, lists the documents and their vocabulary sizes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if profileName != "" {
				cfg.Profile = profileName
			}
			if grouping != "" {
				cfg.Grouping = grouping
			}

			g, err := tfidf.ParseGrouping(cfg.Grouping)
			if err != nil {
				return err
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

			corpus, err := tfidf.Build(store, tk, g)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

			switch {
			case terms != "":
				ranked, err := corpus.TopTerms(terms, top)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "TERM\tWEIGHT (%s)\n", terms)
				for _, tw := range ranked {
					fmt.Fprintf(w, "%s\t%.4f\n", tw.Term, tw.Weight)
				}

			case similar != "":
				ranked, err := corpus.Similar(similar, top)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "DOCUMENT\tSIMILARITY (%s)\n", similar)
				for _, ds := range ranked {
					fmt.Fprintf(w, "%s\t%.4f\n", ds.Doc, ds.Score)
				}

			default:
				fmt.Fprintf(w, "Corpus: %d documents, %d terms (%s grouping)\n\n",
					len(corpus.Documents()), len(corpus.Vocabulary()), g)
				fmt.Fprintln(w, "DOCUMENT\tTOP TERMS")
				for _, doc := range corpus.Documents() {
					ranked, err := corpus.TopTerms(doc, 5)
					if err != nil {
						return err
					}
					line := ""
					for i, tw := range ranked {
						if i > 0 {
							line += ", "
						}
						line += tw.Term
					}
					fmt.Fprintf(w, "%s\t%s\n", doc, line)
				}
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&grouping, "grouping", "", "Document grouping: per-message, per-sender or per-day")
	cmd.Flags().IntVar(&top, "top", 20, "Number of entries to show")
	cmd.Flags().StringVar(&terms, "terms", "", "Show top weighted terms of this document")
	cmd.Flags().StringVar(&similar, "similar", "", "Rank documents by cosine similarity to this one")
	cmd.Flags().StringVar(&profileName, "profile", "", "Override the grammar profile")

	return cmd
}
