package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/viant/wordvec/engine"
	"github.com/viant/wordvec/vocab"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		format    string
		lowercase bool
		limit     int
		batch     int
		noIndex   bool
	)
	cmd := &cobra.Command{
		Use:   "import <embeddings-file>",
		Short: "Import GloVe or word2vec embeddings into the vocabulary database",
		Long: `Import reads GloVe text, word2vec text or word2vec binary embeddings into the
vocab table and builds the neighbour index. Words already present are kept.
Files ending in .bin are read as word2vec binary unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := vocab.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == vocab.FormatAuto && strings.EqualFold(filepath.Ext(args[0]), ".bin") {
				f = vocab.FormatWord2VecBinary
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			db, err := engine.Open(a.cfg.Model.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			stats, err := vocab.Import(ctx, db, file, vocab.ImportOptions{Format: f, Lowercase: lowercase, Limit: limit, BatchSize: batch})
			if err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "import finished", "path", a.cfg.Model.Path, "read", stats.Read, "inserted", stats.Inserted, "skipped", stats.Skipped)
			color.New(color.FgGreen).Fprintf(a.out, "imported %d words", stats.Inserted)
			fmt.Fprintf(a.out, " (read %d, skipped %d, dimension %d)\n", stats.Read, stats.Skipped, stats.Dimension)
			if noIndex {
				return nil
			}
			return reindex(a, cmd, db)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&format, "format", "auto", "input format: auto, glove, word2vec or word2vec-bin")
	flags.BoolVar(&lowercase, "lowercase", true, "fold words to lower case; the first occurrence wins")
	flags.IntVar(&limit, "limit", 0, "import at most this many entries (0 means all)")
	flags.IntVar(&batch, "batch-size", vocab.DefaultBatchSize, "rows per transaction")
	flags.BoolVar(&noIndex, "no-index", false, "skip building the neighbour index")
	return cmd
}

func newReindexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild and persist the neighbour index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := engine.Open(a.cfg.Model.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			return reindex(a, cmd, db)
		},
	}
}

func reindex(a *app, cmd *cobra.Command, db *sql.DB) error {
	stats, err := vocab.Reindex(cmd.Context(), db, a.vocabOptions()...)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(a.out, "indexed %d words", stats.Words)
	fmt.Fprintf(a.out, " (%s, dimension %d, %d bytes)\n", stats.Kind, stats.Dimension, stats.Bytes)
	return nil
}
