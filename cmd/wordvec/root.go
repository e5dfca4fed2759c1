package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/wordvec/analytics"
	"github.com/viant/wordvec/config"
	"github.com/viant/wordvec/lemma"
	"github.com/viant/wordvec/logging"
	"github.com/viant/wordvec/store"
	"github.com/viant/wordvec/vector"
	"github.com/viant/wordvec/vocab"
	"github.com/viant/wordvec/wordlist"
)

// app carries state shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	dbPath     string
	logLevel   string
	indexKind  string

	cfg    *config.Config
	logger *logging.Logger
	store  *store.Store
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:   "wordvec",
		Short: "Word vector analogies, similarity, projection and a daily word game",
		Long: `wordvec stores pretrained word embeddings (GloVe or word2vec) in SQLite and
answers analogy (A - B + C), similarity and 2D projection queries. It also
runs a deterministic daily word guessing game, from the command line or over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "TOML config file (default wordvec.toml when present)")
	flags.StringVar(&a.dbPath, "db", "", "vocabulary database path (overrides model.path)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.indexKind, "index", "", "neighbour index: auto, brute, cover or sql")

	root.AddCommand(
		newImportCmd(a),
		newReindexCmd(a),
		newAnalogyCmd(a),
		newSimilarityCmd(a),
		newProjectCmd(a),
		newDailyCmd(a),
		newGuessCmd(a),
		newHintCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Model.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.indexKind != "" {
		cfg.Model.Index = a.indexKind
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.Build(a.errOut, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) vocabOptions() []vocab.Option {
	return []vocab.Option{
		vocab.WithIndex(a.cfg.IndexKind()),
		vocab.WithCoverBase(a.cfg.Model.CoverBase),
		vocab.WithCoverMetric(a.cfg.CoverMetric()),
	}
}

// service wires the analytics service. With eager set the model is loaded
// up front and a load failure is returned.
func (a *app) service(ctx context.Context, eager bool) (*analytics.Service, error) {
	path := a.cfg.Model.Path
	a.store = store.New(func(ctx context.Context) (vector.Model, error) {
		return vocab.Open(ctx, path, a.vocabOptions()...)
	}, store.WithLogger(a.logger))
	if eager {
		if err := a.store.Load(ctx); err != nil {
			return nil, err
		}
	}

	var lemmatizer lemma.Lemmatizer = lemma.Lowercase
	if eager {
		english, err := lemma.NewEnglish()
		if err != nil {
			a.logger.Warn("english lemmatizer unavailable, comparing lower-cased words", "error", err)
		} else {
			lemmatizer = english
		}
	}

	words := wordlist.Default()
	if a.cfg.Game.WordList != "" {
		var err error
		if words, err = wordlist.Load(a.cfg.Game.WordList); err != nil {
			return nil, err
		}
	}
	if eager {
		missing := words.Missing(func(word string) bool {
			ok, err := a.store.HasVector(ctx, word)
			return err == nil && ok
		})
		if len(missing) > 0 {
			a.logger.Warn("daily words without vectors", "count", len(missing), "words", missing)
		}
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return analytics.New(a.store, lemmatizer, words,
		analytics.WithLogger(a.logger),
		analytics.WithResults(a.cfg.Analogy.Results),
		analytics.WithMargin(a.cfg.Analogy.Margin),
		analytics.WithLocation(loc),
	)
}

// parseDate reads a YYYY-MM-DD flag in the game time zone; empty means
// today.
func (a *app) parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	date, err := time.ParseInLocation(analytics.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return date, nil
}
