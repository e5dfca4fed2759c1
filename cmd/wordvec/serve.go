package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/wordvec/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve loads the vocabulary and answers analogy, similarity, visualisation and
game requests over HTTP until interrupted. The model is loaded before the
listener opens, so a missing or empty database stops startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx, true)
			if err != nil {
				return err
			}
			cfg := a.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			srv := server.New(svc,
				server.WithLogger(a.logger),
				server.WithStats(a.store),
				server.WithDebug(cfg.Debug),
				server.WithTimeouts(time.Duration(cfg.ReadTimeout), time.Duration(cfg.WriteTimeout), time.Duration(cfg.ShutdownTimeout)),
			)
			a.logger.InfoContext(ctx, "model ready", "path", a.cfg.Model.Path, "words", a.store.Len(ctx))
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&debug, "debug", false, "expose debug endpoints such as /api/game/word")
	return cmd
}
