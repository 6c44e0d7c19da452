package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-categorizer/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pattern feed and categorization API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, store, engine, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Warm the cache; failures are logged and retried on the next request.
			_ = engine.RefreshPatterns(ctx, true)

			srv := server.New(store, engine, server.WithAllowedOrigins(cfg.Server.AllowedOrigins))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
