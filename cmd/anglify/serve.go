package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/anglify/config"
	"github.com/ZaguanLabs/anglify/server"
)

func newServeCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation API over HTTP",
		Long: `serve starts the HTTP API.

Configuration is read from --config, $ANGLIFY_CONFIG or ./config.yaml, in
that order, and environment variables override file values. A .env file in
the working directory is loaded first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger := server.SetupLogger(cfg.Log, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg, server.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("starting server: %w", err)
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: $"+config.PathEnv+" or "+config.DefaultPath+")")

	return cmd
}
