// cmd/emblemd/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shieldmark/internal/config"
	"shieldmark/internal/logging"
	"shieldmark/internal/prefs"
	"shieldmark/internal/scene"
	"shieldmark/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		prefsPath  string
	)
	cmd := &cobra.Command{
		Use:           "emblemd",
		Short:         "Serve the static emblem as SVG and PNG",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.Defaults()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				opts = loaded
			}
			if cmd.Flags().Changed("addr") {
				opts.Server.Addr = addr
			}
			if cmd.Flags().Changed("prefs") {
				opts.PrefsPath = prefsPath
			}
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML options file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&prefsPath, "prefs", "", "preferences file with brand colors")
	return cmd
}

func run(ctx context.Context, opts config.Options) error {
	logger, err := logging.New(opts.Logging.Level, opts.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var theme scene.ThemeSource
	if opts.PrefsPath != "" {
		store, err := prefs.Open(opts.PrefsPath)
		if err != nil {
			return fmt.Errorf("failed to open preferences: %w", err)
		}
		defer store.Close()
		theme = store
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting emblemd", zap.String("addr", opts.Server.Addr))
	return server.New(opts, theme, logger).ListenAndServe(ctx)
}
