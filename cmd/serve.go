package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/igbcscore/internal/cue"
	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scoring and editable sessions over HTTP",
	Long: `Serve runs the HTTP interface used by presentation clients:

  GET    /health                          liveness and session count
  GET    /credits                         the credit catalog
  GET    /fields                          every editable field
  POST   /score                           score a snapshot body
  POST   /sessions                        start a session (defaults or body)
  GET    /sessions/{id}                   snapshot and report
  PATCH  /sessions/{id}                   {"field": ..., "value": ...} or {"edits": [...]}
  PUT    /sessions/{id}/sources/{group}   {"source": "preset"|"custom"}
  DELETE /sessions/{id}
  GET    /metrics                         Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	Run: runE(func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := server.Options{Logger: logger, AccessLog: os.Stderr}
	if cfg.Quiet {
		opts.AccessLog = io.Discard
	}
	if cfg.Schemas.Enabled {
		v := cue.NewValidator()
		if err := v.LoadSchemas(); err != nil {
			return fmt.Errorf("error loading schemas: %w", err)
		}
		opts.Validator = v
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine.NewStore(logger), opts)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
