package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/riskcard/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	s := app.LoadSettings()

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the scoring service",
		Long: "Serves POST /score-change, GET /health, GET /scorecard and POST /reload-config.\n" +
			"Flags default to the RISKCARD_* and LOG_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(s)
		},
	}

	f := c.Flags()
	f.StringVar(&s.Scorecard, "scorecard", s.Scorecard, "scorecard YAML file (empty serves the built-in default)")
	f.StringVar(&s.Addr, "addr", s.Addr, "HTTP listen address")
	f.StringVar(&s.DataDir, "data-dir", s.DataDir, "directory for the revision database")
	f.BoolVar(&s.Watch, "watch", s.Watch, "reload when the scorecard file changes")
	f.DurationVar(&s.Debounce, "debounce", s.Debounce, "quiet period before a file change reloads")
	f.IntVar(&s.Keep, "keep", s.Keep, "revisions to retain (0 keeps all)")
	f.StringVar(&s.Log.Level, "log-level", s.Log.Level, "debug, info, warn or error")
	f.StringVar(&s.Log.Format, "log-format", s.Log.Format, "text or json")
	return c
}

func runServe(s app.Settings) error {
	log := app.InitLogger(s.Log)

	a, err := app.New(app.Config{Settings: s, Logger: log})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Info("shutting down", "signal", sig.String())
	return a.Stop()
}
