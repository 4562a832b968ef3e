package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-screener/internal/server"
	"github.com/jonathan/candidate-screener/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for registering jobs, screening candidates and reviewing them.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	session, log, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv := server.New(session, log, server.Config{
		Port:      cfg.Port,
		RateLimit: ratelimit.LoadConfig(),
	})
	return srv.Run(cmd.Context())
}
