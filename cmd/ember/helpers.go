package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberlab/ember/internal/config"
	"github.com/emberlab/ember/internal/logging"
	"github.com/emberlab/ember/internal/oneshot"
	"github.com/emberlab/ember/internal/style"
	"github.com/emberlab/ember/internal/titleapi"
)

// newLogger builds the command logger from the --verbose flag.
func newLogger(cmd *cobra.Command, stderr io.Writer) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(stderr, verbose)
}

// resolveConfig loads and resolves the ember config, requiring a credential.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Resolve(config.NewStore(), os.Getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireSessionKey(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect resolves the config, validates the session, and returns a runner
// bound to the resolved organization. Fatal on any bootstrap failure: no
// request handling may begin without a session.
func connect(ctx context.Context, stderr io.Writer, log *slog.Logger) (*oneshot.Runner, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, hintWrap(err)
	}

	client := titleapi.New(titleapi.Config{
		BaseURL:        cfg.BaseURL,
		SessionKey:     cfg.SessionKey,
		Platform:       cfg.Platform,
		AcceptLanguage: cfg.AcceptLanguage,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	spin := style.StartSpinner(stderr, "Validating session...")
	sess, err := client.Bootstrap(ctx)
	spin.Stop()
	if err != nil {
		return nil, hintWrap(err)
	}
	log.Debug("session validated", slog.String("org", sess.OrgUUID))

	return oneshot.NewRunner(client.WithSession(sess), log), nil
}
