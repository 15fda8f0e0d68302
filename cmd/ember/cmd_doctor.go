package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberlab/ember/internal/config"
	"github.com/emberlab/ember/internal/style"
	"github.com/emberlab/ember/internal/titleapi"
)

func newDoctorCmd(stdout, stderr io.Writer) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check your ember setup for common issues",
		Long: `Run diagnostic checks on your ember setup.

Verifies the config file, the session key, the base URL, and that the
remote endpoint accepts your session.

Use --check to exit non-zero if any warnings or failures (useful for CI).

Examples:
  ember doctor
  ember doctor --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			deps := &doctorDeps{
				getenv:    os.Getenv,
				store:     config.NewStore(),
				bootstrap: liveBootstrap,
			}
			return runDoctor(ctx, stdout, deps, check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Exit non-zero if any warnings or failures")

	return cmd
}

// diagnostic holds a single check result.
type diagnostic struct {
	name    string
	status  string // "pass", "warn", "fail"
	message string
	fixHint string // manual fix instructions
}

// doctorDeps holds injectable dependencies for testing.
type doctorDeps struct {
	getenv    func(string) string
	store     config.Store
	bootstrap func(ctx context.Context, cfg *config.Config) (*titleapi.Session, error)
}

// liveBootstrap validates the session against the real endpoint.
func liveBootstrap(ctx context.Context, cfg *config.Config) (*titleapi.Session, error) {
	client := titleapi.New(titleapi.Config{
		BaseURL:        cfg.BaseURL,
		SessionKey:     cfg.SessionKey,
		Platform:       cfg.Platform,
		AcceptLanguage: cfg.AcceptLanguage,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	return client.Bootstrap(ctx)
}

func runDoctor(ctx context.Context, stdout io.Writer, deps *doctorDeps, check bool) error {
	results := runDoctorChecks(ctx, stdout, deps)

	for _, d := range results {
		if d.fixHint != "" && d.status != "pass" {
			fmt.Fprintf(stdout, "\n  %s %s\n", style.Dim.Render("hint:"), d.fixHint)
		}
	}

	// --check: exit non-zero if any issues.
	if check {
		for _, d := range results {
			if d.status == "fail" || d.status == "warn" {
				return errExit
			}
		}
	}

	return nil
}

func runDoctorChecks(ctx context.Context, stdout io.Writer, deps *doctorDeps) []diagnostic {
	var results []diagnostic

	// 1. Config file
	results = append(results, checkConfigFile(stdout, deps))

	// 2. Resolved config: session key + base URL
	cfg, err := config.Resolve(deps.store, deps.getenv)
	if err != nil {
		d := diagnostic{name: "config", status: "fail", message: err.Error()}
		fmt.Fprintf(stdout, "  %s config: %v\n", style.Error.Render(style.IconFail), err)
		return append(results, d)
	}
	results = append(results, checkSessionKey(stdout, deps, cfg))
	results = append(results, checkBaseURL(stdout, cfg))

	// 3. Session validates against the endpoint. Pointless without a key.
	if cfg.SessionKey != "" {
		results = append(results, checkSession(ctx, stdout, deps, cfg))
	}

	return results
}

func checkConfigFile(stdout io.Writer, deps *doctorDeps) diagnostic {
	path := deps.store.Path()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		d := diagnostic{
			name: "config file", status: "warn",
			message: fmt.Sprintf("not found (%s), defaults in effect", path),
			fixHint: "Run 'ember config set session_key <key>' to create it",
		}
		fmt.Fprintf(stdout, "  %s config file: %s\n", style.Warning.Render(style.IconWarn), d.message)
		return d
	}
	if _, err := deps.store.Load(); err != nil {
		d := diagnostic{name: "config file", status: "fail", message: fmt.Sprintf("unreadable: %v", err)}
		fmt.Fprintf(stdout, "  %s config file: %s\n", style.Error.Render(style.IconFail), d.message)
		return d
	}

	fmt.Fprintf(stdout, "  %s config file: %s\n", style.Success.Render(style.IconPass), path)
	return diagnostic{name: "config file", status: "pass", message: path}
}

func checkSessionKey(stdout io.Writer, deps *doctorDeps, cfg *config.Config) diagnostic {
	if cfg.SessionKey == "" {
		d := diagnostic{
			name: "session key", status: "fail", message: "not set",
			fixHint: "Set EMBER_SESSION_KEY or run 'ember config set session_key <key>'",
		}
		fmt.Fprintf(stdout, "  %s session key: not set\n", style.Error.Render(style.IconFail))
		return d
	}
	// Never print the key itself, only where it came from.
	source := "config file"
	if deps.getenv("EMBER_SESSION_KEY") != "" {
		source = "EMBER_SESSION_KEY"
	}
	fmt.Fprintf(stdout, "  %s session key: set (%s)\n", style.Success.Render(style.IconPass), source)
	return diagnostic{name: "session key", status: "pass", message: "set (" + source + ")"}
}

func checkBaseURL(stdout io.Writer, cfg *config.Config) diagnostic {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		d := diagnostic{
			name: "base URL", status: "fail",
			message: fmt.Sprintf("invalid (%s)", cfg.BaseURL),
			fixHint: "Run 'ember config set base_url https://...'",
		}
		fmt.Fprintf(stdout, "  %s base URL: %s\n", style.Error.Render(style.IconFail), d.message)
		return d
	}
	fmt.Fprintf(stdout, "  %s base URL: %s\n", style.Success.Render(style.IconPass), cfg.BaseURL)
	return diagnostic{name: "base URL", status: "pass", message: cfg.BaseURL}
}

func checkSession(ctx context.Context, stdout io.Writer, deps *doctorDeps, cfg *config.Config) diagnostic {
	sess, err := deps.bootstrap(ctx, cfg)
	switch {
	case errors.Is(err, titleapi.ErrAuth):
		d := diagnostic{
			name: "session", status: "fail", message: "endpoint rejected the session key",
			fixHint: "Obtain a fresh sessionKey and update your config",
		}
		fmt.Fprintf(stdout, "  %s session: %s\n", style.Error.Render(style.IconFail), d.message)
		return d
	case errors.Is(err, titleapi.ErrNoOrganizations):
		d := diagnostic{name: "session", status: "fail", message: "account has no organizations"}
		fmt.Fprintf(stdout, "  %s session: %s\n", style.Error.Render(style.IconFail), d.message)
		return d
	case err != nil:
		d := diagnostic{name: "session", status: "warn", message: fmt.Sprintf("endpoint unreachable: %v", err)}
		fmt.Fprintf(stdout, "  %s session: %s\n", style.Warning.Render(style.IconWarn), d.message)
		return d
	}
	fmt.Fprintf(stdout, "  %s session: valid (organization %s)\n", style.Success.Render(style.IconPass), sess.OrgUUID)
	return diagnostic{name: "session", status: "pass", message: "valid (organization " + sess.OrgUUID + ")"}
}
