package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emberlab/ember/internal/config"
)

func newConfigCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set ember configuration",
		Long: `View or modify ember configuration settings.

Use 'ember config get <key>' to read a setting.
Use 'ember config set <key> <value>' to change a setting.

Supported keys:
  base_url         Chat provider deployment URL
  session_key      sessionKey cookie value (EMBER_SESSION_KEY overrides)
  platform         anthropic-client-platform header value
  accept_language  accept-language header value
  timeout_seconds  Per-request timeout in seconds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newConfigGetCmd(stdout, stderr),
		newConfigSetCmd(stdout, stderr),
		newConfigPathCmd(stdout, stderr),
	)

	return cmd
}

func newConfigGetCmd(stdout, _ io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigGet(stdout, config.NewStore(), args[0])
		},
	}
}

func newConfigSetCmd(stdout, _ io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(stdout, config.NewStore(), args[0], args[1])
		},
	}
}

func newConfigPathCmd(stdout, _ io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintln(stdout, config.NewStore().Path())
			return nil
		},
	}
}

const supportedKeys = "base_url, session_key, platform, accept_language, timeout_seconds"

// validConfigKeys lists the keys that can be read/written via ember config.
var validConfigKeys = map[string]bool{
	"base_url":        true,
	"session_key":     true,
	"platform":        true,
	"accept_language": true,
	"timeout_seconds": true,
}

func runConfigGet(stdout io.Writer, store config.Store, key string) error {
	if !validConfigKeys[key] {
		return fmt.Errorf("unknown config key %q (supported: %s)", key, supportedKeys)
	}

	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading ember config: %w", err)
	}

	switch key {
	case "base_url":
		fmt.Fprintln(stdout, orDefault(cfg.BaseURL, config.DefaultBaseURL))
	case "session_key":
		// The raw secret never goes to stdout.
		if cfg.SessionKey == "" {
			fmt.Fprintln(stdout, "(not set)")
		} else {
			fmt.Fprintln(stdout, "(set)")
		}
	case "platform":
		fmt.Fprintln(stdout, orDefault(cfg.Platform, config.DefaultPlatform))
	case "accept_language":
		fmt.Fprintln(stdout, orDefault(cfg.AcceptLanguage, config.DefaultAcceptLanguage))
	case "timeout_seconds":
		if cfg.TimeoutSeconds <= 0 {
			fmt.Fprintln(stdout, config.DefaultTimeoutSeconds)
		} else {
			fmt.Fprintln(stdout, cfg.TimeoutSeconds)
		}
	}
	return nil
}

func runConfigSet(stdout io.Writer, store config.Store, key, value string) error {
	if !validConfigKeys[key] {
		return fmt.Errorf("unknown config key %q (supported: %s)", key, supportedKeys)
	}

	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading ember config: %w", err)
	}

	switch key {
	case "base_url":
		if err := validateBaseURL(value); err != nil {
			return err
		}
		cfg.BaseURL = value
	case "session_key":
		cfg.SessionKey = value
	case "platform":
		cfg.Platform = value
	case "accept_language":
		cfg.AcceptLanguage = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid timeout_seconds %q: want a positive integer", value)
		}
		cfg.TimeoutSeconds = n
	}

	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("saving ember config: %w", err)
	}

	if key == "session_key" {
		fmt.Fprintf(stdout, "%s = (set)\n", key)
	} else {
		fmt.Fprintf(stdout, "%s = %s\n", key, value)
	}
	return nil
}

func validateBaseURL(value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: expected an absolute URL like https://example.com", value)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
