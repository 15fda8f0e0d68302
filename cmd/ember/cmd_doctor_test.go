package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberlab/ember/internal/config"
	"github.com/emberlab/ember/internal/titleapi"
)

func doctorTestDeps(t *testing.T, cfg *config.Config, env map[string]string) *doctorDeps {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if cfg != nil {
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return &doctorDeps{
		getenv: func(key string) string { return env[key] },
		store:  &fakeStore{cfg: cfg, path: path},
		bootstrap: func(context.Context, *config.Config) (*titleapi.Session, error) {
			return &titleapi.Session{OrgUUID: "org-1"}, nil
		},
	}
}

func TestDoctor_NoConfigFile(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, nil, nil)
	runDoctorChecks(context.Background(), &stdout, deps)
	out := stdout.String()
	if !strings.Contains(out, "config file: not found") {
		t.Errorf("expected missing config file warning, got: %s", out)
	}
	if !strings.Contains(out, "session key: not set") {
		t.Errorf("expected missing session key failure, got: %s", out)
	}
}

func TestDoctor_SessionKeyFromEnv(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{}, map[string]string{"EMBER_SESSION_KEY": "sk-env"})
	runDoctorChecks(context.Background(), &stdout, deps)
	out := stdout.String()
	if !strings.Contains(out, "session key: set (EMBER_SESSION_KEY)") {
		t.Errorf("expected env-sourced session key, got: %s", out)
	}
	if strings.Contains(out, "sk-env") {
		t.Errorf("session key value leaked to output: %s", out)
	}
}

func TestDoctor_SessionKeyFromFile(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{SessionKey: "sk-file"}, nil)
	runDoctorChecks(context.Background(), &stdout, deps)
	if !strings.Contains(stdout.String(), "session key: set (config file)") {
		t.Errorf("expected file-sourced session key, got: %s", stdout.String())
	}
}

func TestDoctor_SessionValid(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{SessionKey: "sk-file"}, nil)
	runDoctorChecks(context.Background(), &stdout, deps)
	if !strings.Contains(stdout.String(), "session: valid (organization org-1)") {
		t.Errorf("expected valid session, got: %s", stdout.String())
	}
}

func TestDoctor_SessionRejected(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{SessionKey: "sk-stale"}, nil)
	deps.bootstrap = func(context.Context, *config.Config) (*titleapi.Session, error) {
		return nil, titleapi.ErrAuth
	}
	runDoctorChecks(context.Background(), &stdout, deps)
	if !strings.Contains(stdout.String(), "session: endpoint rejected the session key") {
		t.Errorf("expected rejected session, got: %s", stdout.String())
	}
}

func TestDoctor_EndpointUnreachable(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{SessionKey: "sk-file"}, nil)
	deps.bootstrap = func(context.Context, *config.Config) (*titleapi.Session, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	runDoctorChecks(context.Background(), &stdout, deps)
	if !strings.Contains(stdout.String(), "session: endpoint unreachable") {
		t.Errorf("expected unreachable warning, got: %s", stdout.String())
	}
}

func TestDoctor_SkipsSessionCheckWithoutKey(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{}, nil)
	deps.bootstrap = func(context.Context, *config.Config) (*titleapi.Session, error) {
		t.Error("bootstrap called without a session key")
		return nil, nil
	}
	runDoctorChecks(context.Background(), &stdout, deps)
}

func TestDoctor_CheckFlagFailsOnIssues(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, nil, nil)
	err := runDoctor(context.Background(), &stdout, deps, true)
	if !errors.Is(err, errExit) {
		t.Errorf("runDoctor(--check) = %v, want errExit", err)
	}
}

func TestDoctor_CheckFlagPassesWhenHealthy(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{SessionKey: "sk-file"}, nil)
	if err := runDoctor(context.Background(), &stdout, deps, true); err != nil {
		t.Errorf("runDoctor(--check) = %v, want nil", err)
	}
}

func TestDoctor_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	deps := doctorTestDeps(t, &config.Config{BaseURL: "::bad::", SessionKey: "sk"}, nil)
	runDoctorChecks(context.Background(), &stdout, deps)
	if !strings.Contains(stdout.String(), "config:") {
		t.Errorf("expected config resolve failure, got: %s", stdout.String())
	}
}
