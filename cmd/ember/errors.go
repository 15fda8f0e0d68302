package main

import (
	"errors"
	"fmt"

	"github.com/emberlab/ember/internal/config"
	"github.com/emberlab/ember/internal/titleapi"
)

// HintedError wraps an error with a user-facing recovery hint.
type HintedError struct {
	Err  error
	Hint string
}

func (h *HintedError) Error() string { return h.Err.Error() }
func (h *HintedError) Unwrap() error { return h.Err }

// hintWrap wraps a setup or bootstrap error with an appropriate recovery hint.
func hintWrap(err error) error {
	if err == nil {
		return nil
	}
	var hint string
	switch {
	case errors.Is(err, config.ErrNoSessionKey):
		hint = "Set EMBER_SESSION_KEY (or put it in a .env file) to your sessionKey cookie value."
	case errors.Is(err, titleapi.ErrAuth):
		hint = "Your session key was rejected. Grab a fresh sessionKey cookie from a logged-in browser session."
	case errors.Is(err, titleapi.ErrNoOrganizations):
		hint = "The account behind this session key has no organizations; nothing to talk to."
	default:
		hint = "Run 'ember doctor' to check your setup."
	}
	return &HintedError{Err: fmt.Errorf("connecting to remote: %w", err), Hint: hint}
}
