// Package oneshot implements the burn-after-reading inference cycle: create
// a throwaway remote conversation, request exactly one title against it, and
// always attempt to delete it afterward.
package oneshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ConversationAPI is the remote surface the runner needs. Satisfied by
// titleapi.SessionClient; faked in tests.
type ConversationAPI interface {
	CreateConversation(ctx context.Context, convID string) error
	GenerateTitle(ctx context.Context, convID, content string, recentTitles []string) (string, error)
	DeleteConversation(ctx context.Context, convID string) error
}

// releaseTimeout bounds the deferred delete attempt. The delete runs on a
// context detached from the cycle's, so a cancelled cycle still cleans up.
const releaseTimeout = 15 * time.Second

// Result is the outcome of one inference cycle. Callers only get the binary
// present/absent outcome; finer failure detail goes to the logger.
type Result struct {
	// Title is the generated title. Empty when OK is false.
	Title string

	// OK reports whether the remote returned a usable title.
	OK bool

	// ConversationID is the ephemeral conversation the cycle used.
	ConversationID string
}

// Runner executes inference cycles against a bootstrapped session.
type Runner struct {
	api   ConversationAPI
	log   *slog.Logger
	newID func() string
}

// NewRunner creates a Runner. log may be nil.
func NewRunner(api ConversationAPI, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		api:   api,
		log:   log,
		newID: uuid.NewString,
	}
}

// Run performs one acquire → use → release cycle with the packaged content.
//
// A create failure aborts the cycle and is returned as an error; nothing was
// committed remotely, so no delete is attempted. Once creation succeeds the
// delete attempt is unconditional: it runs whether the title call succeeds,
// returns nothing, or fails, and its own failure is logged but never
// surfaced. Title-call failures are converted to an absent result, not an
// error. Each cycle uses a fresh conversation id; ids are never reused.
func (r *Runner) Run(ctx context.Context, content string) (*Result, error) {
	convID := r.newID()
	log := r.log.With(slog.String("conversation_id", convID))

	if err := r.api.CreateConversation(ctx, convID); err != nil {
		return nil, fmt.Errorf("acquiring ephemeral conversation: %w", err)
	}
	defer r.release(ctx, convID, log)

	title, err := r.api.GenerateTitle(ctx, convID, content, nil)
	if err != nil {
		log.Warn("title request failed", slog.String("error", err.Error()))
		return &Result{ConversationID: convID}, nil
	}
	if title == "" {
		log.Debug("title response was empty")
		return &Result{ConversationID: convID}, nil
	}

	log.Debug("title generated", slog.String("title", title))
	return &Result{Title: title, OK: true, ConversationID: convID}, nil
}

// release attempts the conversation delete exactly once. It deliberately
// detaches from the cycle context so cancellation mid-cycle cannot skip the
// cleanup, and it never returns an error.
func (r *Runner) release(ctx context.Context, convID string, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := r.api.DeleteConversation(ctx, convID); err != nil {
		log.Warn("failed to delete ephemeral conversation", slog.String("error", err.Error()))
	}
}
