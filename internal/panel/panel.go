// Package panel implements the prompt panel shared by every dashboard page:
// a validated prompt form bound to one backend route, the local result state
// it owns and the submitting flag tied to the outstanding request.
package panel

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
)

// ViewState is what a panel renders below its form
type ViewState int

const (
	ViewEmpty ViewState = iota
	ViewLoading
	ViewPopulated
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewPopulated:
		return "populated"
	default:
		return "empty"
	}
}

// ResolveView maps panel state to exactly one view.
// Loading wins over emptiness, emptiness over content.
func ResolveView(submitting bool, items int) ViewState {
	switch {
	case submitting:
		return ViewLoading
	case items == 0:
		return ViewEmpty
	default:
		return ViewPopulated
	}
}

// ValidatePrompt rejects prompts that are empty or whitespace only.
// Accepted prompts are sent exactly as typed.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return apierrors.ErrEmptyPrompt
	}
	return nil
}

// Attempt describes one finished submission, successful or not
type Attempt struct {
	Tool      models.ToolID
	Prompt    string
	RequestID string
	Duration  time.Duration
	Err       error
}

// Succeeded reports whether the attempt produced a result
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

// Refresher is notified after every submission attempt, whatever its outcome
type Refresher interface {
	Refresh(ctx context.Context, attempt Attempt)
}

// RefreshFunc adapts a function to Refresher
type RefreshFunc func(ctx context.Context, attempt Attempt)

func (f RefreshFunc) Refresh(ctx context.Context, attempt Attempt) {
	f(ctx, attempt)
}

// Option configures a panel
type Option func(*state)

// WithRefresher sets the post-submission side channel
func WithRefresher(r Refresher) Option {
	return func(s *state) {
		s.refresher = r
	}
}

// WithLogger sets the logger used to record failed submissions
func WithLogger(logger *slog.Logger) Option {
	return func(s *state) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// state holds what both panel variants share: the submitting flag and the
// collaborators notified when a submission ends.
type state struct {
	tool      models.ToolID
	refresher Refresher
	logger    *slog.Logger

	mu         sync.RWMutex
	submitting bool
}

func (s *state) init(tool models.ToolID, opts []Option) {
	s.tool = tool
	s.logger = slog.Default()
	for _, opt := range opts {
		opt(s)
	}
}

// begin flips the panel to submitting, rejecting overlapping submissions
func (s *state) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return apierrors.ErrSubmissionInFlight
	}
	s.submitting = true
	return nil
}

// finish returns the panel to idle, logs the outcome and fires the refresher
func (s *state) finish(ctx context.Context, attempt Attempt) {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	if attempt.Err != nil {
		s.logger.Warn("submission failed",
			"tool", string(attempt.Tool),
			"request_id", attempt.RequestID,
			"code", apierrors.GetErrorCode(attempt.Err).String(),
			"status", apierrors.GetHTTPStatus(attempt.Err),
			"duration", attempt.Duration,
			"error", attempt.Err,
		)
	} else {
		s.logger.Debug("submission succeeded",
			"tool", string(attempt.Tool),
			"request_id", attempt.RequestID,
			"duration", attempt.Duration,
		)
	}

	if s.refresher != nil {
		s.refresher.Refresh(ctx, attempt)
	}
}

// IsSubmitting reports whether a request is outstanding
func (s *state) IsSubmitting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting
}

// Tool returns the tool this panel serves
func (s *state) Tool() models.ToolID {
	return s.tool
}
