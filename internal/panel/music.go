package panel

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/promptdeck/internal/api"
	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
)

// MusicGenerator sends one prompt to the music route
type MusicGenerator interface {
	GenerateMusic(ctx context.Context, prompt string) (string, error)
}

// Music is the media variant of the prompt panel. It owns a single result
// slot that each successful submission replaces.
type Music struct {
	state
	client MusicGenerator

	track models.Track
}

// NewMusic creates a music panel with an empty result slot
func NewMusic(client MusicGenerator, opts ...Option) *Music {
	m := &Music{client: client}
	m.init(models.ToolMusic, opts)
	return m
}

// Submit validates the prompt and requests a new track.
// The slot is cleared while the request is outstanding so a stale track is
// never shown as the answer to the new prompt. A failed request puts the
// previous track back.
func (m *Music) Submit(ctx context.Context, prompt string) (track models.Track, err error) {
	if err = ValidatePrompt(prompt); err != nil {
		return models.Track{}, err
	}
	if err = m.begin(); err != nil {
		return models.Track{}, err
	}

	m.mu.Lock()
	previous := m.track
	m.track = models.Track{}
	m.mu.Unlock()

	requestID := uuid.NewString()
	ctx = api.WithRequestID(ctx, requestID)
	start := time.Now()

	defer func() {
		m.mu.Lock()
		if err != nil {
			m.track = previous
		} else {
			m.track = track
		}
		m.mu.Unlock()

		m.finish(ctx, Attempt{
			Tool:      m.tool,
			Prompt:    prompt,
			RequestID: requestID,
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	audio, err := m.client.GenerateMusic(ctx, prompt)
	if err != nil {
		return models.Track{}, err
	}
	audio = strings.TrimSpace(audio)
	if audio == "" {
		err = apierrors.NewNoContentError(models.PathMusic, models.FieldMusicAudio)
		return models.Track{}, err
	}

	return models.Track{
		Prompt:      prompt,
		URL:         audio,
		GeneratedAt: time.Now(),
	}, nil
}

// Track returns the current result, if any
func (m *Music) Track() (models.Track, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.track, !m.track.IsZero()
}

// View resolves which of the three views the panel shows
func (m *Music) View() ViewState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	if !m.track.IsZero() {
		n = 1
	}
	return ResolveView(m.submitting, n)
}
