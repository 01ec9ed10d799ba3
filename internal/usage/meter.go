// Package usage counts prompt submissions for the current session.
// It is wired as the panel refresher, so it sees every attempt whether it
// succeeded or not.
package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
	"github.com/diogo/promptdeck/internal/panel"
)

// Counts holds the tallies for one tool
type Counts struct {
	Attempts  int
	Successes int
	Failures  int
	// QuotaHits counts upstream rejections that asked for an upgrade
	QuotaHits int
	Last      time.Time
}

// Snapshot is a point-in-time copy of the meter
type Snapshot struct {
	PerTool map[models.ToolID]Counts
	Total   Counts
}

// Meter implements panel.Refresher
type Meter struct {
	mu      sync.Mutex
	perTool map[models.ToolID]Counts
}

var _ panel.Refresher = (*Meter)(nil)

// NewMeter creates an empty meter
func NewMeter() *Meter {
	return &Meter{perTool: make(map[models.ToolID]Counts)}
}

// Refresh records one submission attempt
func (m *Meter) Refresh(ctx context.Context, attempt panel.Attempt) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.perTool[attempt.Tool]
	c.Attempts++
	c.Last = time.Now()
	if attempt.Succeeded() {
		c.Successes++
	} else {
		c.Failures++
		if apierrors.IsQuotaError(attempt.Err) {
			c.QuotaHits++
		}
	}
	m.perTool[attempt.Tool] = c
}

// Snapshot returns a copy of the current counts
func (m *Meter) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{PerTool: make(map[models.ToolID]Counts, len(m.perTool))}
	for id, c := range m.perTool {
		snap.PerTool[id] = c
		snap.Total.Attempts += c.Attempts
		snap.Total.Successes += c.Successes
		snap.Total.Failures += c.Failures
		snap.Total.QuotaHits += c.QuotaHits
		if c.Last.After(snap.Total.Last) {
			snap.Total.Last = c.Last
		}
	}
	return snap
}

// Summary renders a one-line description for the status bar
func (s Snapshot) Summary() string {
	if s.Total.Attempts == 0 {
		return "no requests yet"
	}
	out := fmt.Sprintf("%d sent · %d ok · %d failed", s.Total.Attempts, s.Total.Successes, s.Total.Failures)
	if s.Total.QuotaHits > 0 {
		out += " · quota reached"
	}
	return out
}
