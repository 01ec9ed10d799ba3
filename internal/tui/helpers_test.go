package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/promptdeck/internal/api"
	"github.com/diogo/promptdeck/internal/render"
	"github.com/diogo/promptdeck/internal/usage"
)

// fakeClipboard records what was copied
type fakeClipboard struct {
	mu     sync.Mutex
	copied []string
	err    error
}

func (f *fakeClipboard) write(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copied = append(f.copied, s)
	return f.err
}

func (f *fakeClipboard) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.copied) == 0 {
		return ""
	}
	return f.copied[len(f.copied)-1]
}

func testDeps(client *api.MockClient, clip *fakeClipboard) Deps {
	return Deps{
		Client:      client,
		Meter:       usage.NewMeter(),
		Render:      render.DefaultOptions().WithStyle(render.StyleNoTTY),
		DownloadDir: "/tmp/promptdeck-test",
		Logger:      nil,
		Clipboard:   clip.write,
	}
}

// runCmd executes cmd, expanding batches, and collects the messages that
// arrive within a short window. Long timers are left behind.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msgs := make(chan tea.Msg, 64)
	var exec func(c tea.Cmd)
	exec = func(c tea.Cmd) {
		if c == nil {
			return
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, bc := range batch {
				go exec(bc)
			}
			return
		}
		msgs <- msg
	}
	go exec(cmd)

	var out []tea.Msg
	timeout := time.After(300 * time.Millisecond)
	for {
		select {
		case m := <-msgs:
			out = append(out, m)
		case <-timeout:
			return out
		}
	}
}

// findMsg returns the first message of type T
func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
