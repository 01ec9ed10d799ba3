package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/promptdeck/internal/api"
	"github.com/diogo/promptdeck/internal/models"
)

func newSizedDashboard(t *testing.T, client *api.MockClient) DashboardModel {
	t.Helper()
	m := NewDashboardModel(testDeps(client, &fakeClipboard{}))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(DashboardModel)
}

func TestDashboardModel_Picker(t *testing.T) {
	m := newSizedDashboard(t, &api.MockClient{})

	if m.Active() != "" {
		t.Errorf("Active() = %q, want the picker", m.Active())
	}

	view := m.View()
	for _, tool := range models.Tools() {
		if !strings.Contains(view, tool.Title) {
			t.Errorf("picker should list %q", tool.Title)
		}
	}
	if !strings.Contains(view, "no requests yet") {
		t.Error("picker should show the usage line")
	}
}

func TestDashboardModel_Navigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		wantCursor int
	}{
		{"down", []tea.KeyMsg{keyMsg(tea.KeyDown)}, 1},
		{"down wraps", []tea.KeyMsg{keyMsg(tea.KeyDown), keyMsg(tea.KeyDown)}, 0},
		{"up wraps", []tea.KeyMsg{keyMsg(tea.KeyUp)}, 1},
		{"j", []tea.KeyMsg{runeMsg("j")}, 1},
		{"tab", []tea.KeyMsg{keyMsg(tea.KeyTab)}, 1},
		{"k after j", []tea.KeyMsg{runeMsg("j"), runeMsg("k")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newSizedDashboard(t, &api.MockClient{})
			for _, k := range tt.keys {
				updated, _ := m.Update(k)
				m = updated.(DashboardModel)
			}
			if m.cursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.wantCursor)
			}
			if m.Active() != "" {
				t.Error("navigation should not open a page")
			}
		})
	}
}

func TestDashboardModel_OpenAndBack(t *testing.T) {
	m := newSizedDashboard(t, &api.MockClient{})

	updated, _ := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(DashboardModel)
	if m.Active() != models.ToolConversation {
		t.Fatalf("Active() = %q, want conversation", m.Active())
	}
	if !strings.Contains(m.View(), "No conversation started.") {
		t.Error("open page should be rendered")
	}

	updated, cmd := m.Update(keyMsg(tea.KeyEsc))
	m = updated.(DashboardModel)
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(DashboardModel)
	if m.Active() != "" {
		t.Errorf("Active() = %q, want the picker after going back", m.Active())
	}
}

func TestDashboardModel_DigitJump(t *testing.T) {
	m := newSizedDashboard(t, &api.MockClient{})

	updated, _ := m.Update(runeMsg("2"))
	m = updated.(DashboardModel)
	if m.Active() != models.ToolMusic {
		t.Errorf("Active() = %q, want music", m.Active())
	}

	m = newSizedDashboard(t, &api.MockClient{})
	updated, _ = m.Update(runeMsg("9"))
	if updated.(DashboardModel).Active() != "" {
		t.Error("out of range digit should be ignored")
	}
}

func TestDashboardModel_Open(t *testing.T) {
	m := NewDashboardModel(testDeps(&api.MockClient{}, &fakeClipboard{})).Open(models.ToolMusic)
	if m.Active() != models.ToolMusic || m.cursor != 1 {
		t.Errorf("Open(music): active = %q, cursor = %d", m.Active(), m.cursor)
	}
}

func TestDashboardModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeMsg("q"), keyMsg(tea.KeyEsc), keyMsg(tea.KeyCtrlC)} {
		m := newSizedDashboard(t, &api.MockClient{})
		_, cmd := m.Update(k)
		if !isQuit(cmd) {
			t.Errorf("%q on the picker should quit", k.String())
		}
	}
}

func TestDashboardModel_ResultRoutedAfterLeaving(t *testing.T) {
	client := &api.MockClient{ConverseVal: "Ice forms when water freezes."}
	m := newSizedDashboard(t, client)

	updated, _ := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(DashboardModel)

	m.conversation.input.SetValue("How is ice formed?")
	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(DashboardModel)

	result, ok := findMsg[conversationResultMsg](runCmd(cmd))
	if !ok {
		t.Fatal("missing conversationResultMsg")
	}

	// leave the page before the reply lands
	updated, _ = m.Update(backMsg{})
	m = updated.(DashboardModel)
	updated, _ = m.Update(result)
	m = updated.(DashboardModel)

	if m.conversation.Panel().Len() != 2 {
		t.Errorf("conversation history = %d, want 2", m.conversation.Panel().Len())
	}
	if m.conversation.loading {
		t.Error("conversation page should be idle")
	}
	if !strings.Contains(m.View(), "(2 messages)") {
		t.Error("tool card should show the message count")
	}
	if !strings.Contains(m.View(), "1 sent") {
		t.Error("usage line should count the request")
	}
}

func TestDashboardModel_PagesKeepState(t *testing.T) {
	client := &api.MockClient{MusicVal: testTrackURL}
	m := newSizedDashboard(t, client).Open(models.ToolMusic)

	m.music.input.SetValue("piano solo")
	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(DashboardModel)
	result, ok := findMsg[musicResultMsg](runCmd(cmd))
	if !ok {
		t.Fatal("missing musicResultMsg")
	}
	updated, _ = m.Update(result)
	m = updated.(DashboardModel)

	updated, _ = m.Update(backMsg{})
	m = updated.(DashboardModel)
	if !strings.Contains(m.View(), "(track ready)") {
		t.Error("music card should show the ready track")
	}

	m = m.Open(models.ToolMusic)
	if !strings.Contains(m.View(), testTrackURL) {
		t.Error("reopened music page should still show the track")
	}
}

// tickTools runs cmd and returns the tools of the animation ticks it produced
func tickTools(cmd tea.Cmd) []models.ToolID {
	var tools []models.ToolID
	for _, msg := range runCmd(cmd) {
		if tick, ok := msg.(animationTickMsg); ok {
			tools = append(tools, tick.tool)
		}
	}
	return tools
}

func TestDashboardModel_AnimationTicksStayPerPage(t *testing.T) {
	m := newSizedDashboard(t, &api.MockClient{})
	m.conversation.loading = true
	m.music.loading = true

	pending := []models.ToolID{models.ToolConversation, models.ToolMusic}
	for round := 1; round <= 3; round++ {
		var cmds []tea.Cmd
		for _, tool := range pending {
			updated, cmd := m.Update(animationTickMsg{tool: tool})
			m = updated.(DashboardModel)
			cmds = append(cmds, cmd)
		}

		pending = tickTools(tea.Batch(cmds...))
		if len(pending) != 2 {
			t.Fatalf("round %d: %d ticks scheduled, want 2", round, len(pending))
		}
		if pending[0] == pending[1] {
			t.Errorf("round %d: both ticks belong to %s", round, pending[0])
		}
		if m.conversation.frame != round || m.music.frame != round {
			t.Errorf("round %d: frames = %d/%d, want %d each",
				round, m.conversation.frame, m.music.frame, round)
		}
	}
}

func TestDashboardModel_AnimationTickForIdlePage(t *testing.T) {
	m := newSizedDashboard(t, &api.MockClient{})
	m.conversation.loading = true

	updated, cmd := m.Update(animationTickMsg{tool: models.ToolMusic})
	m = updated.(DashboardModel)

	if got := tickTools(cmd); len(got) != 0 {
		t.Errorf("idle page rescheduled %v", got)
	}
	if m.conversation.frame != 0 || m.music.frame != 0 {
		t.Errorf("frames = %d/%d, want 0/0", m.conversation.frame, m.music.frame)
	}
}
