package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/promptdeck/internal/api"
	apierrors "github.com/diogo/promptdeck/internal/errors"
)

const testTrackURL = "https://cdn.example.com/tracks/piano.mp3"

func newSizedMusic(t *testing.T, client *api.MockClient, clip *fakeClipboard) MusicModel {
	t.Helper()
	m := NewMusicModel(testDeps(client, clip))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(MusicModel)
}

func submitMusic(t *testing.T, m MusicModel, prompt string) MusicModel {
	t.Helper()
	m.input.SetValue(prompt)

	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(MusicModel)
	if !m.loading {
		t.Fatal("model should be loading after enter")
	}

	result, ok := findMsg[musicResultMsg](runCmd(cmd))
	if !ok {
		t.Fatal("submission should produce a musicResultMsg")
	}

	updated, _ = m.Update(result)
	return updated.(MusicModel)
}

func TestMusicModel_EmptyState(t *testing.T) {
	m := newSizedMusic(t, &api.MockClient{}, &fakeClipboard{})

	if !strings.Contains(m.View(), "No music generated.") {
		t.Error("empty page should show the empty-state label")
	}
}

func TestMusicModel_SubmitSuccess(t *testing.T) {
	client := &api.MockClient{MusicVal: testTrackURL}
	m := newSizedMusic(t, client, &fakeClipboard{})

	m.input.SetValue("Piano solo")
	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	m = updated.(MusicModel)
	if !strings.Contains(m.View(), "Composing") {
		t.Error("loading view should show the loader")
	}

	result, ok := findMsg[musicResultMsg](runCmd(cmd))
	if !ok {
		t.Fatal("missing musicResultMsg")
	}
	updated, _ = m.Update(result)
	m = updated.(MusicModel)

	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	track, ok := m.Panel().Track()
	if !ok || track.URL != testTrackURL || track.Prompt != "Piano solo" {
		t.Errorf("track = %+v, ok = %v", track, ok)
	}

	view := m.View()
	if !strings.Contains(view, "Track ready") || !strings.Contains(view, testTrackURL) {
		t.Error("populated view should show the player card")
	}
	if got := client.MusicCalls(); len(got) != 1 || got[0] != "Piano solo" {
		t.Errorf("MusicCalls = %v", got)
	}
}

func TestMusicModel_ReplacesTrack(t *testing.T) {
	client := &api.MockClient{
		MusicFunc: func(ctx context.Context, prompt string) (string, error) {
			return "https://cdn.example.com/" + strings.ReplaceAll(prompt, " ", "-") + ".mp3", nil
		},
	}
	m := newSizedMusic(t, client, &fakeClipboard{})

	m = submitMusic(t, m, "piano solo")
	m = submitMusic(t, m, "lofi beat")

	track, _ := m.Panel().Track()
	if track.URL != "https://cdn.example.com/lofi-beat.mp3" {
		t.Errorf("track URL = %q, want the latest one", track.URL)
	}
	if strings.Contains(m.View(), "piano-solo") {
		t.Error("only the latest track should be shown")
	}
}

func TestMusicModel_SubmitFailure(t *testing.T) {
	client := &api.MockClient{MusicVal: testTrackURL}
	m := newSizedMusic(t, client, &fakeClipboard{})
	m = submitMusic(t, m, "piano solo")

	client.MusicVal = ""
	client.MusicErr = apierrors.NewAPIError(403, "/api/music", "Free trial has expired.")
	m = submitMusic(t, m, "drum loop")

	if !apierrors.IsQuotaError(m.err) {
		t.Errorf("err = %v, want quota error", m.err)
	}
	if m.input.Value() != "drum loop" {
		t.Errorf("input should keep the prompt, got %q", m.input.Value())
	}
	track, ok := m.Panel().Track()
	if !ok || track.URL != testTrackURL {
		t.Error("previous track should survive a failed submission")
	}
	if !strings.Contains(m.View(), "Upgrade to Pro") {
		t.Error("quota failures should show the upgrade hint")
	}
}

func TestMusicModel_EmptyPrompt(t *testing.T) {
	client := &api.MockClient{MusicVal: testTrackURL}
	m := newSizedMusic(t, client, &fakeClipboard{})

	updated, cmd := m.Update(keyMsg(tea.KeyEnter))
	if cmd != nil {
		t.Error("empty prompt should not produce a command")
	}
	if updated.(MusicModel).err != apierrors.ErrEmptyPrompt {
		t.Errorf("err = %v, want ErrEmptyPrompt", updated.(MusicModel).err)
	}
	if len(client.MusicCalls()) != 0 {
		t.Error("no request should be sent")
	}
}

func TestMusicModel_Download(t *testing.T) {
	client := &api.MockClient{MusicVal: testTrackURL, DownloadVal: "/tmp/promptdeck-test/piano.mp3"}
	m := newSizedMusic(t, client, &fakeClipboard{})

	_, cmd := m.Update(keyMsg(tea.KeyCtrlD))
	if cmd != nil {
		t.Error("ctrl+d without a track should do nothing")
	}

	m = submitMusic(t, m, "piano solo")

	updated, cmd := m.Update(keyMsg(tea.KeyCtrlD))
	m = updated.(MusicModel)
	if !m.downloading {
		t.Fatal("model should be downloading")
	}
	if !strings.Contains(m.View(), "Downloading") {
		t.Error("view should show the download spinner")
	}

	result, ok := findMsg[downloadMsg](runCmd(cmd))
	if !ok {
		t.Fatal("missing downloadMsg")
	}
	updated, _ = m.Update(result)
	m = updated.(MusicModel)

	if m.downloading {
		t.Error("download should be finished")
	}
	if !strings.Contains(m.feedback, "Saved to /tmp/promptdeck-test/piano.mp3") {
		t.Errorf("feedback = %q", m.feedback)
	}
	if got := client.DownloadCalls(); len(got) != 1 || got[0] != testTrackURL {
		t.Errorf("DownloadCalls = %v", got)
	}
}

func TestMusicModel_DownloadFailure(t *testing.T) {
	client := &api.MockClient{
		MusicVal:    testTrackURL,
		DownloadErr: apierrors.NewDownloadError(testTrackURL, 404, nil),
	}
	m := newSizedMusic(t, client, &fakeClipboard{})
	m = submitMusic(t, m, "piano solo")

	_, cmd := m.Update(keyMsg(tea.KeyCtrlD))
	result, ok := findMsg[downloadMsg](runCmd(cmd))
	if !ok {
		t.Fatal("missing downloadMsg")
	}
	updated, _ := m.Update(result)
	m = updated.(MusicModel)

	if m.err == nil {
		t.Fatal("download failure should be reported")
	}
	if _, ok := m.Panel().Track(); !ok {
		t.Error("track should be kept after a failed download")
	}
}

func TestMusicModel_CopyURL(t *testing.T) {
	clip := &fakeClipboard{}
	m := newSizedMusic(t, &api.MockClient{MusicVal: testTrackURL}, clip)
	m = submitMusic(t, m, "piano solo")

	_, cmd := m.Update(keyMsg(tea.KeyCtrlY))
	msg, ok := findMsg[clipboardMsg](runCmd(cmd))
	if !ok {
		t.Fatal("ctrl+y should produce a clipboardMsg")
	}
	if clip.last() != testTrackURL {
		t.Errorf("copied %q", clip.last())
	}

	updated, _ := m.Update(msg)
	if updated.(MusicModel).feedback != "Copied track URL to clipboard" {
		t.Errorf("feedback = %q", updated.(MusicModel).feedback)
	}
}

func TestMusicModel_StaleFeedbackClear(t *testing.T) {
	m := newSizedMusic(t, &api.MockClient{MusicVal: testTrackURL}, &fakeClipboard{})
	m = submitMusic(t, m, "piano solo")

	updated, _ := m.Update(clipboardMsg{what: "track URL"})
	m = updated.(MusicModel)
	copySeq := m.feedbackSeq

	updated, _ = m.Update(downloadMsg{path: "/tmp/promptdeck-test/piano.mp3"})
	m = updated.(MusicModel)
	saveSeq := m.feedbackSeq
	if saveSeq == copySeq {
		t.Fatal("each feedback line should get its own sequence number")
	}

	tests := []struct {
		name string
		seq  int
		want string
	}{
		{"clear from the copy", copySeq, "Saved to /tmp/promptdeck-test/piano.mp3"},
		{"clear from the save", saveSeq, ""},
	}

	for _, tt := range tests {
		updated, _ = m.Update(feedbackClearMsg{seq: tt.seq})
		m = updated.(MusicModel)
		if m.feedback != tt.want {
			t.Errorf("%s: feedback = %q, want %q", tt.name, m.feedback, tt.want)
		}
	}
}

func TestMusicModel_PromptSentAsTyped(t *testing.T) {
	client := &api.MockClient{MusicVal: testTrackURL}
	m := newSizedMusic(t, client, &fakeClipboard{})
	m = submitMusic(t, m, "  hello  ")

	if got := client.MusicCalls(); len(got) != 1 || got[0] != "  hello  " {
		t.Errorf("MusicCalls = %q", got)
	}
	if track, _ := m.Panel().Track(); track.Prompt != "  hello  " {
		t.Errorf("track prompt = %q", track.Prompt)
	}
}
