package tui

import (
	"context"
	"strings"
	"testing"

	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/render"
)

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"quota", apierrors.NewAPIError(403, "/api/conversation", "expired"), "Upgrade to Pro"},
		{"auth", apierrors.NewAPIError(401, "/api/conversation", "unauthorized"), "Sign in"},
		{"rate limit", apierrors.NewAPIError(429, "/api/music", "slow down"), "Too many requests"},
		{"timeout", apierrors.NewTimeoutError("/api/music"), "timed out"},
		{"network", apierrors.NewNetworkError("/api/music", context.Canceled), "reachable"},
		{"no content", apierrors.NewNoContentError("/api/music", "audio"), "without a usable result"},
		{"download", apierrors.NewDownloadError("https://cdn.example.com/a.mp3", 404, nil), "Download failed"},
		{"upstream", apierrors.NewAPIError(500, "/api/music", "boom"), ""},
		{"empty prompt", apierrors.ErrEmptyPrompt, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorHint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("ErrorHint() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ErrorHint() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}

	out := FormatError(apierrors.NewAPIError(403, "/api/conversation", "Free trial has expired."))
	for _, want := range []string{"Error:", "HTTP Status: 403", "quota", "Upgrade to Pro"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatError() missing %q in:\n%s", want, out)
		}
	}

	plain := FormatError(apierrors.ErrEmptyPrompt)
	if strings.Contains(plain, "HTTP Status") {
		t.Error("sentinel errors have no status line")
	}
	if !strings.Contains(plain, "prompt is required") {
		t.Errorf("FormatError() = %q", plain)
	}
}

func TestApplyTheme(t *testing.T) {
	t.Cleanup(func() { ApplyTheme(render.TokyoNightTheme) })

	ApplyTheme(render.LightTheme)
	if ActiveTheme().Name != render.LightTheme.Name {
		t.Errorf("ActiveTheme() = %q", ActiveTheme().Name)
	}
	if colorPrimary != render.LightTheme.Primary {
		t.Error("colors should follow the applied theme")
	}
}

func TestRenderShortcuts(t *testing.T) {
	bar := renderShortcuts(80, []shortcut{{"Enter", "Send"}, {"Esc", "Quit"}})
	for _, want := range []string{"Enter", "Send", "Esc", "Quit"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}
