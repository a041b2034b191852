package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/catalog/internal/otel"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDebugOverlayNilRing(t *testing.T) {
	if got := debugOverlay(nil, 80, 24); got != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", got)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	now := time.Now()
	ring.Push(otel.Event{Kind: otel.KindPageStart, Time: now})
	ring.Push(otel.Event{Kind: otel.KindPageComplete, Time: now})
	ring.Push(otel.Event{Kind: otel.KindPageStart, Time: now})
	ring.Push(otel.Event{Kind: otel.KindPageError, Time: now})
	ring.Push(otel.Event{Kind: otel.KindSearchStart, Time: now})
	ring.Push(otel.Event{Kind: otel.KindSearchStale, Time: now})

	result := debugOverlay(ring, 120, 40)

	if !strings.Contains(result, "Requests") {
		t.Error("overlay should contain 'Requests' header")
	}
	if !strings.Contains(result, "2 started, 1 complete, 1 errors") {
		t.Errorf("overlay should show page stats, got:\n%s", result)
	}
	if !strings.Contains(result, "1 stale") {
		t.Errorf("overlay should show stale searches, got:\n%s", result)
	}
	if !strings.Contains(result, "6 / 64 events") {
		t.Errorf("overlay should show buffer stats, got:\n%s", result)
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindSearchStart, Time: time.Now(), Query: "phone", Gen: 4})
	ring.Push(otel.Event{Kind: otel.KindPageError, Time: time.Now(), Err: "timeout"})
	ring.Push(otel.Event{Kind: otel.KindSearchComplete, Time: time.Now(), QueryID: "abcdef1234567890", Count: 4})

	result := debugOverlay(ring, 120, 40)

	for _, want := range []string{"Recent Events", `q="phone"`, "g4", "ERR:timeout", "qid:abcdef12", "n=4"} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay should contain %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindPageStart, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 10)
	if result == "" {
		t.Fatal("overlay should still render with small height")
	}
	// 6 content lines plus border and padding
	if lines := strings.Count(result, "\n") + 1; lines > 10 {
		t.Errorf("overlay should be truncated, got %d lines", lines)
	}
}

func TestDebugToggle(t *testing.T) {
	app := NewAppWithConfig(AppConfig{
		Obs: ObsConfig{Ring: otel.NewRingBuffer(16)},
	})
	app = update(t, app, tea.WindowSizeMsg{Width: 80, Height: 24})

	if app.debugVisible {
		t.Error("debug should be hidden initially")
	}

	app = update(t, app, runeKey('?'))
	if !app.debugVisible {
		t.Error("? should show debug overlay")
	}
	if view := app.View(); !strings.Contains(view, "[DEBUG]") {
		t.Errorf("debug view should contain '[DEBUG]', got:\n%s", view)
	}

	app = update(t, app, runeKey('?'))
	if app.debugVisible {
		t.Error("second ? should hide debug overlay")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{-5 * time.Second, "0ms"},
		{0, "0ms"},
		{50 * time.Millisecond, "50ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.5s"},
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "2m"},
		{5 * time.Minute, "5m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.dur); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
}
