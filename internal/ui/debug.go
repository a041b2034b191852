package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/catalog/internal/otel"
	"github.com/mattn/go-runewidth"
)

// debugPanelChrome is the number of lines DebugPanel's border and vertical
// padding take. Keep in sync with the style.
const debugPanelChrome = 4

// debugOverlay renders request counters and the most recent events.
// Returns "" when there is no ring.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Requests"))
	lines = append(lines, fmt.Sprintf("  Pages:      %d started, %d complete, %d errors",
		stats[otel.KindPageStart], stats[otel.KindPageComplete], stats[otel.KindPageError]))
	lines = append(lines, fmt.Sprintf("  Searches:   %d typed, %d started, %d complete, %d errors, %d stale",
		stats[otel.KindSearchDebounce], stats[otel.KindSearchStart], stats[otel.KindSearchComplete],
		stats[otel.KindSearchError], stats[otel.KindSearchStale]))
	lines = append(lines, fmt.Sprintf("  HTTP:       %d errors", stats[otel.KindFetchError]))
	lines = append(lines, fmt.Sprintf("  Sentinel:   %d fired", stats[otel.KindSentinelVisible]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Gen > 0 {
			line += fmt.Sprintf("  g%d", e.Gen)
		}
		if e.Query != "" {
			line += fmt.Sprintf("  q=%q", runewidth.Truncate(e.Query, 20, "…"))
		}
		if e.Count > 0 {
			line += fmt.Sprintf("  n=%d", e.Count)
		}
		if e.Msg != "" {
			line += "  " + runewidth.Truncate(e.Msg, 40, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		if e.QueryID != "" {
			qid := e.QueryID
			if len(qid) > 8 {
				qid = qid[:8]
			}
			line += "  qid:" + qid
		}
		lines = append(lines, line)
	}

	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := max(min(96, width-4), 20)
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration compactly. Negative durations (clock skew)
// read as "0ms".
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func debugStatusBar(width int) string {
	hint := StatusBarKey.Render("?") + StatusBarText.Render(":close")
	return StatusBar.Width(max(width, 1)).Render("  [DEBUG]  " + hint)
}
