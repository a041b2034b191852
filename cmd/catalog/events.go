package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// eventRecord mirrors otel.Event for decoding. It is kept separate so the
// viewer still reads logs written by older builds.
type eventRecord struct {
	Time      time.Time `json:"t"`
	Level     string    `json:"level"`
	Kind      string    `json:"kind"`
	Comp      string    `json:"comp"`
	SessionID string    `json:"session_id"`
	QueryID   string    `json:"qid"`
	Gen       uint64    `json:"gen"`
	DurMs     float64   `json:"dur_ms"`
	Count     int       `json:"count"`
	Limit     int       `json:"limit"`
	Skip      int       `json:"skip"`
	Query     string    `json:"query"`
	Err       string    `json:"err"`
	Msg       string    `json:"msg"`
}

// eventFilter selects events. Zero fields match everything.
type eventFilter struct {
	Kind  string // prefix
	Level string // minimum
	Comp  string
	QID   string
}

var (
	eventsTail   int
	eventsFollow bool
	eventsFilter eventFilter
	eventsJSON   bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the JSONL event log",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	f := eventsCmd.Flags()
	f.IntVar(&eventsTail, "tail", 50, "Number of recent lines to show")
	f.BoolVarP(&eventsFollow, "follow", "f", false, "Keep printing new events (like tail -f)")
	f.StringVar(&eventsFilter.Kind, "kind", "", "Filter by event kind prefix (e.g. 'search')")
	f.StringVar(&eventsFilter.Level, "level", "", "Minimum level: debug, info, warn, error")
	f.StringVar(&eventsFilter.Comp, "comp", "", "Filter by component name")
	f.StringVar(&eventsFilter.QID, "qid", "", "Filter by query ID")
	f.BoolVar(&eventsJSON, "json", false, "Output raw JSON lines")
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.Kind != "" && !strings.HasPrefix(ev.Kind, f.Kind) {
		return false
	}
	if f.Level != "" && levelRank(ev.Level) < levelRank(f.Level) {
		return false
	}
	if f.Comp != "" && ev.Comp != f.Comp {
		return false
	}
	if f.QID != "" && !strings.HasPrefix(ev.QueryID, f.QID) {
		return false
	}
	return true
}

func formatEvent(ev eventRecord) string {
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-6s] %-18s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Gen > 0 {
		parts = append(parts, fmt.Sprintf("g%d", ev.Gen))
	}
	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d skip=%d", ev.Limit, ev.Skip))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", ev.Query))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

func runEvents(cmd *cobra.Command, args []string) error {
	logPath := cfg.EventsPath()
	f, err := os.Open(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("event log not found at %s: run catalog first to generate events", logPath)
		}
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	show := func(l parsedLine) {
		if eventsJSON {
			fmt.Fprintln(out, string(l.raw))
			return
		}
		fmt.Fprintln(out, formatEvent(l.ev))
	}

	lines, err := readTailLines(f, eventsTail, eventsFilter.match)
	if err != nil {
		return err
	}
	for _, l := range lines {
		show(l)
	}
	if !eventsFollow {
		return nil
	}
	return follow(cmd.Context(), f, eventsFilter.match, show)
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines returns the last n lines of r that decode and match.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) ([]parsedLine, error) {
	if n <= 0 {
		return nil, nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	ring := make([]parsedLine, 0, n)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil || !match(ev) {
			continue
		}
		// scanner reuses its buffer
		line := parsedLine{ev: ev, raw: append([]byte(nil), raw...)}
		if len(ring) < n {
			ring = append(ring, line)
		} else {
			copy(ring, ring[1:])
			ring[n-1] = line
		}
	}
	return ring, scanner.Err()
}

// follow polls r for appended lines until ctx is done.
func follow(ctx context.Context, r io.Reader, match func(eventRecord) bool, show func(parsedLine)) error {
	reader := bufio.NewReader(r)
	var pending []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		line := trimLine(pending)
		pending = nil
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if match(ev) {
			show(parsedLine{ev: ev, raw: line})
		}
	}
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	switch {
	case ms >= 100:
		return 0
	case ms >= 1:
		return 1
	default:
		return 2
	}
}
