// Package ui provides the Bubble Tea TUI for catalog.
package ui

import (
	"time"

	"github.com/abelbrown/catalog/internal/browse"
)

// FetchResult is sent when a page or search request completes.
type FetchResult struct {
	Result browse.Result
	Dur    time.Duration
}

// HistoryLoaded is sent when recent searches are read from the store.
type HistoryLoaded struct {
	Queries []string
	Err     error
}

// SearchRecorded is sent after a successful search has been written to
// history.
type SearchRecorded struct {
	Query string
	Err   error
}

// mountMsg starts the first page load. Init cannot mutate the model, so
// the work happens when this arrives in Update.
type mountMsg struct{}

// debounceFiredMsg is delivered when the quiet period for seq elapses.
type debounceFiredMsg struct {
	seq uint64
}

// scrollFrameMsg advances the scroll-to-top animation by one frame.
type scrollFrameMsg struct{}
