package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abelbrown/catalog/internal/otel"
	"github.com/abelbrown/catalog/internal/product"
	"github.com/abelbrown/catalog/internal/store"
	"github.com/abelbrown/catalog/internal/ui/card"
	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
)

// newClient builds a products client from cfg. events may be nil.
func newClient(events *otel.Logger) *product.Client {
	return product.NewClient(cfg.API.BaseURL,
		product.WithTimeout(cfg.API.Timeout),
		product.WithRateLimit(cfg.API.RequestInterval, cfg.API.Burst),
		product.WithEvents(events),
	)
}

// openStore opens the history database.
func openStore() (*store.Store, error) {
	return store.Open(cfg.DBPath())
}

// openEventLog appends JSONL events to path. The returned func flushes the
// logger and then closes the file.
func openEventLog(path string) (*otel.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	l := otel.NewLogger(f)
	return l, func() {
		l.Close()
		f.Close()
	}, nil
}

// printProducts writes products as an aligned table, or as indented JSON.
func printProducts(w io.Writer, products []product.Product, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if products == nil {
			products = []product.Product{}
		}
		return enc.Encode(products)
	}

	if len(products) == 0 {
		fmt.Fprintln(w, "No products found!")
		return nil
	}
	for _, p := range products {
		title := runewidth.FillRight(runewidth.Truncate(p.Title, 40, "..."), 40)
		fmt.Fprintf(w, "%5d  %s  %14s  %s\n", p.ID, title, p.PriceLabel(), card.Detail(p))
	}
	fmt.Fprintf(w, "\n%d products\n", len(products))
	return nil
}

// formatAgo formats the time since t compactly.
func formatAgo(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
