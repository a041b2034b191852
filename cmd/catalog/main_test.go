package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/catalog/internal/product"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogServer serves n products on /products and a fixed result on
// /products/search.
func catalogServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			fmt.Fprint(w, `{"products":[
				{"id":5,"title":"Product 5","price":5.5,"brand":"Acme","stock":3},
				{"id":6,"title":"Product 6","price":6}
			],"total":100,"skip":4,"limit":2}`)
		case "/products/search":
			fmt.Fprint(w, `{"products":[{"id":1,"title":"iPhone 9","price":549}],"total":1,"skip":0,"limit":1}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

// setup isolates config loading and points the client at baseURL.
// It returns the data dir and the --env-file flag pair every run needs.
func setup(t *testing.T, baseURL string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("CATALOG_API_BASE_URL", baseURL)
	t.Setenv("CATALOG_API_REQUEST_INTERVAL", "0s")
	t.Setenv("CATALOG_DATA_DIR", filepath.Join(dir, "data"))
	return filepath.Join(dir, "data"), []string{"--env-file", filepath.Join(dir, "missing.env")}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPageCommand(t *testing.T) {
	srv, seen := catalogServer(t)
	_, env := setup(t, srv.URL)

	out, err := run(t, append([]string{"page", "--limit", "2", "--skip", "4", "--json=false"}, env...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Product 5")
	assert.Contains(t, out, "$5.5 USD")
	assert.Contains(t, out, "Acme · 3 in stock")
	assert.Contains(t, out, "2 products")
	require.Len(t, *seen, 1)
	assert.Equal(t, "/products?limit=2&skip=4", (*seen)[0])
}

func TestPageCommandJSON(t *testing.T) {
	srv, _ := catalogServer(t)
	_, env := setup(t, srv.URL)

	out, err := run(t, append([]string{"page", "--limit", "2", "--skip", "0", "--json"}, env...)...)
	require.NoError(t, err)

	var products []product.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	require.Len(t, products, 2)
	assert.Equal(t, 6, products[1].ID)
}

func TestPageCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, env := setup(t, srv.URL)

	_, err := run(t, append([]string{"page", "--limit", "2", "--skip", "0", "--json=false"}, env...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, product.ErrFetch))
}

func TestSearchRecordsHistory(t *testing.T) {
	srv, seen := catalogServer(t)
	_, env := setup(t, srv.URL)

	out, err := run(t, append([]string{"search", "iphone", "9", "--json=false", "--no-history=false"}, env...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "iPhone 9")
	assert.Equal(t, "/products/search?q=iphone+9", (*seen)[0])

	_, err = run(t, append([]string{"search", "secret", "--json=false", "--no-history"}, env...)...)
	require.NoError(t, err)

	out, err = run(t, append([]string{"history", "--limit", "10", "--clear=false"}, env...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "iphone 9")
	assert.NotContains(t, out, "secret")

	out, err = run(t, append([]string{"history", "--clear"}, env...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 searches.")

	out, err = run(t, append([]string{"history", "--clear=false"}, env...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No recent searches.")
}

func TestConfigCommand(t *testing.T) {
	dataDir, env := setup(t, "http://localhost:9999")

	out, err := run(t, append([]string{"config"}, env...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "api.base_url=http://localhost:9999")
	assert.Contains(t, out, "browse.page_size=20")
	assert.Contains(t, out, filepath.Join(dataDir, "catalog.db"))
}

func TestEventsCommand(t *testing.T) {
	dataDir, env := setup(t, "http://localhost:9999")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	lines := []string{
		`{"t":"2026-10-15T10:00:00Z","level":"info","kind":"page.start","comp":"ui","gen":1,"limit":20}`,
		`not json`,
		`{"t":"2026-10-15T10:00:01Z","level":"info","kind":"search.start","comp":"ui","gen":2,"query":"phone","qid":"abc123"}`,
		`{"t":"2026-10-15T10:00:02Z","level":"error","kind":"search.error","comp":"ui","gen":2,"err":"boom","qid":"abc123"}`,
	}
	path := filepath.Join(dataDir, "catalog.events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	out, err := run(t, append([]string{"events", "--tail", "10", "--kind", "search", "--level", "", "--json=false", "-f=false"}, env...)...)
	require.NoError(t, err)
	assert.NotContains(t, out, "page.start")
	assert.Contains(t, out, `q="phone"`)
	assert.Contains(t, out, "err=boom")

	out, err = run(t, append([]string{"events", "--tail", "10", "--kind", "", "--level", "error", "--json"}, env...)...)
	require.NoError(t, err)
	assert.Equal(t, lines[3]+"\n", out)
}

func TestEventFilter(t *testing.T) {
	ev := eventRecord{Level: "warn", Kind: "search.error", Comp: "ui", QueryID: "abcdef"}

	tests := []struct {
		name   string
		filter eventFilter
		want   bool
	}{
		{"empty matches", eventFilter{}, true},
		{"kind prefix", eventFilter{Kind: "search"}, true},
		{"other kind", eventFilter{Kind: "page"}, false},
		{"level below", eventFilter{Level: "info"}, true},
		{"level above", eventFilter{Level: "error"}, false},
		{"component", eventFilter{Comp: "client"}, false},
		{"qid prefix", eventFilter{QID: "abc"}, true},
		{"other qid", eventFilter{QID: "xyz"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.match(ev))
		})
	}
}

func TestReadTailLines(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, `{"kind":"page.complete","count":%d}`+"\n", i)
	}
	all := func(eventRecord) bool { return true }

	got, err := readTailLines(strings.NewReader(b.String()), 2, all)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].ev.Count)
	assert.Equal(t, 5, got[1].ev.Count)

	got, err = readTailLines(strings.NewReader(b.String()), 0, all)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFollowStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	input := `{"kind":"page.start"}` + "\n" + `{"kind":"page.comp`
	var got []string
	err := follow(ctx, strings.NewReader(input), func(eventRecord) bool { return true }, func(l parsedLine) {
		got = append(got, l.ev.Kind)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"page.start"}, got, "a partial line is held until it completes")
}

func TestFormatEvent(t *testing.T) {
	ev := eventRecord{
		Time:  time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		Level: "info",
		Kind:  "page.complete",
		Comp:  "ui",
		Gen:   3,
		DurMs: 12.34,
		Limit: 20,
		Skip:  40,
		Count: 20,
	}
	line := formatEvent(ev)
	for _, want := range []string{"09:30:00.000", "INFO", "page.complete", "g3", "(12.3ms)", "limit=20 skip=40", "n=20"} {
		assert.Contains(t, line, want)
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", formatAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", formatAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", formatAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", formatAgo(now.Add(-49*time.Hour), now))
}

func TestPrintProductsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printProducts(&buf, nil, false))
	assert.Equal(t, "No products found!\n", buf.String())

	buf.Reset()
	require.NoError(t, printProducts(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}
