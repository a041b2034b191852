// Package browse holds the catalog list state: paging cursor, search mode,
// debounce tokens and the generation counter that makes late results inert.
//
// State is not safe for concurrent use. The UI owns it and mutates it only
// from its Update loop; fetches run elsewhere and come back as Results.
package browse

import (
	"strings"
	"time"

	"github.com/abelbrown/catalog/internal/product"
)

const (
	// DefaultPageSize is the number of products requested per page.
	DefaultPageSize = 20

	// DefaultDebounceDelay is the quiet period after the last keystroke
	// before a search is issued.
	DefaultDebounceDelay = 500 * time.Millisecond
)

// Mode is browsing (paged listing) or searching (single-shot results).
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeSearching
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// RequestKind says which endpoint a Request targets.
type RequestKind int

const (
	RequestPage RequestKind = iota
	RequestSearch
)

func (k RequestKind) String() string {
	if k == RequestSearch {
		return "search"
	}
	return "page"
}

// Request describes one fetch the caller should perform. Gen ties the
// eventual Result back to the state that asked for it.
type Request struct {
	Kind  RequestKind
	Limit int
	Skip  int
	Query string
	Gen   uint64
}

// Result is the completion of a Request.
type Result struct {
	Req      Request
	Products []product.Product
	Err      error
}

// Outcome reports what Apply did with a Result.
type Outcome int

const (
	// OutcomeStale means the result belonged to a superseded generation
	// and was discarded without touching state.
	OutcomeStale Outcome = iota
	OutcomeAppended
	OutcomeReplaced
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeAppended:
		return "appended"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the product list state machine.
type State struct {
	mode     Mode
	query    string // as typed, shown in the search box
	active   string // query the current generation searched for
	pageSize int
	cursor   int
	hasMore  bool
	loading  bool
	products []product.Product

	gen         uint64
	debounceSeq uint64

	fetched bool  // a fetch succeeded in this generation
	err     error // last failure in this generation
}

// New returns an idle State. Call Start to issue the first page request.
func New(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &State{
		pageSize: pageSize,
		hasMore:  true,
	}
}

// Start resets to browsing mode from scratch and returns the first page
// request. It begins a new generation, so anything still in flight is
// ignored when it lands.
func (s *State) Start() Request {
	s.gen++
	s.mode = ModeBrowsing
	s.active = ""
	s.products = nil
	s.cursor = 0
	s.hasMore = true
	s.fetched = false
	s.err = nil
	s.loading = true
	return s.pageRequest()
}

// LoadNext returns the next page request, or false when a fetch is already
// in flight, the listing is exhausted, or the list holds search results.
func (s *State) LoadNext() (Request, bool) {
	if s.loading || !s.hasMore || s.mode != ModeBrowsing {
		return Request{}, false
	}
	s.loading = true
	return s.pageRequest(), true
}

func (s *State) pageRequest() Request {
	return Request{Kind: RequestPage, Limit: s.pageSize, Skip: s.cursor, Gen: s.gen}
}

// Keystroke records the query as typed and returns a fresh debounce token.
// Every earlier token stops being honoured by DebounceFired.
func (s *State) Keystroke(q string) uint64 {
	s.query = q
	s.debounceSeq++
	return s.debounceSeq
}

// DebounceFired acts on the query once the quiet period for token has
// elapsed. Tokens other than the newest return false.
//
// A non-blank query starts a search generation. A blank one goes back to
// browsing from scratch, exactly like Start.
func (s *State) DebounceFired(token uint64) (Request, bool) {
	if token != s.debounceSeq {
		return Request{}, false
	}
	q := strings.TrimSpace(s.query)
	if q == "" {
		s.query = ""
		return s.Start(), true
	}

	s.gen++
	s.mode = ModeSearching
	s.active = s.query
	s.fetched = false
	s.err = nil
	s.loading = true
	return Request{Kind: RequestSearch, Query: s.query, Gen: s.gen}, true
}

// Apply folds a fetch result into the state.
//
// Results from an older generation are dropped. A failure clears loading and
// leaves products, cursor and hasMore as they were, so the same action can
// be retried. A page appends and advances the cursor by a full page; once a
// short page arrives hasMore stays false until the next reset. A search
// replaces the list.
func (s *State) Apply(r Result) Outcome {
	if r.Req.Gen != s.gen {
		return OutcomeStale
	}
	s.loading = false

	if r.Err != nil {
		s.err = r.Err
		return OutcomeFailed
	}
	s.err = nil
	s.fetched = true

	switch r.Req.Kind {
	case RequestSearch:
		s.products = r.Products
		s.cursor = 0
		s.hasMore = len(r.Products) == s.pageSize
		return OutcomeReplaced
	default:
		s.products = append(s.products, r.Products...)
		s.cursor += s.pageSize
		if len(r.Products) < s.pageSize {
			s.hasMore = false
		}
		return OutcomeAppended
	}
}

// Mode returns the current mode.
func (s *State) Mode() Mode { return s.mode }

// Query returns the query as typed.
func (s *State) Query() string { return s.query }

// ActiveQuery returns the query the current search generation issued, or
// "" while browsing.
func (s *State) ActiveQuery() string { return s.active }

// Cursor returns the offset of the next page.
func (s *State) Cursor() int { return s.cursor }

// PageSize returns the page size.
func (s *State) PageSize() int { return s.pageSize }

// HasMore reports whether another page may exist. For search results it is
// only a hint: a full page of hits suggests the source truncated them.
func (s *State) HasMore() bool { return s.hasMore }

// Loading reports whether a fetch for the current generation is in flight.
func (s *State) Loading() bool { return s.loading }

// Products returns the accumulated products. Callers must not modify it.
func (s *State) Products() []product.Product { return s.products }

// Len returns the number of accumulated products.
func (s *State) Len() int { return len(s.products) }

// Generation returns the current generation.
func (s *State) Generation() uint64 { return s.gen }

// Err returns the last fetch failure of the current generation, cleared by
// the next success or reset.
func (s *State) Err() error { return s.err }

// Empty reports that nothing is loading and the list has no products.
func (s *State) Empty() bool { return !s.loading && len(s.products) == 0 }

// NoResults reports an empty list produced by a successful fetch, as
// opposed to one left empty by a failure.
func (s *State) NoResults() bool { return s.Empty() && s.fetched && s.err == nil }

// Failed reports an empty list left behind by a failed fetch.
func (s *State) Failed() bool { return s.Empty() && s.err != nil }
