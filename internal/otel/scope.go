package otel

import "context"

// Scope identifies the browse generation a piece of work belongs to. The UI
// attaches it to each generation's context so events emitted further down,
// by the HTTP client for instance, correlate with the request that caused
// them.
type Scope struct {
	Gen     uint64
	QueryID string
}

type scopeKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext returns the Scope stored in ctx, if any.
func FromContext(ctx context.Context) (Scope, bool) {
	if ctx == nil {
		return Scope{}, false
	}
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok
}

// EmitFor emits e for component comp. Gen and QueryID left zero are taken
// from ctx's Scope; an empty Level becomes info.
func (l *Logger) EmitFor(ctx context.Context, comp string, e Event) {
	if l == nil {
		return
	}
	e.Comp = comp
	if e.Level == "" {
		e.Level = LevelInfo
	}
	if s, ok := FromContext(ctx); ok {
		if e.Gen == 0 {
			e.Gen = s.Gen
		}
		if e.QueryID == "" {
			e.QueryID = s.QueryID
		}
	}
	l.Emit(e)
}
