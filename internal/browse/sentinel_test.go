package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelFor(t *testing.T) {
	_, ok := SentinelFor(nil, 1)
	assert.False(t, ok)

	s, ok := SentinelFor(makePage(1, 20), 3)
	require.True(t, ok)
	assert.Equal(t, Sentinel{Index: 19, ProductID: 20, Generation: 3}, s)
}

func TestObserverFiresOnVisibleEdge(t *testing.T) {
	var o Observer
	o.Observe(Sentinel{Index: 19, ProductID: 20, Generation: 1})

	assert.False(t, o.Notify(0, 5), "sentinel off screen")
	assert.True(t, o.Notify(14, 19), "sentinel scrolled into view")
	assert.False(t, o.Notify(15, 19), "still visible, no refire")
	assert.False(t, o.Notify(0, 5))
	assert.True(t, o.Notify(16, 19), "back into view fires again")

	connects, fires := o.Stats()
	assert.Equal(t, 1, connects)
	assert.Equal(t, 2, fires)
}

func TestObserverFiresImmediatelyWhenAlreadyVisible(t *testing.T) {
	var o Observer
	o.Observe(Sentinel{Index: 3, ProductID: 4, Generation: 1})
	assert.True(t, o.Notify(0, 3))
}

func TestObserverReobserveSameTargetKeepsEdgeState(t *testing.T) {
	var o Observer
	s := Sentinel{Index: 19, ProductID: 20, Generation: 1}
	o.Observe(s)
	require.True(t, o.Notify(10, 19))

	o.Observe(s)
	assert.False(t, o.Notify(10, 19), "same sentinel must not re-arm")

	connects, _ := o.Stats()
	assert.Equal(t, 1, connects)
}

func TestObserverNewTargetReplacesOld(t *testing.T) {
	var o Observer
	o.Observe(Sentinel{Index: 19, ProductID: 20, Generation: 1})
	require.True(t, o.Notify(10, 19))

	next := Sentinel{Index: 39, ProductID: 40, Generation: 1}
	o.Observe(next)
	got, ok := o.Target()
	require.True(t, ok)
	assert.Equal(t, next, got)

	assert.False(t, o.Notify(10, 19), "old sentinel no longer watched")
	assert.True(t, o.Notify(30, 39))

	// Same index and id in a new generation is a different target.
	o.Observe(Sentinel{Index: 39, ProductID: 40, Generation: 2})
	connects, _ := o.Stats()
	assert.Equal(t, 3, connects)
}

func TestObserverDisconnect(t *testing.T) {
	var o Observer
	o.Observe(Sentinel{Index: 0, ProductID: 1, Generation: 1})
	o.Disconnect()

	_, ok := o.Target()
	assert.False(t, ok)
	assert.False(t, o.Notify(0, 10))
}

func TestObserverEmptyViewport(t *testing.T) {
	var o Observer
	o.Observe(Sentinel{Index: 0, ProductID: 1, Generation: 1})
	assert.False(t, o.Notify(0, -1))
}

func TestObserverDrivesPaging(t *testing.T) {
	s := New(20)
	src := &fakeSource{total: 45}
	var o Observer

	s.Apply(src.serve(s.Start()))
	view := func(first, last int) {
		if sen, ok := SentinelFor(s.Products(), s.Generation()); ok && s.HasMore() {
			o.Observe(sen)
		} else {
			o.Disconnect()
		}
		if o.Notify(first, last) {
			if req, ok := s.LoadNext(); ok {
				s.Apply(src.serve(req))
			}
		}
	}

	view(0, 9)
	assert.Equal(t, 20, s.Len())
	view(12, 19)
	assert.Equal(t, 40, s.Len())
	view(20, 29)
	assert.Equal(t, 40, s.Len())
	view(32, 39)
	assert.Equal(t, 45, s.Len())
	assert.False(t, s.HasMore())

	view(40, 44)
	_, armed := o.Target()
	assert.False(t, armed, "exhausted list is not observed")
	assert.Len(t, src.requests, 3)
}
