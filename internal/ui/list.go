package ui

import (
	"strings"

	"github.com/abelbrown/catalog/internal/browse"
	"github.com/abelbrown/catalog/internal/product"
	"github.com/abelbrown/catalog/internal/ui/card"
)

// ListLayout describes what a list render covers. First and Last are the
// inclusive indices of the cards drawn; Last < First when none are.
// Sentinel is the handle of the list's last card.
type ListLayout struct {
	First       int
	Last        int
	Sentinel    browse.Sentinel
	HasSentinel bool
}

// visibleCards is how many cards fit in height lines.
func visibleCards(height int) int {
	return max(height/card.Rows, 1)
}

// layoutList computes the layout for a list starting at card offset.
func layoutList(products []product.Product, gen uint64, offset, height int) ListLayout {
	n := len(products)
	if n == 0 {
		return ListLayout{First: 0, Last: -1}
	}
	offset = clampOffset(offset, n, height)
	lay := ListLayout{
		First: offset,
		Last:  min(offset+visibleCards(height)-1, n-1),
	}
	lay.Sentinel, lay.HasSentinel = browse.SentinelFor(products, gen)
	return lay
}

// clampOffset keeps offset within [0, n-visible].
func clampOffset(offset, n, height int) int {
	return max(min(offset, n-visibleCards(height)), 0)
}

// calcScrollOffset returns the smallest change to offset that keeps cursor
// on screen.
func calcScrollOffset(offset, cursor, n, height int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	cursor = min(cursor, n-1)
	visible := visibleCards(height)
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	return clampOffset(offset, n, height)
}

// RenderList draws the visible cards and returns the layout it drew.
func RenderList(products []product.Product, gen uint64, offset, cursor, width, height int) (string, ListLayout) {
	lay := layoutList(products, gen, offset, height)
	if lay.Last < lay.First {
		return "", lay
	}

	var b strings.Builder
	for i := lay.First; i <= lay.Last; i++ {
		b.WriteString(card.Render(products[i], card.Options{
			Width:    width,
			Selected: i == cursor,
			Sentinel: lay.HasSentinel && i == lay.Sentinel.Index,
		}))
		if i < lay.Last {
			b.WriteString("\n\n")
		}
	}
	return b.String(), lay
}
