// Package card renders one product as a fixed-height block of text.
package card

import (
	"fmt"
	"strings"

	"github.com/abelbrown/catalog/internal/product"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	// Height is the number of lines Render always returns.
	Height = 2

	// Rows is the vertical space one card takes in a list, gap included.
	Rows = Height + 1
)

const (
	thumbGlyph       = "■"
	placeholderGlyph = "□"
	sentinelMarker   = "▾"
)

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorPrice   = lipgloss.Color("78")
	colorMarker  = lipgloss.Color("212")

	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(colorPrimary).Padding(0, 1)
	priceStyle    = lipgloss.NewStyle().Foreground(colorPrice).Padding(0, 1)
	detailStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	markerStyle   = lipgloss.NewStyle().Foreground(colorMarker).Bold(true)
)

// Options controls how a card is drawn.
type Options struct {
	Width    int
	Selected bool
	// Sentinel marks the last card of the list, the one whose visibility
	// pages in more products.
	Sentinel bool
}

// Render draws p as exactly Height lines, none wider than opts.Width.
func Render(p product.Product, opts Options) string {
	width := max(opts.Width, 12)
	inner := width - 2 // padding

	glyph := placeholderGlyph
	if p.Thumbnail != "" {
		glyph = thumbGlyph
	}

	marker := ""
	if opts.Sentinel {
		marker = " " + sentinelMarker
	}
	titleWidth := inner - runewidth.StringWidth(glyph) - 1 - runewidth.StringWidth(marker)
	title := glyph + " " + runewidth.Truncate(p.Title, max(titleWidth, 1), "...")

	price := "  " + p.PriceLabel()
	detail := ""
	if opts.Selected {
		detail = Detail(p)
	}
	priceLine := runewidth.Truncate(price, inner, "...")
	if detail != "" {
		room := inner - runewidth.StringWidth(priceLine) - 2
		if room > 3 {
			detail = "  " + runewidth.Truncate(detail, room, "...")
		} else {
			detail = ""
		}
	}

	var top, bottom string
	if opts.Selected {
		top = selectedStyle.Width(width).Render(title + marker)
		bottom = selectedStyle.Width(width).Render(priceLine + detail)
	} else {
		if marker != "" {
			marker = markerStyle.Render(marker)
		}
		top = normalStyle.Render(title + marker)
		bottom = priceStyle.Render(priceLine) + detailStyle.Render(detail)
	}
	return top + "\n" + bottom
}

// Detail is the secondary line shown for the selected card: brand,
// category and rating when the API supplied them.
func Detail(p product.Product) string {
	var parts []string
	if p.Brand != "" {
		parts = append(parts, p.Brand)
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if p.Rating > 0 {
		parts = append(parts, fmt.Sprintf("★%.1f", p.Rating))
	}
	if p.Stock > 0 {
		parts = append(parts, fmt.Sprintf("%d in stock", p.Stock))
	}
	return strings.Join(parts, " · ")
}
