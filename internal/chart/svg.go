package chart

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Options controls chart geometry.
type Options struct {
	Width  int
	Height int
	// FullWidth makes the SVG scale to its container instead of keeping a
	// fixed pixel size.
	FullWidth bool
}

// palette cycles per column.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
}

func lineStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// RenderSVG plots every column of f against the row index.
func RenderSVG(f Frame, opts Options) ([]byte, error) {
	if f.Rows() < 2 {
		return nil, errors.New("chart: need at least two rows to draw a line")
	}
	if opts.Width <= 0 {
		opts.Width = 720
	}
	if opts.Height <= 0 {
		opts.Height = 320
	}

	index := make([]float64, f.Rows())
	for i := range index {
		index[i] = float64(i)
	}

	series := make([]gochart.Series, 0, len(f.Columns))
	for i, c := range f.Columns {
		series = append(series, gochart.ContinuousSeries{
			Name:    c.Name,
			XValues: index,
			YValues: c.Values,
			Style:   lineStyle(palette[i%len(palette)]),
		})
	}

	// The secondary axis carries no series; drawn with an empty range it
	// emits ticks at overflowed coordinates, so it stays hidden.
	lo, hi := f.bounds()
	ch := gochart.Chart{
		Width:          opts.Width,
		Height:         opts.Height,
		Background:     gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 12, Bottom: 12}},
		YAxis:          gochart.YAxis{Range: &gochart.ContinuousRange{Min: lo, Max: hi}},
		YAxisSecondary: gochart.YAxis{Style: gochart.Style{Hidden: true}},
		Series:         series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return sizeRoot(buf.Bytes(), opts), nil
}

var sizeAttr = regexp.MustCompile(`\s(?:width|height|preserveAspectRatio)="[^"]*"`)

// sizeRoot rewrites the root <svg> tag: a fixed pixel size, or 100% width
// scaled through the viewBox when opts.FullWidth is set.
func sizeRoot(svg []byte, opts Options) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start

	tag := sizeAttr.ReplaceAll(svg[start+len("<svg"):end], nil)
	tag = bytes.TrimSuffix(bytes.TrimRight(tag, " "), []byte("/"))
	attrs := string(tag)
	if !strings.Contains(attrs, "viewBox=") {
		attrs += fmt.Sprintf(` viewBox="0 0 %d %d"`, opts.Width, opts.Height)
	}
	if opts.FullWidth {
		attrs += ` width="100%" preserveAspectRatio="xMidYMid meet"`
	} else {
		attrs += fmt.Sprintf(` width="%d" height="%d"`, opts.Width, opts.Height)
	}

	out := make([]byte, 0, len(svg)+64)
	out = append(out, svg[:start]...)
	out = append(out, "<svg"+attrs...)
	out = append(out, svg[end:]...)
	return out
}
