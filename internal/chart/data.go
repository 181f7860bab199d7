// Package chart generates demo series and renders them as SVG line charts.
package chart

import (
	"errors"
	"fmt"
	"math"
)

// ErrRaggedFrame is returned when frame columns differ in length.
var ErrRaggedFrame = errors.New("chart: columns have different lengths")

// Linspace returns n evenly spaced samples over [start, stop], endpoints included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// pin the endpoint so rounding never leaves it short
	out[n-1] = stop
	return out
}

// Map applies fn to every element of xs.
func Map(xs []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = fn(x)
	}
	return out
}

// Column is one named series of a Frame.
type Column struct {
	Name   string
	Values []float64
}

// Frame is an ordered set of equal-length columns.
type Frame struct {
	Columns []Column
}

// NewFrame builds a frame, rejecting columns of unequal length.
func NewFrame(cols ...Column) (Frame, error) {
	for i := 1; i < len(cols); i++ {
		if len(cols[i].Values) != len(cols[0].Values) {
			return Frame{}, fmt.Errorf("%w: %q has %d rows, %q has %d", ErrRaggedFrame,
				cols[0].Name, len(cols[0].Values), cols[i].Name, len(cols[i].Values))
		}
	}
	return Frame{Columns: cols}, nil
}

// Rows returns the number of rows.
func (f Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0].Values)
}

// Column looks a column up by name.
func (f Frame) Column(name string) (Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// bounds returns the min and max over every column, widened when flat.
func (f Frame) bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range f.Columns {
		for _, v := range c.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}
