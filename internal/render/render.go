// Package render draws aggregation results as PNG charts. It wraps third-party
// charting libraries and adds no drawing of its own.
package render

import (
	"errors"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

var (
	// ErrNoData means no group has a value in the selected range.
	ErrNoData = errors.New("no data to plot")
	// ErrNoDistribution means the box plot is hidden: the "All" view has no
	// per-country distribution.
	ErrNoDistribution = errors.New("box plot not available for the All view")
)

// Options sizes a chart in pixels.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions gives each of the two side-by-side charts half of a 16:6
// figure.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600}
}

func (o Options) orDefault() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// yearTicks places a tick on every survey year inside r, falling back to the
// range bounds when r holds none.
func yearTicks(r domain.YearRange) []int {
	var years []int
	for _, y := range domain.ValidYears {
		if r.Contains(y) {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		years = append(years, r.Min)
		if r.Max != r.Min {
			years = append(years, r.Max)
		}
	}
	return years
}
