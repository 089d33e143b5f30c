package scrollspy

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is a vertical extent in CSS pixels, in document coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Length is a root margin component: pixels, or a percentage of the
// viewport height when Percent is set.
type Length struct {
	Value   float64
	Percent bool
}

func (l Length) resolve(base float64) float64 {
	if l.Percent {
		return base * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v + "px"
}

// Margin grows (positive) or shrinks (negative) the viewport before
// intersections are computed. Only Top and Bottom affect vertical tracking.
type Margin struct {
	Top, Right, Bottom, Left Length
}

func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// ParseRootMargin parses CSS margin shorthand with one to four px or %
// values, e.g. "0px 0px -55% 0px".
func ParseRootMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("root margin %q: want 1 to 4 values", s)
	}
	vals := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("root margin %q: %w", s, err)
		}
		vals[i] = l
	}

	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var l Length
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		l.Percent = true
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case s == "0":
	default:
		return Length{}, fmt.Errorf("length %q must be in px or %%", s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("length %q: %w", s, err)
	}
	l.Value = v
	return l, nil
}

// Options tune what counts as intersecting.
type Options struct {
	// Threshold is the fraction of an element's height that must be inside
	// the root for it to intersect.
	Threshold  float64
	RootMargin Margin
}

// DefaultOptions favours sections entering from the top: the bottom 55% of
// the viewport does not count.
func DefaultOptions() Options {
	return Options{
		Threshold:  0.2,
		RootMargin: Margin{Bottom: Length{Value: -55, Percent: true}},
	}
}

// root applies the margin to the viewport.
func (o Options) root(viewport Rect) Rect {
	top := viewport.Top - o.RootMargin.Top.resolve(viewport.Height)
	bottom := viewport.Bottom() + o.RootMargin.Bottom.resolve(viewport.Height)
	if bottom < top {
		bottom = top
	}
	return Rect{Top: top, Height: bottom - top}
}

// intersect returns the visible ratio of el inside root and whether it
// counts as intersecting under threshold.
func intersect(el, root Rect, threshold float64) (float64, bool) {
	top := max(el.Top, root.Top)
	bottom := min(el.Bottom(), root.Bottom())
	if bottom < top {
		return 0, false
	}
	if el.Height <= 0 {
		// A zero-height element touching the root is fully visible.
		return 1, true
	}
	ratio := (bottom - top) / el.Height
	if ratio > 1 {
		ratio = 1
	}
	if ratio == 0 {
		return 0, false
	}
	return ratio, ratio >= threshold
}
