package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Loop is an ordered sequence of segments joined end to end, with the last
// segment closing back onto the first. A valid loop is planar, closed and
// encloses a non-zero area.
type Loop struct {
	Segs []Segment
}

// NewLoop joins segments into a closed loop. It returns an error if
// consecutive segments do not meet within Tol or the loop does not close.
func NewLoop(segs ...Segment) (Loop, error) {
	if len(segs) == 0 {
		return Loop{}, fmt.Errorf("geom: loop needs at least one segment")
	}
	for i, s := range segs {
		next := segs[(i+1)%len(segs)]
		gap := next.Start().Sub(s.End()).Len()
		if gap > Tol {
			return Loop{}, fmt.Errorf("geom: loop gap of %g between segment %d and %d", gap, i, (i+1)%len(segs))
		}
	}
	return Loop{Segs: segs}, nil
}

// Polyline builds a closed polyline loop from an ordered point list.
// The closing edge from the last point back to the first is implicit.
func Polyline(pts ...mgl64.Vec2) (Loop, error) {
	if len(pts) < 3 {
		return Loop{}, fmt.Errorf("geom: polyline needs at least 3 points, got %d", len(pts))
	}
	segs := make([]Segment, 0, len(pts))
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		segs = append(segs, Line{A: p, B: q})
	}
	return NewLoop(segs...)
}

// Ellipse builds a full axis-aligned ellipse loop about center.
func Ellipse(center mgl64.Vec2, rx, ry float64) Loop {
	return Loop{Segs: []Segment{
		EllipseArc{Center: center, Rx: rx, Ry: ry, A0: 0, A1: 2 * math.Pi},
	}}
}

// Closed reports whether every junction, including the closing one, meets
// within Tol.
func (l Loop) Closed() bool {
	if len(l.Segs) == 0 {
		return false
	}
	for i, s := range l.Segs {
		next := l.Segs[(i+1)%len(l.Segs)]
		if next.Start().Sub(s.End()).Len() > Tol {
			return false
		}
	}
	return true
}

// SignedArea returns the enclosed area, positive for counter-clockwise
// traversal. Exact for lines, circular arcs and ellipse arcs.
func (l Loop) SignedArea() float64 {
	var sum float64
	for _, s := range l.Segs {
		sum += s.areaTerm()
	}
	return sum
}

// Area returns the absolute enclosed area.
func (l Loop) Area() float64 {
	return math.Abs(l.SignedArea())
}

// Translate returns a copy of the loop moved by d.
func (l Loop) Translate(d mgl64.Vec2) Loop {
	segs := make([]Segment, len(l.Segs))
	for i, s := range l.Segs {
		segs[i] = s.translate(d)
	}
	return Loop{Segs: segs}
}

// Points discretizes the loop into a closed ring of points, sampling
// perSeg chords on each segment. The closing point is not repeated.
func (l Loop) Points(perSeg int) []mgl64.Vec2 {
	var ring []mgl64.Vec2
	for _, s := range l.Segs {
		pts := s.Points(perSeg)
		ring = append(ring, pts[:len(pts)-1]...)
	}
	return ring
}

// BoundingBox returns the min and max corners of the discretized loop.
func (l Loop) BoundingBox() (min, max mgl64.Vec2) {
	ring := l.Points(64)
	if len(ring) == 0 {
		return
	}
	min, max = ring[0], ring[0]
	for _, p := range ring[1:] {
		min = mgl64.Vec2{math.Min(min.X(), p.X()), math.Min(min.Y(), p.Y())}
		max = mgl64.Vec2{math.Max(max.X(), p.X()), math.Max(max.Y(), p.Y())}
	}
	return min, max
}
