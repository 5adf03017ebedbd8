package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment is one piece of a footprint boundary. Implementations form a
// closed set (line, circular arc, elliptical arc); the marker method keeps
// the union restricted to this package.
type Segment interface {
	// Start and End are the segment endpoints in local 2-D coordinates.
	Start() mgl64.Vec2
	End() mgl64.Vec2

	// Points samples n chords along the segment, returning n+1 points
	// including both endpoints. n must be >= 1.
	Points(n int) []mgl64.Vec2

	// areaTerm is this segment's contribution to the loop integral
	// (1/2)∮(x dy − y dx). Summed over a closed loop it yields the
	// signed enclosed area (positive for counter-clockwise loops).
	areaTerm() float64

	// translate returns the segment moved by d.
	translate(d mgl64.Vec2) Segment
}

// ---------------------------------------------------------------------------
// Line
// ---------------------------------------------------------------------------

// Line is a straight segment from A to B.
type Line struct {
	A, B mgl64.Vec2
}

func (l Line) Start() mgl64.Vec2 { return l.A }
func (l Line) End() mgl64.Vec2   { return l.B }

func (l Line) Points(n int) []mgl64.Vec2 {
	pts := make([]mgl64.Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, l.A.Add(l.B.Sub(l.A).Mul(t)))
	}
	return pts
}

func (l Line) areaTerm() float64 {
	return (l.A.X()*l.B.Y() - l.B.X()*l.A.Y()) / 2
}

func (l Line) translate(d mgl64.Vec2) Segment {
	return Line{A: l.A.Add(d), B: l.B.Add(d)}
}

// ---------------------------------------------------------------------------
// Arc
// ---------------------------------------------------------------------------

// Arc is a circular arc about Center, swept linearly from angle A0 to A1
// (radians). A1 > A0 traverses counter-clockwise, A1 < A0 clockwise.
type Arc struct {
	Center mgl64.Vec2
	Radius float64
	A0, A1 float64
}

func (a Arc) at(t float64) mgl64.Vec2 {
	return mgl64.Vec2{
		a.Center.X() + a.Radius*math.Cos(t),
		a.Center.Y() + a.Radius*math.Sin(t),
	}
}

func (a Arc) Start() mgl64.Vec2 { return a.at(a.A0) }
func (a Arc) End() mgl64.Vec2   { return a.at(a.A1) }

func (a Arc) Points(n int) []mgl64.Vec2 {
	pts := make([]mgl64.Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		t := a.A0 + (a.A1-a.A0)*float64(i)/float64(n)
		pts = append(pts, a.at(t))
	}
	return pts
}

// areaTerm integrates (1/2)(x y' − y x') for x = cx + r cos t, y = cy + r sin t:
//
//	(1/2)[r²(A1−A0) + r(cx(sin A1 − sin A0) − cy(cos A1 − cos A0))]
func (a Arc) areaTerm() float64 {
	sweep := a.A1 - a.A0
	ds := math.Sin(a.A1) - math.Sin(a.A0)
	dc := math.Cos(a.A1) - math.Cos(a.A0)
	return (a.Radius*a.Radius*sweep + a.Radius*(a.Center.X()*ds-a.Center.Y()*dc)) / 2
}

func (a Arc) translate(d mgl64.Vec2) Segment {
	a.Center = a.Center.Add(d)
	return a
}

// ---------------------------------------------------------------------------
// EllipseArc
// ---------------------------------------------------------------------------

// EllipseArc is an axis-aligned elliptical arc about Center with radii
// (Rx, Ry), swept linearly in parameter angle from A0 to A1 (radians).
type EllipseArc struct {
	Center mgl64.Vec2
	Rx, Ry float64
	A0, A1 float64
}

func (e EllipseArc) at(t float64) mgl64.Vec2 {
	return mgl64.Vec2{
		e.Center.X() + e.Rx*math.Cos(t),
		e.Center.Y() + e.Ry*math.Sin(t),
	}
}

func (e EllipseArc) Start() mgl64.Vec2 { return e.at(e.A0) }
func (e EllipseArc) End() mgl64.Vec2   { return e.at(e.A1) }

func (e EllipseArc) Points(n int) []mgl64.Vec2 {
	pts := make([]mgl64.Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		t := e.A0 + (e.A1-e.A0)*float64(i)/float64(n)
		pts = append(pts, e.at(t))
	}
	return pts
}

// areaTerm integrates (1/2)(x y' − y x') for the parametric ellipse:
//
//	(1/2)[RxRy(A1−A0) + cx Ry(sin A1 − sin A0) − cy Rx(cos A1 − cos A0)]
func (e EllipseArc) areaTerm() float64 {
	sweep := e.A1 - e.A0
	ds := math.Sin(e.A1) - math.Sin(e.A0)
	dc := math.Cos(e.A1) - math.Cos(e.A0)
	return (e.Rx*e.Ry*sweep + e.Center.X()*e.Ry*ds - e.Center.Y()*e.Rx*dc) / 2
}

func (e EllipseArc) translate(d mgl64.Vec2) Segment {
	e.Center = e.Center.Add(d)
	return e
}
