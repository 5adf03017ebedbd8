package footprint

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/geom"
	"github.com/parti-cad/parti/pkg/kernel"
)

// Footprint is one closed boundary curve plus zero or more interior hole
// curves, all in the local drawing frame: origin at the footprint corner,
// width along X, length along Y.
type Footprint struct {
	Boundary kernel.Curve
	Holes    []kernel.Curve
}

// Build constructs the footprint for typ at the given dimensions through
// the injected kernel. A nil footprint with a nil error means the typology
// is infeasible at these dimensions; that is a normal answer, not an
// error. A non-nil error means the kernel rejected the derived curves.
//
// When the footprint's holes are carved out of a patch, the boundary curve
// itself must be passed to the kernel's Trim alongside the holes; trim
// backends otherwise tend to keep the wrong side of the cut. Backends in
// this repo recognize the boundary in the trim set and skip it.
func Build(k kernel.Kernel, typ Typology, length, width, depth float64) (*Footprint, error) {
	if !Feasible(typ, length, width, depth) {
		return nil, nil
	}
	switch typ {
	case TypologyI:
		return buildI(k, length, width)
	case TypologyL:
		return buildL(k, length, width, depth)
	case TypologyH:
		return buildH(k, length, width, depth)
	case TypologyU:
		return buildU(k, length, width, depth)
	case TypologyD:
		return buildD(k, length, width, depth)
	case TypologyO:
		return buildO(k, length, width, depth)
	}
	return nil, fmt.Errorf("footprint: unknown typology %d", typ)
}

func buildI(k kernel.Kernel, l, w float64) (*Footprint, error) {
	b, err := k.Polyline(
		mgl64.Vec2{0, 0}, mgl64.Vec2{w, 0}, mgl64.Vec2{w, l}, mgl64.Vec2{0, l},
	)
	if err != nil {
		return nil, fmt.Errorf("footprint: I boundary: %w", err)
	}
	return &Footprint{Boundary: b}, nil
}

func buildL(k kernel.Kernel, l, w, d float64) (*Footprint, error) {
	b, err := k.Polyline(
		mgl64.Vec2{0, 0}, mgl64.Vec2{w, 0}, mgl64.Vec2{w, d},
		mgl64.Vec2{d, d}, mgl64.Vec2{d, l}, mgl64.Vec2{0, l},
	)
	if err != nil {
		return nil, fmt.Errorf("footprint: L boundary: %w", err)
	}
	return &Footprint{Boundary: b}, nil
}

// buildH traces two full-length bars joined by a crossbar at mid-length.
func buildH(k kernel.Kernel, l, w, d float64) (*Footprint, error) {
	yLo := (l - d) / 2
	yHi := (l + d) / 2
	b, err := k.Polyline(
		mgl64.Vec2{0, 0}, mgl64.Vec2{d, 0}, mgl64.Vec2{d, yLo},
		mgl64.Vec2{w - d, yLo}, mgl64.Vec2{w - d, 0}, mgl64.Vec2{w, 0},
		mgl64.Vec2{w, l}, mgl64.Vec2{w - d, l}, mgl64.Vec2{w - d, yHi},
		mgl64.Vec2{d, yHi}, mgl64.Vec2{d, l}, mgl64.Vec2{0, l},
	)
	if err != nil {
		return nil, fmt.Errorf("footprint: H boundary: %w", err)
	}
	return &Footprint{Boundary: b}, nil
}

// buildU traces an open ring: two straight legs closed by a rounded end at
// y=0, mouth open at y=length. When the legs are long enough the rounded
// end is a true semicircle of radius width/2; in short bays the end
// compresses to half-ellipse arcs so the curvature fits the available span.
func buildU(k kernel.Kernel, l, w, d float64) (*Footprint, error) {
	var segs []geom.Segment
	if l > w/2 {
		r := w / 2
		ri := w/2 - d
		c := mgl64.Vec2{w / 2, w / 2}
		segs = []geom.Segment{
			geom.Line{A: mgl64.Vec2{0, l}, B: mgl64.Vec2{0, r}},
			geom.Arc{Center: c, Radius: r, A0: math.Pi, A1: 2 * math.Pi},
			geom.Line{A: mgl64.Vec2{w, r}, B: mgl64.Vec2{w, l}},
			geom.Line{A: mgl64.Vec2{w, l}, B: mgl64.Vec2{w - d, l}},
			geom.Line{A: mgl64.Vec2{w - d, l}, B: mgl64.Vec2{w - d, r}},
			geom.Arc{Center: c, Radius: ri, A0: 0, A1: -math.Pi},
			geom.Line{A: mgl64.Vec2{d, r}, B: mgl64.Vec2{d, l}},
			geom.Line{A: mgl64.Vec2{d, l}, B: mgl64.Vec2{0, l}},
		}
	} else {
		c := mgl64.Vec2{w / 2, l}
		segs = []geom.Segment{
			geom.EllipseArc{Center: c, Rx: w / 2, Ry: l, A0: math.Pi, A1: 2 * math.Pi},
			geom.Line{A: mgl64.Vec2{w, l}, B: mgl64.Vec2{w - d, l}},
			geom.EllipseArc{Center: c, Rx: w/2 - d, Ry: l - d, A0: 0, A1: -math.Pi},
			geom.Line{A: mgl64.Vec2{d, l}, B: mgl64.Vec2{0, l}},
		}
	}
	b, err := k.Loop(segs...)
	if err != nil {
		return nil, fmt.Errorf("footprint: U boundary: %w", err)
	}
	return &Footprint{Boundary: b}, nil
}

// buildD mirrors the U construction upside down and closes the mouth,
// leaving a single interior hole offset inward by depth.
func buildD(k kernel.Kernel, l, w, d float64) (*Footprint, error) {
	var boundary, hole kernel.Curve
	var err error
	if l > w/2+d {
		yc := l - w/2
		c := mgl64.Vec2{w / 2, yc}
		boundary, err = k.Loop(
			geom.Line{A: mgl64.Vec2{0, 0}, B: mgl64.Vec2{w, 0}},
			geom.Line{A: mgl64.Vec2{w, 0}, B: mgl64.Vec2{w, yc}},
			geom.Arc{Center: c, Radius: w / 2, A0: 0, A1: math.Pi},
			geom.Line{A: mgl64.Vec2{0, yc}, B: mgl64.Vec2{0, 0}},
		)
		if err != nil {
			return nil, fmt.Errorf("footprint: D boundary: %w", err)
		}
		hole, err = k.Loop(
			geom.Line{A: mgl64.Vec2{d, d}, B: mgl64.Vec2{w - d, d}},
			geom.Line{A: mgl64.Vec2{w - d, d}, B: mgl64.Vec2{w - d, yc}},
			geom.Arc{Center: c, Radius: w/2 - d, A0: 0, A1: math.Pi},
			geom.Line{A: mgl64.Vec2{d, yc}, B: mgl64.Vec2{d, d}},
		)
		if err != nil {
			return nil, fmt.Errorf("footprint: D hole: %w", err)
		}
	} else {
		boundary, err = k.Loop(
			geom.Line{A: mgl64.Vec2{0, 0}, B: mgl64.Vec2{w, 0}},
			geom.EllipseArc{Center: mgl64.Vec2{w / 2, 0}, Rx: w / 2, Ry: l, A0: 0, A1: math.Pi},
		)
		if err != nil {
			return nil, fmt.Errorf("footprint: D boundary: %w", err)
		}
		hole, err = k.Loop(
			geom.Line{A: mgl64.Vec2{d, d}, B: mgl64.Vec2{w - d, d}},
			geom.EllipseArc{Center: mgl64.Vec2{w / 2, d}, Rx: w/2 - d, Ry: l - d, A0: 0, A1: math.Pi},
		)
		if err != nil {
			return nil, fmt.Errorf("footprint: D hole: %w", err)
		}
	}
	return &Footprint{Boundary: boundary, Holes: []kernel.Curve{hole}}, nil
}

func buildO(k kernel.Kernel, l, w, d float64) (*Footprint, error) {
	center := mgl64.Vec2{w / 2, l / 2}
	boundary, err := k.Ellipse(center, w/2, l/2)
	if err != nil {
		return nil, fmt.Errorf("footprint: O boundary: %w", err)
	}
	hole, err := k.Ellipse(center, w/2-d, l/2-d)
	if err != nil {
		return nil, fmt.Errorf("footprint: O hole: %w", err)
	}
	return &Footprint{Boundary: boundary, Holes: []kernel.Curve{hole}}, nil
}
