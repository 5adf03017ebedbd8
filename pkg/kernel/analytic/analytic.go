// Package analytic implements the kernel.Kernel interface with exact
// closed-form geometry. Curves keep their symbolic segment form, areas come
// from per-segment Green's-theorem integrals and volumes from area times
// height, so measurements carry no discretization error. This backend is
// both the default measurement kernel and the lightweight double used in
// tests; watertight mesh output is the sdfx backend's job.
package analytic

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/geom"
	"github.com/parti-cad/parti/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// ringSegments controls how many chords each curve segment contributes
// when a loop is discretized for meshing and bounding boxes.
const ringSegments = 32

// curve wraps a geom.Loop to implement kernel.Curve.
type curve struct {
	loop geom.Loop
}

// Area returns the exact enclosed area.
func (c *curve) Area() float64 {
	return c.loop.Area()
}

// surface is a planar patch: an outer loop plus hole loops on a plane.
type surface struct {
	plane geom.Plane
	outer *curve
	holes []*curve
}

func (s *surface) Plane() geom.Plane { return s.plane }

// solid is a surface extruded one-sided along its plane normal.
type solid struct {
	base   *surface
	height float64
}

// BoundingBox returns the axis-aligned box of the extruded outer loop.
func (s *solid) BoundingBox() (min, max mgl64.Vec3) {
	ring := s.base.outer.loop.Points(ringSegments)
	if len(ring) == 0 {
		return
	}
	up := s.base.plane.Normal().Mul(s.height)
	first := true
	for _, p := range ring {
		bottom := s.base.plane.At(p.X(), p.Y())
		for _, v := range [2]mgl64.Vec3{bottom, bottom.Add(up)} {
			if first {
				min, max = v, v
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], v[i])
				max[i] = math.Max(max[i], v[i])
			}
		}
	}
	return min, max
}

// Kernel implements kernel.Kernel with exact analytic geometry.
type Kernel struct{}

// New returns a new analytic Kernel.
func New() *Kernel {
	return &Kernel{}
}

// newCurve validates a loop before wrapping it: it must close and must
// enclose strictly positive area.
func newCurve(l geom.Loop) (kernel.Curve, error) {
	if !l.Closed() {
		return nil, fmt.Errorf("analytic: curve is not closed")
	}
	if l.Area() <= geom.Tol {
		return nil, fmt.Errorf("analytic: curve encloses no area")
	}
	return &curve{loop: l}, nil
}

// Polyline builds a closed polyline curve from an ordered point list.
func (k *Kernel) Polyline(pts ...mgl64.Vec2) (kernel.Curve, error) {
	l, err := geom.Polyline(pts...)
	if err != nil {
		return nil, err
	}
	return newCurve(l)
}

// Loop joins line, arc and ellipse-arc segments into a closed curve.
func (k *Kernel) Loop(segs ...geom.Segment) (kernel.Curve, error) {
	l, err := geom.NewLoop(segs...)
	if err != nil {
		return nil, err
	}
	return newCurve(l)
}

// Ellipse builds a full ellipse curve about center.
func (k *Kernel) Ellipse(center mgl64.Vec2, rx, ry float64) (kernel.Curve, error) {
	if rx <= 0 || ry <= 0 {
		return nil, fmt.Errorf("analytic: ellipse radii must be positive, got (%g, %g)", rx, ry)
	}
	return newCurve(geom.Ellipse(center, rx, ry))
}

// TranslateCurve returns a copy of the curve moved by d in its local frame.
func (k *Kernel) TranslateCurve(c kernel.Curve, d mgl64.Vec2) kernel.Curve {
	ac := c.(*curve)
	return &curve{loop: ac.loop.Translate(d)}
}

// Patch spans a closed boundary curve with a planar surface on p.
func (k *Kernel) Patch(boundary kernel.Curve, p geom.Plane) (kernel.Surface, error) {
	b, ok := boundary.(*curve)
	if !ok || b == nil {
		return nil, fmt.Errorf("analytic: patch boundary is not an analytic curve")
	}
	return &surface{plane: p, outer: b}, nil
}

// Trim carves hole loops out of a patch. A loop identical to the patch's
// own outer boundary is skipped rather than trimmed (callers pass the
// boundary along with the holes to steer face selection).
func (k *Kernel) Trim(s kernel.Surface, holes []kernel.Curve) (kernel.Surface, error) {
	as := s.(*surface)
	out := &surface{plane: as.plane, outer: as.outer, holes: as.holes}
	outerMin, outerMax := as.outer.loop.BoundingBox()
	for i, h := range holes {
		hc := h.(*curve)
		if hc == as.outer {
			continue
		}
		if hc.Area() >= as.outer.Area() {
			return nil, fmt.Errorf("analytic: trim loop %d is not smaller than the patch boundary", i)
		}
		hMin, hMax := hc.loop.BoundingBox()
		if hMin.X() < outerMin.X()-geom.Tol || hMin.Y() < outerMin.Y()-geom.Tol ||
			hMax.X() > outerMax.X()+geom.Tol || hMax.Y() > outerMax.Y()+geom.Tol {
			return nil, fmt.Errorf("analytic: trim loop %d extends outside the patch boundary", i)
		}
		out.holes = append(out.holes, hc)
	}
	return out, nil
}

// TranslateSurface returns the surface moved by the world vector d.
func (k *Kernel) TranslateSurface(s kernel.Surface, d mgl64.Vec3) kernel.Surface {
	as := s.(*surface)
	return &surface{plane: as.plane.Translate(d), outer: as.outer, holes: as.holes}
}

// Area returns the patch area: outer loop area minus hole areas.
func (k *Kernel) Area(s kernel.Surface) float64 {
	as := s.(*surface)
	a := as.outer.Area()
	for _, h := range as.holes {
		a -= h.Area()
	}
	return a
}

// Thicken extrudes the surface one-sided along its plane normal.
func (k *Kernel) Thicken(s kernel.Surface, height float64) (kernel.Solid, error) {
	if height <= geom.Tol {
		return nil, fmt.Errorf("analytic: thicken height must be positive, got %g", height)
	}
	as := s.(*surface)
	return &solid{base: as, height: height}, nil
}

// Volume returns the exact enclosed volume: patch area times height.
func (k *Kernel) Volume(s kernel.Solid) float64 {
	sol := s.(*solid)
	return k.Area(sol.base) * sol.height
}

// ToMesh produces a preview mesh of the solid's side walls, one quad strip
// per boundary and hole loop. The top and bottom caps are left open; use
// the sdfx backend when a watertight mesh is needed.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sol := s.(*solid)
	mesh := &kernel.Mesh{}

	loops := make([]*curve, 0, 1+len(sol.base.holes))
	loops = append(loops, sol.base.outer)
	loops = append(loops, sol.base.holes...)

	up := sol.base.plane.Normal().Mul(sol.height)
	for _, c := range loops {
		ring := c.loop.Points(ringSegments)
		for i := range ring {
			p, q := ring[i], ring[(i+1)%len(ring)]
			b0 := sol.base.plane.At(p.X(), p.Y())
			b1 := sol.base.plane.At(q.X(), q.Y())
			t0 := b0.Add(up)
			t1 := b1.Add(up)
			appendQuad(mesh, b0, b1, t1, t0)
		}
	}
	return mesh, nil
}

// appendQuad adds two triangles (a,b,c) and (a,c,d) with a shared flat normal.
func appendQuad(m *kernel.Mesh, a, b, c, d mgl64.Vec3) {
	n := b.Sub(a).Cross(d.Sub(a))
	if n.Len() > 0 {
		n = n.Normalize()
	}
	for _, tri := range [2][3]mgl64.Vec3{{a, b, c}, {a, c, d}} {
		for _, v := range tri {
			idx := uint32(len(m.Vertices) / 3)
			m.Vertices = append(m.Vertices, float32(v.X()), float32(v.Y()), float32(v.Z()))
			m.Normals = append(m.Normals, float32(n.X()), float32(n.Y()), float32(n.Z()))
			m.Indices = append(m.Indices, idx)
		}
	}
}
