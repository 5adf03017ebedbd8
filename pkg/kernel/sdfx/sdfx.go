// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Curves are discretized to
// polygons, holes are carved with 2-D boolean difference, and solids are
// extrusions rendered to meshes with marching cubes. Area and volume are
// measured on the discretized geometry so they stay consistent with the
// solid actually produced.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/geom"
	"github.com/parti-cad/parti/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// chordsPerSegment controls polygonization fidelity of arcs and ellipses.
const chordsPerSegment = 48

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// curve wraps a loop plus its polygon discretization.
type curve struct {
	loop geom.Loop
	ring []mgl64.Vec2
}

// Area returns the shoelace area of the discretized polygon, slightly
// under the exact value for curved boundaries.
func (c *curve) Area() float64 {
	return math.Abs(shoelace(c.ring))
}

// surface is a planar patch: discretized outer ring, hole rings, plane.
type surface struct {
	plane geom.Plane
	outer *curve
	holes []*curve
}

func (s *surface) Plane() geom.Plane { return s.plane }

// solid is an extruded patch. The SDF lives in the patch's local frame
// with z spanning [0, height]; the plane maps it into world space.
// The marching cubes mesh is cached after the first render.
type solid struct {
	sdf3   sdf.SDF3
	base   *surface
	height float64
	mesh   *kernel.Mesh // local-frame cache
}

// BoundingBox maps the local SDF box corners through the placement plane.
func (s *solid) BoundingBox() (min, max mgl64.Vec3) {
	bb := s.sdf3.BoundingBox()
	p := s.base.plane
	n := p.Normal()
	first := true
	for _, x := range [2]float64{bb.Min.X, bb.Max.X} {
		for _, y := range [2]float64{bb.Min.Y, bb.Max.Y} {
			for _, z := range [2]float64{bb.Min.Z, bb.Max.Z} {
				w := p.At(x, y).Add(n.Mul(z))
				if first {
					min, max = w, w
					first = false
					continue
				}
				for i := 0; i < 3; i++ {
					min[i] = math.Min(min[i], w[i])
					max[i] = math.Max(max[i], w[i])
				}
			}
		}
	}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// shoelace returns the signed area of a polygon ring.
func shoelace(ring []mgl64.Vec2) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X()*q.Y() - q.X()*p.Y()
	}
	return sum / 2
}

// newCurve validates and discretizes a loop.
func newCurve(l geom.Loop) (kernel.Curve, error) {
	if !l.Closed() {
		return nil, fmt.Errorf("sdfx: curve is not closed")
	}
	ring := l.Points(chordsPerSegment)
	if math.Abs(shoelace(ring)) <= geom.Tol {
		return nil, fmt.Errorf("sdfx: curve encloses no area")
	}
	return &curve{loop: l, ring: ring}, nil
}

// Polyline builds a closed polyline curve from an ordered point list.
func (k *SdfxKernel) Polyline(pts ...mgl64.Vec2) (kernel.Curve, error) {
	l, err := geom.Polyline(pts...)
	if err != nil {
		return nil, err
	}
	return newCurve(l)
}

// Loop joins line, arc and ellipse-arc segments into a closed curve.
func (k *SdfxKernel) Loop(segs ...geom.Segment) (kernel.Curve, error) {
	l, err := geom.NewLoop(segs...)
	if err != nil {
		return nil, err
	}
	return newCurve(l)
}

// Ellipse builds a full ellipse curve about center.
func (k *SdfxKernel) Ellipse(center mgl64.Vec2, rx, ry float64) (kernel.Curve, error) {
	if rx <= 0 || ry <= 0 {
		return nil, fmt.Errorf("sdfx: ellipse radii must be positive, got (%g, %g)", rx, ry)
	}
	return newCurve(geom.Ellipse(center, rx, ry))
}

// TranslateCurve returns a copy of the curve moved by d in its local frame.
func (k *SdfxKernel) TranslateCurve(c kernel.Curve, d mgl64.Vec2) kernel.Curve {
	sc := c.(*curve)
	ring := make([]mgl64.Vec2, len(sc.ring))
	for i, p := range sc.ring {
		ring[i] = p.Add(d)
	}
	return &curve{loop: sc.loop.Translate(d), ring: ring}
}

// Patch spans a closed boundary curve with a planar surface on p.
func (k *SdfxKernel) Patch(boundary kernel.Curve, p geom.Plane) (kernel.Surface, error) {
	b, ok := boundary.(*curve)
	if !ok || b == nil {
		return nil, fmt.Errorf("sdfx: patch boundary is not an sdfx curve")
	}
	return &surface{plane: p, outer: b}, nil
}

// Trim carves hole loops out of a patch. A loop identical to the patch's
// own outer boundary is skipped rather than trimmed.
func (k *SdfxKernel) Trim(s kernel.Surface, holes []kernel.Curve) (kernel.Surface, error) {
	ss := s.(*surface)
	out := &surface{plane: ss.plane, outer: ss.outer, holes: ss.holes}
	for i, h := range holes {
		hc := h.(*curve)
		if hc == ss.outer {
			continue
		}
		if hc.Area() >= ss.outer.Area() {
			return nil, fmt.Errorf("sdfx: trim loop %d is not smaller than the patch boundary", i)
		}
		out.holes = append(out.holes, hc)
	}
	return out, nil
}

// TranslateSurface returns the surface moved by the world vector d.
func (k *SdfxKernel) TranslateSurface(s kernel.Surface, d mgl64.Vec3) kernel.Surface {
	ss := s.(*surface)
	return &surface{plane: ss.plane.Translate(d), outer: ss.outer, holes: ss.holes}
}

// Area returns the patch area: outer polygon area minus hole areas.
func (k *SdfxKernel) Area(s kernel.Surface) float64 {
	ss := s.(*surface)
	a := ss.outer.Area()
	for _, h := range ss.holes {
		a -= h.Area()
	}
	return a
}

// polygon2D builds an sdfx 2-D SDF from a ring, normalizing the winding
// to counter-clockwise.
func polygon2D(ring []mgl64.Vec2) (sdf.SDF2, error) {
	pts := make([]v2.Vec, len(ring))
	if shoelace(ring) >= 0 {
		for i, p := range ring {
			pts[i] = v2.Vec{X: p.X(), Y: p.Y()}
		}
	} else {
		for i, p := range ring {
			pts[len(ring)-1-i] = v2.Vec{X: p.X(), Y: p.Y()}
		}
	}
	return sdf.Polygon2D(pts)
}

// Thicken extrudes the surface one-sided along its plane normal.
func (k *SdfxKernel) Thicken(s kernel.Surface, height float64) (kernel.Solid, error) {
	if height <= geom.Tol {
		return nil, fmt.Errorf("sdfx: thicken height must be positive, got %g", height)
	}
	ss := s.(*surface)

	s2, err := polygon2D(ss.outer.ring)
	if err != nil {
		return nil, fmt.Errorf("sdfx: boundary polygon: %w", err)
	}
	for i, h := range ss.holes {
		h2, err := polygon2D(h.ring)
		if err != nil {
			return nil, fmt.Errorf("sdfx: hole polygon %d: %w", i, err)
		}
		s2 = sdf.Difference2D(s2, h2)
	}

	s3 := sdf.Extrude3D(s2, height)
	// Extrude3D is symmetric about z=0; shift so the patch is the bottom face.
	s3 = sdf.Transform3D(s3, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2}))

	return &solid{sdf3: s3, base: ss, height: height}, nil
}

// localMesh renders the solid with marching cubes in its local frame.
func (s *solid) localMesh() *kernel.Mesh {
	if s.mesh != nil {
		return s.mesh
	}
	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(s.sdf3, renderer)

	mesh := &kernel.Mesh{}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}
	s.mesh = mesh
	return mesh
}

// Volume measures the solid by summing signed tetrahedra over its
// marching cubes mesh. The result tracks the rendered solid, not the
// ideal footprint-times-height prism.
func (k *SdfxKernel) Volume(s kernel.Solid) float64 {
	sol := s.(*solid)
	m := sol.localMesh()

	var vol float64
	for t := 0; t < m.TriangleCount(); t++ {
		var tri [3]mgl64.Vec3
		for j := 0; j < 3; j++ {
			i := m.Indices[t*3+j]
			tri[j] = mgl64.Vec3{
				float64(m.Vertices[i*3]),
				float64(m.Vertices[i*3+1]),
				float64(m.Vertices[i*3+2]),
			}
		}
		vol += tri[0].Dot(tri[1].Cross(tri[2])) / 6
	}
	return math.Abs(vol)
}

// ToMesh renders the solid and maps it through its placement plane.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sol := s.(*solid)
	local := sol.localMesh()

	p := sol.base.plane
	n := p.Normal()

	out := &kernel.Mesh{
		Vertices: make([]float32, len(local.Vertices)),
		Normals:  make([]float32, len(local.Normals)),
		Indices:  append([]uint32(nil), local.Indices...),
	}
	for i := 0; i < local.VertexCount(); i++ {
		v := p.At(float64(local.Vertices[i*3]), float64(local.Vertices[i*3+1])).
			Add(n.Mul(float64(local.Vertices[i*3+2])))
		out.Vertices[i*3] = float32(v.X())
		out.Vertices[i*3+1] = float32(v.Y())
		out.Vertices[i*3+2] = float32(v.Z())

		ln := mgl64.Vec3{
			float64(local.Normals[i*3]),
			float64(local.Normals[i*3+1]),
			float64(local.Normals[i*3+2]),
		}
		wn := p.XAxis.Mul(ln.X()).Add(p.YAxis.Mul(ln.Y())).Add(n.Mul(ln.Z()))
		out.Normals[i*3] = float32(wn.X())
		out.Normals[i*3+1] = float32(wn.Y())
		out.Normals[i*3+2] = float32(wn.Z())
	}
	return out, nil
}
