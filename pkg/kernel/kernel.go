// Package kernel defines the abstract geometry kernel interface.
// Implementations (analytic, sdfx) provide curve, surface and solid
// construction plus measurement behind this interface. The kernel
// abstraction allows the footprint and massing logic to be tested against
// the exact in-memory backend while the sdfx backend produces meshes.
package kernel

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/geom"
)

// Curve is an opaque handle to a closed planar curve in a local 2-D frame.
type Curve interface {
	// Area returns the enclosed area as measured by the backend.
	Area() float64
}

// Surface is an opaque handle to a planar patch, possibly trimmed by hole
// loops, placed on a 3-D plane.
type Surface interface {
	// Plane returns the placement frame the patch lies on.
	Plane() geom.Plane
}

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max mgl64.Vec3)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Curve construction, in local 2-D coordinates.
	Polyline(pts ...mgl64.Vec2) (Curve, error)
	Loop(segs ...geom.Segment) (Curve, error)
	Ellipse(center mgl64.Vec2, rx, ry float64) (Curve, error)
	TranslateCurve(c Curve, d mgl64.Vec2) Curve

	// Surfacing. Patch spans a closed boundary placed on a plane; Trim
	// carves hole loops out of a patch. The trim set may include the
	// patch's own outer boundary; backends must recognize and skip it
	// rather than trimming the patch away (see footprint.Build).
	Patch(boundary Curve, p geom.Plane) (Surface, error)
	Trim(s Surface, holes []Curve) (Surface, error)
	TranslateSurface(s Surface, d mgl64.Vec3) Surface
	Area(s Surface) float64

	// Solids. Thicken extrudes one-sided along the surface plane normal.
	Thicken(s Surface, height float64) (Solid, error)
	Volume(s Solid) float64
	ToMesh(s Solid) (*Mesh, error)
}
