// Package geom provides the planar primitives used to describe building
// footprints: oriented placement planes, curve segments (lines, circular
// arcs, elliptical arcs) and closed loops with exact area measurement.
package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Tol is the distance tolerance used for joining and closure checks.
const Tol = 1e-9

// Plane is an oriented coordinate frame: an origin point plus two unit
// in-plane axes. The normal is implied by the right-hand rule.
type Plane struct {
	Origin mgl64.Vec3 `json:"origin"`
	XAxis  mgl64.Vec3 `json:"x_axis"`
	YAxis  mgl64.Vec3 `json:"y_axis"`
}

// XY returns the world ground plane at the origin.
func XY() Plane {
	return Plane{
		XAxis: mgl64.Vec3{1, 0, 0},
		YAxis: mgl64.Vec3{0, 1, 0},
	}
}

// NewPlane builds a plane from an origin and two axis directions.
// The axes are normalized and the Y axis is re-orthogonalized against X,
// so callers may pass any two non-parallel directions.
func NewPlane(origin, xAxis, yAxis mgl64.Vec3) (Plane, error) {
	if xAxis.Len() < Tol {
		return Plane{}, fmt.Errorf("geom: plane X axis is zero")
	}
	x := xAxis.Normalize()
	y := yAxis.Sub(x.Mul(yAxis.Dot(x)))
	if y.Len() < Tol {
		return Plane{}, fmt.Errorf("geom: plane axes are parallel")
	}
	return Plane{Origin: origin, XAxis: x, YAxis: y.Normalize()}, nil
}

// Normal returns the unit normal of the plane.
func (p Plane) Normal() mgl64.Vec3 {
	return p.XAxis.Cross(p.YAxis).Normalize()
}

// At maps local plane coordinates (x, y) to a world point.
func (p Plane) At(x, y float64) mgl64.Vec3 {
	return p.Origin.Add(p.XAxis.Mul(x)).Add(p.YAxis.Mul(y))
}

// Translate returns the plane moved by the given world vector.
func (p Plane) Translate(v mgl64.Vec3) Plane {
	p.Origin = p.Origin.Add(v)
	return p
}

// Offset returns the plane translated along its normal by dist.
func (p Plane) Offset(dist float64) Plane {
	return p.Translate(p.Normal().Mul(dist))
}
