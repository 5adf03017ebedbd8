// Package massing turns typology footprints into volumetric building
// masses: it sizes an integer floor count against a target gross floor
// area, extrudes the footprint into a solid and reports per-floor surfaces,
// aggregate measurements and a top plane for stacking further masses.
package massing

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/footprint"
	"github.com/parti-cad/parti/pkg/geom"
	"github.com/parti-cad/parti/pkg/kernel"
)

// Request carries the parameters for one mass generation.
type Request struct {
	Typology    footprint.Typology
	BasePlane   geom.Plane
	Length      float64
	Width       float64
	Depth       float64
	TargetArea  float64 // gross floor area the stacked floors must reach
	FloorHeight float64
	CreateCore  bool // accepted but has no effect; Cores is always empty
}

// Result is the outcome of one mass generation. The zero Result is the
// soft-failure answer for infeasible or invalid requests.
type Result struct {
	Floors         []kernel.Surface // ground floor first, ascending
	Mass           kernel.Solid
	Cores          []kernel.Solid // always empty, see Request.CreateCore
	FloorCount     int
	FootprintArea  float64
	TotalFloorArea float64
	TotalVolume    float64
	TopPlane       *geom.Plane
}

// IsEmpty reports whether the result is the soft-failure answer.
func (r Result) IsEmpty() bool {
	return r.Mass == nil
}

// Generate builds a mass for the request through the injected kernel.
//
// Invalid inputs (any non-positive dimension, target area or floor height)
// and infeasible typology configurations yield the zero Result and a nil
// error, so interactive exploration never aborts on transient bad input.
// Errors are reserved for kernel failures on degenerate derived geometry.
func Generate(k kernel.Kernel, req Request) (Result, error) {
	if req.Length <= 0 || req.Width <= 0 || req.Depth <= 0 ||
		req.TargetArea <= 0 || req.FloorHeight <= 0 {
		return Result{}, nil
	}

	fp, err := footprint.Build(k, req.Typology, req.Length, req.Width, req.Depth)
	if err != nil {
		return Result{}, fmt.Errorf("massing: footprint: %w", err)
	}
	if fp == nil {
		return Result{}, nil
	}

	// Center the footprint on the base plane: local (width/2, length/2)
	// maps to the plane origin, whatever the typology.
	off := mgl64.Vec2{-req.Width / 2, -req.Length / 2}
	boundary := k.TranslateCurve(fp.Boundary, off)
	holes := make([]kernel.Curve, len(fp.Holes))
	for i, h := range fp.Holes {
		holes[i] = k.TranslateCurve(h, off)
	}

	base, err := k.Patch(boundary, req.BasePlane)
	if err != nil {
		return Result{}, fmt.Errorf("massing: patch: %w", err)
	}
	if len(holes) > 0 {
		// The outer boundary rides along in the trim set so the kernel
		// keeps the correct side of the cut (see footprint.Build).
		base, err = k.Trim(base, append([]kernel.Curve{boundary}, holes...))
		if err != nil {
			return Result{}, fmt.Errorf("massing: trim: %w", err)
		}
	}

	area := k.Area(base)
	if area <= 0 {
		return Result{}, nil
	}
	floorCount := int(math.Ceil(req.TargetArea / area))

	height := float64(floorCount) * req.FloorHeight
	mass, err := k.Thicken(base, height)
	if err != nil {
		return Result{}, fmt.Errorf("massing: thicken: %w", err)
	}

	normal := req.BasePlane.Normal()
	floors := make([]kernel.Surface, floorCount)
	for i := 0; i < floorCount; i++ {
		floors[i] = k.TranslateSurface(base, normal.Mul(float64(i)*req.FloorHeight))
	}

	top := req.BasePlane.Offset(height)

	return Result{
		Floors:         floors,
		Mass:           mass,
		Cores:          []kernel.Solid{},
		FloorCount:     floorCount,
		FootprintArea:  area,
		TotalFloorArea: area * float64(floorCount),
		TotalVolume:    k.Volume(mass),
		TopPlane:       &top,
	}, nil
}
