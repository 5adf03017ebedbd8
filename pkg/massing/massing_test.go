package massing

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/footprint"
	"github.com/parti-cad/parti/pkg/geom"
	"github.com/parti-cad/parti/pkg/kernel/analytic"
)

func baseRequest() Request {
	return Request{
		Typology:    footprint.TypologyI,
		BasePlane:   geom.XY(),
		Length:      10,
		Width:       10,
		Depth:       2,
		TargetArea:  250,
		FloorHeight: 3,
	}
}

func TestGenerateFloorCountCeil(t *testing.T) {
	k := analytic.New()
	tests := []struct {
		name       string
		targetArea float64
		wantFloors int
	}{
		{"exact multiple", 300, 3},
		{"rounds up", 250, 3},
		{"single floor", 80, 1},
		{"tiny target still one floor", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			req.TargetArea = tt.targetArea
			res, err := Generate(k, req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if res.IsEmpty() {
				t.Fatal("Generate() = empty result")
			}
			if res.FloorCount != tt.wantFloors {
				t.Errorf("FloorCount = %d, want %d", res.FloorCount, tt.wantFloors)
			}
			if len(res.Floors) != tt.wantFloors {
				t.Errorf("len(Floors) = %d, want %d", len(res.Floors), tt.wantFloors)
			}
			wantTotal := res.FootprintArea * float64(tt.wantFloors)
			if math.Abs(res.TotalFloorArea-wantTotal) > 1e-9 {
				t.Errorf("TotalFloorArea = %g, want %g", res.TotalFloorArea, wantTotal)
			}
			if res.TotalFloorArea < tt.targetArea {
				t.Errorf("TotalFloorArea = %g fell short of target %g", res.TotalFloorArea, tt.targetArea)
			}
		})
	}
}

func TestGenerateTypeIExactMeasures(t *testing.T) {
	k := analytic.New()
	req := baseRequest() // 10x10 footprint, target 250 -> 3 floors of 3
	res, err := Generate(k, req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if math.Abs(res.FootprintArea-100) > 1e-9 {
		t.Errorf("FootprintArea = %g, want 100", res.FootprintArea)
	}
	if math.Abs(res.TotalVolume-100*9) > 1e-9 {
		t.Errorf("TotalVolume = %g, want 900", res.TotalVolume)
	}
	if res.TopPlane == nil {
		t.Fatal("TopPlane is nil")
	}
	wantTop := mgl64.Vec3{0, 0, 9}
	if got := res.TopPlane.Origin; got.Sub(wantTop).Len() > 1e-9 {
		t.Errorf("TopPlane.Origin = %v, want %v", got, wantTop)
	}
	min, max := res.Mass.BoundingBox()
	if math.Abs(min.Z()) > 1e-9 || math.Abs(max.Z()-9) > 1e-9 {
		t.Errorf("mass z span = [%g, %g], want [0, 9]", min.Z(), max.Z())
	}
	// Centered on the base plane origin.
	if math.Abs(min.X()+5) > 1e-9 || math.Abs(max.X()-5) > 1e-9 {
		t.Errorf("mass x span = [%g, %g], want [-5, 5]", min.X(), max.X())
	}
}

func TestGenerateFloorsAscend(t *testing.T) {
	k := analytic.New()
	req := baseRequest()
	res, err := Generate(k, req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, f := range res.Floors {
		wantZ := float64(i) * req.FloorHeight
		if got := f.Plane().Origin.Z(); math.Abs(got-wantZ) > 1e-9 {
			t.Errorf("floor %d at z = %g, want %g", i, got, wantZ)
		}
		if got := k.Area(f); math.Abs(got-res.FootprintArea) > 1e-9 {
			t.Errorf("floor %d area = %g, want %g", i, got, res.FootprintArea)
		}
	}
}

func TestGenerateHoledTypologyVolume(t *testing.T) {
	k := analytic.New()
	req := baseRequest()
	req.Typology = footprint.TypologyO
	req.Length = 20
	req.Width = 16
	req.Depth = 3
	req.TargetArea = 200
	res, err := Generate(k, req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.IsEmpty() {
		t.Fatal("Generate() = empty result")
	}
	wantArea := math.Pi * (8*10 - 5*7)
	if math.Abs(res.FootprintArea-wantArea) > 1e-9 {
		t.Errorf("FootprintArea = %g, want %g", res.FootprintArea, wantArea)
	}
	wantVol := wantArea * float64(res.FloorCount) * req.FloorHeight
	if math.Abs(res.TotalVolume-wantVol) > 1e-6 {
		t.Errorf("TotalVolume = %g, want %g", res.TotalVolume, wantVol)
	}
}

func TestGenerateInfeasibleIsEmptyNotError(t *testing.T) {
	k := analytic.New()
	req := baseRequest()
	req.Typology = footprint.TypologyO
	req.Width = 3 // narrower than twice the depth
	res, err := Generate(k, req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !res.IsEmpty() {
		t.Error("Generate() produced a mass for an infeasible typology")
	}
	if res.FloorCount != 0 || len(res.Floors) != 0 || res.TopPlane != nil {
		t.Errorf("empty result carries data: %+v", res)
	}
}

func TestGenerateNonPositiveInputsAreEmpty(t *testing.T) {
	k := analytic.New()
	mutations := []struct {
		name string
		mut  func(*Request)
	}{
		{"zero length", func(r *Request) { r.Length = 0 }},
		{"negative width", func(r *Request) { r.Width = -4 }},
		{"zero depth", func(r *Request) { r.Depth = 0 }},
		{"zero target area", func(r *Request) { r.TargetArea = 0 }},
		{"negative floor height", func(r *Request) { r.FloorHeight = -1 }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mut(&req)
			res, err := Generate(k, req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if !res.IsEmpty() {
				t.Error("Generate() produced a mass for invalid input")
			}
		})
	}
}

func TestGenerateCoreFlagIsInert(t *testing.T) {
	k := analytic.New()
	req := baseRequest()
	req.CreateCore = true
	res, err := Generate(k, req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.IsEmpty() {
		t.Fatal("Generate() = empty result")
	}
	if len(res.Cores) != 0 {
		t.Errorf("Cores = %d solids, want none", len(res.Cores))
	}
}

func TestGenerateOnElevatedPlane(t *testing.T) {
	k := analytic.New()
	req := baseRequest()
	req.BasePlane = geom.XY().Translate(mgl64.Vec3{0, 0, 12})
	res, err := Generate(k, req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	min, _ := res.Mass.BoundingBox()
	if math.Abs(min.Z()-12) > 1e-9 {
		t.Errorf("mass starts at z = %g, want 12", min.Z())
	}
	if got := res.TopPlane.Origin.Z(); math.Abs(got-21) > 1e-9 {
		t.Errorf("TopPlane z = %g, want 21", got)
	}
	if got := res.Floors[0].Plane().Origin.Z(); math.Abs(got-12) > 1e-9 {
		t.Errorf("ground floor z = %g, want 12", got)
	}
}
