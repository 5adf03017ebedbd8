package engine

import (
	"math"
	"testing"

	"github.com/parti-cad/parti/pkg/kernel/analytic"
)

func newTestEngine() *Engine {
	return New(analytic.New())
}

func TestEvaluateEmptyString(t *testing.T) {
	eng := newTestEngine()

	st, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil {
		t.Fatal("expected non-nil study")
	}
	if st.MassCount() != 0 {
		t.Errorf("expected empty study, got %d masses", st.MassCount())
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := newTestEngine()

	st, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil || st.MassCount() != 0 {
		t.Fatal("expected empty study")
	}
}

func TestEvaluatePlainExpression(t *testing.T) {
	eng := newTestEngine()

	st, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st == nil || st.MassCount() != 0 {
		t.Fatal("expected empty study for plain arithmetic")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := newTestEngine()

	st, evalErrs, err := eng.Evaluate("(mass \"a\"")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil study on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := newTestEngine()

	st, evalErrs, err := eng.Evaluate("(+ 1 no-such-value)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil study on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSingleMass(t *testing.T) {
	eng := newTestEngine()

	source := `
(mass "podium"
  :typology :i
  :length 10 :width 10 :depth 2
  :target-area 250 :floor-height 3)
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st.MassCount() != 1 {
		t.Fatalf("MassCount() = %d, want 1", st.MassCount())
	}
	rec := st.Lookup("podium")
	if rec == nil {
		t.Fatal("Lookup(podium) = nil")
	}
	if !rec.Built() {
		t.Fatal("mass was not built")
	}
	if rec.Result.FloorCount != 3 {
		t.Errorf("FloorCount = %d, want 3", rec.Result.FloorCount)
	}
	if math.Abs(rec.Result.FootprintArea-100) > 1e-9 {
		t.Errorf("FootprintArea = %g, want 100", rec.Result.FootprintArea)
	}
}

func TestEvaluateStackedMasses(t *testing.T) {
	eng := newTestEngine()

	source := `
(def podium (mass "podium"
  :typology :i
  :length 20 :width 20 :depth 4
  :target-area 800 :floor-height 4))
(stack podium "tower"
  :typology :o
  :length 20 :width 16 :depth 3
  :target-area 2000 :floor-height 3)
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if st.MassCount() != 2 {
		t.Fatalf("MassCount() = %d, want 2", st.MassCount())
	}

	podium := st.Lookup("podium")
	tower := st.Lookup("tower")
	if podium == nil || tower == nil {
		t.Fatal("missing records")
	}
	// 800 over 400 per floor: 2 floors of 4.
	if got := podium.Result.TopPlane.Origin.Z(); math.Abs(got-8) > 1e-9 {
		t.Errorf("podium top z = %g, want 8", got)
	}
	if got := tower.Request.BasePlane.Origin.Z(); math.Abs(got-8) > 1e-9 {
		t.Errorf("tower base z = %g, want 8", got)
	}
	min, _ := tower.Result.Mass.BoundingBox()
	if math.Abs(min.Z()-8) > 1e-9 {
		t.Errorf("tower mass starts at z = %g, want 8", min.Z())
	}
}

func TestEvaluateMassOnExplicitPlane(t *testing.T) {
	eng := newTestEngine()

	source := `
(mass "annex"
  :typology :l
  :length 12 :width 15 :depth 3
  :target-area 100 :floor-height 3
  :base (plane :origin (vec3 50 0 0)))
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	rec := st.Lookup("annex")
	if rec == nil || !rec.Built() {
		t.Fatal("annex was not built")
	}
	min, max := rec.Result.Mass.BoundingBox()
	center := min.Add(max).Mul(0.5)
	if math.Abs(center.X()-50) > 1e-9 {
		t.Errorf("mass centered at x = %g, want 50", center.X())
	}
}

func TestEvaluateInfeasibleMassWarns(t *testing.T) {
	eng := newTestEngine()

	// An O footprint needs width > 2*depth.
	source := `
(mass "thin-ring"
  :typology :o
  :length 20 :width 5 :depth 3
  :target-area 500 :floor-height 3)
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	rec := st.Lookup("thin-ring")
	if rec == nil {
		t.Fatal("infeasible mass should still be recorded")
	}
	if rec.Built() {
		t.Error("infeasible mass reported as built")
	}
	if len(st.Warnings()) == 0 {
		t.Error("expected a warning for the infeasible mass")
	}
}

func TestEvaluateStackOnUnbuiltMassFails(t *testing.T) {
	eng := newTestEngine()

	source := `
(def bad (mass "bad"
  :typology :o
  :length 20 :width 5 :depth 3
  :target-area 500 :floor-height 3))
(stack bad "on-top"
  :typology :i
  :length 10 :width 10 :depth 2
  :target-area 100 :floor-height 3)
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil study when stacking on an unbuilt mass")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
}

func TestEvaluateDuplicateNameFails(t *testing.T) {
	eng := newTestEngine()

	source := `
(mass "a" :typology :i :length 10 :width 10 :depth 2 :target-area 100 :floor-height 3)
(mass "a" :typology :i :length 10 :width 10 :depth 2 :target-area 100 :floor-height 3)
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil study on duplicate names")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for the duplicate name")
	}
}

func TestEvaluateMissingRequiredArgument(t *testing.T) {
	eng := newTestEngine()

	source := `(mass "a" :typology :i :length 10 :width 10 :depth 2 :floor-height 3)`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if st != nil {
		t.Fatal("expected nil study")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for the missing target-area")
	}
}

func TestEvaluateComposesWithDefsAndArithmetic(t *testing.T) {
	eng := newTestEngine()

	// The DSL composes with plain zygomys: defs and arithmetic flow
	// into the keyword arguments.
	source := `
(def bay 10)
(def floors 3)
(mass "block"
  :typology :i
  :length bay :width bay :depth 2
  :target-area (* bay bay floors) :floor-height 3)
`
	st, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	rec := st.Lookup("block")
	if rec == nil || !rec.Built() {
		t.Fatal("block was not built")
	}
	if rec.Result.FloorCount != 3 {
		t.Errorf("FloorCount = %d, want 3", rec.Result.FloorCount)
	}
}
