package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/parti-cad/parti/pkg/footprint"
	"github.com/parti-cad/parti/pkg/geom"
	"github.com/parti-cad/parti/pkg/kernel"
	"github.com/parti-cad/parti/pkg/massing"
	"github.com/parti-cad/parti/pkg/study"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms massing Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: top-plane -> top_plane
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps an mgl64.Vec3.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPlane wraps a geom.Plane so it can flow from `plane` or
// `top-plane` into a `mass` call.
type sexpPlane struct {
	plane geom.Plane
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string {
	o := p.plane.Origin
	return fmt.Sprintf("(plane :origin (vec3 %.1f %.1f %.1f))", o.X(), o.Y(), o.Z())
}
func (p *sexpPlane) Type() *zygo.RegisteredType { return nil }

// sexpMassRef wraps a study.MassRecord so masses can be referenced and
// stacked.
type sexpMassRef struct {
	rec *study.MassRecord
}

func (m *sexpMassRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mass %q)", m.rec.Name)
}
func (m *sexpMassRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_u) and plain strings ("U").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toTypology converts a keyword or string to a footprint.Typology.
func toTypology(s zygo.Sexp) (footprint.Typology, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected typology keyword (:i, :l, :h, :u, :d, :o): %w", err)
	}
	return footprint.ParseTypology(name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMassRef extracts the record from a sexpMassRef.
func toMassRef(s zygo.Sexp) (*study.MassRecord, error) {
	if m, ok := s.(*sexpMassRef); ok {
		return m.rec, nil
	}
	return nil, fmt.Errorf("expected mass reference, got %T (%s)", s, s.SexpString(nil))
}

// toBasePlane accepts either a plane value or a mass reference, in which
// case the referenced mass's top plane is used.
func toBasePlane(s zygo.Sexp) (geom.Plane, error) {
	switch v := s.(type) {
	case *sexpPlane:
		return v.plane, nil
	case *sexpMassRef:
		if !v.rec.Built() || v.rec.Result.TopPlane == nil {
			return geom.Plane{}, fmt.Errorf("mass %q was not built, it has no top plane", v.rec.Name)
		}
		return *v.rec.Result.TopPlane, nil
	}
	return geom.Plane{}, fmt.Errorf("expected plane or mass reference, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// massRequest parses the shared keyword arguments of `mass` and `stack`
// into a massing request. The base plane defaults to the world XY plane.
func massRequest(fn string, pa kwArgs) (massing.Request, error) {
	req := massing.Request{BasePlane: geom.XY()}

	v, ok := pa.kw["typology"]
	if !ok {
		return req, fmt.Errorf("%s: typology is required", fn)
	}
	typ, err := toTypology(v)
	if err != nil {
		return req, fmt.Errorf("%s: typology: %w", fn, err)
	}
	req.Typology = typ

	fields := []struct {
		kw  string
		dst *float64
	}{
		{"length", &req.Length},
		{"width", &req.Width},
		{"depth", &req.Depth},
		{"target-area", &req.TargetArea},
		{"floor-height", &req.FloorHeight},
	}
	for _, f := range fields {
		v, ok := pa.kw[f.kw]
		if !ok {
			return req, fmt.Errorf("%s: %s is required", fn, f.kw)
		}
		x, err := toFloat64(v)
		if err != nil {
			return req, fmt.Errorf("%s: %s: %w", fn, f.kw, err)
		}
		*f.dst = x
	}

	if v, ok := pa.kw["base"]; ok {
		p, err := toBasePlane(v)
		if err != nil {
			return req, fmt.Errorf("%s: base: %w", fn, err)
		}
		req.BasePlane = p
	}
	if v, ok := pa.kw["core"]; ok {
		b, err := toBool(v)
		if err != nil {
			return req, fmt.Errorf("%s: core: %w", fn, err)
		}
		req.CreateCore = b
	}
	return req, nil
}

// generateInto runs the generator for req and records the outcome under
// name, raising a study warning when the configuration is infeasible.
func generateInto(k kernel.Kernel, st *study.Study, fn, name string, req massing.Request) (zygo.Sexp, error) {
	res, err := massing.Generate(k, req)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %q: %w", fn, name, err)
	}
	rec, err := st.Add(name, req, res)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if !rec.Built() {
		for _, v := range footprint.Check(req.Typology, req.Length, req.Width, req.Depth) {
			st.AddWarning("mass %q: %s", name, v.Message)
		}
		if req.TargetArea <= 0 || req.FloorHeight <= 0 {
			st.AddWarning("mass %q: target area and floor height must be positive", name)
		}
	}
	return &sexpMassRef{rec: rec}, nil
}

// registerBuiltins installs the massing DSL builtins into a zygomys
// environment. The builtins build geometry through k and record every
// mass in st.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, st *study.Study) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i := range xyz {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: mgl64.Vec3{xyz[0], xyz[1], xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :origin (vec3 0 0 30) :x-axis (vec3 1 0 0) :y-axis (vec3 0 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		world := geom.XY()
		origin, xAxis, yAxis := world.Origin, world.XAxis, world.YAxis

		if v, ok := pa.kw["origin"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: origin: %w", err)
			}
			origin = vec
		}
		if v, ok := pa.kw["x-axis"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: x-axis: %w", err)
			}
			xAxis = vec
		}
		if v, ok := pa.kw["y-axis"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: y-axis: %w", err)
			}
			yAxis = vec
		}

		p, err := geom.NewPlane(origin, xAxis, yAxis)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		return &sexpPlane{plane: p}, nil
	})

	// -----------------------------------------------------------------------
	// (top-plane (mass ...))
	//
	// Note: registered as "top_plane" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts top-plane to
	// top_plane in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("top_plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("top-plane requires exactly 1 argument, got %d", len(args))
		}
		rec, err := toMassRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("top-plane: %w", err)
		}
		if !rec.Built() || rec.Result.TopPlane == nil {
			return zygo.SexpNull, fmt.Errorf("top-plane: mass %q was not built", rec.Name)
		}
		return &sexpPlane{plane: *rec.Result.TopPlane}, nil
	})

	// -----------------------------------------------------------------------
	// (mass "podium" :typology :i :length 60 :width 40 :depth 12
	//                :target-area 4800 :floor-height 4.5
	//                :base (plane ...) :core true)
	// -----------------------------------------------------------------------
	env.AddFunction("mass", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("mass requires a name as first argument")
		}
		massName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mass: name: %w", err)
		}
		req, err := massRequest("mass", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return generateInto(k, st, "mass", massName, req)
	})

	// -----------------------------------------------------------------------
	// (stack podium "tower" :typology :u :length 40 :width 30 :depth 8
	//                       :target-area 9000 :floor-height 3.5)
	//
	// Shorthand for a mass whose base plane is the top plane of an
	// already built mass.
	// -----------------------------------------------------------------------
	env.AddFunction("stack", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("stack requires a mass reference and a name")
		}
		below, err := toMassRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: below: %w", err)
		}
		massName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stack: name: %w", err)
		}
		if !below.Built() || below.Result.TopPlane == nil {
			return zygo.SexpNull, fmt.Errorf("stack: mass %q was not built, cannot stack on it", below.Name)
		}
		req, err := massRequest("stack", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		req.BasePlane = *below.Result.TopPlane
		return generateInto(k, st, "stack", massName, req)
	})
}
