package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/swarf/pkg/stock"
	"github.com/chazu/swarf/pkg/toolpath"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: arc-cw -> arc_cw
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
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
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
			// Check for keyword: colon followed by a letter.
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
		// Only when hyphen sits between identifier characters (not a minus operator).
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

// sexpStock wraps a stock.Material returned from `stock`.
type sexpStock struct {
	m stock.Material
}

func (s *sexpStock) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(stock %gx%gx%g)", s.m.Width, s.m.Height, s.m.Thickness)
}
func (s *sexpStock) Type() *zygo.RegisteredType { return nil }

// sexpPoint wraps a tool position returned from the motion builtins.
type sexpPoint struct {
	p toolpath.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %.3f %.3f %.3f)", p.p.X, p.p.Y, p.p.Z)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

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
				// Keyword at end with no value: treat as flag with nil.
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

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
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

// optFloat returns a pointer to the numeric keyword argument key, or nil
// when it is absent.
func (a kwArgs) optFloat(key string) (*float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

// floatOr returns the numeric keyword argument key, or def when absent.
func (a kwArgs) floatOr(key string, def float64) (float64, error) {
	f, err := a.optFloat(key)
	if err != nil || f == nil {
		return def, err
	}
	return *f, nil
}

// axes collects the :x :y :z keyword arguments of a motion builtin.
func (a kwArgs) axes() (toolpath.Axes, error) {
	var ax toolpath.Axes
	var err error
	if ax.X, err = a.optFloat("x"); err != nil {
		return ax, err
	}
	if ax.Y, err = a.optFloat("y"); err != nil {
		return ax, err
	}
	if ax.Z, err = a.optFloat("z"); err != nil {
		return ax, err
	}
	return ax, nil
}

// toDirection converts :cw / :ccw to a toolpath.Direction.
func toDirection(s zygo.Sexp) (toolpath.Direction, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected direction keyword (:cw, :ccw): %w", err)
	}
	switch name {
	case "cw":
		return toolpath.Clockwise, nil
	case "ccw":
		return toolpath.CounterClockwise, nil
	}
	return 0, fmt.Errorf("invalid direction %q, expected cw or ccw", name)
}

// ---------------------------------------------------------------------------
// Script state
// ---------------------------------------------------------------------------

// scriptState accumulates the program while a script runs. The tool
// starts at X0 Y0 on the stock top (work Z 0).
type scriptState struct {
	stock      *stock.Material
	toolRadius float64
	b          *toolpath.Builder
}

func newScriptState() *scriptState {
	return &scriptState{b: toolpath.NewBuilder(toolpath.Point{})}
}

func (s *scriptState) program() *toolpath.Program {
	return &toolpath.Program{
		Stock:      s.stock,
		ToolRadius: s.toolRadius,
		Segments:   s.b.Segments(),
	}
}

// arcCenter resolves an arc center given either absolute :cx :cy or
// offsets :i :j from the current position. Missing absolute coordinates
// default to the current position, missing offsets to zero.
func (s *scriptState) arcCenter(pa kwArgs) (toolpath.Point, error) {
	pos := s.b.Position()
	_, hasCX := pa.kw["cx"]
	_, hasCY := pa.kw["cy"]
	_, hasI := pa.kw["i"]
	_, hasJ := pa.kw["j"]

	switch {
	case (hasCX || hasCY) && (hasI || hasJ):
		return toolpath.Point{}, fmt.Errorf("use either :cx :cy or :i :j, not both")
	case hasCX || hasCY:
		cx, err := pa.floatOr("cx", pos.X)
		if err != nil {
			return toolpath.Point{}, err
		}
		cy, err := pa.floatOr("cy", pos.Y)
		if err != nil {
			return toolpath.Point{}, err
		}
		return toolpath.Point{X: cx, Y: cy}, nil
	case hasI || hasJ:
		i, err := pa.floatOr("i", 0)
		if err != nil {
			return toolpath.Point{}, err
		}
		j, err := pa.floatOr("j", 0)
		if err != nil {
			return toolpath.Point{}, err
		}
		return toolpath.Point{X: pos.X + i, Y: pos.Y + j}, nil
	}
	return toolpath.Point{}, fmt.Errorf("center required (:cx :cy or :i :j)")
}

// arc appends an arc move and returns its end point.
func (s *scriptState) arc(fn string, pa kwArgs, dir toolpath.Direction) (zygo.Sexp, error) {
	ax, err := pa.axes()
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	center, err := s.arcCenter(pa)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	dst := ax.Resolve(s.b.Position())
	if center.DistXY(s.b.Position()) == 0 {
		return zygo.SexpNull, fmt.Errorf("%s: center coincides with start point", fn)
	}
	s.b.Arc(dst, center, dir)
	return &sexpPoint{p: dst}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the toolpath builtins into a zygomys environment.
// The builtins record into st during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *scriptState) {

	// -----------------------------------------------------------------------
	// (stock :width 100 :height 100 :thickness 10 :x 0 :y 0 :z 0)
	// -----------------------------------------------------------------------
	env.AddFunction("stock", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var dims [3]float64
		for i, key := range []string{"width", "height", "thickness"} {
			f, err := pa.optFloat(key)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stock: %w", err)
			}
			if f == nil {
				return zygo.SexpNull, fmt.Errorf("stock: :%s is required", key)
			}
			dims[i] = *f
		}
		var origin stock.Vec3
		var err error
		if origin.X, err = pa.floatOr("x", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("stock: %w", err)
		}
		if origin.Y, err = pa.floatOr("y", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("stock: %w", err)
		}
		if origin.Z, err = pa.floatOr("z", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("stock: %w", err)
		}

		m, err := stock.New(dims[0], dims[1], dims[2], origin)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stock: %w", err)
		}
		st.stock = &m
		return &sexpStock{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (tool :radius 3) or (tool :diameter 6)
	// -----------------------------------------------------------------------
	env.AddFunction("tool", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.optFloat("radius")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: %w", err)
		}
		d, err := pa.optFloat("diameter")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: %w", err)
		}

		var radius float64
		switch {
		case r != nil && d != nil:
			return zygo.SexpNull, fmt.Errorf("tool: give :radius or :diameter, not both")
		case r != nil:
			radius = *r
		case d != nil:
			radius = *d / 2
		default:
			return zygo.SexpNull, fmt.Errorf("tool: :radius or :diameter is required")
		}
		if err := stock.CheckPositive("tool radius", radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: %w", err)
		}
		st.toolRadius = radius
		return &zygo.SexpFloat{Val: radius}, nil
	})

	// -----------------------------------------------------------------------
	// (rapid :x 10 :y 10 :z 5) and (line :x 90 :z -5)
	//
	// Omitted axes keep their current value.
	// -----------------------------------------------------------------------
	env.AddFunction("rapid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ax, err := parseArgs(args).axes()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rapid: %w", err)
		}
		dst := ax.Resolve(st.b.Position())
		st.b.Rapid(dst)
		return &sexpPoint{p: dst}, nil
	})

	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ax, err := parseArgs(args).axes()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: %w", err)
		}
		dst := ax.Resolve(st.b.Position())
		st.b.Line(dst)
		return &sexpPoint{p: dst}, nil
	})

	// -----------------------------------------------------------------------
	// (arc-cw :x 20 :y 10 :cx 15 :cy 10), (arc-ccw :x 20 :y 10 :i 5 :j 0)
	// (arc :dir :cw ...)
	//
	// Registered with underscores because zygomys does not support hyphens
	// in identifiers. An arc that ends where it starts is a full circle.
	// -----------------------------------------------------------------------
	env.AddFunction("arc_cw", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return st.arc("arc-cw", parseArgs(args), toolpath.Clockwise)
	})

	env.AddFunction("arc_ccw", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return st.arc("arc-ccw", parseArgs(args), toolpath.CounterClockwise)
	})

	env.AddFunction("arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, ok := pa.kw["dir"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("arc: :dir is required")
		}
		dir, err := toDirection(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("arc: dir: %w", err)
		}
		return st.arc("arc", pa, dir)
	})

	// -----------------------------------------------------------------------
	// (position) returns the current tool position.
	// -----------------------------------------------------------------------
	env.AddFunction("position", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("position takes no arguments, got %d", len(args))
		}
		return &sexpPoint{p: st.b.Position()}, nil
	})
}
