// Package query filters celestial objects with user-supplied expressions.
//
// Expressions use github.com/expr-lang/expr syntax over one object at a
// time, e.g.:
//
//	Mission && Kind == "entity"
//	Name contains "Derelict" || abs(X) > 10000
package query

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"scansector/internal/save"
)

// Env is the expression environment for one object.
type Env struct {
	Name    string  `expr:"Name"`
	Kind    string  `expr:"Kind"`
	Mission bool    `expr:"Mission"`
	X       float64 `expr:"X"`
	Y       float64 `expr:"Y"`
	System  string  `expr:"System"`
}

// Match pairs a matched object with the system it belongs to.
type Match struct {
	System string
	Object save.Object
}

// Filter is a compiled object predicate.
type Filter struct {
	src     string
	program *vm.Program
}

// Compile type-checks and compiles an expression. The expression must
// evaluate to a boolean.
func Compile(expression string) (*Filter, error) {
	if expression == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("abs", func(params ...any) (any, error) {
			v, ok := params[0].(float64)
			if !ok {
				return nil, fmt.Errorf("abs expects a number")
			}
			return math.Abs(v), nil
		}, new(func(float64) float64)),
		expr.Function("dist", func(params ...any) (any, error) {
			x, xok := params[0].(float64)
			y, yok := params[1].(float64)
			if !xok || !yok {
				return nil, fmt.Errorf("dist expects two numbers")
			}
			return math.Hypot(x, y), nil
		}, new(func(float64, float64) float64)),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Filter{src: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.src }

// MatchObject evaluates the filter against a single object.
func (f *Filter) MatchObject(system string, o save.Object) (bool, error) {
	env := Env{
		Name:    o.Name,
		Kind:    string(o.Kind),
		Mission: o.Mission,
		X:       o.Pos.X,
		Y:       o.Pos.Y,
		System:  system,
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.src, err)
	}
	return out.(bool), nil
}

// Apply runs the filter over every object of every system and returns the
// matches in system order.
func (f *Filter) Apply(systems []save.System) ([]Match, error) {
	var matches []Match
	for _, sys := range systems {
		for _, o := range sys.Objects {
			ok, err := f.MatchObject(sys.Name, o)
			if err != nil {
				return nil, err
			}
			if ok {
				matches = append(matches, Match{System: sys.Name, Object: o})
			}
		}
	}
	return matches, nil
}

// Select returns a copy of sys containing only matching objects.
func (f *Filter) Select(sys save.System) (save.System, error) {
	out := save.System{Name: sys.Name}
	for _, o := range sys.Objects {
		ok, err := f.MatchObject(sys.Name, o)
		if err != nil {
			return save.System{}, err
		}
		if ok {
			out.Objects = append(out.Objects, o)
		}
	}
	return out, nil
}
