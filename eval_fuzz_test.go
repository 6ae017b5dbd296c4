package formula_test

import (
	"errors"
	"testing"

	"github.com/ashkettle/formula"
)

// FuzzEval evaluates anything that parses, with all reported inputs bound,
// and checks that evaluation never panics and that every failure is an
// EvalError naming a variable.
func FuzzEval(f *testing.F) {
	f.Add("a + b * 2", 1.5)
	f.Add("let temp = x * 2; temp + y", 3.0)
	f.Add("if hp < 10 { 1 } else { 0 }", 9.0)
	f.Add("x = 1; x += v; x", 0.25)
	f.Add("min(a, b, c) / max(a, b, 1)", -2.0)
	f.Add("cond ? 1/z : z", 0.0)
	f.Fuzz(func(t *testing.T, src string, v float64) {
		ff, err := formula.Parse(src, formula.WithRandom(formula.NewSeededRandom(7)))
		if err != nil {
			return
		}
		inputs := ff.Inputs()
		bindings := make(map[string]float64, len(inputs))
		for _, name := range inputs {
			bindings[name] = v
		}
		_, err = ff.Evaluate(bindings)
		if err == nil {
			return
		}
		var ee *formula.EvalError
		if !errors.As(err, &ee) {
			t.Fatalf("error is %#v, not EvalError", err)
		}
		// A local declared only inside an untaken branch is not an input
		// but can still be read, so the name only has to be nonempty.
		if ee.Name == "" {
			t.Error("EvalError with empty variable name")
		}
	})
}
