package formula_test

import (
	"errors"
	"testing"

	"github.com/ashkettle/formula"
)

// FuzzParse checks that the parser never panics and that every failure is a
// ParseError whose position lies inside the input.
func FuzzParse(f *testing.F) {
	f.Add("a + b * 2")
	f.Add("let temp = x * 2; temp + y")
	f.Add("if hp < 10 { potion } else { attack }")
	f.Add("crit ? base * 2 : base")
	f.Add("clamp(level / 10, 0, 1)")
	f.Add("x = 1\nx += 2\nx")
	f.Add("2^3^2")
	f.Add("rand(6) + 1")
	f.Add("((((")
	f.Add("min(,)")
	f.Fuzz(func(t *testing.T, src string) {
		ff, err := formula.Parse(src)
		if err != nil {
			if ff != nil {
				t.Error("got both a formula and an error")
			}
			var pe *formula.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is %#v, not ParseError", err)
			}
			if pe.Offset < 0 || pe.Offset > len(src) {
				t.Errorf("offset %d outside input of length %d", pe.Offset, len(src))
			}
			if pe.Line < 1 || pe.Col < 1 {
				t.Errorf("position %d:%d is not 1-based", pe.Line, pe.Col)
			}
			return
		}
		if ff.Source() != src {
			t.Errorf("Source() = %q, want %q", ff.Source(), src)
		}
		for _, name := range ff.Inputs() {
			if name == "" {
				t.Error("empty input name")
			}
		}
	})
}
