package formula

import (
	"math"
	"testing"
)

func TestUnaryFuncs(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"sqrt", 9, 3},
		{"abs", -2.5, 2.5},
		{"floor", 1.9, 1},
		{"ceil", 1.1, 2},
		{"round", 2.5, 3},
		{"round", -2.5, -3},
		{"sin", 0, 0},
		{"cos", 0, 1},
		{"tan", 0, 0},
		{"log", 1, 0},
		{"exp", 0, 1},
		{"clamp01", 0.25, 0.25},
		{"clamp01", -1, 0},
		{"clamp01", 1.5, 1},
		{"sign", 7, 1},
		{"sign", -7, -1},
		{"sign", 0, 0},
		{"negative", 4, -4},
		{"negative", -4, 4},
		{"acos", 1, 0},
		{"asin", 0, 0},
		{"atan", 0, 0},
	}
	for _, c := range cases {
		fn := unaryFuncs[c.name]
		if fn == nil {
			t.Fatalf("%s missing from the unary table", c.name)
		}
		if got := fn(c.in); got != c.want {
			t.Errorf("%s(%g): want %g, got %g", c.name, c.in, c.want, got)
		}
	}
}

func TestMultiFuncs(t *testing.T) {
	cases := []struct {
		name string
		args []float64
		want float64
	}{
		{"min", []float64{3, 1}, 1},
		{"min", []float64{5, 2, 9, -1, 4}, -1},
		{"max", []float64{3, 1}, 3},
		{"max", []float64{5, 2, 9, -1, 4}, 9},
		{"clamp", []float64{5, 0, 10}, 5},
		{"clamp", []float64{-5, 0, 10}, 0},
		{"clamp", []float64{15, 0, 10}, 10},
		{"lerp", []float64{0, 10, 0}, 0},
		{"lerp", []float64{0, 10, 1}, 10},
		{"lerp", []float64{2, 4, 0.25}, 2.5},
		{"pow", []float64{3, 4}, 81},
	}
	for _, c := range cases {
		mf, ok := multiFuncs[c.name]
		if !ok {
			t.Fatalf("%s missing from the multi table", c.name)
		}
		if len(c.args) < mf.min {
			t.Fatalf("%s case has fewer args than the table minimum", c.name)
		}
		if got := mf.fn(c.args); got != c.want {
			t.Errorf("%s(%v): want %g, got %g", c.name, c.args, c.want, got)
		}
	}
}

func TestMultiFuncMinimums(t *testing.T) {
	want := map[string]int{"min": 2, "max": 2, "clamp": 3, "lerp": 3, "pow": 2}
	for name, min := range want {
		if got := multiFuncs[name].min; got != min {
			t.Errorf("%s: want minimum arity %d, got %d", name, min, got)
		}
	}
	for name := range multiFuncs {
		if _, ok := want[name]; !ok {
			t.Errorf("unexpected multi function %s", name)
		}
	}
}

func TestRandFuncArities(t *testing.T) {
	want := map[string]int{"rand": 1, "randf": 1, "random": 0}
	for name, n := range want {
		if got, ok := randFuncs[name]; !ok || got != n {
			t.Errorf("%s: want arity %d, got %d (present %v)", name, n, got, ok)
		}
	}
}

func TestFuncTablesDisjoint(t *testing.T) {
	for name := range unaryFuncs {
		if _, ok := multiFuncs[name]; ok {
			t.Errorf("%s is in both the unary and multi tables", name)
		}
		if _, ok := randFuncs[name]; ok {
			t.Errorf("%s is in both the unary and random tables", name)
		}
	}
	for name := range multiFuncs {
		if _, ok := randFuncs[name]; ok {
			t.Errorf("%s is in both the multi and random tables", name)
		}
	}
}

func TestLerpExtrapolates(t *testing.T) {
	if got := lerp(0, 10, 1.5); got != 15 {
		t.Errorf("lerp(0, 10, 1.5): want 15, got %g", got)
	}
	if got := lerp(0, 10, -0.5); got != -5 {
		t.Errorf("lerp(0, 10, -0.5): want -5, got %g", got)
	}
}

func TestUnaryFuncsPropagateNaN(t *testing.T) {
	for _, name := range []string{"sqrt", "log", "asin"} {
		if got := unaryFuncs[name](-2); !math.IsNaN(got) {
			t.Errorf("%s(-2): want NaN, got %g", name, got)
		}
	}
}
