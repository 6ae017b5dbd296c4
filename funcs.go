package formula

import "math"

// unaryFuncs are the single-argument math functions. Calls resolve against
// this table at parse time; the node holds the function directly.
var unaryFuncs = map[string]func(float64) float64{
	"sqrt":     math.Sqrt,
	"abs":      math.Abs,
	"floor":    math.Floor,
	"ceil":     math.Ceil,
	"round":    math.Round,
	"sin":      math.Sin,
	"cos":      math.Cos,
	"tan":      math.Tan,
	"log":      math.Log,
	"exp":      math.Exp,
	"clamp01":  clamp01,
	"sign":     sign,
	"negative": func(x float64) float64 { return -x },
	"acos":     math.Acos,
	"asin":     math.Asin,
	"atan":     math.Atan,
}

// multiFunc is a function over two or more arguments. min is the arity below
// which a call degrades to its first argument rather than failing.
type multiFunc struct {
	min int
	fn  func(args []float64) float64
}

var multiFuncs = map[string]multiFunc{
	"min":   {2, minOf},
	"max":   {2, maxOf},
	"clamp": {3, func(a []float64) float64 { return clamp(a[0], a[1], a[2]) }},
	"lerp":  {3, func(a []float64) float64 { return lerp(a[0], a[1], a[2]) }},
	"pow":   {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
}

// randFuncs names the random intrinsics and their argument counts. The
// parser binds these to the active RandomSource rather than a table entry.
var randFuncs = map[string]int{
	"rand":   1,
	"randf":  1,
	"random": 0,
}

func minOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		m = math.Max(m, v)
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
