package formula

import "math"

// compareEpsilon is the absolute tolerance of == and !=. Formulas are
// routinely rebuilt from accumulated float arithmetic, so exact equality
// would be a trap.
const compareEpsilon = 1e-4

// evalContext is the mutable state of one evaluation: the binding map that
// holds both the caller's inputs and the formula's locals. It lives for one
// Evaluate call and is never shared.
type evalContext struct {
	vars map[string]float64
}

func truthy(v float64) bool {
	return v != 0
}

func fromBool(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Evaluate runs the formula against the given bindings and returns the
// value of its last statement. Every input variable must be present in
// bindings or evaluation fails with an *EvalError naming the first missing
// one. The map is also used as scratch space for let and assignment, so it
// may gain keys; callers who reuse a map across evaluations of different
// formulas should clear it between calls, and two concurrent evaluations
// must never share one map.
func (f *Formula) Evaluate(bindings map[string]float64) (float64, error) {
	if bindings == nil {
		bindings = make(map[string]float64)
	}
	ctx := evalContext{vars: bindings}
	return f.root.eval(&ctx)
}

// Eval is a shortcut to parse and evaluate an expression in one call.
func Eval(src string, bindings map[string]float64, opts ...ParseOption) (float64, error) {
	f, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return f.Evaluate(bindings)
}

// eval computes the node's value. Declaration and assignment nodes also
// write into the bindings; everything else only reads them. Arithmetic is
// plain IEEE float64: division by zero and overflow produce infinities and
// NaN, never errors.
func (n *node) eval(ctx *evalContext) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		v, ok := ctx.vars[n.name]
		if !ok {
			return 0, &EvalError{Name: n.name}
		}
		return v, nil
	case nodeNeg:
		v, err := n.left.eval(ctx)
		return -v, err
	case nodeNot:
		v, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		return fromBool(!truthy(v)), nil
	case nodeNop:
		return n.left.eval(ctx)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeAdd:
			return l + r, nil
		case nodeSub:
			return l - r, nil
		case nodeMul:
			return l * r, nil
		case nodeDiv:
			return l / r, nil
		case nodeMod:
			return math.Mod(l, r), nil
		default:
			return math.Pow(l, r), nil
		}
	case nodeLT, nodeLE, nodeGT, nodeGE, nodeEQ, nodeNE:
		l, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeLT:
			return fromBool(l < r), nil
		case nodeLE:
			return fromBool(l <= r), nil
		case nodeGT:
			return fromBool(l > r), nil
		case nodeGE:
			return fromBool(l >= r), nil
		case nodeEQ:
			return fromBool(math.Abs(l-r) <= compareEpsilon), nil
		default:
			return fromBool(math.Abs(l-r) > compareEpsilon), nil
		}
	case nodeAnd:
		l, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		if !truthy(l) {
			return 0, nil
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return 0, err
		}
		return fromBool(truthy(r)), nil
	case nodeOr:
		l, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		if truthy(l) {
			return 1, nil
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return 0, err
		}
		return fromBool(truthy(r)), nil
	case nodeTernary:
		cond, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		if truthy(cond) {
			return n.right.eval(ctx)
		}
		return n.third.eval(ctx)
	case nodeIf:
		cond, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		if truthy(cond) {
			return n.right.eval(ctx)
		}
		if n.third == nil {
			return 0, nil
		}
		return n.third.eval(ctx)
	case nodeLet:
		var v float64
		if n.left != nil {
			var err error
			v, err = n.left.eval(ctx)
			if err != nil {
				return 0, err
			}
		}
		ctx.vars[n.name] = v
		return v, nil
	case nodeAssign, nodeAddAssign, nodeSubAssign, nodeMulAssign, nodeDivAssign:
		v, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		// Compound forms read the current value, defaulting to 0 when the
		// target has never been written.
		cur := ctx.vars[n.name]
		switch n.kind {
		case nodeAddAssign:
			v = cur + v
		case nodeSubAssign:
			v = cur - v
		case nodeMulAssign:
			v = cur * v
		case nodeDivAssign:
			v = cur / v
		}
		ctx.vars[n.name] = v
		return v, nil
	case nodeSeq:
		var v float64
		for s := n; s != nil; s = s.right {
			var err error
			v, err = s.left.eval(ctx)
			if err != nil {
				return 0, err
			}
		}
		return v, nil
	case nodeEmpty:
		return 0, nil
	case nodeCall1:
		v, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		return n.fn1(v), nil
	case nodeCallN:
		args := make([]float64, 0, 4)
		for a := n.right; a != nil; a = a.right {
			v, err := a.left.eval(ctx)
			if err != nil {
				return 0, err
			}
			args = append(args, v)
		}
		return n.fnN(args), nil
	case nodeArg:
		panic("formula: eval on nodeArg")
	case nodeRandInt:
		max, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		m := int(max)
		if m <= 0 {
			return 0, nil
		}
		return float64(n.rng.UniformIntBelow(m)), nil
	case nodeRandFloat:
		max, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		if max <= 0 {
			return 0, nil
		}
		return n.rng.UniformBelow(max), nil
	case nodeRandom:
		return n.rng.Uniform01(), nil
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
}
