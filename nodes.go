package formula

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of a formula. Every node owns
// its children exclusively; the parser only ever links a node to subtrees it
// has already finished, so the AST is a tree by construction.
type node struct {
	kind nodeKind

	num  float64
	name string
	fn1  func(float64) float64
	fnN  func([]float64) float64
	rng  RandomSource

	left  *node
	right *node
	// third is the else branch of a conditional or ternary.
	third *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // constant; value in num
	nodeName // variable reference; looked up in the bindings

	nodeNeg // -left
	nodeNot // !left, materializes 1 or 0
	nodeNop // +left

	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodeMod // left % right
	nodePow // left ^ right

	nodeLT // left < right
	nodeLE // left <= right
	nodeGT // left > right
	nodeGE // left >= right
	nodeEQ // left == right, within epsilon
	nodeNE // left != right, within epsilon

	nodeAnd // left && right, short-circuit
	nodeOr  // left || right, short-circuit

	nodeTernary // left ? right : third
	nodeIf      // if left then right; third is the else branch or nil

	nodeLet       // let name = left; left nil means zero
	nodeAssign    // name = left
	nodeAddAssign // name += left
	nodeSubAssign // name -= left
	nodeMulAssign // name *= left
	nodeDivAssign // name /= left

	nodeSeq   // evaluate left, then right chain; value of the last
	nodeEmpty // evaluates to 0

	nodeCall1 // fn1 applied to left
	nodeCallN // fnN applied to the nodeArg chain at right
	nodeArg   // left is the argument, right links the next arg

	nodeRandInt   // rng integer in [0, left)
	nodeRandFloat // rng float in [0, left)
	nodeRandom    // rng float in [0, 1)
)

var nodeKindNames = [...]string{
	nodeNone:      "None",
	nodeNum:       "Num",
	nodeName:      "Name",
	nodeNeg:       "Neg",
	nodeNot:       "Not",
	nodeNop:       "Nop",
	nodeAdd:       "Add",
	nodeSub:       "Sub",
	nodeMul:       "Mul",
	nodeDiv:       "Div",
	nodeMod:       "Mod",
	nodePow:       "Pow",
	nodeLT:        "LT",
	nodeLE:        "LE",
	nodeGT:        "GT",
	nodeGE:        "GE",
	nodeEQ:        "EQ",
	nodeNE:        "NE",
	nodeAnd:       "And",
	nodeOr:        "Or",
	nodeTernary:   "Ternary",
	nodeIf:        "If",
	nodeLet:       "Let",
	nodeAssign:    "Assign",
	nodeAddAssign: "AddAssign",
	nodeSubAssign: "SubAssign",
	nodeMulAssign: "MulAssign",
	nodeDivAssign: "DivAssign",
	nodeSeq:       "Seq",
	nodeEmpty:     "Empty",
	nodeCall1:     "Call1",
	nodeCallN:     "CallN",
	nodeArg:       "Arg",
	nodeRandInt:   "RandInt",
	nodeRandFloat: "RandFloat",
	nodeRandom:    "Random",
}

func (k nodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "nodeKind(" + strconv.Itoa(int(k)) + ")"
}

// binaryOpText maps operator node kinds to their surface syntax, for debug
// rendering only.
var binaryOpText = map[nodeKind]string{
	nodeAdd: "+", nodeSub: "-", nodeMul: "*", nodeDiv: "/", nodeMod: "%", nodePow: "^",
	nodeLT: "<", nodeLE: "<=", nodeGT: ">", nodeGE: ">=", nodeEQ: "==", nodeNE: "!=",
	nodeAnd: "&&", nodeOr: "||",
}

var assignOpText = map[nodeKind]string{
	nodeAssign: "=", nodeAddAssign: "+=", nodeSubAssign: "-=",
	nodeMulAssign: "*=", nodeDivAssign: "/=",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		b.WriteString("$invalid$")
	case nodeNum:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case nodeName:
		b.WriteString(n.name)
	case nodeNeg:
		b.WriteString("(-")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeNot:
		b.WriteString("(!")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeNop:
		b.WriteString("(+")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow,
		nodeLT, nodeLE, nodeGT, nodeGE, nodeEQ, nodeNE, nodeAnd, nodeOr:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(" " + binaryOpText[n.kind] + " ")
		n.right.fmt(b)
		b.WriteByte(')')
	case nodeTernary:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(" ? ")
		n.right.fmt(b)
		b.WriteString(" : ")
		n.third.fmt(b)
		b.WriteByte(')')
	case nodeIf:
		b.WriteString("if ")
		n.left.fmt(b)
		b.WriteString(" { ")
		n.right.fmt(b)
		b.WriteString(" }")
		if n.third != nil {
			b.WriteString(" else { ")
			n.third.fmt(b)
			b.WriteString(" }")
		}
	case nodeLet:
		b.WriteString("let " + n.name)
		if n.left != nil {
			b.WriteString(" = ")
			n.left.fmt(b)
		}
	case nodeAssign, nodeAddAssign, nodeSubAssign, nodeMulAssign, nodeDivAssign:
		b.WriteByte('(')
		b.WriteString(n.name + " " + assignOpText[n.kind] + " ")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeSeq:
		n.left.fmt(b)
		if n.right != nil {
			b.WriteString("; ")
			n.right.fmt(b)
		}
	case nodeEmpty:
		b.WriteString("()")
	case nodeCall1:
		b.WriteString(n.name + "(")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeCallN:
		b.WriteString(n.name + "(")
		for a := n.right; a != nil; a = a.right {
			a.left.fmt(b)
			if a.right != nil {
				b.WriteString(", ")
			}
		}
		b.WriteByte(')')
	case nodeArg:
		// Args only appear inside calls, which nodeCallN renders.
		b.WriteByte(':')
		n.left.fmt(b)
	case nodeRandInt:
		b.WriteString("rand(")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeRandFloat:
		b.WriteString("randf(")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeRandom:
		b.WriteString("random()")
	default:
		panic("formula: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
