package formula

import (
	"sort"
	"strconv"
)

// Grammar, loosest binding first:
//
//	Program  = Stmt { (";" | newline) Stmt }
//	Stmt     = "let" name [ "=" Expr ]
//	         | "if" Expr Block [ "else" (Block | IfStmt) ]
//	         | Block
//	         | name ("=" | "+=" | "-=" | "*=" | "/=") Expr
//	         | Expr
//	Block    = "{" Program "}"
//	Expr     = Or [ "?" Expr ":" Expr ]
//	Or       = And { "||" And }
//	And      = Cmp { "&&" Cmp }
//	Cmp      = Add [ ("<" | "<=" | ">" | ">=" | "==" | "!=") Add ]
//	Add      = Mul { ("+" | "-") Mul }
//	Mul      = Pow { ("*" | "/" | "%") Pow }
//	Pow      = Unary [ "^" Pow ]
//	Unary    = ("-" | "+" | "!") Unary | Primary
//	Primary  = "(" Expr ")" | number | name | name "(" Args ")"
//
// Comparison is deliberately non-associative: a < b < c is a parse error.
// Exponentiation is right-associative.

// Formula is a parsed expression. It holds the original source text, the
// root of the syntax tree, and the set of input variables the parser found.
// A Formula is immutable and may be evaluated many times; see Evaluate for
// the concurrency rules.
type Formula struct {
	src    string
	root   *node
	inputs []string
}

// Source returns the source text the formula was parsed from.
func (f *Formula) Source() string {
	return f.src
}

// Inputs returns the sorted names of the formula's input variables: every
// identifier the formula reads but never declares with let or an assignment.
// Evaluate fails unless the bindings cover all of them.
func (f *Formula) Inputs() []string {
	return append([]string(nil), f.inputs...)
}

// String renders the parse tree with explicit grouping, for debugging.
func (f *Formula) String() string {
	return f.root.String()
}

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(p *parser)
}

type randopt struct {
	rng RandomSource
}

// WithRandom sets the random source bound into the formula's rand, randf,
// and random intrinsics. The default is DefaultRandom.
func WithRandom(rng RandomSource) ParseOption {
	return randopt{rng}
}

func (o randopt) parseOption(p *parser) {
	p.rng = o.rng
}

// parser holds the state of one Parse call: the token cursor and the
// accumulated variable classification. A parser is used for exactly one
// formula and is not safe for concurrent use; distinct Parse calls use
// distinct parsers.
type parser struct {
	src  string
	toks []lexToken
	i    int
	rng  RandomSource
	// locals is every name that has been the target of a let or an
	// assignment so far. The set is flat for the whole formula: a let
	// inside a block shadows an outer input for the rest of the source,
	// including after the block closes.
	locals map[string]bool
	// inputs is every name referenced as a value while not yet local.
	inputs map[string]bool
}

// Parse parses an expression so it can be evaluated against variable
// bindings. The given options are applied in order. Empty or blank input is
// legal and yields a formula that evaluates to 0.
func Parse(src string, opts ...ParseOption) (*Formula, error) {
	toks, err := lex(src).lexAll()
	if err != nil {
		return nil, err
	}
	p := &parser{
		src:    src,
		toks:   toks,
		rng:    DefaultRandom(),
		locals: make(map[string]bool),
		inputs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt.parseOption(p)
	}
	root, err := p.program()
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, len(p.inputs))
	for k := range p.inputs {
		inputs = append(inputs, k)
	}
	sort.Strings(inputs)
	return &Formula{src: src, root: root, inputs: inputs}, nil
}

func (p *parser) peek() lexToken {
	return p.toks[p.i]
}

// next consumes and returns the current token. EOF is never consumed, so
// next at the end of input returns EOF forever.
func (p *parser) next() lexToken {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) errAt(kind ParseErrorKind, tok lexToken, msg string) error {
	return newParseError(p.src, kind, tok.pos, tok.text, msg)
}

func (p *parser) skipTerms() {
	for p.peek().kind == tokenTerm {
		p.i++
	}
}

// program parses statements up to EOF and chains them into a sequence.
func (p *parser) program() (*node, error) {
	return p.stmtSeq(tokenEOF)
}

// stmtSeq parses statements until the given end token, which is left
// unconsumed. A single statement is returned bare; none at all yields an
// empty node.
func (p *parser) stmtSeq(end tokenKind) (*node, error) {
	var head, tail *node
	p.skipTerms()
	for p.peek().kind != end && p.peek().kind != tokenEOF {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		seq := &node{kind: nodeSeq, left: st}
		if head == nil {
			head = seq
		} else {
			tail.right = seq
		}
		tail = seq
		switch tok := p.peek(); tok.kind {
		case tokenTerm:
			p.skipTerms()
		case end, tokenEOF:
			// EOF inside a block is the caller's unclosed-brace error.
		default:
			return nil, p.errAt(ErrUnexpectedToken, tok, "unexpected token "+strconv.Quote(tok.text))
		}
	}
	switch {
	case head == nil:
		return &node{kind: nodeEmpty}, nil
	case head.right == nil:
		return head.left, nil
	}
	return head, nil
}

func (p *parser) statement() (*node, error) {
	switch tok := p.peek(); {
	case tok.kind == tokenKeyword && tok.text == "let":
		return p.letDecl()
	case tok.kind == tokenKeyword && tok.text == "if":
		return p.ifStmt()
	case tok.kind == tokenKeyword:
		return nil, p.errAt(ErrUnexpectedToken, tok, "unexpected keyword "+strconv.Quote(tok.text))
	case tok.kind == tokenLBrace:
		return p.block()
	case tok.kind == tokenIdent:
		return p.assignOrExpr()
	}
	return p.expr()
}

// letDecl parses a declaration after seeing the let keyword. A missing
// initializer zero-initializes the variable.
func (p *parser) letDecl() (*node, error) {
	p.next()
	name := p.next()
	if name.kind != tokenIdent {
		return nil, p.errAt(ErrExpectedName, name, "expected variable name after let")
	}
	var init *node
	if tok := p.peek(); tok.kind == tokenOp && tok.text == "=" {
		p.next()
		var err error
		init, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	p.locals[name.text] = true
	return &node{kind: nodeLet, name: name.text, left: init}, nil
}

func (p *parser) ifStmt() (*node, error) {
	p.next()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenLBrace {
		return nil, p.errAt(ErrUnexpectedToken, tok, "expected '{' after if condition")
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	n := &node{kind: nodeIf, left: cond, right: then}
	// An else may follow on the same line or after a newline. If the next
	// statement is not an else, back out of any terminators we skipped.
	mark := p.i
	p.skipTerms()
	if tok := p.peek(); tok.kind == tokenKeyword && tok.text == "else" {
		p.next()
		switch tok := p.peek(); {
		case tok.kind == tokenLBrace:
			n.third, err = p.block()
		case tok.kind == tokenKeyword && tok.text == "if":
			n.third, err = p.ifStmt()
		default:
			return nil, p.errAt(ErrUnexpectedToken, tok, "expected '{' or 'if' after else")
		}
		if err != nil {
			return nil, err
		}
	} else {
		p.i = mark
	}
	return n, nil
}

// block parses a braced statement sequence. The block's value is the value
// of its last statement, or 0 when empty.
func (p *parser) block() (*node, error) {
	open := p.next()
	body, err := p.stmtSeq(tokenRBrace)
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok.kind != tokenRBrace {
		return nil, newParseError(p.src, ErrUnclosedBrace, open.pos, open.text, "block is never closed")
	}
	return body, nil
}

var assignKinds = map[string]nodeKind{
	"=":  nodeAssign,
	"+=": nodeAddAssign,
	"-=": nodeSubAssign,
	"*=": nodeMulAssign,
	"/=": nodeDivAssign,
}

// assignOrExpr speculatively consumes an identifier and checks for an
// assignment operator. On mismatch it backtracks and reparses the statement
// as a plain expression. The target becomes local only after the value
// expression is parsed, so "x = x + 1" still reads x as an input.
func (p *parser) assignOrExpr() (*node, error) {
	mark := p.i
	name := p.next()
	if tok := p.peek(); tok.kind == tokenOp {
		if kind, ok := assignKinds[tok.text]; ok {
			p.next()
			val, err := p.expr()
			if err != nil {
				return nil, err
			}
			p.locals[name.text] = true
			return &node{kind: kind, name: name.text, left: val}, nil
		}
	}
	p.i = mark
	return p.expr()
}

func (p *parser) expr() (*node, error) {
	cond, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokenOp || tok.text != "?" {
		return cond, nil
	}
	p.next()
	then, err := p.expr()
	if err != nil {
		return nil, err
	}
	colon := p.next()
	if colon.kind != tokenOp || colon.text != ":" {
		return nil, p.errAt(ErrUnclosedTernary, colon, "ternary condition missing ':'")
	}
	els, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeTernary, left: cond, right: then, third: els}, nil
}

func (p *parser) orExpr() (*node, error) {
	n, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp || tok.text != "||" {
			return n, nil
		}
		p.next()
		rhs, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeOr, left: n, right: rhs}
	}
}

func (p *parser) andExpr() (*node, error) {
	n, err := p.cmpExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp || tok.text != "&&" {
			return n, nil
		}
		p.next()
		rhs, err := p.cmpExpr()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeAnd, left: n, right: rhs}
	}
}

var cmpKinds = map[string]nodeKind{
	"<": nodeLT, "<=": nodeLE, ">": nodeGT, ">=": nodeGE, "==": nodeEQ, "!=": nodeNE,
}

func (p *parser) cmpExpr() (*node, error) {
	n, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokenOp {
		return n, nil
	}
	kind, ok := cmpKinds[tok.text]
	if !ok {
		return n, nil
	}
	p.next()
	rhs, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	return &node{kind: kind, left: n, right: rhs}, nil
}

func (p *parser) addExpr() (*node, error) {
	n, err := p.mulExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp || (tok.text != "+" && tok.text != "-") {
			return n, nil
		}
		p.next()
		rhs, err := p.mulExpr()
		if err != nil {
			return nil, err
		}
		kind := nodeAdd
		if tok.text == "-" {
			kind = nodeSub
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

func (p *parser) mulExpr() (*node, error) {
	n, err := p.powExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp {
			return n, nil
		}
		var kind nodeKind
		switch tok.text {
		case "*":
			kind = nodeMul
		case "/":
			kind = nodeDiv
		case "%":
			kind = nodeMod
		default:
			return n, nil
		}
		p.next()
		rhs, err := p.powExpr()
		if err != nil {
			return nil, err
		}
		n = &node{kind: kind, left: n, right: rhs}
	}
}

func (p *parser) powExpr() (*node, error) {
	n, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokenOp || tok.text != "^" {
		return n, nil
	}
	p.next()
	rhs, err := p.powExpr()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: n, right: rhs}, nil
}

func (p *parser) unaryExpr() (*node, error) {
	tok := p.peek()
	if tok.kind == tokenOp {
		var kind nodeKind
		switch tok.text {
		case "-":
			kind = nodeNeg
		case "+":
			kind = nodeNop
		case "!":
			kind = nodeNot
		}
		if kind != nodeNone {
			p.next()
			operand, err := p.unaryExpr()
			if err != nil {
				return nil, err
			}
			return &node{kind: kind, left: operand}, nil
		}
	}
	return p.primary()
}

func (p *parser) primary() (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errAt(ErrBadNumber, tok, "invalid number "+strconv.Quote(tok.text))
		}
		return &node{kind: nodeNum, num: v}, nil
	case tokenIdent:
		if p.peek().kind == tokenOpen {
			return p.call(tok)
		}
		if !p.locals[tok.text] {
			p.inputs[tok.text] = true
		}
		return &node{kind: nodeName, name: tok.text}, nil
	case tokenOpen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		switch end := p.next(); end.kind {
		case tokenClose:
			return inner, nil
		case tokenEOF:
			return nil, newParseError(p.src, ErrUnclosedParen, tok.pos, tok.text, "parenthesis is never closed")
		default:
			return nil, p.errAt(ErrUnexpectedToken, end, "expected ')', found "+strconv.Quote(end.text))
		}
	case tokenEOF, tokenTerm:
		return nil, p.errAt(ErrUnexpectedEnd, tok, "unexpected end of expression")
	default:
		return nil, p.errAt(ErrUnexpectedToken, tok, "unexpected token "+strconv.Quote(tok.text))
	}
}

// call parses an argument list for the named function and resolves the name
// against the unary, multi-argument, and random tables.
func (p *parser) call(name lexToken) (*node, error) {
	open := p.next()
	args, err := p.argList(open)
	if err != nil {
		return nil, err
	}
	if fn, ok := unaryFuncs[name.text]; ok {
		if len(args) != 1 {
			return nil, p.errAt(ErrBadCall, name, name.text+" takes 1 argument, got "+strconv.Itoa(len(args)))
		}
		return &node{kind: nodeCall1, name: name.text, fn1: fn, left: args[0]}, nil
	}
	if mf, ok := multiFuncs[name.text]; ok {
		// Deficient calls degrade to their first argument rather than
		// failing; with no arguments at all there is nothing to return
		// but zero.
		switch {
		case len(args) == 0:
			return &node{kind: nodeEmpty}, nil
		case len(args) < mf.min:
			return args[0], nil
		}
		var chain *node
		for i := len(args) - 1; i >= 0; i-- {
			chain = &node{kind: nodeArg, left: args[i], right: chain}
		}
		return &node{kind: nodeCallN, name: name.text, fnN: mf.fn, right: chain}, nil
	}
	if want, ok := randFuncs[name.text]; ok {
		if len(args) != want {
			return nil, p.errAt(ErrBadCall, name, name.text+" takes "+strconv.Itoa(want)+" arguments, got "+strconv.Itoa(len(args)))
		}
		n := &node{rng: p.rng}
		switch name.text {
		case "rand":
			n.kind, n.left = nodeRandInt, args[0]
		case "randf":
			n.kind, n.left = nodeRandFloat, args[0]
		case "random":
			n.kind = nodeRandom
		}
		return n, nil
	}
	return nil, p.errAt(ErrUnknownFunction, name, "unknown function "+strconv.Quote(name.text))
}

func (p *parser) argList(open lexToken) ([]*node, error) {
	if p.peek().kind == tokenClose {
		p.next()
		return nil, nil
	}
	var args []*node
	for {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch tok := p.next(); tok.kind {
		case tokenComma:
		case tokenClose:
			return args, nil
		case tokenEOF:
			return nil, newParseError(p.src, ErrUnclosedCall, open.pos, open.text, "argument list is never closed")
		default:
			return nil, p.errAt(ErrUnexpectedToken, tok, "expected ',' or ')' in argument list")
		}
	}
}
