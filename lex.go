package formula

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a numeric literal.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenKeyword is a reserved word: let, if, or else.
	tokenKeyword
	// tokenOp is an operator, including assignment operators and ? :.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenLBrace and tokenRBrace delimit a block.
	tokenLBrace
	tokenRBrace
	// tokenComma separates function arguments.
	tokenComma
	// tokenTerm is a statement terminator, either ; or a newline.
	tokenTerm
)

var tokenKindNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenNum:     "Num",
	tokenIdent:   "Ident",
	tokenKeyword: "Keyword",
	tokenOp:      "Op",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenLBrace:  "LBrace",
	tokenRBrace:  "RBrace",
	tokenComma:   "Comma",
	tokenTerm:    "Term",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// keywords are the identifiers reserved by the statement grammar.
var keywords = map[string]bool{
	"let":  true,
	"if":   true,
	"else": true,
}

// doubleOps are the two-rune operators. The lexer checks these before single
// runes so that == never lexes as two assignments.
var doubleOps = [...]string{"<=", ">=", "==", "!=", "&&", "||", "+=", "-=", "*=", "/="}

// singleOps contains every rune that is an operator on its own.
const singleOps = "+-*/%^<>!=?:"

type lexer struct {
	src string
	pos int
	// depth is the parenthesis nesting level. Newlines only terminate
	// statements at depth zero; inside an argument list or a parenthesized
	// expression they are ordinary whitespace.
	depth int
}

func lex(src string) *lexer {
	return &lexer{src: src}
}

// lexAll scans the entire source. The returned slice always ends with a
// tokenEOF entry.
func (l *lexer) lexAll() ([]lexToken, error) {
	toks := make([]lexToken, 0, 16)
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (lexToken, error) {
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
		pos := l.pos
		switch {
		case r == '\n':
			l.pos += sz
			if l.depth > 0 {
				continue
			}
			return lexToken{text: "\n", kind: tokenTerm, pos: pos}, nil
		case unicode.IsSpace(r):
			l.pos += sz
			continue
		case '0' <= r && r <= '9', r == '.':
			return l.scanNum()
		case r == '_', unicode.IsLetter(r):
			return l.scanIdent()
		case r == '(':
			l.pos += sz
			l.depth++
			return lexToken{text: "(", kind: tokenOpen, pos: pos}, nil
		case r == ')':
			l.pos += sz
			if l.depth > 0 {
				l.depth--
			}
			return lexToken{text: ")", kind: tokenClose, pos: pos}, nil
		case r == '{':
			l.pos += sz
			return lexToken{text: "{", kind: tokenLBrace, pos: pos}, nil
		case r == '}':
			l.pos += sz
			return lexToken{text: "}", kind: tokenRBrace, pos: pos}, nil
		case r == ',':
			l.pos += sz
			return lexToken{text: ",", kind: tokenComma, pos: pos}, nil
		case r == ';':
			l.pos += sz
			return lexToken{text: ";", kind: tokenTerm, pos: pos}, nil
		default:
			if op := l.scanOp(); op != "" {
				return lexToken{text: op, kind: tokenOp, pos: pos}, nil
			}
			return lexToken{}, newParseError(l.src, ErrBadToken, pos, string(r), "unexpected character "+strconv.QuoteRune(r))
		}
	}
	return lexToken{text: "", kind: tokenEOF, pos: l.pos}, nil
}

// scanOp scans a one- or two-rune operator, preferring the longer form.
func (l *lexer) scanOp() string {
	rest := l.src[l.pos:]
	for _, op := range doubleOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return op
		}
	}
	r, sz := utf8.DecodeRuneInString(rest)
	if strings.ContainsRune(singleOps, r) {
		l.pos += sz
		return string(r)
	}
	return ""
}

// scanNum scans a numeric literal: digits and at most one decimal point.
// There is no exponent notation, and signs belong to the unary operators.
func (l *lexer) scanNum() (lexToken, error) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c != '.' && (c < '0' || c > '9') {
			break
		}
		l.pos++
	}
	text := l.src[start:l.pos]
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return lexToken{}, newParseError(l.src, ErrBadNumber, start, text, "invalid number "+strconv.Quote(text))
	}
	return lexToken{text: text, kind: tokenNum, pos: start}, nil
}

func (l *lexer) scanIdent() (lexToken, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += sz
	}
	text := l.src[start:l.pos]
	kind := tokenIdent
	if keywords[text] {
		kind = tokenKeyword
	}
	return lexToken{text: text, kind: kind, pos: start}, nil
}
