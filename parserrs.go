package formula

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseErrorKind classifies a syntax error.
type ParseErrorKind int8

const (
	// ErrBadToken is a character the lexer does not understand.
	ErrBadToken ParseErrorKind = iota
	// ErrBadNumber is a malformed numeric literal.
	ErrBadNumber
	// ErrUnexpectedToken is a token that cannot appear where it did.
	ErrUnexpectedToken
	// ErrUnexpectedEnd is input that stops where a term is required.
	ErrUnexpectedEnd
	// ErrUnclosedParen is a parenthesis with no matching close.
	ErrUnclosedParen
	// ErrUnclosedBrace is a block with no closing brace.
	ErrUnclosedBrace
	// ErrUnclosedTernary is a ?: conditional missing its colon.
	ErrUnclosedTernary
	// ErrUnclosedCall is an argument list with no closing parenthesis.
	ErrUnclosedCall
	// ErrUnknownFunction is a call to a name that is not a function.
	ErrUnknownFunction
	// ErrExpectedName is a let declaration without a variable name.
	ErrExpectedName
	// ErrBadCall is a function call with an unusable argument count.
	ErrBadCall
)

var parseErrorKindNames = [...]string{
	ErrBadToken:        "BadToken",
	ErrBadNumber:       "BadNumber",
	ErrUnexpectedToken: "UnexpectedToken",
	ErrUnexpectedEnd:   "UnexpectedEnd",
	ErrUnclosedParen:   "UnclosedParen",
	ErrUnclosedBrace:   "UnclosedBrace",
	ErrUnclosedTernary: "UnclosedTernary",
	ErrUnclosedCall:    "UnclosedCall",
	ErrUnknownFunction: "UnknownFunction",
	ErrExpectedName:    "ExpectedName",
	ErrBadCall:         "BadCall",
}

func (k ParseErrorKind) String() string {
	if int(k) < len(parseErrorKindNames) {
		return parseErrorKindNames[k]
	}
	return "ParseErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseError describes a syntax error in an expression. A failed parse never
// produces a partial Formula, only a ParseError.
type ParseError struct {
	// Kind classifies the error.
	Kind ParseErrorKind
	// Offset is the byte offset of the offending token in the source.
	Offset int
	// Line and Col are the 1-based position of the offending token.
	Line, Col int
	// LineText is the source line containing the error.
	LineText string
	// Token is the text of the offending token, if any.
	Token string

	msg string
}

func (err *ParseError) Error() string {
	return strconv.Itoa(err.Line) + ":" + strconv.Itoa(err.Col) + ": " + err.msg
}

// Pos returns the byte offset of the error in the source.
func (err *ParseError) Pos() int {
	return err.Offset
}

// Caret returns a string of spaces ending in a caret that points at the
// error column when printed beneath LineText.
func (err *ParseError) Caret() string {
	return strings.Repeat(" ", err.Col-1) + "^"
}

// Snippet renders the offending line with a caret under the error column.
// The result is plain text intended for logs and terminals.
func (err *ParseError) Snippet() string {
	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteByte('\n')
	n := strconv.Itoa(err.Line)
	pad := strings.Repeat(" ", len(n))
	b.WriteString(n + " | " + err.LineText + "\n")
	b.WriteString(pad + " | " + err.Caret())
	return b.String()
}

// newParseError builds a ParseError for a byte offset in src, deriving the
// line, column, and line text.
func newParseError(src string, kind ParseErrorKind, off int, tok, msg string) *ParseError {
	if off > len(src) {
		off = len(src)
	}
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := strings.IndexByte(src[off:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += off
	}
	return &ParseError{
		Kind:     kind,
		Offset:   off,
		Line:     1 + strings.Count(src[:off], "\n"),
		Col:      1 + utf8.RuneCountInString(src[start:off]),
		LineText: src[start:end],
		Token:    tok,
		msg:      msg,
	}
}

// EvalError is an error from evaluating a formula whose bindings are missing
// a required input variable.
type EvalError struct {
	// Name is the variable that was not bound.
	Name string
}

func (err *EvalError) Error() string {
	return "variable '" + err.Name + "' not found"
}

// InputError is an error with position information. Every error the parser
// reports for invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset of the token that caused the error.
	Pos() int
}

var _ InputError = (*ParseError)(nil)
