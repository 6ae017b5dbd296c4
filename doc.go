// Package formula implements a small expression language for numeric formulas.
//
// A formula is a sequence of statements separated by semicolons or newlines.
// Statements are let declarations, assignments, if/else conditionals, blocks,
// or plain expressions; the value of a formula is the value of its last
// statement. Expressions have the usual arithmetic, comparison, and logical
// operators over a single float64 type, with 0 meaning false and anything
// else meaning true.
//
// Parsing an expression once produces a Formula that can be evaluated many
// times against different variable bindings. Identifiers a formula reads but
// never declares are its input variables; the caller supplies those per
// evaluation, and the parser reports them so callers know what to bind.
//
//	f, err := formula.Parse("(baseDamage + bonus) * crit")
//	// f.Inputs() == ["baseDamage", "bonus", "crit"]
//	v, err := f.Evaluate(map[string]float64{"baseDamage": 12, "bonus": 3, "crit": 1.5})
//
// The rand, randf, and random intrinsics draw from a RandomSource bound at
// parse time, so deterministic evaluation is a parse option away.
package formula
