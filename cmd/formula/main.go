// Formula is a command line front end for the formula expression language.
//
// Usage:
//
//	# Evaluate an expression with bindings
//	formula eval "a + b * 2" --var a=2 --var b=3
//
//	# Deterministic randomness
//	formula eval "rand(6) + 1" --seed 42
//
//	# Interactive session with persistent variables
//	formula repl
//
//	# Validate a formula library file
//	formula check formulas.yaml
package main

func main() {
	Execute()
}
