package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashkettle/formula"
)

var evalVars []string

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single expression",
	Long: `Eval parses the expression, binds the variables given with --var, and
prints the result.

Example:
  formula eval "(baseDamage + bonus) * crit" --var baseDamage=12 --var bonus=3 --var crit=1.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindings, err := parseBindings(evalVars)
		if err != nil {
			return err
		}
		f, err := formula.Parse(args[0], formula.WithRandom(newRandom()))
		if err != nil {
			var pe *formula.ParseError
			if errors.As(err, &pe) {
				fmt.Fprintln(os.Stderr, pe.Snippet())
				return fmt.Errorf("invalid expression")
			}
			return err
		}
		if verbose {
			fmt.Fprintln(os.Stderr, "inputs:", strings.Join(f.Inputs(), " "))
		}
		v, err := f.Evaluate(bindings)
		if err != nil {
			return err
		}
		fmt.Println(formatValue(v))
		return nil
	},
}

func init() {
	evalCmd.Flags().StringArrayVar(&evalVars, "var", nil, "variable binding as name=value (repeatable)")
	rootCmd.AddCommand(evalCmd)
}

// parseBindings turns name=value flags into a binding map.
func parseBindings(vars []string) (map[string]float64, error) {
	bindings := make(map[string]float64, len(vars))
	for _, kv := range vars {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --var %q: %q is not a number", kv, val)
		}
		bindings[name] = v
	}
	return bindings, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
