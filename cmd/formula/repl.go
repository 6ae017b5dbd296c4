package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/ashkettle/formula"
)

const historyFile = ".formula_history"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive expression session",
	Long: `Repl reads expressions line by line and prints their values. Variables
assigned in one line stay bound for the rest of the session.

Commands:
  :vars        list the current variable bindings
  :clear       drop all bindings
  :quit        leave the session`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	// Load history, best effort.
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	rng := newRandom()
	bindings := make(map[string]float64)

	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			// Ctrl+D or Ctrl+C ends the session.
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if replCommand(trimmed, bindings) {
				break
			}
			continue
		}

		f, err := formula.Parse(line, formula.WithRandom(rng))
		if err != nil {
			var pe *formula.ParseError
			if errors.As(err, &pe) {
				fmt.Println(pe.Snippet())
			} else {
				fmt.Println(err)
			}
			continue
		}
		v, err := f.Evaluate(bindings)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(formatValue(v))
		ln.AppendHistory(line)
	}

	// Persist history, best effort.
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// replCommand handles :vars, :clear, :help, :quit. It reports whether the
// session should end.
func replCommand(line string, bindings map[string]float64) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ":quit", ":exit", ":q":
		return true
	case ":vars":
		names := make([]string, 0, len(bindings))
		for name := range bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s = %s\n", name, formatValue(bindings[name]))
		}
	case ":clear":
		clear(bindings)
	case ":help":
		fmt.Println(":vars  :clear  :quit")
	default:
		fmt.Printf("unknown command %s\n", line)
	}
	return false
}
