package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashkettle/formula"
	"github.com/ashkettle/formula/registry"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate formula library files",
	Long: `Check parses every formula in the given library files and prints a
diagnostic with a caret for each one that fails. Files ending in .json hold
an object mapping ids to expressions; .yaml and .yml files hold a library
with name/description/expression entries.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bad := 0
		for _, path := range args {
			n, err := checkFile(path)
			if err != nil {
				return err
			}
			bad += n
		}
		if bad > 0 {
			return fmt.Errorf("%d invalid formulas", bad)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkFile parses every formula in one file and returns how many failed.
func checkFile(path string) (int, error) {
	entries, err := readFormulaFile(path)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bad := 0
	for _, id := range ids {
		_, err := formula.Parse(entries[id])
		if err == nil {
			if verbose {
				fmt.Printf("%s: %s: ok\n", path, id)
			}
			continue
		}
		bad++
		var pe *formula.ParseError
		if errors.As(err, &pe) {
			fmt.Fprintf(os.Stderr, "%s: %s:\n%s\n", path, id, pe.Snippet())
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", path, id, err)
		}
	}
	return bad, nil
}

func readFormulaFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var entries map[string]string
		if err := json.NewDecoder(f).Decode(&entries); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return entries, nil
	case ".yaml", ".yml":
		lib, err := registry.ReadLibrary(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		entries := make(map[string]string, len(lib.Formulas))
		for _, e := range lib.Formulas {
			entries[e.Name] = e.Expression
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unsupported formula file %q", path)
	}
}
