package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LibraryEntry is one named formula in a library file.
type LibraryEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Expression  string `yaml:"expression"`
}

// Library is the YAML library file format: a list of named formulas with
// optional descriptions, the shape editors exchange.
type Library struct {
	Formulas []LibraryEntry `yaml:"formulas"`
}

// ReadLibrary decodes a YAML library.
func ReadLibrary(src io.Reader) (*Library, error) {
	var lib Library
	dec := yaml.NewDecoder(src)
	if err := dec.Decode(&lib); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	for i, e := range lib.Formulas {
		if e.Name == "" {
			return nil, fmt.Errorf("library entry %d has no name", i)
		}
	}
	return &lib, nil
}

// ImportLibrary registers every entry of a YAML library. Entries that fail
// to parse are skipped and reported in the joined error, like ImportJSON.
func (r *Registry) ImportLibrary(src io.Reader) error {
	lib, err := ReadLibrary(src)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range lib.Formulas {
		if err := r.Register(e.Name, e.Expression); err != nil {
			errs = append(errs, fmt.Errorf("formula %q: %w", e.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ImportLibraryFile imports a YAML library file by path.
func (r *Registry) ImportLibraryFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ImportLibrary(f)
}

// ImportFile imports a formula file by path, choosing the codec from the
// file extension: .json for the JSON object format, .yaml or .yml for the
// library format.
func (r *Registry) ImportFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return r.ImportJSONFile(path)
	case ".yaml", ".yml":
		return r.ImportLibraryFile(path)
	default:
		return fmt.Errorf("unsupported formula file %q", path)
	}
}
