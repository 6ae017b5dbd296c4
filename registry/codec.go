package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ImportJSON reads a JSON object mapping ids to expression sources and
// registers each entry. Entries that fail to parse are skipped; the returned
// error joins one error per rejected entry, so a partial import still
// registers everything valid.
func (r *Registry) ImportJSON(src io.Reader) error {
	var entries map[string]string
	dec := json.NewDecoder(src)
	if err := dec.Decode(&entries); err != nil {
		return fmt.Errorf("decode formulas: %w", err)
	}
	var errs []error
	for id, expr := range entries {
		if err := r.Register(id, expr); err != nil {
			errs = append(errs, fmt.Errorf("formula %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// ExportJSON writes the registered formulas as a JSON object mapping ids to
// expression sources, the format ImportJSON reads.
func (r *Registry) ExportJSON(dst io.Writer) error {
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Sources())
}

// ImportJSONFile imports a JSON formula file by path.
func (r *Registry) ImportJSONFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ImportJSON(f)
}
