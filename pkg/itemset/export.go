package itemset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteResult encodes v, normally a layout result, as indented JSON.
func WriteResult(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResult writes v to a JSON file at path.
func ExportResult(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResult(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
