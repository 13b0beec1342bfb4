package itemset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/masonry/pkg/errors"
)

// Encoding identifies an item-set file syntax.
type Encoding string

const (
	JSON  Encoding = "json"
	JSONC Encoding = "jsonc"
	YAML  Encoding = "yaml"
	TOML  Encoding = "toml"
)

// Encodings lists the supported syntaxes.
var Encodings = []Encoding{JSON, JSONC, YAML, TOML}

// EncodingFromPath picks the encoding from a file extension.
func EncodingFromPath(path string) (Encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".jsonc":
		return JSONC, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported item file %q (want .json, .jsonc, .yaml, .yml or .toml)", filepath.Base(path))
}

// ParseEncoding parses a --format style name.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(strings.ToLower(strings.TrimSpace(s)))
	if e == "yml" {
		e = YAML
	}
	for _, known := range Encodings {
		if e == known {
			return e, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported encoding %q", s)
}

// Read decodes an item set from r and validates it.
//
// Read does not close r. Decoding errors carry the INVALID_FORMAT code,
// validation errors the code of the failed check.
func Read(r io.Reader, enc Encoding) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	doc, err := Decode(data, enc)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode parses data without validating it.
func Decode(data []byte, enc Encoding) (*Document, error) {
	var doc Document
	var err error
	switch enc {
	case JSON:
		err = decodeJSON(data, &doc)
	case JSONC:
		err = decodeJSON(jsonc.ToJSON(data), &doc)
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case TOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported encoding %q", enc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", enc)
	}
	return &doc, nil
}

// decodeJSON accepts either a document object or a bare item array.
func decodeJSON(data []byte, doc *Document) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &doc.Items)
	}
	return json.Unmarshal(data, doc)
}

// ReadFile reads and validates the item set at path. "-" reads standard
// input as JSON.
func ReadFile(path string) (*Document, error) {
	if path == "-" {
		return Read(os.Stdin, JSON)
	}
	enc, err := EncodingFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "item file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
