package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

// =============================================================================
// File Formats
// =============================================================================

const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatFromPath picks the decoder from a file extension. Anything that is
// not .toml is treated as JSON.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// =============================================================================
// Spec IO
// =============================================================================

// ReadSpecFile reads a chart spec from a JSON or TOML file.
func ReadSpecFile(path string) (Spec, error) {
	var s Spec
	if err := decodeFile(path, &s); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// ReadSpec decodes a chart spec in the given format.
func ReadSpec(r io.Reader, format string) (Spec, error) {
	var s Spec
	if err := decode(r, format, &s); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// MarshalSpec encodes a spec as canonical JSON. Struct fields are emitted
// in declaration order, so equal specs marshal to equal bytes.
func MarshalSpec(s Spec) ([]byte, error) {
	return json.Marshal(s)
}

// =============================================================================
// Grid IO
// =============================================================================

// ReadGridFile reads a grid config from a JSON or TOML file.
func ReadGridFile(path string) (GridConfig, error) {
	var g GridConfig
	if err := decodeFile(path, &g); err != nil {
		return GridConfig{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := decode(bytes.NewReader(data), FormatFromPath(path), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader, format string, v any) error {
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}
