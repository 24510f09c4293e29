// Package yamlutil decodes the YAML documents used for configuration and
// style profiles. Decoding goes through goccy/go-yaml with an input size cap.
package yamlutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps a single YAML document (1 MiB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func checkInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := checkInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// ReadFileStrict reads path and decodes it with UnmarshalStrict. Oversized
// files are rejected from their size before being read.
func ReadFileStrict(path string, v any) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > int64(MaxInputSize) {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrInputTooLarge, path, info.Size(), MaxInputSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- caller-selected config path
	if err != nil {
		return err
	}
	return UnmarshalStrict(data, v)
}
