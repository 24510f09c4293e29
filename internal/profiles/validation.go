package profiles

import (
	"fmt"
	"strings"
)

// ValidateKey checks that a profile key is safe for use as a file name.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.ContainsAny(key, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
