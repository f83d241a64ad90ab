// Package validation checks secret names before they leave the process.
package validation

import (
	"fmt"

	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
)

// PathSeparator is the hierarchy notation allowed in secret names. Both AWS
// stores use '/', which the exec protocol does not allow in a name.
const PathSeparator = '.'

// SecretName returns name unchanged if it only contains ASCII letters,
// digits, '_' and '.', otherwise an InvalidSecretName error.
func SecretName(name string) (string, error) {
	if name == "" {
		return "", dserrors.New(dserrors.InvalidSecretName, name, "secret name is empty")
	}
	for i := 0; i < len(name); i++ {
		if !allowed(name[i]) {
			return "", dserrors.New(dserrors.InvalidSecretName, name,
				"secret name %q contains invalid character %q at offset %d", name, rune(name[i]), i)
		}
	}
	return name, nil
}

func allowed(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
	case c >= '0' && c <= '9':
	case c == '_' || c == PathSeparator:
	default:
		return false
	}
	return true
}

// Describe returns the allowed character set, for help output.
func Describe() string {
	return fmt.Sprintf("ASCII letters, digits, '_' and '%c'", PathSeparator)
}
