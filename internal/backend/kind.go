package backend

import (
	"strings"

	"github.com/systmms/vector-aws-secrets/internal/errors"
)

// Kind identifies the secret store a process serves. It is chosen once at
// startup and never changes.
type Kind int

const (
	KindSSM Kind = iota + 1
	KindSecretsManager
)

var kindNames = map[Kind]string{
	KindSSM:            "ssm",
	KindSecretsManager: "secretsmanager",
}

// Kinds lists the supported backends in display order.
func Kinds() []Kind {
	return []Kind{KindSSM, KindSecretsManager}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a command-line backend name to a Kind. Matching is exact:
// the selector is part of Vector's configured command line.
func ParseKind(s string) (Kind, error) {
	for kind, name := range kindNames {
		if s == name {
			return kind, nil
		}
	}
	return 0, errors.ConfigError{
		Field:      "backend",
		Value:      s,
		Message:    "unknown secrets backend",
		Suggestion: "Use one of: " + strings.Join(kindList(), ", "),
	}
}

func kindList() []string {
	names := make([]string, 0, len(kindNames))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return names
}
