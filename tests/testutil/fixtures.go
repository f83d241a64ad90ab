// Package testutil holds helpers shared by package tests.
package testutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/systmms/vector-aws-secrets/pkg/protocol"
)

// RequestLine builds one newline-terminated request line as Vector sends it.
func RequestLine(t *testing.T, names ...string) string {
	t.Helper()

	if names == nil {
		names = []string{}
	}
	line, err := json.Marshal(map[string]interface{}{
		"version": protocol.Version,
		"secrets": names,
	})
	require.NoError(t, err)
	return string(line) + "\n"
}

// Reply is a decoded reply line. Exactly one of Secrets or Error is set.
type Reply struct {
	Secrets map[string]map[string]string `json:"secrets"`
	Error   string                       `json:"error"`
}

// ParseReplies splits output into lines and decodes each reply.
func ParseReplies(t *testing.T, output string) []Reply {
	t.Helper()

	output = strings.TrimSuffix(output, "\n")
	if output == "" {
		return nil
	}
	var replies []Reply
	for _, line := range strings.Split(output, "\n") {
		var r Reply
		require.NoError(t, json.Unmarshal([]byte(line), &r), "reply line %q", line)
		replies = append(replies, r)
	}
	return replies
}
