package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
)

// Version is the protocol version this helper speaks.
const Version = "1.0"

// Vector sends the version as the string "1.0"; the integer form 1 is accepted
// as the same version.
var supportedVersions = map[string]bool{
	"1":   true,
	"1.0": true,
}

const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "secrets"],
  "properties": {
    "version": {"type": ["number", "string"]},
    "secrets": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
})

// Request is one decoded request line.
type Request struct {
	// Version is the normalized protocol version ("1" or "1.0").
	Version string
	// Secrets holds the requested names, deduplicated, in first-seen order.
	Secrets []string
}

type envelope struct {
	Version json.RawMessage `json:"version"`
	Secrets []string        `json:"secrets"`
}

// Decode parses one request line. It fails with MalformedRequest when the line
// is not a well-formed request object and with UnsupportedVersion when the
// version is not one this helper speaks.
func Decode(line []byte) (Request, error) {
	line = bytes.TrimSpace(line)
	if !json.Valid(line) {
		return Request{}, dserrors.New(dserrors.MalformedRequest, "", "request is not valid JSON")
	}

	schema, err := compiledSchema()
	if err != nil {
		return Request{}, dserrors.Wrap(dserrors.MalformedRequest, "", err, "request schema unavailable: %v", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return Request{}, dserrors.Wrap(dserrors.MalformedRequest, "", err, "request could not be validated: %v", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return Request{}, dserrors.New(dserrors.MalformedRequest, "", "invalid request: %s", strings.Join(problems, "; "))
	}

	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Request{}, dserrors.Wrap(dserrors.MalformedRequest, "", err, "invalid request: %v", err)
	}

	version, err := normalizeVersion(env.Version)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Version: version,
		Secrets: dedupe(env.Secrets),
	}, nil
}

func normalizeVersion(raw json.RawMessage) (string, error) {
	text := string(bytes.TrimSpace(raw))

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", dserrors.Wrap(dserrors.MalformedRequest, "", err, "invalid version: %v", err)
		}
		if !supportedVersions[s] {
			return "", unsupported(s)
		}
		return s, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", dserrors.Wrap(dserrors.MalformedRequest, "", err, "invalid version %s", text)
	}
	if f != 1 {
		return "", unsupported(text)
	}
	return "1", nil
}

func unsupported(v string) error {
	return dserrors.New(dserrors.UnsupportedVersion, "",
		"protocol version %s is not supported, expected %q", v, Version)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// String renders the request for debug logs. Names are not secret.
func (r Request) String() string {
	return fmt.Sprintf("version=%s secrets=%v", r.Version, r.Secrets)
}
