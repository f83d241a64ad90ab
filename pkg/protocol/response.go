package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Outcome is the result for one secret name: exactly one of Value or Error is set.
type Outcome struct {
	Value *string `json:"value,omitempty"`
	Error *string `json:"error,omitempty"`
}

// Value builds a successful outcome.
func Value(v string) Outcome {
	return Outcome{Value: &v}
}

// Failure builds a failed outcome from err.
func Failure(err error) Outcome {
	msg := err.Error()
	return Outcome{Error: &msg}
}

// Response is the reply to a decoded request.
type Response struct {
	Secrets map[string]Outcome `json:"secrets"`
}

// NewResponse returns an empty response ready to be filled.
func NewResponse(size int) Response {
	return Response{Secrets: make(map[string]Outcome, size)}
}

// ErrorResponse is the reply to a request that could not be decoded.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Encoder writes replies as single JSON lines and flushes after each one.
type Encoder struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Encoder{w: bw, enc: enc}
}

// WriteResponse writes resp as one line.
func (e *Encoder) WriteResponse(resp Response) error {
	if resp.Secrets == nil {
		resp.Secrets = map[string]Outcome{}
	}
	return e.write(resp)
}

// WriteError writes a top-level error reply for a request that failed as a whole.
func (e *Encoder) WriteError(err error) error {
	return e.write(ErrorResponse{Error: err.Error()})
}

func (e *Encoder) write(v interface{}) error {
	// json.Encoder terminates every value with '\n'.
	if err := e.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("failed to write reply: %w", err)
	}
	return nil
}
