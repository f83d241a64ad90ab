package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SecureBuffer provides memory-safe storage for one secret value.
//
// memguard refuses to create an enclave from empty input, so an empty value
// is represented by a nil enclave and opens to an empty buffer.
type SecureBuffer struct {
	enclave   *memguard.Enclave
	mu        sync.RWMutex
	destroyed bool
}

// NewSecureBuffer seals data into an encrypted enclave. memguard wipes data
// in the process, so callers must not reuse the slice.
func NewSecureBuffer(data []byte) (*SecureBuffer, error) {
	if len(data) == 0 {
		return &SecureBuffer{}, nil
	}
	return &SecureBuffer{enclave: memguard.NewEnclave(data)}, nil
}

// FromString seals a string value.
func FromString(value string) (*SecureBuffer, error) {
	return NewSecureBuffer([]byte(value))
}

// Open decrypts the enclave into a locked buffer. The caller MUST call
// Destroy on the returned buffer. A destroyed SecureBuffer opens empty.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed || s.enclave == nil {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}
	return s.enclave.Open()
}

// String opens the enclave and returns a copy of the plaintext.
func (s *SecureBuffer) String() (string, error) {
	locked, err := s.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	return string(locked.Bytes()), nil
}

// Destroy drops the enclave. It is idempotent; later Opens return an empty buffer.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyed = true
	s.enclave = nil
}
