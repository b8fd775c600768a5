// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLength   = 16

	argonPrefix = "$argon2id$"
)

var ErrMalformedHash = errors.New("malformed secret hash")

// SecretHash is a decoded argon2id credential hash. Parsing once at startup
// keeps malformed config entries out of the login path.
type SecretHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// HashSecret encodes a login secret in PHC form:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	h := SecretHash{
		memory:  argonMemory,
		time:    argonTime,
		threads: argonThreads,
		salt:    salt,
	}
	h.key = h.derive(secret, argonKeyLen)

	return h.String(), nil
}

func ParseSecretHash(encoded string) (*SecretHash, error) {
	rest, ok := strings.CutPrefix(encoded, argonPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: not argon2id", ErrMalformedHash)
	}

	parts := strings.Split(rest, "$")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedHash, len(parts))
	}

	var version int
	if _, err := fmt.Sscanf(parts[0], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: version %q", ErrMalformedHash, parts[0])
	}

	h := &SecretHash{}
	if _, err := fmt.Sscanf(parts[1], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return nil, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[2]); err != nil {
		return nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[3]); err != nil {
		return nil, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}
	if len(h.key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}

	return h, nil
}

// Matches derives the candidate with the stored parameters and compares in
// constant time.
func (h *SecretHash) Matches(secret string) bool {
	//nolint:gosec // G115: argon2id keys are 32 bytes
	candidate := h.derive(secret, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(h.key, candidate) == 1
}

func (h *SecretHash) String() string {
	return fmt.Sprintf(
		"%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix,
		argon2.Version,
		h.memory,
		h.time,
		h.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

func (h *SecretHash) derive(secret string, keyLen uint32) []byte {
	return argon2.IDKey([]byte(secret), h.salt, h.time, h.memory, h.threads, keyLen)
}

// ConstantTimeEqual compares two strings without leaking the position of
// the first difference.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
