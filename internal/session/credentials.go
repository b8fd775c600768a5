// AngelaMos | 2026
// credentials.go

package session

import (
	"context"
	"log/slog"

	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

// CredentialVerifier decides whether an identifier/secret pair may log in.
// None of the implementations here are a security boundary: the demo
// site ships its allow-list to every visitor.
type CredentialVerifier interface {
	Verify(ctx context.Context, identifier, secret string) bool
}

type Credential struct {
	Identifier string
	Secret     string
}

// DefaultCredentials is the demo allow-list. The bare names are aliases of
// the e-mail forms.
func DefaultCredentials() []Credential {
	return []Credential{
		{Identifier: "admin@curso.com", Secret: "admin123"},
		{Identifier: "demo@curso.com", Secret: "demo123"},
		{Identifier: "test@curso.com", Secret: "test123"},
		{Identifier: "usuario@curso.com", Secret: "123456"},
		{Identifier: "admin", Secret: "admin123"},
		{Identifier: "demo", Secret: "demo123"},
		{Identifier: "test", Secret: "test123"},
		{Identifier: "usuario", Secret: "123456"},
	}
}

type AllowList struct {
	pairs []Credential
}

func NewAllowList(pairs ...Credential) *AllowList {
	if len(pairs) == 0 {
		pairs = DefaultCredentials()
	}
	return &AllowList{pairs: pairs}
}

func (a *AllowList) Verify(_ context.Context, identifier, secret string) bool {
	for _, c := range a.pairs {
		if c.Identifier == identifier && core.ConstantTimeEqual(c.Secret, secret) {
			return true
		}
	}
	return false
}

// HashedAllowList checks secrets against argon2id hashes as produced by
// core.HashSecret, keyed by identifier. Malformed hashes are dropped at
// construction and never match.
type HashedAllowList struct {
	hashes map[string]*core.SecretHash
}

func NewHashedAllowList(pairs ...Credential) *HashedAllowList {
	hashes := make(map[string]*core.SecretHash, len(pairs))
	for _, c := range pairs {
		h, err := core.ParseSecretHash(c.Secret)
		if err != nil {
			slog.Warn("ignoring credential with malformed hash",
				"identifier", c.Identifier,
				"error", err,
			)
			continue
		}
		hashes[c.Identifier] = h
	}
	return &HashedAllowList{hashes: hashes}
}

func (h *HashedAllowList) Verify(_ context.Context, identifier, secret string) bool {
	hash, ok := h.hashes[identifier]
	return ok && hash.Matches(secret)
}

// VerifierFromConfig builds the allow-list named in configuration, falling
// back to DefaultCredentials when none are listed.
func VerifierFromConfig(cfg config.AccessConfig) CredentialVerifier {
	pairs := make([]Credential, 0, len(cfg.Credentials))
	for _, c := range cfg.Credentials {
		pairs = append(pairs, Credential{Identifier: c.Identifier, Secret: c.Secret})
	}

	if cfg.HashedCredentials && len(pairs) > 0 {
		return NewHashedAllowList(pairs...)
	}
	return NewAllowList(pairs...)
}
