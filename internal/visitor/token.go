// AngelaMos | 2026
// token.go

package visitor

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/course-gate/internal/config"
	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

const tokenType = "visitor"

// TokenManager signs the cookie that pins a browser to its storage
// namespace. The token carries no claims about login or purchase; those live
// in the store.
type TokenManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	config     config.VisitorConfig
	now        func() time.Time
}

func NewTokenManager(cfg config.VisitorConfig) (*TokenManager, error) {
	var (
		privateKey jwk.Key
		err        error
	)

	if cfg.PrivateKeyPath != "" {
		privateKey, err = loadOrCreatePrivateKey(cfg.PrivateKeyPath)
	} else {
		privateKey, err = generatePrivateKey()
	}
	if err != nil {
		return nil, err
	}

	if setErr := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	thumbprint, err := privateKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("key thumbprint: %w", err)
	}
	keyID := hex.EncodeToString(thumbprint)[:8]
	if setErr := privateKey.Set(jwk.KeyIDKey, keyID); setErr != nil {
		return nil, fmt.Errorf("set key id: %w", setErr)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	return &TokenManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		config:     cfg,
		now:        time.Now,
	}, nil
}

func loadPrivateKey(path string) (jwk.Key, error) {
	privateKeyPEM, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return key, nil
}

// loadOrCreatePrivateKey reads the key at path, writing a fresh one there
// first if none exists, so cookies stay valid across restarts.
func loadOrCreatePrivateKey(path string) (jwk.Key, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writePrivateKey(path); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat private key: %w", err)
	}
	return loadPrivateKey(path)
}

func writePrivateKey(path string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(raw)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create private key: %w", err)
	}
	if err := pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: der}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write private key: %w", err)
	}
	return f.Close()
}

// generatePrivateKey makes an ephemeral key for the memory backend, whose
// state does not outlive the process anyway.
func generatePrivateKey() (jwk.Key, error) {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}

	return key, nil
}

// NewVisitorID mints the namespace id for a browser seen for the first time.
func NewVisitorID() string {
	return uuid.New().String()
}

func (m *TokenManager) Issue(visitorID string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.config.TTL)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(visitorID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Verify returns the visitor id carried by a token.
func (m *TokenManager) Verify(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return "", fmt.Errorf("verify visitor token: %w", core.ErrTokenExpired)
		}
		return "", fmt.Errorf("verify visitor token: %w", core.ErrTokenInvalid)
	}

	var typ string
	if err := token.Get("type", &typ); err != nil || typ != tokenType {
		return "", fmt.Errorf(
			"verify visitor token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", fmt.Errorf(
			"verify visitor token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	if _, err := uuid.Parse(subject); err != nil {
		return "", fmt.Errorf(
			"verify visitor token: malformed subject: %w",
			core.ErrTokenInvalid,
		)
	}

	return subject, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (m *TokenManager) KeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during NewTokenManager
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}
