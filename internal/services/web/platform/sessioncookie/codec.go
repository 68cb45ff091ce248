package sessioncookie

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ifc-cambodge/sreyka/internal/platform/config"
	apperrors "github.com/ifc-cambodge/sreyka/internal/platform/errors"
)

// MinKeyLength is the minimum HMAC key size in bytes.
const MinKeyLength = 32

const (
	// EnvKey names the signing key variable.
	EnvKey = "SREYKA_SESSION_KEY"
	// EnvIssuer names the token issuer variable.
	EnvIssuer = "SREYKA_SESSION_ISSUER"
)

const defaultIssuer = "sreyka-web"

type codecEnv struct {
	Key    string `env:"SREYKA_SESSION_KEY"`
	Issuer string `env:"SREYKA_SESSION_ISSUER" envDefault:"sreyka-web"`
}

// Codec signs session ids into cookie values and verifies them back.
//
// The cookie carries an HS256 JWT whose subject is the web session id, so a
// forged or truncated cookie is rejected before any store lookup.
type Codec struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// NewCodec builds a codec for key.
func NewCodec(key []byte, issuer string, now func() time.Time) (*Codec, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("session key must be at least %d bytes", MinKeyLength)
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{key: append([]byte(nil), key...), issuer: issuer, now: now}, nil
}

// LoadCodecFromEnv reads the signing key and issuer through lookup.
func LoadCodecFromEnv(lookup config.EnvLookup) (*Codec, error) {
	var raw codecEnv
	if err := config.ParseEnvWithLookup(&raw, lookup, EnvKey, EnvIssuer); err != nil {
		return nil, fmt.Errorf("parse session cookie env: %w", err)
	}
	key := strings.TrimSpace(raw.Key)
	if key == "" {
		return nil, fmt.Errorf("%s is required", EnvKey)
	}
	return NewCodec([]byte(key), raw.Issuer, nil)
}

// Encode signs sessionID into a cookie value valid until expiresAt.
func (c *Codec) Encode(sessionID string, expiresAt time.Time) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", apperrors.New(apperrors.CodeSessionInvalid, "session id is required")
	}
	now := c.now().UTC()
	claims := sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Decode verifies value and returns the session id it carries.
func (c *Codec) Decode(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.New(apperrors.CodeSessionInvalid, "session cookie is empty")
	}
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(value, &parsed, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", mapJWTError(err)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return "", apperrors.New(apperrors.CodeSessionInvalid, "session token subject is required")
	}
	return parsed.Subject, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.Wrap(apperrors.CodeSessionExpired, "session token is expired", err)
	}
	return apperrors.Wrap(apperrors.CodeSessionInvalid, "session token is invalid", err)
}
