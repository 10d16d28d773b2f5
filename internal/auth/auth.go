// Package auth verifies the bearer tokens the POS terminal sends and
// extracts the cashier identity carried in them.
package auth

import (
	"strings"

	"github.com/arenaretail/pos/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Subject is the identity carried in a verified token.
type Subject struct {
	ID    string
	Name  string
	Email string
}

// Verifier checks token signatures against a shared session secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify parses and validates a token and returns the subject it names.
func (v *Verifier) Verify(token string) (*Subject, error) {
	const op = "auth.verify"

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.Errorf(domain.EUNAUTHORIZED, op, "unexpected signing method %s", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EUNAUTHORIZED, op, "invalid token")
	}
	if !parsed.Valid || c.Subject == "" {
		return nil, domain.Unauthorized(op, "invalid token")
	}

	return &Subject{ID: c.Subject, Name: c.Name, Email: c.Email}, nil
}

// FromHeader extracts a bearer token from an Authorization header value.
// Returns an empty string when no bearer token is present.
func FromHeader(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
