package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"volunteer-api/models"
)

var (
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrInvalidCredential = errors.New("invalid bearer credential")
)

// Caller is the identity resolved from a bearer credential.
type Caller struct {
	ID        string
	Role      models.Role
	Email     string
	FirstName string
	LastName  string
}

// Profile returns the stored user profile for the caller.
func (c *Caller) Profile() models.User {
	return models.User{
		ID:        c.ID,
		Role:      c.Role,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}

// Claims is the JWT payload issued to callers.
type Claims struct {
	UserID    string `json:"id"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer credentials.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates token, returning the caller it identifies.
func (v *Verifier) Verify(token string) (*Caller, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	role := models.Role(claims.Role)
	if claims.UserID == "" || !role.Valid() {
		return nil, fmt.Errorf("%w: missing id or unknown role", ErrInvalidCredential)
	}

	return &Caller{
		ID:        claims.UserID,
		Role:      role,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}

// VerifyHeader verifies the credential in an Authorization header value.
func (v *Verifier) VerifyHeader(header string) (*Caller, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, ErrMissingCredential
	}
	return v.Verify(token)
}

// Resolve returns the caller for header, or nil when the credential is
// absent, malformed or expired.
func (v *Verifier) Resolve(header string) *Caller {
	caller, err := v.VerifyHeader(header)
	if err != nil {
		return nil
	}
	return caller
}

// BearerToken extracts the token from "Bearer <token>".
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Issuer signs credentials for callers. Sessions are issued elsewhere in
// production; this is used by tooling and tests.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry}
}

// Issue returns a signed token for c.
func (i *Issuer) Issue(c Caller) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    c.ID,
		Role:      string(c.Role),
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
