package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedAuthorization is returned when the header is not a bearer token.
var ErrMalformedAuthorization = errors.New("authorization header is not a bearer token")

// JWTResolver implements ports.IdentityResolver for HS256 access tokens
// signed with the Supabase project JWT secret.
type JWTResolver struct {
	secret   []byte
	issuer   string
	audience string
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NewJWTResolver returns a resolver. issuer and audience are checked only when non-empty.
func NewJWTResolver(secret, issuer, audience string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), issuer: issuer, audience: audience}
}

// ResolveUserID returns the token subject. An empty header yields no identity and no error.
func (r *JWTResolver) ResolveUserID(authorization string) (string, error) {
	if strings.TrimSpace(authorization) == "" {
		return "", nil
	}
	token, ok := bearerToken(authorization)
	if !ok {
		return "", ErrMalformedAuthorization
	}
	claims, err := r.parseClaims(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IssueAccessToken signs a token for subject. Used by tests and local tooling.
func (r *JWTResolver) IssueAccessToken(subject string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = subject
	if claims.Issuer == "" {
		claims.Issuer = r.issuer
	}
	if len(claims.Audience) == 0 && r.audience != "" {
		claims.Audience = jwt.ClaimStrings{r.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{RegisteredClaims: claims, Role: "authenticated"})
	return token.SignedString(r.secret)
}

func (r *JWTResolver) parseClaims(tokenString string) (*accessClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}
	if r.audience != "" {
		opts = append(opts, jwt.WithAudience(r.audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// NoopResolver never resolves an identity. Every protected procedure answers UNAUTHORIZED.
type NoopResolver struct{}

func NewNoopResolver() *NoopResolver {
	return &NoopResolver{}
}

func (NoopResolver) ResolveUserID(string) (string, error) {
	return "", nil
}

// StaticResolver maps exact Authorization header values to user ids.
type StaticResolver map[string]string

func (s StaticResolver) ResolveUserID(authorization string) (string, error) {
	return s[authorization], nil
}

var (
	_ ports.IdentityResolver = (*JWTResolver)(nil)
	_ ports.IdentityResolver = NoopResolver{}
	_ ports.IdentityResolver = StaticResolver(nil)
)
