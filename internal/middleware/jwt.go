// Package middleware provides HTTP middleware for authentication,
// request identification, and rate limiting.
package middleware

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims holds the parsed claims from a validated access token.
type TokenClaims struct {
	Subject  string
	Issuer   string
	Audience []string
	Email    *string
	Raw      map[string]interface{}
}

// TokenValidator verifies an access token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (*TokenClaims, error)
}

// SharedSecretValidator validates tokens signed with a shared HS256 secret.
// This is the validator used for locally issued tokens.
type SharedSecretValidator struct {
	secret []byte
}

// NewSharedSecretValidator creates a validator for HS256 tokens.
func NewSharedSecretValidator(secret string) *SharedSecretValidator {
	return &SharedSecretValidator{secret: []byte(secret)}
}

// Validate verifies an HS256 token and extracts claims.
func (v *SharedSecretValidator) Validate(_ context.Context, tokenString string) (*TokenClaims, error) {
	tok, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("jwt parse: %w", err)
	}

	raw, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("jwt parse: unsupported claim type %T", tok.Claims)
	}

	claims := &TokenClaims{Raw: map[string]interface{}(raw)}
	if sub, ok := raw["sub"].(string); ok {
		claims.Subject = sub
	}
	if iss, ok := raw["iss"].(string); ok {
		claims.Issuer = iss
	}
	if email, ok := raw["email"].(string); ok {
		claims.Email = &email
	}

	switch aud := raw["aud"].(type) {
	case string:
		claims.Audience = []string{aud}
	case []interface{}:
		for _, a := range aud {
			if s, ok := a.(string); ok {
				claims.Audience = append(claims.Audience, s)
			}
		}
	}

	return claims, nil
}

// OIDCValidator validates tokens issued by an external identity provider
// using OIDC discovery and JWKS.
type OIDCValidator struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCValidator creates a validator from an OIDC issuer URL. Discovery
// fetches the provider metadata, so this performs network I/O.
func NewOIDCValidator(ctx context.Context, issuerURL, audience string) (*OIDCValidator, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: audience})
	return &OIDCValidator{verifier: verifier}, nil
}

// Validate verifies the token using the provider's JWKS.
func (v *OIDCValidator) Validate(ctx context.Context, tokenString string) (*TokenClaims, error) {
	idToken, err := v.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var raw map[string]interface{}
	if err := idToken.Claims(&raw); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	claims := &TokenClaims{
		Subject:  idToken.Subject,
		Issuer:   idToken.Issuer,
		Audience: idToken.Audience,
		Raw:      raw,
	}
	if email, ok := raw["email"].(string); ok {
		claims.Email = &email
	}

	return claims, nil
}
