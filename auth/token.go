// Package auth verifies the signed tokens that carry job submissions.
package auth

import (
	"errors"
	"fmt"
	"time"

	"vodforge/models"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidIssuer    = errors.New("invalid issuer")
)

// VerifyConfig holds verification settings for job tokens.
type VerifyConfig struct {
	SecretKey      []byte        // HMAC secret shared with the control plane
	ExpectedIssuer string        // optional issuer check
	ClockSkew      time.Duration // optional allowance for clock drift
}

// VerifyJobToken verifies an HS256-signed job token and returns its claims.
func VerifyJobToken(tokenString string, config VerifyConfig) (*models.JobClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	if len(config.SecretKey) == 0 {
		return nil, errors.New("no verification key provided")
	}

	tok, err := jwt.ParseSigned(tokenString, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &models.JobClaims{}
	if err := tok.Claims(config.SecretKey, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	now := time.Now()
	if claims.ExpiresAt > 0 {
		expiry := time.Unix(claims.ExpiresAt, 0).Add(config.ClockSkew)
		if now.After(expiry) {
			return nil, ErrTokenExpired
		}
	}
	if claims.IssuedAt > 0 {
		issued := time.Unix(claims.IssuedAt, 0).Add(-config.ClockSkew)
		if now.Before(issued) {
			return nil, ErrTokenNotYetValid
		}
	}
	if config.ExpectedIssuer != "" && claims.Issuer != config.ExpectedIssuer {
		return nil, ErrInvalidIssuer
	}

	return claims, nil
}
