// Package auth provides JWT issuance/validation, password hashing, and the
// bearer-token middleware for protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client registers via POST /api/register
//  2. Client posts credentials to POST /api/token, receiving an access and
//     a refresh token
//  3. Protected calls carry "Authorization: Bearer <access>"; the middleware
//     validates the token and puts the userID in the request context
//  4. When the access token expires, the client posts the refresh token to
//     POST /api/token/refresh for a fresh access token, no credentials needed
//
// JWT STRUCTURE (three base64url parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type -> {"alg":"HS256","typ":"JWT"}
//	- Payload: claims -> {"sub":"<userID>","token_type":"access","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// Everything needed to validate a token (userID, type, expiry) is inside the
// signed payload, so no session store or DB lookup is involved. The
// signature guarantees none of it can be altered without the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "klb-assignment"

	// AccessTokenTTL bounds how long a leaked access token stays usable.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the window in which a client can mint new access
	// tokens without re-submitting credentials.
	RefreshTokenTTL = 24 * time.Hour
)

// Token type claim values. Refresh tokens must not be accepted where an
// access token is expected, and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// TokenService signs and verifies HS256 JWTs with a shared secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims, which carries
// the standard fields (Issuer, Subject, ExpiresAt, IssuedAt), and adds the
// token type.
//
// We use "sub" (Subject) to hold the internal user ID; that is the standard
// claim for identifying who the token belongs to. "token_type" keeps access
// and refresh tokens from being used in each other's place even though both
// are signed with the same secret.
type claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GeneratePair issues an access and a refresh token for userID.
func (s *TokenService) GeneratePair(userID string) (TokenPair, error) {
	access, err := s.generate(userID, TypeAccess, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.generate(userID, TypeRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess issues a standalone access token for userID.
func (s *TokenService) GenerateAccess(userID string) (string, error) {
	return s.generate(userID, TypeAccess, AccessTokenTTL)
}

func (s *TokenService) generate(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing %s token: %w", tokenType, err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT of the wanted type (TypeAccess or
// TypeRefresh) and returns the userID it carries.
//
// The signing method is restricted to HS256 so a forged token cannot pick
// its own algorithm, and the issuer must match ours.
func (s *TokenService) Validate(tokenStr, wantType string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.TokenType != wantType {
		return "", fmt.Errorf("auth: token has wrong type %q, want %q", c.TokenType, wantType)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
