// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the security primitives: the closed [Role] set, RS256 token
signing with golang-jwt and the confirmation-code digest.

Access and refresh tokens share one key pair and differ by the "typ" claim,
so each verifier accepts only its own kind.
*/
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// ErrWrongTokenType is returned when a refresh token is presented as an access token or vice versa.
var ErrWrongTokenType = errors.New("auth: wrong token type")

// Subject identifies the account a token is minted for.
type Subject struct {
	UserID    string
	Username  string
	Role      Role
	Superuser bool
}

// AuthClaims represents the payload embedded inside a JWT.
//
// UserID, Username, Role and Superuser travel inside the token so that
// [middleware.Authenticate] can rebuild the actor without a database query.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID    string    `json:"uid"`
	Username  string    `json:"unm"`
	Role      string    `json:"rol"`
	Superuser bool      `json:"sup,omitempty"`
	Type      TokenType `json:"typ"`
}

// clockSkew tolerates small clock drift between signer and verifier.
const clockSkew = 30 * time.Second

// TokenService signs and verifies RS256 tokens for one issuer.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	now        func() time.Time
}

// NewTokenService loads the PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readKey(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}

	publicKey, err := readKey(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}

	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, fmt.Errorf("auth: public key %s does not match the private key", publicKeyPath)
	}

	return &TokenService{privateKey: privateKey, publicKey: publicKey, issuer: issuer, now: time.Now}, nil
}

func readKey[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	pem, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("auth: failed to read key %s: %w", path, err)
	}

	key, err := parse(pem)
	if err != nil {
		return zero, fmt.Errorf("auth: failed to parse key %s: %w", path, err)
	}
	return key, nil
}

// NewTokenServiceFromKey wraps an in-memory key. Tests and tooling use it.
func NewTokenServiceFromKey(privateKey *rsa.PrivateKey, issuer string) *TokenService {
	return &TokenService{privateKey: privateKey, publicKey: &privateKey.PublicKey, issuer: issuer, now: time.Now}
}

// GenerateAccessToken signs a token accepted by [TokenService.VerifyToken].
func (service *TokenService) GenerateAccessToken(subject Subject, timeToLive time.Duration) (string, error) {
	return service.sign(subject, TokenAccess, timeToLive)
}

// GenerateRefreshToken signs a token only [TokenService.VerifyRefreshToken] accepts.
func (service *TokenService) GenerateRefreshToken(subject Subject, timeToLive time.Duration) (string, error) {
	return service.sign(subject, TokenRefresh, timeToLive)
}

func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, TokenAccess)
}

func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, TokenRefresh)
}

func (service *TokenService) sign(subject Subject, tokenType TokenType, timeToLive time.Duration) (string, error) {
	if subject.UserID == "" {
		return "", errors.New("auth: cannot sign a token without a subject")
	}

	issuedAt := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.UserID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		UserID:    subject.UserID,
		Username:  subject.Username,
		Role:      string(subject.Role),
		Superuser: subject.Superuser,
		Type:      tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}
	return signed, nil
}

func (service *TokenService) verify(tokenString string, expected TokenType) (*AuthClaims, error) {
	claims := &AuthClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, errors.New("auth: token subject mismatch")
	}
	return claims, nil
}
