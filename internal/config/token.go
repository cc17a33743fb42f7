package config

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const tokenKeyInfo = "minesweeper round token v1"

// RoundClaims bind a token to the game session it was issued for.
type RoundClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Tokens struct {
	key           []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	issuer        string
}

func deriveKey(secret string) ([]byte, error) {
	ikm := []byte(secret)
	if secret == "" {
		ikm = make([]byte, 32)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("unable to generate token secret: %w", err)
		}
	}
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, ikm, nil, []byte(tokenKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("unable to derive token key: %w", err)
	}
	return key, nil
}

func NewTokens(c TokenConfig) (*Tokens, error) {
	key, err := deriveKey(c.Secret)
	if err != nil {
		return nil, err
	}
	t := &Tokens{
		key:           key,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: c.Lifetime,
		issuer:        c.Issuer,
	}
	return t, nil
}

func (t *Tokens) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := &RoundClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.key)
}

func (t *Tokens) Parse(tokenString string) (*RoundClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&RoundClaims{},
		func(*jwt.Token) (interface{}, error) {
			return t.key, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*RoundClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
