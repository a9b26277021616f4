// Package jwt tokens de acceso acotados a una red hospitalaria.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret  = errors.New("jwt: secret vacío")
	ErrNoNetwork = errors.New("jwt: el token no indica red")
)

// Identity quién llama y sobre qué red opera. Toda consulta de planeación se
// acota a NetworkID.
type Identity struct {
	UserID    string
	NetworkID string
	Role      string // "admin" | "planner" | "viewer"
}

type claims struct {
	jwt.RegisteredClaims
	NetworkID string `json:"network_id"`
	Role      string `json:"role"`
}

// Signer firma y valida tokens HS256 de un emisor.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner construye el firmador; ttl <= 0 usa una hora.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// WithClock fija el reloj (pruebas de expiración).
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Sign emite un token para id. Sin red no hay token: el motor no tiene
// operaciones globales.
func (s *Signer) Sign(id Identity) (string, error) {
	if id.NetworkID == "" {
		return "", ErrNoNetwork
	}
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		NetworkID: id.NetworkID,
		Role:      id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Parse valida firma, emisor y expiración, y devuelve la identidad del token.
func (s *Signer) Parse(token string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if c.NetworkID == "" {
		return Identity{}, ErrNoNetwork
	}
	return Identity{UserID: c.Subject, NetworkID: c.NetworkID, Role: c.Role}, nil
}
