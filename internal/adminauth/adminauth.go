// Package adminauth guards the single administrative write operation this
// service exposes — reloading the retraction watchlist — with a bcrypt
// password check plus a short-lived signed JWT, the same primitives the
// teacher's auth_usecase used for full user accounts, narrowed here to one
// static account instead of a user table.
package adminauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("adminauth: invalid password")
	ErrInvalidToken       = errors.New("adminauth: invalid or expired token")
	ErrDisabled           = errors.New("adminauth: no admin password configured")
)

// Claims is the JWT payload issued on successful login. There is no subject
// beyond "the admin" — this is a single-account guard, not a user system.
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Guard issues and validates admin session tokens for one configured
// account (password hash + signing secret), both read from config at
// startup.
type Guard struct {
	passwordHash string
	secret       string
	expiry       time.Duration
}

// New builds a Guard. An empty passwordHash disables the admin route
// entirely — Login always fails with ErrDisabled.
func New(passwordHash, secret string, expiry time.Duration) *Guard {
	return &Guard{passwordHash: passwordHash, secret: secret, expiry: expiry}
}

// Enabled reports whether any admin account is configured.
func (g *Guard) Enabled() bool {
	return g.passwordHash != ""
}

// Login checks password against the configured bcrypt hash and, on match,
// issues a signed session token.
func (g *Guard) Login(password string) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(g.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   "admin",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.secret))
}

// Validate parses and verifies a session token previously issued by Login.
func (g *Guard) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(g.secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Admin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword is exposed for operators provisioning ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
