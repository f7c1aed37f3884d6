// Package auth issues and verifies admin session tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/config"
)

const (
	issuer   = "tubevibes"
	subject  = "admin"
	claimKey = "admin_claims"
)

var (
	// ErrInvalidPassword is returned by Login for a wrong password
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidToken is returned by Verify for a bad or expired token
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are carried by admin session tokens
type Claims struct {
	Remember bool `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator checks the admin password and signs sessions
type Authenticator struct {
	password    []byte
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewAuthenticator creates an authenticator from admin config
func NewAuthenticator(cfg *config.AdminConfig) *Authenticator {
	return &Authenticator{
		password:    []byte(cfg.Password),
		secret:      []byte(cfg.JWTSecret),
		sessionTTL:  cfg.SessionTTL,
		rememberTTL: cfg.RememberTTL,
		now:         time.Now,
	}
}

// Login verifies password and returns a signed session token
func (a *Authenticator) Login(password string, remember bool) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		log.Warn().Msg("Admin login rejected")
		return "", time.Time{}, ErrInvalidPassword
	}

	ttl := a.sessionTTL
	if remember {
		ttl = a.rememberTTL
	}
	now := a.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	log.Info().
		Bool("remember", remember).
		Time("expires_at", expiresAt).
		Msg("Admin logged in")

	return token, expiresAt, nil
}

// Verify parses and validates a session token
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Middleware rejects requests without a valid Bearer session token
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "authentication required",
				"data": nil,
			})
			return
		}

		claims, err := a.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "invalid or expired session",
				"data": nil,
			})
			return
		}

		c.Set(claimKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Middleware
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
