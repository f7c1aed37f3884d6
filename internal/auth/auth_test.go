package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/tubevibes/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuthenticator() *Authenticator {
	return NewAuthenticator(&config.AdminConfig{
		Password:    "secret-pass",
		JWTSecret:   "test-signing-key",
		SessionTTL:  12 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	})
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newTestAuthenticator()
	for _, pw := range []string{"", "secret", "secret-pass ", "SECRET-PASS"} {
		if _, _, err := a.Login(pw, false); !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("Login(%q) error = %v, want ErrInvalidPassword", pw, err)
		}
	}
}

func TestLogin_TTL(t *testing.T) {
	a := newTestAuthenticator()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	tests := []struct {
		remember bool
		want     time.Duration
	}{
		{remember: false, want: 12 * time.Hour},
		{remember: true, want: 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		token, expiresAt, err := a.Login("secret-pass", tt.remember)
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if !expiresAt.Equal(now.Add(tt.want)) {
			t.Errorf("remember=%v expiresAt = %v, want %v", tt.remember, expiresAt, now.Add(tt.want))
		}
		claims, err := a.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.Remember != tt.remember {
			t.Errorf("claims.Remember = %v, want %v", claims.Remember, tt.remember)
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	a := newTestAuthenticator()
	start := time.Now()
	a.now = func() time.Time { return start }
	token, _, err := a.Login("secret-pass", false)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	a.now = func() time.Time { return start.Add(13 * time.Hour) }
	if _, err := a.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	a := newTestAuthenticator()
	token, _, _ := a.Login("secret-pass", false)

	other := NewAuthenticator(&config.AdminConfig{Password: "x", JWTSecret: "other-key", SessionTTL: time.Hour})
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(foreign) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	a := newTestAuthenticator()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := a.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(HS512) error = %v, want ErrInvalidToken", err)
	}
}

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator()
	token, _, _ := a.Login("secret-pass", false)

	r := gin.New()
	r.GET("/admin", a.Middleware(), func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "valid without scheme", header: token, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
