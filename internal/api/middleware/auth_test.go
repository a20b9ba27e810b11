package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":  "ops@example.com",
		"role": AdminRole,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		if c.Get("subject") != "ops@example.com" {
			t.Fatalf("subject not set")
		}
		if c.Get("role") != AdminRole {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, called := runAuth(t, "")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	rec, called := runAuth(t, "Token abc")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, called := runAuth(t, "Bearer not-a-token")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	signed := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"role": AdminRole,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	rec, called := runAuth(t, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	signed := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"role": AdminRole})
	rec, called := runAuth(t, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_RejectsOtherAlgorithms(t *testing.T) {
	signed := sign(t, jwt.SigningMethodHS512, []byte("secret"), jwt.MapClaims{"role": AdminRole})
	rec, called := runAuth(t, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}
