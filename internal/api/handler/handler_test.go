package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/identity-store/internal/core/domain"
	"github.com/99minutos/identity-store/internal/core/service"
	"github.com/99minutos/identity-store/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	e        *echo.Echo
	accounts *service.AccountStore[domain.Account, *domain.Account]
	roles    *service.RoleStore[domain.Role, *domain.Role]
	ah       *AccountHandler
	rh       *RoleHandler
}

func newFixture() *fixture {
	e := echo.New()
	e.Validator = NewValidator()

	accounts := service.NewAccountStore[domain.Account](memory.NewRepository[domain.Account](), discardLogger)
	roles := service.NewRoleStore[domain.Role](memory.NewRepository[domain.Role](), discardLogger)

	ah := NewAccountHandler(accounts, discardLogger)
	ah.cost = bcrypt.MinCost
	return &fixture{e: e, accounts: accounts, roles: roles, ah: ah, rh: NewRoleHandler(roles, discardLogger)}
}

func (f *fixture) context(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return f.e.NewContext(req, rec), rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}
