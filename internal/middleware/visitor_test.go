package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVisitorMiddleware(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var resolved string
	handler := VisitorIdentity()(func(c echo.Context) error {
		resolved, _ = c.Get(VisitorContextKey).(string)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return resolved, rec
}

func TestVisitorIdentity_MintsTokenWhenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/like", nil)
	resolved, rec := runVisitorMiddleware(t, req)

	require.NotEmpty(t, resolved)
	_, err := uuid.Parse(resolved)
	assert.NoError(t, err, "minted token should be a UUID")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, VisitorCookieName, cookie.Name)
	assert.Equal(t, resolved, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 365*24*60*60, cookie.MaxAge)
	assert.False(t, cookie.Secure, "cookie is not Secure outside production")
}

func TestVisitorIdentity_ReusesExistingToken(t *testing.T) {
	existing := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	req := httptest.NewRequest(http.MethodPost, "/like", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: existing})

	resolved, rec := runVisitorMiddleware(t, req)
	assert.Equal(t, existing, resolved)
	assert.Empty(t, rec.Result().Cookies(), "no new cookie when a valid one is presented")
}

func TestVisitorIdentity_RemintsMalformedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/like", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "not-a-uuid"})

	resolved, rec := runVisitorMiddleware(t, req)
	_, err := uuid.Parse(resolved)
	assert.NoError(t, err, "forged cookie value should be replaced with a fresh UUID")
	assert.NotEqual(t, "not-a-uuid", resolved)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resolved, cookies[0].Value)
}

func TestVisitorIdentity_SecureInProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	req := httptest.NewRequest(http.MethodPost, "/like", nil)
	_, rec := runVisitorMiddleware(t, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}
