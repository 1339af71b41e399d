package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiddlewareApp(t *testing.T, issuer *GuestIssuer) (*fiber.App, *string) {
	t.Helper()

	mw := NewMiddleware(issuer, "test_session", time.Hour, false, zap.NewNop())

	var seenSID string
	app := fiber.New()
	app.Get("/", mw.Handle, func(c *fiber.Ctx) error {
		seenSID = IDFromContext(c)
		return c.SendStatus(http.StatusOK)
	})
	return app, &seenSID
}

func TestMiddlewareMintsCookieForNewVisitor(t *testing.T) {
	issuer := NewGuestIssuer("secret", time.Hour)
	app, seenSID := newMiddlewareApp(t, issuer)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotEmpty(t, *seenSID)

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "test_session" {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	sid, err := issuer.Parse(cookie)
	require.NoError(t, err)
	assert.Equal(t, *seenSID, sid)
}

func TestMiddlewareReusesValidCookie(t *testing.T) {
	issuer := NewGuestIssuer("secret", time.Hour)
	app, seenSID := newMiddlewareApp(t, issuer)

	sid, signed, err := issuer.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: signed})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, sid, *seenSID)

	for _, c := range resp.Cookies() {
		assert.NotEqual(t, "test_session", c.Name, "valid cookie must not be reissued")
	}
}

func TestMiddlewareReissuesTamperedCookie(t *testing.T) {
	issuer := NewGuestIssuer("secret", time.Hour)
	app, seenSID := newMiddlewareApp(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "tampered"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotEmpty(t, *seenSID)

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "test_session" {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)
	assert.NotEqual(t, "tampered", cookie)
}
