package registrationsrepobridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/bridge/repositories/registrationsrepobridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/mid"
	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

const qr = "5f0c6a3e-3b8f-4d8e-9a53-2f3f7f1b9c01"

type store struct {
	registrationsrepo.Storer
	reg registrationsrepo.Registration
}

func (s *store) GetByQRCode(ctx context.Context, code string) (registrationsrepo.Registration, error) {
	if code == s.reg.QRCode {
		return s.reg, nil
	}
	return registrationsrepo.Registration{}, repositories.ErrNotFound
}

func (s *store) GetByShortCode(ctx context.Context, code string) (registrationsrepo.Registration, error) {
	if code == s.reg.ShortCode {
		return s.reg, nil
	}
	return registrationsrepo.Registration{}, repositories.ErrNotFound
}

func (s *store) MarkCheckedIn(ctx context.Context, id string, at time.Time) (registrationsrepo.Registration, error) {
	s.reg.CheckedIn = true
	s.reg.CheckedInAt = &at
	return s.reg, nil
}

func setup(t *testing.T) http.Handler {
	t.Helper()
	log := logger.Discard()
	s := &store{reg: registrationsrepo.Registration{ID: "r1", EventID: "e1", QRCode: qr, ShortCode: "K7M2QX"}}

	h, err := web.NewWebHandlerFromEnv("REGTEST", web.WithGlobalMiddleware(mid.Errors(log)))
	require.NoError(t, err)
	registrationsrepobridge.AddHttpRoutes(h.Group("/api/v1"), registrationsrepobridge.Config{
		Log:        log,
		Repository: registrationsrepo.NewRepository(log, s),
	})
	return h
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	return w
}

func TestCheckIn(t *testing.T) {
	h := setup(t)

	w := do(h, http.MethodPost, "/api/v1/registrations/check-in", `{"code":"K7M2QX"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"checkedIn":true`)
	assert.Contains(t, w.Body.String(), `"alreadyCheckedIn":false`)

	w = do(h, http.MethodPost, "/api/v1/registrations/check-in", `{"code":"`+qr+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alreadyCheckedIn":true`)
}

func TestCheckInErrors(t *testing.T) {
	h := setup(t)

	w := do(h, http.MethodPost, "/api/v1/registrations/check-in", `{"code":"NOPE00"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(h, http.MethodPost, "/api/v1/registrations/check-in", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "code is required")
}

func TestLookup(t *testing.T) {
	h := setup(t)

	w := do(h, http.MethodGet, "/api/v1/registrations/lookup?code=K7M2QX", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"r1"`)
	assert.Contains(t, w.Body.String(), `"checkedIn":false`)

	w = do(h, http.MethodGet, "/api/v1/registrations/lookup", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetailWithoutUseCase(t *testing.T) {
	h := setup(t)

	w := do(h, http.MethodGet, "/api/v1/registrations/r1/detail", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
