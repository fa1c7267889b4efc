package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rutopia/config"
	"rutopia/internal/delivery/api/middleware"
	"rutopia/internal/delivery/api/router"
	"rutopia/internal/delivery/api/router/handler"
	deliverycontext "rutopia/internal/delivery/context"
	"rutopia/internal/domain/constants"
	"rutopia/internal/infra/persistence/memory"
	"rutopia/internal/infra/pubsub"
	"rutopia/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.ApplyDefaults()

	repo := memory.NewAlertRepository()

	return newEcho(cfg, logger, router.RouterParams{
		AlertHandler: handler.NewAlertHandler(handler.AlertHandlerParams{
			LifecycleUC: impl.NewAlertLifecycleService(repo, pubsub.NewNoopPublisher(logger), cfg, logger),
			QueryUC:     impl.NewAlertQueryService(repo, impl.NewExpirySweeper(repo, logger), cfg, logger),
			Logger:      logger,
		}),
		IdentityMiddleware: middleware.NewIdentityMiddleware(nil, logger),
		Config:             cfg,
	})
}

func TestServer_RequestID(t *testing.T) {
	e := newTestEcho(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	generated := rec.Header().Get(deliverycontext.HeaderXRequestID)
	assert.NotEmpty(t, generated)
	assert.Contains(t, rec.Body.String(), generated)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "client-trace-1")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "client-trace-1", rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestServer_CORSPreflightAllowsUserHeader(t *testing.T) {
	e := newTestEcho(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/alerts", nil)
	req.Header.Set(echo.HeaderOrigin, "https://map.example.org")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, constants.HeaderUserID)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), constants.HeaderUserID)
}

func TestServer_ErrorEnvelope(t *testing.T) {
	e := newTestEcho(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts", strings.NewReader(`{"title":"`+strings.Repeat("x", 4096)+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(constants.HeaderUserID, "user-1")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
