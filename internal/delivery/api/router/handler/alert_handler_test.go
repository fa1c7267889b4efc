package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"rutopia/config"
	"rutopia/internal/delivery/api/response"
	"rutopia/internal/delivery/api/validator"
	deliverycontext "rutopia/internal/delivery/context"
	"rutopia/internal/infra/persistence/memory"
	"rutopia/internal/infra/pubsub"
	"rutopia/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  *response.MetaInfo  `json:"meta"`
}

type handlerFixture struct {
	echo    *echo.Echo
	handler *AlertHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	repo := memory.NewAlertRepository()
	sweeper := impl.NewExpirySweeper(repo, logger)

	e := echo.New()
	e.Validator = validator.New()

	return &handlerFixture{
		echo: e,
		handler: NewAlertHandler(AlertHandlerParams{
			LifecycleUC: impl.NewAlertLifecycleService(repo, pubsub.NewNoopPublisher(logger), cfg, logger),
			QueryUC:     impl.NewAlertQueryService(repo, sweeper, cfg, logger),
			Logger:      logger,
		}),
	}
}

type call struct {
	method string
	target string
	body   string
	userID string
	id     string
}

func (f *handlerFixture) do(t *testing.T, h echo.HandlerFunc, req call) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	httpReq := httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
	if req.body != "" {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(httpReq, rec)
	if req.id != "" {
		c.SetParamNames("id")
		c.SetParamValues(req.id)
	}
	if req.userID != "" {
		deliverycontext.SetUserID(c, req.userID)
	}

	require.NoError(t, h(c))

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func (f *handlerFixture) create(t *testing.T, userID, body string) AlertView {
	t.Helper()

	rec, env := f.do(t, f.handler.CreateAlert, call{method: http.MethodPost, target: "/api/v1/alerts", body: body, userID: userID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view AlertView
	require.NoError(t, json.Unmarshal(env.Data, &view))

	return view
}

func TestAlertHandler_CreateAlert(t *testing.T) {
	f := newHandlerFixture(t)

	view := f.create(t, "user-1", `{"title":"Crash on 7th","description":"Two lanes closed","coordinates":[-74.06,4.65],"tags":["road"," road ","","ice"]}`)

	assert.Equal(t, "traffic", string(view.Kind))
	assert.Equal(t, "medium", string(view.Severity))
	assert.Equal(t, "user-1", view.CreatorID)
	assert.True(t, view.Active)
	assert.False(t, view.Expired)
	assert.Equal(t, []string{"road", "ice"}, view.Tags)
	assert.Empty(t, view.Reports)
	assert.InDelta(t, 24*60, view.RemainingMinutes, 1)
	assert.Equal(t, "0 min ago", view.Elapsed)

	require.NotNil(t, view.Location)
	assert.Equal(t, "Point", view.Location.Type)
	assert.Equal(t, orb.Point{-74.06, 4.65}, view.Location.Coordinates)
}

func TestAlertHandler_CreateAlert_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "missing coordinates", body: `{"title":"t","description":"d"}`, code: "INVALID_INPUT"},
		{name: "short coordinates", body: `{"title":"t","description":"d","coordinates":[1]}`, code: "INVALID_INPUT"},
		{name: "latitude out of range", body: `{"title":"t","description":"d","coordinates":[10,95]}`, code: "VALIDATION_FAILED"},
		{name: "unknown kind", body: `{"title":"t","description":"d","kind":"weather","coordinates":[10,5]}`, code: "VALIDATION_FAILED"},
		{name: "malformed json", body: `{"title":`, code: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			rec, env := f.do(t, f.handler.CreateAlert, call{method: http.MethodPost, target: "/api/v1/alerts", body: tt.body, userID: "user-1"})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestAlertHandler_GetAlert(t *testing.T) {
	f := newHandlerFixture(t)
	created := f.create(t, "user-1", `{"title":"Landslide","description":"Road blocked","kind":"natural","severity":"high","coordinates":[-75.5,6.2]}`)

	rec, env := f.do(t, f.handler.GetAlert, call{method: http.MethodGet, target: "/", id: created.ID.String()})
	assert.Equal(t, http.StatusOK, rec.Code)

	var view AlertView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "natural", string(view.Kind))

	rec, env = f.do(t, f.handler.GetAlert, call{method: http.MethodGet, target: "/", id: "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)

	rec, env = f.do(t, f.handler.GetAlert, call{method: http.MethodGet, target: "/", id: "0190b6a4-6c2d-7a48-9b1e-5f2a3c4d5e6f"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ALERT_NOT_FOUND", env.Error.Code)
}

func TestAlertHandler_ListAlerts(t *testing.T) {
	f := newHandlerFixture(t)
	f.create(t, "user-1", `{"title":"a","description":"a","kind":"traffic","coordinates":[0,0]}`)
	f.create(t, "user-1", `{"title":"b","description":"b","kind":"natural","coordinates":[0,0.01]}`)
	f.create(t, "user-2", `{"title":"c","description":"c","kind":"security","coordinates":[0,0.02]}`)

	query := url.Values{}
	query.Set("kind", "traffic,natural")
	query.Set("limit", "1")
	rec, env := f.do(t, f.handler.ListAlerts, call{method: http.MethodGet, target: "/api/v1/alerts?" + query.Encode()})
	require.Equal(t, http.StatusOK, rec.Code)

	var views []AlertView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Contains(t, []string{"a", "b"}, views[0].Title)

	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, response.Pagination{Page: 1, Limit: 1, Total: 2, TotalPages: 2}, *env.Meta.Pagination)
}

func TestAlertHandler_ListAlerts_NearCenter(t *testing.T) {
	f := newHandlerFixture(t)
	f.create(t, "user-1", `{"title":"far","description":"far","coordinates":[0,0.03]}`)
	f.create(t, "user-1", `{"title":"near","description":"near","coordinates":[0,0.001]}`)
	f.create(t, "user-1", `{"title":"outside","description":"outside","coordinates":[1,1]}`)

	rec, env := f.do(t, f.handler.ListAlerts, call{method: http.MethodGet, target: "/api/v1/alerts?lat=0&lng=0&radius=5000"})
	require.Equal(t, http.StatusOK, rec.Code)

	var views []AlertView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)
	assert.Equal(t, "near", views[0].Title)
	assert.Equal(t, "far", views[1].Title)
}

func TestAlertHandler_ListAlerts_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "lat without lng", query: "lat=4.6"},
		{name: "radius without center", query: "radius=100"},
		{name: "non numeric lat", query: "lat=north&lng=1"},
		{name: "zero page", query: "page=0"},
		{name: "zero limit", query: "limit=0"},
		{name: "limit over maximum", query: "limit=100000"},
		{name: "unknown severity", query: "severity=extreme"},
		{name: "non boolean active", query: "active=maybe"},
		{name: "NaN center", query: "lat=NaN&lng=NaN"},
		{name: "NaN radius", query: "lat=4.6&lng=-74&radius=NaN"},
		{name: "infinite radius", query: "lat=4.6&lng=-74&radius=Inf"},
		{name: "page beyond addressable offset", query: "page=9223372036854775807&limit=50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			rec, env := f.do(t, f.handler.ListAlerts, call{method: http.MethodGet, target: "/api/v1/alerts?" + tt.query})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "INVALID_INPUT", env.Error.Code)
		})
	}
}

func TestAlertHandler_NearbyAlerts(t *testing.T) {
	f := newHandlerFixture(t)
	f.create(t, "user-1", `{"title":"close","description":"close","coordinates":[-74.0601,4.6501]}`)
	f.create(t, "user-1", `{"title":"across town","description":"far","coordinates":[-74.2,4.8]}`)

	rec, env := f.do(t, f.handler.NearbyAlerts, call{method: http.MethodGet, target: "/api/v1/alerts/nearby?lat=4.65&lng=-74.06"})
	require.Equal(t, http.StatusOK, rec.Code)

	var views []AlertView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "close", views[0].Title)

	rec, env = f.do(t, f.handler.NearbyAlerts, call{method: http.MethodGet, target: "/api/v1/alerts/nearby?lng=-74.06"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)

	rec, env = f.do(t, f.handler.NearbyAlerts, call{method: http.MethodGet, target: "/api/v1/alerts/nearby?lat=NaN&lng=NaN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestAlertHandler_UpdateAlert(t *testing.T) {
	f := newHandlerFixture(t)
	created := f.create(t, "owner", `{"title":"Fog","description":"Low visibility","kind":"natural","coordinates":[-74,4.6]}`)

	rec, env := f.do(t, f.handler.UpdateAlert, call{method: http.MethodPut, target: "/", id: created.ID.String(), userID: "owner", body: `{"severity":"high","coordinates":[-74.1,4.7]}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view AlertView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "high", string(view.Severity))
	assert.Equal(t, "Fog", view.Title)

	rec, env = f.do(t, f.handler.UpdateAlert, call{method: http.MethodPut, target: "/", id: created.ID.String(), userID: "intruder", body: `{"title":"Mine now"}`})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ALERT_OWNERSHIP_VIOLATION", env.Error.Code)
	assert.Empty(t, env.Error.Details)
}

func TestAlertHandler_DeactivateAlert(t *testing.T) {
	f := newHandlerFixture(t)
	created := f.create(t, "owner", `{"title":"Protest","description":"March downtown","kind":"security","coordinates":[-74,4.6]}`)

	rec, env := f.do(t, f.handler.DeactivateAlert, call{method: http.MethodDelete, target: "/", id: created.ID.String(), userID: "owner"})
	require.Equal(t, http.StatusOK, rec.Code)

	var ack map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &ack))
	assert.Equal(t, "Alert marked as inactive", ack["message"])
	assert.Equal(t, created.ID.String(), ack["id"])

	rec, env = f.do(t, f.handler.GetAlert, call{method: http.MethodGet, target: "/", id: created.ID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var view AlertView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.False(t, view.Active)
}

func TestAlertHandler_AppendReport(t *testing.T) {
	f := newHandlerFixture(t)
	created := f.create(t, "owner", `{"title":"Pothole","description":"Deep one","coordinates":[-74,4.6]}`)

	rec, env := f.do(t, f.handler.AppendReport, call{method: http.MethodPost, target: "/", id: created.ID.String(), userID: "neighbor", body: `{"comment":"Still there"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view AlertView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Reports, 1)
	assert.Equal(t, "neighbor", view.Reports[0].UserID)
	assert.Equal(t, "confirmation", string(view.Reports[0].Kind))

	rec, env = f.do(t, f.handler.AppendReport, call{method: http.MethodPost, target: "/", id: created.ID.String(), userID: "neighbor", body: `{"comment":"x","kind":"rumor"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestAlertHandler_Statistics(t *testing.T) {
	f := newHandlerFixture(t)
	f.create(t, "user-1", `{"title":"a","description":"a","kind":"traffic","severity":"high","coordinates":[0,0]}`)
	f.create(t, "user-1", `{"title":"b","description":"b","kind":"traffic","severity":"low","coordinates":[0,0]}`)

	rec, env := f.do(t, f.handler.Statistics, call{method: http.MethodGet, target: "/api/v1/alerts/stats"})
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Total      int64            `json:"total"`
		ByKind     map[string]int64 `json:"by_kind"`
		BySeverity map[string]int64 `json:"by_severity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, map[string]int64{"traffic": 2, "natural": 0, "security": 0}, stats.ByKind)
	assert.Equal(t, map[string]int64{"low": 1, "medium": 0, "high": 1}, stats.BySeverity)
}
