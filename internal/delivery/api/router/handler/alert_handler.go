package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rutopia/internal/delivery/api/response"
	deliverycontext "rutopia/internal/delivery/context"
	"rutopia/internal/domain/entity"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AlertHandlerParams holds dependencies for AlertHandler, injected by Fx.
type AlertHandlerParams struct {
	fx.In

	LifecycleUC usecase.AlertLifecycleUsecase
	QueryUC     usecase.AlertQueryUsecase
	Logger      *slog.Logger
}

// AlertHandler holds dependencies for alert-related handlers
type AlertHandler struct {
	lifecycleUC usecase.AlertLifecycleUsecase
	queryUC     usecase.AlertQueryUsecase
	logger      *slog.Logger
	now         func() time.Time
}

// NewAlertHandler is the constructor for AlertHandler
func NewAlertHandler(params AlertHandlerParams) *AlertHandler {
	return &AlertHandler{
		lifecycleUC: params.LifecycleUC,
		queryUC:     params.QueryUC,
		logger:      params.Logger,
		now:         time.Now,
	}
}

// CreateAlertRequest represents the request body for posting an alert
type CreateAlertRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Kind        string     `json:"kind"`
	Severity    string     `json:"severity"`
	Coordinates []float64  `json:"coordinates" validate:"required,len=2"` // [longitude, latitude]
	Address     string     `json:"address"`
	Tags        []string   `json:"tags"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// UpdateAlertRequest represents a partial update; absent fields are left untouched
type UpdateAlertRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Kind        *string    `json:"kind"`
	Severity    *string    `json:"severity"`
	Coordinates *[]float64 `json:"coordinates" validate:"omitempty,len=2"`
	Address     *string    `json:"address"`
	Tags        *[]string  `json:"tags"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// AppendReportRequest represents the request body for reporting on an alert
type AppendReportRequest struct {
	Comment string `json:"comment" validate:"required"`
	Kind    string `json:"kind" validate:"omitempty,oneof=confirmation update resolution"`
}

// ListAlerts handles filtered, paged listing
func (h *AlertHandler) ListAlerts(c echo.Context) error {
	params := c.QueryParams()

	var input usecase.ListAlertsInput
	var active bool
	var radius float64
	err := echo.QueryParamsBinder(c).
		Bool("active", &active).
		Float64("radius", &radius).
		Int("page", &input.Page).
		Int("limit", &input.Limit).
		BindError()
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails(err.Error()))
	}

	if params.Has("page") && input.Page < 1 {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("page must be at least 1"))
	}
	if params.Has("limit") && input.Limit < 1 {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("limit must be at least 1"))
	}

	input.Kinds = splitList(params["kind"])
	input.Severities = splitList(params["severity"])
	if params.Has("active") {
		input.Active = &active
	}
	if params.Has("radius") {
		input.RadiusMeters = &radius
	}

	input.Center, err = parseCenter(c, params, false)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.queryUC.ListAlerts(c.Request().Context(), &input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paged(c, presentAlerts(page.Items, h.now()), response.Pagination(page.Pagination))
}

// GetAlert handles retrieving one alert
func (h *AlertHandler) GetAlert(c echo.Context) error {
	alertID, err := parseAlertID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	alert, err := h.queryUC.GetAlert(c.Request().Context(), alertID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, presentAlert(alert, h.now()))
}

// NearbyAlerts handles the proximity search
func (h *AlertHandler) NearbyAlerts(c echo.Context) error {
	params := c.QueryParams()

	var radius float64
	if err := echo.QueryParamsBinder(c).Float64("radius", &radius).BindError(); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails(err.Error()))
	}

	center, err := parseCenter(c, params, true)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	input := &usecase.NearbyAlertsInput{Center: center}
	if params.Has("radius") {
		input.RadiusMeters = &radius
	}

	alerts, err := h.queryUC.NearbyAlerts(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, presentAlerts(alerts, h.now()))
}

// Statistics handles the active alert counts
func (h *AlertHandler) Statistics(c echo.Context) error {
	stats, err := h.queryUC.Statistics(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats)
}

// CreateAlert handles posting a new alert
func (h *AlertHandler) CreateAlert(c echo.Context) error {
	var req CreateAlertRequest
	if err := c.Bind(&req); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("malformed alert body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	alert, err := h.lifecycleUC.CreateAlert(c.Request().Context(), deliverycontext.GetUserID(c), &usecase.CreateAlertInput{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Severity:    req.Severity,
		Coordinates: req.Coordinates,
		Address:     req.Address,
		Tags:        req.Tags,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, presentAlert(alert, h.now()))
}

// UpdateAlert handles partial updates by the alert's creator
func (h *AlertHandler) UpdateAlert(c echo.Context) error {
	alertID, err := parseAlertID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateAlertRequest
	if err := c.Bind(&req); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("malformed alert body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	alert, err := h.lifecycleUC.UpdateAlert(c.Request().Context(), alertID, deliverycontext.GetUserID(c), &usecase.UpdateAlertInput{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Severity:    req.Severity,
		Coordinates: req.Coordinates,
		Address:     req.Address,
		Tags:        req.Tags,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, presentAlert(alert, h.now()))
}

// DeactivateAlert handles soft deletion by the alert's creator
func (h *AlertHandler) DeactivateAlert(c echo.Context) error {
	alertID, err := parseAlertID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	alert, err := h.lifecycleUC.DeactivateAlert(c.Request().Context(), alertID, deliverycontext.GetUserID(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"message": "Alert marked as inactive",
		"id":      alert.ID,
	})
}

// AppendReport handles a report from any identified user
func (h *AlertHandler) AppendReport(c echo.Context) error {
	alertID, err := parseAlertID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AppendReportRequest
	if err := c.Bind(&req); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("malformed report body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	alert, err := h.lifecycleUC.AppendReport(c.Request().Context(), alertID, deliverycontext.GetUserID(c), &usecase.AppendReportInput{
		Comment: req.Comment,
		Kind:    req.Kind,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, presentAlert(alert, h.now()))
}

func parseAlertID(c echo.Context) (uuid.UUID, error) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrInvalidInput.WithDetails("alert id must be a UUID")
	}

	return alertID, nil
}

// parseCenter reads the lat/lng pair. Supplying only one of them is an error.
func parseCenter(c echo.Context, params url.Values, required bool) (*entity.GeoPoint, error) {
	if !params.Has("lat") && !params.Has("lng") {
		if required {
			return nil, domainerrors.ErrInvalidInput.WithDetails("lat and lng are required")
		}

		return nil, nil
	}

	var lat, lng float64
	err := echo.QueryParamsBinder(c).
		MustFloat64("lat", &lat).
		MustFloat64("lng", &lng).
		BindError()
	if err != nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("lat and lng must both be numbers")
	}

	center := entity.GeoPointFromPair(lng, lat)

	return &center, nil
}

// splitList accepts both repeated (kind=a&kind=b) and comma separated (kind=a,b) values.
func splitList(values []string) []string {
	var items []string
	for _, value := range values {
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}

	return items
}
