package impl

import (
	"context"
	"testing"
	"time"

	"rutopia/internal/domain/entity"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/repository"
	"rutopia/internal/domain/service"
	mockRepo "rutopia/internal/mocks/repository"
	mockService "rutopia/internal/mocks/service"
	"rutopia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLifecycleServiceForTest(t *testing.T) (*alertLifecycleService, *mockRepo.MockAlertRepository, *mockService.MockEventPublisher) {
	t.Helper()

	alertRepo := mockRepo.NewMockAlertRepository(t)
	publisher := mockService.NewMockEventPublisher(t)
	srv := NewAlertLifecycleService(alertRepo, publisher, newTestConfig(), newDiscardLogger()).(*alertLifecycleService)
	srv.now = fixedClock

	return srv, alertRepo, publisher
}

func eventOfType(eventType service.AlertEventType) any {
	return mock.MatchedBy(func(event *service.AlertEvent) bool {
		return event.Type == eventType
	})
}

func TestAlertLifecycleService_CreateAlert_AppliesDefaults(t *testing.T) {
	srv, alertRepo, publisher := newLifecycleServiceForTest(t)
	ctx := context.Background()

	alertRepo.EXPECT().
		CreateAlert(ctx, mock.AnythingOfType("*entity.Alert")).
		Run(func(_ context.Context, alert *entity.Alert) {
			alert.ID = uuid.New()
		}).
		Return(nil)
	publisher.EXPECT().PublishAlertEvent(ctx, eventOfType(service.AlertEventCreated)).Return(nil)

	alert, err := srv.CreateAlert(ctx, "uid-a", &usecase.CreateAlertInput{
		Title:       "  Pothole  ",
		Description: " Deep pothole in the right lane ",
		Coordinates: []float64{-74.06, 4.65},
		Tags:        []string{"road", " road ", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pothole", alert.Title)
	assert.Equal(t, "Deep pothole in the right lane", alert.Description)
	assert.Equal(t, entity.AlertKindTraffic, alert.Kind)
	assert.Equal(t, entity.SeverityMedium, alert.Severity)
	assert.Equal(t, entity.GeoPointFromPair(-74.06, 4.65), alert.Location)
	assert.Equal(t, []string{"road"}, alert.Tags)
	assert.Equal(t, "uid-a", alert.CreatorID)
	assert.True(t, alert.Active)
	assert.Equal(t, fixedNow, alert.CreatedAt)
	assert.Equal(t, fixedNow.Add(24*time.Hour), alert.ExpiresAt)
}

func TestAlertLifecycleService_CreateAlert_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		creator string
		input   *usecase.CreateAlertInput
	}{
		{name: "missing body", creator: "uid-a", input: nil},
		{name: "missing creator", creator: " ", input: &usecase.CreateAlertInput{Title: "t", Description: "d", Coordinates: []float64{1, 2}}},
		{name: "blank title", creator: "uid-a", input: &usecase.CreateAlertInput{Title: "   ", Description: "d", Coordinates: []float64{1, 2}}},
		{name: "missing description", creator: "uid-a", input: &usecase.CreateAlertInput{Title: "t", Coordinates: []float64{1, 2}}},
		{name: "missing coordinates", creator: "uid-a", input: &usecase.CreateAlertInput{Title: "t", Description: "d"}},
		{name: "three coordinates", creator: "uid-a", input: &usecase.CreateAlertInput{Title: "t", Description: "d", Coordinates: []float64{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newLifecycleServiceForTest(t)

			alert, err := srv.CreateAlert(context.Background(), tt.creator, tt.input)
			assert.Nil(t, alert)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		})
	}
}

func TestAlertLifecycleService_CreateAlert_ValidationErrorFromStore(t *testing.T) {
	srv, alertRepo, _ := newLifecycleServiceForTest(t)
	ctx := context.Background()

	alertRepo.EXPECT().
		CreateAlert(ctx, mock.AnythingOfType("*entity.Alert")).
		Return(domainerrors.ErrValidationFailed.WithDetails("location.longitude must be less than or equal to 180"))

	_, err := srv.CreateAlert(ctx, "uid-a", &usecase.CreateAlertInput{
		Title:       "Pothole",
		Description: "Deep",
		Coordinates: []float64{200, 10},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAlertLifecycleService_CreateAlert_PublishFailureIsNotFatal(t *testing.T) {
	srv, alertRepo, publisher := newLifecycleServiceForTest(t)
	ctx := context.Background()

	alertRepo.EXPECT().CreateAlert(ctx, mock.AnythingOfType("*entity.Alert")).Return(nil)
	publisher.EXPECT().PublishAlertEvent(ctx, mock.Anything).Return(errors.New("broker down"))

	alert, err := srv.CreateAlert(ctx, "uid-a", &usecase.CreateAlertInput{
		Title:       "Pothole",
		Description: "Deep",
		Coordinates: []float64{-74.06, 4.65},
	})
	require.NoError(t, err)
	assert.NotNil(t, alert)
}

func TestAlertLifecycleService_CreateAlert_ExplicitExpiry(t *testing.T) {
	srv, alertRepo, publisher := newLifecycleServiceForTest(t)
	ctx := context.Background()
	expiresAt := fixedNow.Add(-time.Second)

	alertRepo.EXPECT().CreateAlert(ctx, mock.AnythingOfType("*entity.Alert")).Return(nil)
	publisher.EXPECT().PublishAlertEvent(ctx, mock.Anything).Return(nil)

	alert, err := srv.CreateAlert(ctx, "uid-a", &usecase.CreateAlertInput{
		Title:       "Protest",
		Description: "Main avenue blocked",
		Kind:        "security",
		Severity:    "high",
		Coordinates: []float64{-74.06, 4.65},
		ExpiresAt:   &expiresAt,
	})
	require.NoError(t, err)
	assert.Equal(t, expiresAt, alert.ExpiresAt)
	assert.False(t, alert.Active, "already expired alerts are reported inactive")
}

func TestAlertLifecycleService_UpdateAlert(t *testing.T) {
	ctx := context.Background()
	title := " Underpass closed "
	coordinates := []float64{-74.1, 4.7}

	t.Run("not found", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		id := uuid.New()
		alertRepo.EXPECT().FindAlertByID(ctx, id).Return(nil, repository.ErrAlertNotFound)

		_, err := srv.UpdateAlert(ctx, id, "uid-a", &usecase.UpdateAlertInput{Title: &title})
		assert.ErrorIs(t, err, domainerrors.ErrAlertNotFound)
	})

	t.Run("not the creator", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)

		_, err := srv.UpdateAlert(ctx, existing.ID, "uid-b", &usecase.UpdateAlertInput{Title: &title})
		assert.ErrorIs(t, err, domainerrors.ErrAlertOwnershipViolation)
	})

	t.Run("creator patches title and coordinates", func(t *testing.T) {
		srv, alertRepo, publisher := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		updated := existing.Clone()
		updated.Title = "Underpass closed"
		updated.Location = entity.GeoPointFromPair(-74.1, 4.7)

		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)
		alertRepo.EXPECT().
			UpdateAlert(ctx, existing.ID, mock.MatchedBy(func(patch *repository.AlertPatch) bool {
				return patch.Title != nil && *patch.Title == "Underpass closed" &&
					patch.Location != nil && *patch.Location == entity.GeoPointFromPair(-74.1, 4.7) &&
					patch.Description == nil && patch.Kind == nil
			})).
			Return(updated, nil)
		publisher.EXPECT().PublishAlertEvent(ctx, eventOfType(service.AlertEventUpdated)).Return(nil)

		result, err := srv.UpdateAlert(ctx, existing.ID, "uid-a", &usecase.UpdateAlertInput{
			Title:       &title,
			Coordinates: &coordinates,
		})
		require.NoError(t, err)
		assert.Equal(t, "Underpass closed", result.Title)
	})

	t.Run("malformed coordinates", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)
		single := []float64{1}

		_, err := srv.UpdateAlert(ctx, existing.ID, "uid-a", &usecase.UpdateAlertInput{Coordinates: &single})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("overdue alert is deactivated before the patch", func(t *testing.T) {
		srv, alertRepo, publisher := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		existing.ExpiresAt = fixedNow.Add(-time.Minute)
		extended := fixedNow.Add(time.Hour)
		deactivated := existing.Clone()
		deactivated.Active = false
		updated := deactivated.Clone()
		updated.ExpiresAt = extended

		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)
		deactivate := alertRepo.EXPECT().DeactivateAlert(ctx, existing.ID).Return(deactivated, nil).Call
		alertRepo.EXPECT().
			UpdateAlert(ctx, existing.ID, mock.AnythingOfType("*repository.AlertPatch")).
			Return(updated, nil).
			NotBefore(deactivate)
		publisher.EXPECT().PublishAlertEvent(ctx, eventOfType(service.AlertEventUpdated)).Return(nil)

		result, err := srv.UpdateAlert(ctx, existing.ID, "uid-a", &usecase.UpdateAlertInput{ExpiresAt: &extended})
		require.NoError(t, err)
		assert.False(t, result.Active)
	})

	t.Run("empty patch returns the alert unchanged", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)

		result, err := srv.UpdateAlert(ctx, existing.ID, "uid-a", &usecase.UpdateAlertInput{})
		require.NoError(t, err)
		assert.Equal(t, existing.Title, result.Title)
	})
}

func TestAlertLifecycleService_DeactivateAlert(t *testing.T) {
	ctx := context.Background()

	t.Run("not the creator", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)

		_, err := srv.DeactivateAlert(ctx, existing.ID, "uid-b")
		assert.ErrorIs(t, err, domainerrors.ErrAlertOwnershipViolation)
	})

	t.Run("active alert publishes once", func(t *testing.T) {
		srv, alertRepo, publisher := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		deactivated := existing.Clone()
		deactivated.Active = false

		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)
		alertRepo.EXPECT().DeactivateAlert(ctx, existing.ID).Return(deactivated, nil)
		publisher.EXPECT().PublishAlertEvent(ctx, eventOfType(service.AlertEventDeactivated)).Return(nil)

		result, err := srv.DeactivateAlert(ctx, existing.ID, "uid-a")
		require.NoError(t, err)
		assert.False(t, result.Active)
	})

	t.Run("inactive alert succeeds without an event", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		existing.Active = false

		alertRepo.EXPECT().FindAlertByID(ctx, existing.ID).Return(existing, nil)
		alertRepo.EXPECT().DeactivateAlert(ctx, existing.ID).Return(existing, nil)

		result, err := srv.DeactivateAlert(ctx, existing.ID, "uid-a")
		require.NoError(t, err)
		assert.False(t, result.Active)
	})
}

func TestAlertLifecycleService_AppendReport(t *testing.T) {
	ctx := context.Background()

	t.Run("missing comment", func(t *testing.T) {
		srv, _, _ := newLifecycleServiceForTest(t)

		_, err := srv.AppendReport(ctx, uuid.New(), "uid-b", &usecase.AppendReportInput{Comment: "  "})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("missing user", func(t *testing.T) {
		srv, _, _ := newLifecycleServiceForTest(t)

		_, err := srv.AppendReport(ctx, uuid.New(), "", &usecase.AppendReportInput{Comment: "seen it"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("unknown alert", func(t *testing.T) {
		srv, alertRepo, _ := newLifecycleServiceForTest(t)
		id := uuid.New()
		alertRepo.EXPECT().AppendReport(ctx, id, mock.AnythingOfType("*entity.Report")).Return(nil, repository.ErrAlertNotFound)

		_, err := srv.AppendReport(ctx, id, "uid-b", &usecase.AppendReportInput{Comment: "seen it"})
		assert.ErrorIs(t, err, domainerrors.ErrAlertNotFound)
	})

	t.Run("any user may report with default kind", func(t *testing.T) {
		srv, alertRepo, publisher := newLifecycleServiceForTest(t)
		existing := newStoredAlert("uid-a")
		reported := existing.Clone()
		reported.Reports = []entity.Report{{UserID: "uid-b", Comment: "seen it", Kind: entity.ReportKindConfirmation, CreatedAt: fixedNow}}

		alertRepo.EXPECT().
			AppendReport(ctx, existing.ID, mock.MatchedBy(func(report *entity.Report) bool {
				return report.UserID == "uid-b" && report.Comment == "seen it" && report.Kind == entity.ReportKindConfirmation
			})).
			Return(reported, nil)
		publisher.EXPECT().PublishAlertEvent(ctx, eventOfType(service.AlertEventReported)).Return(nil)

		result, err := srv.AppendReport(ctx, existing.ID, "uid-b", &usecase.AppendReportInput{Comment: " seen it "})
		require.NoError(t, err)
		assert.Len(t, result.Reports, 1)
	})
}
