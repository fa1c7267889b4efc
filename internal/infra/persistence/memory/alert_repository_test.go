package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"rutopia/internal/domain/entity"
	domainerrors "rutopia/internal/domain/errors"
	"rutopia/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bogota = entity.GeoPoint{Longitude: -74.06, Latitude: 4.65}

func newTestAlert(creator string, createdAt time.Time) *entity.Alert {
	return &entity.Alert{
		Title:       "Road closed",
		Description: "Fallen tree blocks both lanes",
		Kind:        entity.AlertKindTraffic,
		Severity:    entity.SeverityMedium,
		Location:    bogota,
		Active:      true,
		CreatorID:   creator,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(entity.DefaultAlertTTL),
	}
}

func pointAt(meters float64) entity.GeoPoint {
	p := geo.PointAtBearingAndDistance(bogota.Point(), 0, meters)

	return entity.GeoPointFromPair(p.Lon(), p.Lat())
}

func TestAlertRepository_CreateAndFind(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	alert := newTestAlert("user-a", now)
	require.NoError(t, repo.CreateAlert(ctx, alert))
	assert.NotEqual(t, uuid.Nil, alert.ID)
	assert.Empty(t, alert.Reports)

	found, err := repo.FindAlertByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.Title, found.Title)

	// Mutating the returned copy must not leak into the store.
	found.Title = "changed"
	again, err := repo.FindAlertByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, "Road closed", again.Title)

	_, err = repo.FindAlertByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrAlertNotFound)
}

func TestAlertRepository_CreateRejectsInvalidLocation(t *testing.T) {
	repo := NewAlertRepository()
	alert := newTestAlert("user-a", time.Now())
	alert.Location = entity.GeoPointFromPair(200, 10)

	err := repo.CreateAlert(context.Background(), alert)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAlertRepository_UpdateAlert(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	alert := newTestAlert("user-a", time.Now())
	require.NoError(t, repo.CreateAlert(ctx, alert))

	title := "Road reopened partially"
	updated, err := repo.UpdateAlert(ctx, alert.ID, &repository.AlertPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, alert.Description, updated.Description)

	bad := entity.GeoPointFromPair(10, 95)
	_, err = repo.UpdateAlert(ctx, alert.ID, &repository.AlertPatch{Title: &title, Location: &bad})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	stored, err := repo.FindAlertByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, bogota, stored.Location, "rejected patch must not be applied")

	_, err = repo.UpdateAlert(ctx, uuid.New(), &repository.AlertPatch{Title: &title})
	assert.ErrorIs(t, err, repository.ErrAlertNotFound)
}

func TestAlertRepository_FindAlerts_FiltersAndPaging(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := range 105 {
		alert := newTestAlert("user-a", base.Add(time.Duration(i)*time.Second))
		if i%3 == 0 {
			alert.Kind = entity.AlertKindSecurity
		}
		require.NoError(t, repo.CreateAlert(ctx, alert))
	}

	active := true
	items, total, err := repo.FindAlerts(ctx, repository.AlertQuery{
		Filter: repository.AlertFilter{Active: &active, Now: base},
		Limit:  100,
		Offset: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(105), total)
	assert.Len(t, items, 5)

	items, _, err = repo.FindAlerts(ctx, repository.AlertQuery{
		Filter: repository.AlertFilter{Now: base},
		Limit:  3,
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt), "newest first")

	count, err := repo.CountAlerts(ctx, repository.AlertFilter{
		Kinds: []entity.AlertKind{entity.AlertKindSecurity},
		Now:   base,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(35), count)
}

func TestAlertRepository_FindAlerts_NearestFirst(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, meters := range []float64{10000, 100, 2000} {
		alert := newTestAlert("user-a", now)
		alert.Location = pointAt(meters)
		require.NoError(t, repo.CreateAlert(ctx, alert))
	}

	items, total, err := repo.FindAlerts(ctx, repository.AlertQuery{
		Filter: repository.AlertFilter{
			Near: &repository.GeoRadius{Center: bogota, RadiusMeters: 5000},
			Now:  now,
		},
		Sort:  repository.SortNearest,
		Limit: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.InDelta(t, 100, distanceMeters(bogota, items[0].Location), 1)
	assert.InDelta(t, 2000, distanceMeters(bogota, items[1].Location), 1)
}

func TestAlertRepository_ExpiredIsNeverActive(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	alert := newTestAlert("user-a", now.Add(-time.Hour))
	alert.ExpiresAt = now.Add(-time.Second)
	require.NoError(t, repo.CreateAlert(ctx, alert))

	active := true
	count, err := repo.CountAlerts(ctx, repository.AlertFilter{Active: &active, Now: now})
	require.NoError(t, err)
	assert.Zero(t, count, "filter must treat overdue alerts as inactive before any sweep")

	changed, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, changed)

	stored, err := repo.FindAlertByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestAlertRepository_UpdateAlert_DoesNotReviveExpired(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	alert := newTestAlert("user-a", now.Add(-time.Hour))
	alert.ExpiresAt = now.Add(-time.Second)
	require.NoError(t, repo.CreateAlert(ctx, alert))

	extended := now.Add(time.Hour)
	updated, err := repo.UpdateAlert(ctx, alert.ID, &repository.AlertPatch{ExpiresAt: &extended})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, extended, updated.ExpiresAt)

	active := true
	count, err := repo.CountAlerts(ctx, repository.AlertFilter{Active: &active, Now: now})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAlertRepository_DeactivateAlert_Idempotent(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	alert := newTestAlert("user-a", time.Now())
	require.NoError(t, repo.CreateAlert(ctx, alert))

	first, err := repo.DeactivateAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := repo.DeactivateAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestAlertRepository_AppendReport_Concurrent(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	alert := newTestAlert("user-a", time.Now())
	require.NoError(t, repo.CreateAlert(ctx, alert))

	const reporters = 50
	stamp := time.Now().UTC()

	var wg sync.WaitGroup
	for i := range reporters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AppendReport(ctx, alert.ID, &entity.Report{
				UserID:    uuid.NewString(),
				Comment:   "still there",
				Kind:      entity.ReportKindConfirmation,
				CreatedAt: stamp,
			})
			assert.NoError(t, err, "reporter %d", i)
		}(i)
	}
	wg.Wait()

	stored, err := repo.FindAlertByID(ctx, alert.ID)
	require.NoError(t, err)
	require.Len(t, stored.Reports, reporters)

	for i := 1; i < len(stored.Reports); i++ {
		assert.True(t, stored.Reports[i].CreatedAt.After(stored.Reports[i-1].CreatedAt))
	}
}

func TestAlertRepository_CountActiveByKindAndSeverity(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []struct {
		kind     entity.AlertKind
		severity entity.Severity
		active   bool
	}{
		{entity.AlertKindTraffic, entity.SeverityHigh, true},
		{entity.AlertKindTraffic, entity.SeverityHigh, true},
		{entity.AlertKindNatural, entity.SeverityLow, true},
		{entity.AlertKindSecurity, entity.SeverityLow, false},
	}
	for _, s := range seed {
		alert := newTestAlert("user-a", now)
		alert.Kind = s.kind
		alert.Severity = s.severity
		alert.Active = s.active
		require.NoError(t, repo.CreateAlert(ctx, alert))
	}

	buckets, err := repo.CountActiveByKindAndSeverity(ctx, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.AlertBucket{
		{Kind: entity.AlertKindTraffic, Severity: entity.SeverityHigh, Count: 2},
		{Kind: entity.AlertKindNatural, Severity: entity.SeverityLow, Count: 1},
	}, buckets)
}
