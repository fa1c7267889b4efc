// Package memory contains an in-process implementation of the persistence layer,
// used for local development (storage.driver: memory) and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"rutopia/internal/domain/entity"
	"rutopia/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

// alertSlot guards one alert. The map lock is only held to find or add slots, so
// writers on different alerts never wait on each other.
type alertSlot struct {
	mu    sync.Mutex
	alert *entity.Alert
}

// AlertRepository is an in-memory implementation of repository.AlertRepository.
type AlertRepository struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]*alertSlot
	now    func() time.Time
}

var _ repository.AlertRepository = (*AlertRepository)(nil)

// NewAlertRepository creates a new in-memory alert repository.
func NewAlertRepository() *AlertRepository {
	return &AlertRepository{
		alerts: make(map[uuid.UUID]*alertSlot),
		now:    time.Now,
	}
}

// CreateAlert validates and stores a copy of the alert.
func (r *AlertRepository) CreateAlert(_ context.Context, alert *entity.Alert) error {
	if err := entity.ValidateAlert(alert); err != nil {
		return err
	}

	if alert.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate alert ID")
		}
		alert.ID = id
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = r.now().UTC()
	}
	alert.UpdatedAt = alert.CreatedAt
	if alert.Reports == nil {
		alert.Reports = []entity.Report{}
	}
	if alert.Tags == nil {
		alert.Tags = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.alerts[alert.ID]; exists {
		return errors.Errorf("alert %s already exists", alert.ID)
	}
	r.alerts[alert.ID] = &alertSlot{alert: alert.Clone()}

	return nil
}

// FindAlertByID retrieves a copy of an alert by ID.
func (r *AlertRepository) FindAlertByID(_ context.Context, id uuid.UUID) (*entity.Alert, error) {
	slot, ok := r.slot(id)
	if !ok {
		return nil, repository.ErrAlertNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	return slot.alert.Clone(), nil
}

// UpdateAlert applies the patch to a copy, validates the touched fields, then swaps it in.
func (r *AlertRepository) UpdateAlert(_ context.Context, id uuid.UUID, patch *repository.AlertPatch) (*entity.Alert, error) {
	slot, ok := r.slot(id)
	if !ok {
		return nil, repository.ErrAlertNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	now := r.now().UTC()
	updated := slot.alert.Clone()
	expired := updated.IsExpired(now)
	touched := patch.Apply(updated)
	if err := entity.ValidateAlertFields(updated, touched...); err != nil {
		return nil, err
	}
	if len(touched) > 0 {
		updated.UpdatedAt = now
		if expired {
			updated.Active = false
		}
	}
	slot.alert = updated

	return updated.Clone(), nil
}

// FindAlerts returns one page of matching alerts and the total number of matches.
func (r *AlertRepository) FindAlerts(_ context.Context, query repository.AlertQuery) ([]*entity.Alert, int64, error) {
	matches := r.matching(query.Filter)

	type ranked struct {
		alert    *entity.Alert
		distance float64
	}

	rankedMatches := make([]ranked, 0, len(matches))
	for _, alert := range matches {
		item := ranked{alert: alert}
		if query.Filter.Near != nil {
			item.distance = distanceMeters(query.Filter.Near.Center, alert.Location)
		}
		rankedMatches = append(rankedMatches, item)
	}

	nearest := query.Sort == repository.SortNearest && query.Filter.Near != nil
	slices.SortStableFunc(rankedMatches, func(a, b ranked) int {
		if nearest {
			if c := cmp.Compare(a.distance, b.distance); c != 0 {
				return c
			}
		}

		return b.alert.CreatedAt.Compare(a.alert.CreatedAt)
	})

	total := int64(len(rankedMatches))
	start := min(max(query.Offset, 0), len(rankedMatches))
	end := len(rankedMatches)
	if query.Limit > 0 {
		end = min(start+query.Limit, end)
	}

	page := make([]*entity.Alert, 0, end-start)
	for _, item := range rankedMatches[start:end] {
		page = append(page, item.alert)
	}

	return page, total, nil
}

// CountAlerts counts alerts matching the filter.
func (r *AlertRepository) CountAlerts(_ context.Context, filter repository.AlertFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

// DeactivateAlert sets active to false; an inactive alert is returned unchanged.
func (r *AlertRepository) DeactivateAlert(_ context.Context, id uuid.UUID) (*entity.Alert, error) {
	slot, ok := r.slot(id)
	if !ok {
		return nil, repository.ErrAlertNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.alert.Active {
		slot.alert.Active = false
		slot.alert.UpdatedAt = r.now().UTC()
	}

	return slot.alert.Clone(), nil
}

// AppendReport appends under the alert's own lock.
func (r *AlertRepository) AppendReport(_ context.Context, id uuid.UUID, report *entity.Report) (*entity.Alert, error) {
	if err := entity.ValidateReport(report); err != nil {
		return nil, err
	}

	slot, ok := r.slot(id)
	if !ok {
		return nil, repository.ErrAlertNotFound
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	stamped := *report
	stamped.CreatedAt = entity.NextReportTime(slot.alert.Reports, report.CreatedAt)
	slot.alert.Reports = append(slot.alert.Reports, stamped)
	slot.alert.UpdatedAt = r.now().UTC()
	report.CreatedAt = stamped.CreatedAt

	return slot.alert.Clone(), nil
}

// DeactivateExpired flips overdue active alerts to inactive.
func (r *AlertRepository) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	var changed int64
	for _, slot := range r.slots() {
		slot.mu.Lock()
		if slot.alert.Active && slot.alert.IsExpired(now) {
			slot.alert.Active = false
			slot.alert.UpdatedAt = now.UTC()
			changed++
		}
		slot.mu.Unlock()
	}

	return changed, nil
}

// CountActiveByKindAndSeverity groups the alerts active at now by kind and severity.
func (r *AlertRepository) CountActiveByKindAndSeverity(_ context.Context, now time.Time) ([]entity.AlertBucket, error) {
	type key struct {
		kind     entity.AlertKind
		severity entity.Severity
	}

	counts := make(map[key]int64)
	for _, slot := range r.slots() {
		slot.mu.Lock()
		if slot.alert.IsEffectivelyActive(now) {
			counts[key{kind: slot.alert.Kind, severity: slot.alert.Severity}]++
		}
		slot.mu.Unlock()
	}

	buckets := make([]entity.AlertBucket, 0, len(counts))
	for k, count := range counts {
		buckets = append(buckets, entity.AlertBucket{Kind: k.kind, Severity: k.severity, Count: count})
	}

	return buckets, nil
}

func (r *AlertRepository) slot(id uuid.UUID) (*alertSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.alerts[id]

	return slot, ok
}

func (r *AlertRepository) slots() []*alertSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := make([]*alertSlot, 0, len(r.alerts))
	for _, slot := range r.alerts {
		slots = append(slots, slot)
	}

	return slots
}

// matching returns copies of every alert satisfying the filter.
func (r *AlertRepository) matching(filter repository.AlertFilter) []*entity.Alert {
	now := filter.Now
	if now.IsZero() {
		now = r.now()
	}

	var matches []*entity.Alert
	for _, slot := range r.slots() {
		slot.mu.Lock()
		alert := slot.alert.Clone()
		slot.mu.Unlock()

		if matchesFilter(alert, filter, now) {
			matches = append(matches, alert)
		}
	}

	return matches
}

func matchesFilter(alert *entity.Alert, filter repository.AlertFilter, now time.Time) bool {
	if len(filter.Kinds) > 0 && !slices.Contains(filter.Kinds, alert.Kind) {
		return false
	}
	if len(filter.Severities) > 0 && !slices.Contains(filter.Severities, alert.Severity) {
		return false
	}
	if filter.Active != nil && alert.IsEffectivelyActive(now) != *filter.Active {
		return false
	}
	if filter.Near != nil && distanceMeters(filter.Near.Center, alert.Location) > filter.Near.RadiusMeters {
		return false
	}

	return true
}

// distanceMeters is the great-circle distance between two points.
func distanceMeters(a, b entity.GeoPoint) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point())
}
