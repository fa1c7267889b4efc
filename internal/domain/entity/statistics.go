package entity

// AlertBucket is the number of active alerts sharing one kind and severity.
type AlertBucket struct {
	Kind     AlertKind
	Severity Severity
	Count    int64
}

// AlertStatistics summarizes the currently active alerts.
type AlertStatistics struct {
	Total      int64               `json:"total"`
	ByKind     map[AlertKind]int64 `json:"by_kind"`
	BySeverity map[Severity]int64  `json:"by_severity"`
}

// NewAlertStatistics folds grouped bucket counts into totals. Every known kind and
// severity is present in the result, so both maps always sum to Total.
func NewAlertStatistics(buckets []AlertBucket) *AlertStatistics {
	stats := &AlertStatistics{
		ByKind:     make(map[AlertKind]int64, len(AlertKinds)),
		BySeverity: make(map[Severity]int64, len(Severities)),
	}
	for _, kind := range AlertKinds {
		stats.ByKind[kind] = 0
	}
	for _, severity := range Severities {
		stats.BySeverity[severity] = 0
	}

	for _, bucket := range buckets {
		stats.Total += bucket.Count
		stats.ByKind[bucket.Kind] += bucket.Count
		stats.BySeverity[bucket.Severity] += bucket.Count
	}

	return stats
}
