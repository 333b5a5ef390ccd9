package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcome label values.
const (
	OutcomeEntered   = "entered"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeMalformed = "malformed"
)

var (
	PassesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_passes_issued_total",
		Help: "Total number of entry passes issued, including re-issues.",
	})

	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_scans_total",
		Help: "Total number of scan attempts, labelled by outcome.",
	}, []string{"outcome"})

	Resets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_resets_total",
		Help: "Total number of registry resets.",
	})

	ActivitySubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "checkin_activity_subscribers",
		Help: "Current number of connected activity feed clients.",
	})
)
