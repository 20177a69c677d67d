package out

import "context"

// HistoricalDelayKey selects comparable past trips: same route, hour
// within ±1 of Hour, and matching weekday/weekend class.
type HistoricalDelayKey struct {
	RouteID string
	Hour    int
	Weekend bool
}

// HistoricalDelayProvider returns past delay samples in minutes for a
// key. An empty result is a legitimate answer, not an error — the
// estimator treats it as a zero signal. A statistics-backed
// implementation can be swapped in without touching the estimator.
type HistoricalDelayProvider interface {
	Samples(ctx context.Context, key HistoricalDelayKey) ([]float64, error)
}
