package usecase

import (
	"context"
	"math"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// DefaultIncidentWindow bounds how old an unresolved report may be and
// still contribute to the incident-impact signal.
const DefaultIncidentWindow = 30 * time.Minute

const earthRadiusKm = 6371.0

// DelayEstimatorService is a rule-based combiner of three signals:
// live position vs schedule, historical delay pattern and open
// incidents. Any signal may be absent; absence shifts the weight set
// and lowers confidence but never errors.
type DelayEstimatorService struct {
	trips          out.TripRepository
	reports        out.ReportRepository
	history        out.HistoricalDelayProvider
	incidentWindow time.Duration
	log            *logger.Logger
}

func NewDelayEstimatorService(
	trips out.TripRepository,
	reports out.ReportRepository,
	history out.HistoricalDelayProvider,
	incidentWindow time.Duration,
	log *logger.Logger,
) *DelayEstimatorService {
	if incidentWindow <= 0 {
		incidentWindow = DefaultIncidentWindow
	}
	return &DelayEstimatorService{
		trips:          trips,
		reports:        reports,
		history:        history,
		incidentWindow: incidentWindow,
		log:            log,
	}
}

func (s *DelayEstimatorService) Execute(ctx context.Context, input in.PredictDelayInput) (*domain.DelayEstimate, error) {
	trip, err := s.trips.FindByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	currentDelay, err := s.currentDelay(ctx, trip, input.Latitude, input.Longitude, now)
	if err != nil {
		return nil, err
	}

	histAvg, histSamples, err := s.historicalAverage(ctx, trip, now)
	if err != nil {
		return nil, err
	}

	incidentImpact, err := s.incidentImpact(ctx, trip.ID, now)
	if err != nil {
		return nil, err
	}

	var predicted, confidence float64
	if currentDelay != nil {
		predicted = 0.6**currentDelay + 0.2*histAvg + 0.2*incidentImpact
		confidence = 0.8
	} else {
		predicted = 0.6*histAvg + 0.4*incidentImpact
		confidence = 0.5
	}
	if histSamples > 10 {
		confidence += 0.1
	}
	if incidentImpact > 0 {
		confidence += 0.05
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	estimate := &domain.DelayEstimate{
		PredictedDelayMinutes: math.Round(predicted*10) / 10,
		Confidence:            confidence,
		Components: domain.DelayComponents{
			CurrentDelay:      currentDelay,
			HistoricalAverage: histAvg,
			IncidentImpact:    incidentImpact,
			HistoricalSamples: histSamples,
		},
		Method: "rule_based",
	}

	s.log.Debug(logger.Entry{
		Action:  "delay_predicted",
		Message: "delay estimate computed",
		TripID:  trip.ID,
		Additional: map[string]any{
			"predicted_minutes": estimate.PredictedDelayMinutes,
			"confidence":        estimate.Confidence,
		},
	})

	return estimate, nil
}

// currentDelay compares the live position against the schedule of the
// nearest stop. Nil when no position was supplied or the nearest stop
// has no scheduled arrival. Positive means late, negative means early;
// an early vehicle pulls the prediction down.
func (s *DelayEstimatorService) currentDelay(ctx context.Context, trip *domain.VehicleTrip, lat, lon *float64, now time.Time) (*float64, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	stops, err := s.trips.StopsByRoute(ctx, trip.RouteID)
	if err != nil {
		return nil, err
	}
	var nearest *domain.RouteStop
	best := math.MaxFloat64
	for _, stop := range stops {
		d := haversineKm(*lat, *lon, stop.Latitude, stop.Longitude)
		if d < best {
			best = d
			nearest = stop
		}
	}
	if nearest == nil || nearest.ScheduledArrival == nil {
		return nil, nil
	}
	delay := now.Sub(*nearest.ScheduledArrival).Minutes()
	return &delay, nil
}

// historicalAverage keys the provider on the trip's scheduled departure
// (falling back to now) and returns the sample mean plus the count.
func (s *DelayEstimatorService) historicalAverage(ctx context.Context, trip *domain.VehicleTrip, now time.Time) (float64, int, error) {
	ref := now
	if trip.ScheduledDeparture != nil {
		ref = *trip.ScheduledDeparture
	}
	wd := ref.Weekday()
	key := out.HistoricalDelayKey{
		RouteID: trip.RouteID,
		Hour:    ref.Hour(),
		Weekend: wd == time.Saturday || wd == time.Sunday,
	}
	samples, err := s.history.Samples(ctx, key)
	if err != nil {
		return 0, 0, err
	}
	if len(samples) == 0 {
		return 0, 0, nil
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples)), len(samples), nil
}

// incidentImpact sums the confidence-scaled base impact of every
// unresolved report on the trip inside the incident window.
func (s *DelayEstimatorService) incidentImpact(ctx context.Context, tripID string, now time.Time) (float64, error) {
	open, err := s.reports.OpenIncidentsByTrip(ctx, tripID, now.Add(-s.incidentWindow))
	if err != nil {
		return 0, err
	}
	var impact float64
	for _, r := range open {
		if !r.Open(now, s.incidentWindow) {
			continue
		}
		impact += r.Category.BaseImpact() * float64(r.Confidence) / 100.0
	}
	return impact, nil
}

// haversineKm is the great-circle distance between two coordinates
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
