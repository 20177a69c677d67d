package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

func testLogger() *logger.Logger {
	return logger.NewLogger("test")
}

// fakeTxRunner runs the function directly; atomicity is the database's
// job, the use case only needs the calls to happen inside fn
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*domain.Report
}

func newFakeReportRepo(reports ...*domain.Report) *fakeReportRepo {
	m := make(map[string]*domain.Report, len(reports))
	for _, r := range reports {
		m[r.ID] = r
	}
	return &fakeReportRepo{reports: m}
}

func (f *fakeReportRepo) Create(_ context.Context, report *domain.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) FindByID(_ context.Context, reportID string) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) LockForVote(ctx context.Context, reportID string) (*domain.Report, error) {
	return f.FindByID(ctx, reportID)
}

func (f *fakeReportRepo) MarkVerified(_ context.Context, reportID string, byAdmin bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[reportID]
	if !ok {
		return domain.ErrReportNotFound
	}
	if r.IsVerified {
		return domain.ErrAlreadyVerified
	}
	r.IsVerified = true
	r.VerifiedByAdmin = byAdmin
	r.Confidence = 100
	r.VerifiedAt = &at
	r.UpdatedAt = at
	return nil
}

func (f *fakeReportRepo) Resolve(_ context.Context, reportID string, at time.Time) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	if r.ResolvedAt == nil {
		r.ResolvedAt = &at
	}
	r.UpdatedAt = at
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) OpenIncidentsByTrip(_ context.Context, tripID string, since time.Time) ([]*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var open []*domain.Report
	for _, r := range f.reports {
		if r.VehicleTripID == tripID && r.ResolvedAt == nil && !r.CreatedAt.Before(since) {
			cp := *r
			open = append(open, &cp)
		}
	}
	return open, nil
}

func (f *fakeReportRepo) FindVerifiedDelayReport(_ context.Context, tripID string) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reports {
		if r.VehicleTripID == tripID && r.IsVerified && r.ResolvedAt == nil && r.Category.DelayRelevant() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes []*domain.Vote
}

func (f *fakeVoteRepo) Create(_ context.Context, vote *domain.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.ReportID == vote.ReportID && v.VoterID == vote.VoterID {
			return domain.ErrDuplicateVote
		}
	}
	f.votes = append(f.votes, vote)
	return nil
}

func (f *fakeVoteRepo) FindByReportAndVoter(_ context.Context, reportID, voterID string) (*domain.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.ReportID == reportID && v.VoterID == voterID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVoteRepo) CountByReport(_ context.Context, reportID string) (domain.VoteCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var counts domain.VoteCounts
	for _, v := range f.votes {
		if v.ReportID != reportID {
			continue
		}
		if v.Confirm {
			counts.Confirmations++
		} else {
			counts.Denials++
		}
	}
	return counts, nil
}

type fakeRiderRepo struct {
	mu         sync.Mutex
	riders     map[string]*rider.Rider
	awardCalls int
}

func newFakeRiderRepo(riders ...*rider.Rider) *fakeRiderRepo {
	m := make(map[string]*rider.Rider, len(riders))
	for _, r := range riders {
		m[r.ID] = r
	}
	return &fakeRiderRepo{riders: m}
}

func (f *fakeRiderRepo) FindByID(_ context.Context, riderID string) (*rider.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.riders[riderID]
	if !ok {
		return nil, rider.ErrRiderNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRiderRepo) FindByEmail(_ context.Context, email string) (*rider.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.riders {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, rider.ErrRiderNotFound
}

func (f *fakeRiderRepo) FindByIDs(_ context.Context, riderIDs []string) ([]*rider.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []*rider.Rider
	for _, id := range riderIDs {
		if r, ok := f.riders[id]; ok {
			cp := *r
			found = append(found, &cp)
		}
	}
	return found, nil
}

func (f *fakeRiderRepo) AwardVerifiedReport(_ context.Context, riderID string, points int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.riders[riderID]
	if !ok {
		return 0, rider.ErrRiderNotFound
	}
	f.awardCalls++
	r.ReputationPoints += points
	r.VerifiedReportsCount++
	r.Badge = rider.BadgeForCount(r.VerifiedReportsCount)
	return r.VerifiedReportsCount, nil
}

type fakePresenceRepo struct {
	recent []string
	active []string
}

func (f *fakePresenceRepo) RidersWithRecentPings(context.Context, string, time.Time) ([]string, error) {
	return f.recent, nil
}

func (f *fakePresenceRepo) RidersWithActiveJourney(context.Context, string) ([]string, error) {
	return f.active, nil
}

type fakeTripRepo struct {
	trips map[string]*domain.VehicleTrip
	stops map[string][]*domain.RouteStop
}

func (f *fakeTripRepo) FindByID(_ context.Context, tripID string) (*domain.VehicleTrip, error) {
	t, ok := f.trips[tripID]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return t, nil
}

func (f *fakeTripRepo) StopsByRoute(_ context.Context, routeID string) ([]*domain.RouteStop, error) {
	return f.stops[routeID], nil
}

type fakeJourneyRepo struct {
	mu      sync.Mutex
	active  map[string]*domain.Journey // by rider id
	due     []*domain.Journey
	cleared []string
}

func (f *fakeJourneyRepo) ActiveByRider(_ context.Context, riderID string) (*domain.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[riderID], nil
}

func (f *fakeJourneyRepo) DueReminders(context.Context, time.Time) ([]*domain.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due, nil
}

func (f *fakeJourneyRepo) ClearReminder(_ context.Context, journeyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, journeyID)
	return nil
}

type fakeHistoryProvider struct {
	samples []float64
	lastKey out.HistoricalDelayKey
}

func (f *fakeHistoryProvider) Samples(_ context.Context, key out.HistoricalDelayKey) ([]float64, error) {
	f.lastKey = key
	return f.samples, nil
}

// recordSink captures notifications; failFor lists recipient ids whose
// delivery should fail
type recordSink struct {
	mu        sync.Mutex
	delivered []domain.Notification
	failFor   map[string]error
}

func (f *recordSink) Deliver(_ context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.RecipientID]; ok {
		return err
	}
	f.delivered = append(f.delivered, n)
	return nil
}

func (f *recordSink) byType(t domain.NotificationType) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.delivered {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// fakeCascade records trigger calls on a channel so tests can wait for
// the async trigger after a vote commit
type fakeCascade struct {
	triggered chan string
}

func newFakeCascade() *fakeCascade {
	return &fakeCascade{triggered: make(chan string, 4)}
}

func (f *fakeCascade) Execute(_ context.Context, tripID string) (*in.DelayCascadeResult, error) {
	f.triggered <- tripID
	return &in.DelayCascadeResult{DelayDetected: true}, nil
}

// fakeEstimator returns a fixed prediction
type fakeEstimator struct {
	minutes float64
}

func (f *fakeEstimator) Execute(context.Context, in.PredictDelayInput) (*domain.DelayEstimate, error) {
	return &domain.DelayEstimate{PredictedDelayMinutes: f.minutes, Confidence: 0.5, Method: "rule_based"}, nil
}
