package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

type voteFixture struct {
	svc     *SubmitVoteService
	reports *fakeReportRepo
	votes   *fakeVoteRepo
	riders  *fakeRiderRepo
	cascade *fakeCascade
	tx      *fakeTxRunner
}

func passenger(id string) *rider.Rider {
	return &rider.Rider{ID: id, Role: rider.RolePassenger, Status: "ACTIVE"}
}

func newVoteFixture(t *testing.T, report *domain.Report, aboard []string, riders ...*rider.Rider) *voteFixture {
	t.Helper()

	reports := newFakeReportRepo(report)
	votes := &fakeVoteRepo{}
	riderRepo := newFakeRiderRepo(riders...)
	cascade := newFakeCascade()
	tx := &fakeTxRunner{}
	tracker := NewPresenceTracker(&fakePresenceRepo{recent: aboard}, 30*time.Minute, testLogger())

	return &voteFixture{
		svc:     NewSubmitVoteService(tx, reports, votes, riderRepo, tracker, cascade, testLogger()),
		reports: reports,
		votes:   votes,
		riders:  riderRepo,
		cascade: cascade,
		tx:      tx,
	}
}

func openReport(id, author, trip string, category domain.ReportCategory) *domain.Report {
	return &domain.Report{
		ID:            id,
		AuthorID:      author,
		VehicleTripID: trip,
		Category:      category,
		Confidence:    50,
		CreatedAt:     time.Now().UTC(),
	}
}

func (f *voteFixture) vote(t *testing.T, voterID string, confirm bool) (*domain.VerificationStatus, error) {
	t.Helper()
	return f.svc.Execute(context.Background(), in.SubmitVoteInput{
		ReportID: "report-1",
		VoterID:  voterID,
		Confirm:  confirm,
	})
}

func TestSubmitVoteCrowdQuorum(t *testing.T) {
	aboard := []string{"author", "v1", "v2", "v3", "v4", "v5"}
	report := openReport("report-1", "author", "trip-1", domain.CategoryTrafficJam)
	f := newVoteFixture(t, report, aboard,
		passenger("author"), passenger("v1"), passenger("v2"), passenger("v3"))

	// presence 6 requires 3 confirmations; the first two do not verify
	status, err := f.vote(t, "v1", true)
	require.NoError(t, err)
	assert.False(t, status.IsVerified)
	assert.Equal(t, 1, status.ConfirmationsCount)
	assert.Equal(t, 3, status.RequiredConfirmations)

	status, err = f.vote(t, "v2", true)
	require.NoError(t, err)
	assert.False(t, status.IsVerified)

	// third confirmation meets the quorum and rewards the author once
	status, err = f.vote(t, "v3", true)
	require.NoError(t, err)
	assert.True(t, status.IsVerified)
	assert.False(t, status.VerifiedByAdmin)
	assert.Equal(t, 3, status.ConfirmationsCount)
	assert.InDelta(t, 50.0, status.VerificationPercentage, 0.01)
	assert.Equal(t, 1, f.riders.awardCalls)

	author, err := f.riders.FindByID(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, 10, author.ReputationPoints)
	assert.Equal(t, 1, author.VerifiedReportsCount)
	assert.Equal(t, rider.BadgeNew, author.Badge)

	// delay-relevant category triggers the cascade after commit
	select {
	case tripID := <-f.cascade.triggered:
		assert.Equal(t, "trip-1", tripID)
	case <-time.After(2 * time.Second):
		t.Fatal("cascade was not triggered")
	}
}

func TestSubmitVoteAdminVerifiesImmediately(t *testing.T) {
	aboard := []string{"author", "v1"}
	report := openReport("report-1", "author", "trip-1", domain.CategoryVehicleBreakdown)
	driver := &rider.Rider{ID: "driver-1", Role: rider.RoleDriver, Status: "ACTIVE"}
	f := newVoteFixture(t, report, aboard, passenger("author"), driver)

	// the driver is not aboard; admin-tier roles vote from anywhere
	status, err := f.vote(t, "driver-1", true)
	require.NoError(t, err)
	assert.True(t, status.IsVerified)
	assert.True(t, status.VerifiedByAdmin)
	assert.Equal(t, 1, f.riders.awardCalls)
}

func TestSubmitVoteAdminDenialDoesNotVerify(t *testing.T) {
	report := openReport("report-1", "author", "trip-1", domain.CategoryTrafficJam)
	admin := &rider.Rider{ID: "admin-1", Role: rider.RoleAdmin, Status: "ACTIVE"}
	f := newVoteFixture(t, report, []string{"author"}, passenger("author"), admin)

	status, err := f.vote(t, "admin-1", false)
	require.NoError(t, err)
	assert.False(t, status.IsVerified)
	assert.Equal(t, 1, status.DenialsCount)
	assert.Equal(t, 0, f.riders.awardCalls)
}

func TestSubmitVoteDenialsNeverVerify(t *testing.T) {
	aboard := []string{"author", "v1", "v2", "v3", "v4"}
	report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
	f := newVoteFixture(t, report, aboard,
		passenger("author"), passenger("v1"), passenger("v2"), passenger("v3"))

	for _, voter := range []string{"v1", "v2", "v3"} {
		status, err := f.vote(t, voter, false)
		require.NoError(t, err)
		assert.False(t, status.IsVerified)
	}
	assert.Equal(t, 0, f.riders.awardCalls)
}

func TestSubmitVoteGuards(t *testing.T) {
	t.Run("author cannot vote on own report", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		f := newVoteFixture(t, report, []string{"author"}, passenger("author"))

		_, err := f.vote(t, "author", true)
		assert.ErrorIs(t, err, domain.ErrSelfVote)
	})

	t.Run("duplicate vote rejected", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		f := newVoteFixture(t, report, []string{"author", "v1"}, passenger("author"), passenger("v1"))

		_, err := f.vote(t, "v1", true)
		require.NoError(t, err)
		_, err = f.vote(t, "v1", false)
		assert.ErrorIs(t, err, domain.ErrDuplicateVote)
	})

	t.Run("passenger off the vehicle cannot vote", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		f := newVoteFixture(t, report, []string{"author"}, passenger("author"), passenger("outsider"))

		_, err := f.vote(t, "outsider", true)
		assert.ErrorIs(t, err, domain.ErrNotOnVehicle)
	})

	t.Run("verified report accepts no more votes", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		report.IsVerified = true
		f := newVoteFixture(t, report, []string{"author", "v1"}, passenger("author"), passenger("v1"))

		_, err := f.vote(t, "v1", true)
		assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
	})

	t.Run("inactive rider is forbidden", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		banned := &rider.Rider{ID: "v1", Role: rider.RolePassenger, Status: "BANNED"}
		f := newVoteFixture(t, report, []string{"author", "v1"}, passenger("author"), banned)

		_, err := f.vote(t, "v1", true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown voter", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		f := newVoteFixture(t, report, []string{"author"}, passenger("author"))

		_, err := f.vote(t, "ghost", true)
		assert.ErrorIs(t, err, rider.ErrRiderNotFound)
	})

	t.Run("unknown report", func(t *testing.T) {
		report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
		f := newVoteFixture(t, report, []string{"author", "v1"}, passenger("author"), passenger("v1"))

		_, err := f.svc.Execute(context.Background(), in.SubmitVoteInput{
			ReportID: "missing",
			VoterID:  "v1",
			Confirm:  true,
		})
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})
}

// staleLockReportRepo simulates two voters passing the verified check
// before either transition lands: the lock always observes an
// unverified report, so the monotonic verified write is the only
// remaining defense.
type staleLockReportRepo struct {
	*fakeReportRepo
}

func (s *staleLockReportRepo) LockForVote(ctx context.Context, reportID string) (*domain.Report, error) {
	r, err := s.fakeReportRepo.LockForVote(ctx, reportID)
	if err != nil {
		return nil, err
	}
	r.IsVerified = false
	return r, nil
}

func TestSubmitVoteDoubleTransitionAwardsOnce(t *testing.T) {
	report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
	reports := &staleLockReportRepo{newFakeReportRepo(report)}
	votes := &fakeVoteRepo{}
	riders := newFakeRiderRepo(
		passenger("author"),
		&rider.Rider{ID: "driver-1", Role: rider.RoleDriver, Status: "ACTIVE"},
		&rider.Rider{ID: "dispatcher-1", Role: rider.RoleDispatcher, Status: "ACTIVE"},
	)
	tracker := NewPresenceTracker(&fakePresenceRepo{recent: []string{"author"}}, 30*time.Minute, testLogger())
	svc := NewSubmitVoteService(&fakeTxRunner{}, reports, votes, riders, tracker, newFakeCascade(), testLogger())

	submit := func(voterID string) error {
		_, err := svc.Execute(context.Background(), in.SubmitVoteInput{
			ReportID: "report-1",
			VoterID:  voterID,
			Confirm:  true,
		})
		return err
	}

	require.NoError(t, submit("driver-1"))

	// the second transition attempt hits the already-verified write and
	// fails before the ledger update can run again
	assert.ErrorIs(t, submit("dispatcher-1"), domain.ErrAlreadyVerified)

	assert.Equal(t, 1, riders.awardCalls)
	author, err := riders.FindByID(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, 10, author.ReputationPoints)
	assert.Equal(t, 1, author.VerifiedReportsCount)
}

func TestSubmitVoteRunsInsideTransaction(t *testing.T) {
	report := openReport("report-1", "author", "trip-1", domain.CategoryOther)
	f := newVoteFixture(t, report, []string{"author", "v1"}, passenger("author"), passenger("v1"))

	_, err := f.vote(t, "v1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.calls)
}

func TestSubmitVoteNoCascadeForNonDelayCategory(t *testing.T) {
	aboard := []string{"author", "v1"}
	report := openReport("report-1", "author", "trip-1", domain.CategoryMedicalHelp)
	admin := &rider.Rider{ID: "admin-1", Role: rider.RoleAdmin, Status: "ACTIVE"}
	f := newVoteFixture(t, report, aboard, passenger("author"), admin)

	status, err := f.vote(t, "admin-1", true)
	require.NoError(t, err)
	require.True(t, status.IsVerified)

	select {
	case <-f.cascade.triggered:
		t.Fatal("cascade must not fire for MEDICAL_HELP")
	case <-time.After(100 * time.Millisecond):
	}
}
