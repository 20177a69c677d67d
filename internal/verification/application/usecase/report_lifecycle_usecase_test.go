package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

func lifecycleFixture(reports *fakeReportRepo) *ReportLifecycleService {
	trips := &fakeTripRepo{trips: map[string]*domain.VehicleTrip{
		"trip-1": {ID: "trip-1", RouteID: "route-1"},
	}}
	return NewReportLifecycleService(reports, trips, testLogger())
}

func TestCreateReport(t *testing.T) {
	reports := newFakeReportRepo()
	svc := lifecycleFixture(reports)

	t.Run("passenger report starts at half confidence", func(t *testing.T) {
		report, err := svc.Create(context.Background(), in.CreateReportInput{
			AuthorID:      "author",
			AuthorRole:    rider.RolePassenger,
			VehicleTripID: "trip-1",
			Category:      domain.CategoryTrafficJam,
			Description:   "  stuck near the bridge  ",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, report.ID)
		assert.Equal(t, 50, report.Confidence)
		assert.False(t, report.IsVerified)
		assert.Equal(t, "stuck near the bridge", report.Description)
	})

	t.Run("driver report starts trusted", func(t *testing.T) {
		report, err := svc.Create(context.Background(), in.CreateReportInput{
			AuthorID:      "driver-1",
			AuthorRole:    rider.RoleDriver,
			VehicleTripID: "trip-1",
			Category:      domain.CategoryVehicleBreakdown,
		})
		require.NoError(t, err)
		assert.Equal(t, 100, report.Confidence)
	})

	t.Run("unknown trip rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), in.CreateReportInput{
			AuthorID:      "author",
			AuthorRole:    rider.RolePassenger,
			VehicleTripID: "missing",
			Category:      domain.CategoryOther,
		})
		assert.ErrorIs(t, err, domain.ErrTripNotFound)
	})
}

func TestResolveReport(t *testing.T) {
	report := openReport("report-1", "author", "trip-1", domain.CategoryTrafficJam)
	reports := newFakeReportRepo(report)
	svc := lifecycleFixture(reports)

	resolved, err := svc.Resolve(context.Background(), "report-1")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)

	// resolving twice keeps the original timestamp
	first := *resolved.ResolvedAt
	again, err := svc.Resolve(context.Background(), "report-1")
	require.NoError(t, err)
	assert.Equal(t, first, *again.ResolvedAt)

	_, err = svc.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestGetReport(t *testing.T) {
	report := openReport("report-1", "author", "trip-1", domain.CategoryTrafficJam)
	svc := lifecycleFixture(newFakeReportRepo(report))

	found, err := svc.Get(context.Background(), "report-1")
	require.NoError(t, err)
	assert.Equal(t, "report-1", found.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}
