package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

const (
	contactA = "0b8f8a3e-3f8a-4a5e-9d8a-aaaaaaaaaaaa"
	contactB = "0b8f8a3e-3f8a-4a5e-9d8a-bbbbbbbbbbbb"
)

func contacts(ids string) *string { return &ids }

func cascadeFixture(reports *fakeReportRepo, journeys *fakeJourneyRepo, riderRepo *fakeRiderRepo, aboard []string, sink *recordSink) *DelayCascadeService {
	tracker := NewPresenceTracker(&fakePresenceRepo{recent: aboard}, 30*time.Minute, testLogger())
	return NewDelayCascadeService(reports, journeys, riderRepo, tracker, &fakeEstimator{minutes: 12}, sink, testLogger())
}

func verifiedDelayReport() *domain.Report {
	r := openReport("report-1", "author", "trip-1", domain.CategoryVehicleBreakdown)
	r.IsVerified = true
	now := time.Now().UTC()
	r.VerifiedAt = &now
	return r
}

func TestCascadeNoVerifiedReport(t *testing.T) {
	svc := cascadeFixture(newFakeReportRepo(), &fakeJourneyRepo{}, newFakeRiderRepo(), nil, &recordSink{})

	result, err := svc.Execute(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.False(t, result.DelayDetected)
	assert.Empty(t, result.ReportID)
	assert.Zero(t, result.AlternativeRoutesSent)
	assert.Zero(t, result.FamilyNotificationsSent)
}

func TestCascadeNotifiesRidersAndFamilies(t *testing.T) {
	r1 := &rider.Rider{ID: "r1", Name: "Ala", Role: rider.RolePassenger, Status: "ACTIVE",
		FamilyContacts: contacts(`["` + contactA + `","` + contactB + `"]`)}
	r2 := &rider.Rider{ID: "r2", Name: "Jan", Role: rider.RolePassenger, Status: "ACTIVE"}

	journeys := &fakeJourneyRepo{active: map[string]*domain.Journey{
		"r1": {ID: "j1", RiderID: "r1", Status: "IN_PROGRESS"},
	}}
	sink := &recordSink{}
	svc := cascadeFixture(newFakeReportRepo(verifiedDelayReport()), journeys,
		newFakeRiderRepo(r1, r2), []string{"r1", "r2"}, sink)

	result, err := svc.Execute(context.Background(), "trip-1")
	require.NoError(t, err)

	assert.True(t, result.DelayDetected)
	assert.Equal(t, "report-1", result.ReportID)
	// only r1 has an in-progress journey
	assert.Equal(t, 1, result.AlternativeRoutesSent)
	// both of r1's contacts, r2 has none
	assert.Equal(t, 2, result.FamilyNotificationsSent)

	delayed := sink.byType(domain.NotificationDelayDetected)
	require.Len(t, delayed, 1)
	assert.Equal(t, "r1", delayed[0].RecipientID)
	assert.Contains(t, delayed[0].Message, "12 minutes")

	family := sink.byType(domain.NotificationFamilyMemberDelayed)
	require.Len(t, family, 2)
	assert.Contains(t, family[0].Message, "Ala")
}

func TestCascadeSkipsMalformedContactList(t *testing.T) {
	bad := &rider.Rider{ID: "r1", Name: "Ala", Role: rider.RolePassenger, Status: "ACTIVE",
		FamilyContacts: contacts(`["grandma"]`)}
	good := &rider.Rider{ID: "r2", Name: "Jan", Role: rider.RolePassenger, Status: "ACTIVE",
		FamilyContacts: contacts(`["` + contactA + `"]`)}

	sink := &recordSink{}
	svc := cascadeFixture(newFakeReportRepo(verifiedDelayReport()), &fakeJourneyRepo{},
		newFakeRiderRepo(bad, good), []string{"r1", "r2"}, sink)

	result, err := svc.Execute(context.Background(), "trip-1")
	require.NoError(t, err)

	// the malformed list is logged and skipped; the valid one still goes out
	assert.Equal(t, 1, result.FamilyNotificationsSent)
	family := sink.byType(domain.NotificationFamilyMemberDelayed)
	require.Len(t, family, 1)
	assert.Equal(t, contactA, family[0].RecipientID)
}

func TestCascadeCountsOnlySuccessfulHandoffs(t *testing.T) {
	r1 := &rider.Rider{ID: "r1", Name: "Ala", Role: rider.RolePassenger, Status: "ACTIVE",
		FamilyContacts: contacts(`["` + contactA + `","` + contactB + `"]`)}

	journeys := &fakeJourneyRepo{active: map[string]*domain.Journey{
		"r1": {ID: "j1", RiderID: "r1", Status: "IN_PROGRESS"},
	}}
	sink := &recordSink{failFor: map[string]error{contactB: errors.New("broker down")}}
	svc := cascadeFixture(newFakeReportRepo(verifiedDelayReport()), journeys,
		newFakeRiderRepo(r1), []string{"r1"}, sink)

	result, err := svc.Execute(context.Background(), "trip-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.AlternativeRoutesSent)
	assert.Equal(t, 1, result.FamilyNotificationsSent)
}

func TestCascadeEmptyVehicle(t *testing.T) {
	svc := cascadeFixture(newFakeReportRepo(verifiedDelayReport()), &fakeJourneyRepo{},
		newFakeRiderRepo(), nil, &recordSink{})

	result, err := svc.Execute(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.True(t, result.DelayDetected)
	assert.Zero(t, result.AlternativeRoutesSent)
	assert.Zero(t, result.FamilyNotificationsSent)
}

func TestCascadeIsRepeatable(t *testing.T) {
	r1 := &rider.Rider{ID: "r1", Name: "Ala", Role: rider.RolePassenger, Status: "ACTIVE",
		FamilyContacts: contacts(`["` + contactA + `"]`)}
	journeys := &fakeJourneyRepo{active: map[string]*domain.Journey{
		"r1": {ID: "j1", RiderID: "r1", Status: "IN_PROGRESS"},
	}}
	sink := &recordSink{}
	svc := cascadeFixture(newFakeReportRepo(verifiedDelayReport()), journeys,
		newFakeRiderRepo(r1), []string{"r1"}, sink)

	for i := 0; i < 2; i++ {
		result, err := svc.Execute(context.Background(), "trip-1")
		require.NoError(t, err)
		assert.Equal(t, 1, result.AlternativeRoutesSent)
	}
	// no dedup across triggers: the rider was notified twice
	assert.Len(t, sink.byType(domain.NotificationDelayDetected), 2)
}
