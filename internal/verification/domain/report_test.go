package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
)

func TestCategoryDelayRelevant(t *testing.T) {
	assert.True(t, CategoryTrafficJam.DelayRelevant())
	assert.True(t, CategoryVehicleBreakdown.DelayRelevant())
	assert.False(t, CategoryMedicalHelp.DelayRelevant())
	assert.False(t, CategoryOther.DelayRelevant())
}

func TestCategoryBaseImpact(t *testing.T) {
	assert.Equal(t, 15.0, CategoryTrafficJam.BaseImpact())
	assert.Equal(t, 45.0, CategoryVehicleBreakdown.BaseImpact())
	assert.Equal(t, 20.0, CategoryMedicalHelp.BaseImpact())
	assert.Equal(t, 7.5, CategoryOther.BaseImpact())
}

func TestInitialConfidence(t *testing.T) {
	assert.Equal(t, 50, InitialConfidence(rider.RolePassenger))
	assert.Equal(t, 100, InitialConfidence(rider.RoleDriver))
	assert.Equal(t, 100, InitialConfidence(rider.RoleDispatcher))
	assert.Equal(t, 100, InitialConfidence(rider.RoleAdmin))
}

func TestReportOpen(t *testing.T) {
	now := time.Now()
	window := 30 * time.Minute

	t.Run("fresh unresolved report is open", func(t *testing.T) {
		r := &Report{CreatedAt: now.Add(-10 * time.Minute)}
		assert.True(t, r.Open(now, window))
	})

	t.Run("stale report is closed", func(t *testing.T) {
		r := &Report{CreatedAt: now.Add(-45 * time.Minute)}
		assert.False(t, r.Open(now, window))
	})

	t.Run("resolved report is closed regardless of age", func(t *testing.T) {
		resolved := now.Add(-5 * time.Minute)
		r := &Report{CreatedAt: now.Add(-10 * time.Minute), ResolvedAt: &resolved}
		assert.False(t, r.Open(now, window))
	})
}
