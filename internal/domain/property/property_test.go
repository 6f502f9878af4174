package property

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRegisterJob_CompleteRecurring(t *testing.T) {
	p, err := NewProperty(uuid.New(), "Main St Office", "1 Main St")
	require.NoError(t, err)

	job, err := NewAssetRegisterJob(p, "Fire extinguisher check", AssetJobInspection)
	require.NoError(t, err)
	scheduled := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	job.ScheduledDate = &scheduled
	job.RecurrenceMonths = 6

	next, err := job.Complete(time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, AssetJobCompleted, job.Status)
	assert.Equal(t, AssetJobActive, next.Status)
	assert.NotEqual(t, job.ID, next.ID)
	assert.Equal(t, time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC), *next.ScheduledDate)
	assert.Nil(t, next.CompletedAt)

	_, err = job.Complete(time.Now())
	assert.Error(t, err)
}

func TestAssetRegisterJob_CompleteRecurringClampsMonthEnd(t *testing.T) {
	p, err := NewProperty(uuid.New(), "Main St Office", "1 Main St")
	require.NoError(t, err)

	tests := []struct {
		name      string
		scheduled time.Time
		months    int
		want      time.Time
	}{
		{"31 Jan monthly", time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC), 1, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC)},
		{"31 Jan monthly in leap year", time.Date(2028, 1, 31, 9, 0, 0, 0, time.UTC), 1, time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC)},
		{"31 Aug half yearly", time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC), 6, time.Date(2027, 2, 28, 14, 30, 0, 0, time.UTC)},
		{"31 Mar quarterly", time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC), 3, time.Date(2026, 6, 30, 9, 0, 0, 0, time.UTC)},
		{"30 Nov yearly", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC), 12, time.Date(2027, 11, 30, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewAssetRegisterJob(p, "Test and tag", AssetJobInspection)
			require.NoError(t, err)
			job.ScheduledDate = &tt.scheduled
			job.RecurrenceMonths = tt.months

			next, err := job.Complete(tt.scheduled)
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, tt.want, *next.ScheduledDate)
		})
	}
}

func TestAssetRegisterJob_CompleteOneOff(t *testing.T) {
	p, err := NewProperty(uuid.New(), "Depot", "2 Side Rd")
	require.NoError(t, err)
	job, err := NewAssetRegisterJob(p, "Service pump", AssetJobService)
	require.NoError(t, err)

	next, err := job.Complete(time.Now())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestAssetRegisterJob_Duration(t *testing.T) {
	j := &AssetRegisterJob{}
	assert.Equal(t, time.Hour, j.Duration())
	j.DurationMinutes = 90
	assert.Equal(t, 90*time.Minute, j.Duration())
}

func TestPatches(t *testing.T) {
	p, err := NewProperty(uuid.New(), "Warehouse", "1 Dock Rd")
	require.NoError(t, err)

	empty := " "
	assert.Error(t, p.Apply(PropertyPatch{Address: &empty}))
	notes := "Gate code 1234"
	require.NoError(t, p.Apply(PropertyPatch{Notes: &notes}))
	assert.Equal(t, "Gate code 1234", p.Notes)

	a, err := NewAsset(p, "Switchboard")
	require.NoError(t, err)
	serial := " SB-99 "
	require.NoError(t, a.Apply(AssetPatch{SerialNumber: &serial}))
	assert.Equal(t, "SB-99", a.SerialNumber)

	j, err := NewAssetRegisterJob(p, "RCD test", "")
	require.NoError(t, err)
	zero := 0
	assert.Error(t, j.Apply(AssetJobPatch{DurationMinutes: &zero}))
	six := 6
	require.NoError(t, j.Apply(AssetJobPatch{RecurrenceMonths: &six}))
	assert.Equal(t, 6, j.RecurrenceMonths)

	require.NoError(t, j.Apply(AssetJobPatch{Cancel: true}))
	assert.Equal(t, AssetJobCancelled, j.Status)

	_, err = j.Complete(time.Now())
	assert.Error(t, err)
}
