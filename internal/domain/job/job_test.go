package job

import (
	"testing"
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	j, err := NewJob(uuid.New(), uuid.New(), "Kitchen Renovation", TypeRepair)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, j.Status)
	assert.Equal(t, PriorityNormal, j.Priority)

	_, err = NewJob(uuid.New(), uuid.New(), "  ", TypeRepair)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewJob(uuid.New(), uuid.New(), "Fix tap", Type("plumbing"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestJob_Schedule(t *testing.T) {
	j, err := NewJob(uuid.New(), uuid.New(), "Fix tap", TypeRepair)
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	require.NoError(t, j.Schedule(&start, &end))
	assert.True(t, j.IsScheduled())
	assert.Equal(t, StatusScheduled, j.Status)

	assert.Error(t, j.Schedule(&end, &start))
	assert.Error(t, j.Schedule(&start, nil))
}

func TestJob_CompleteAndCancel(t *testing.T) {
	j, err := NewJob(uuid.New(), uuid.New(), "Fix tap", TypeRepair)
	require.NoError(t, err)

	require.NoError(t, j.Complete("Replaced washer"))
	assert.Equal(t, StatusCompleted, j.Status)
	assert.NotNil(t, j.CompletedAt)
	assert.Equal(t, "Replaced washer", j.CompletionNotes)

	require.NoError(t, j.SetStatus(StatusCancelled))
	assert.Nil(t, j.CompletedAt)
	assert.Error(t, j.SetStatus(StatusInProgress))
	assert.Error(t, j.Complete(""))
}
