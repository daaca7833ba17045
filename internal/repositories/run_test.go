package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

func newTestRepo(now *time.Time) *runRepository {
	repo := NewRunRepository().(*runRepository)
	repo.now = func() time.Time { return *now }
	return repo
}

func TestRunRepository_Lifecycle(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	repo := newTestRepo(&now)

	run := &models.Run{ID: uuid.New(), Status: models.StateQueued, FileNames: []string{"a.pdf"}}
	require.NoError(t, repo.Create(run))

	now = now.Add(time.Second)
	require.NoError(t, repo.UpdateProgress(run.ID, models.StateCollecting, "Starting process..."))

	found, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, found.Status)
	assert.Equal(t, "Starting process...", found.Progress)
	assert.True(t, found.UpdatedAt.After(found.CreatedAt))

	records := []models.StudentRecord{{HoTen: "Nguyễn Văn A"}}
	require.NoError(t, repo.UpdateResult(run.ID, records))

	found, err = repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateSucceeded, found.Status)
	assert.Empty(t, found.Progress)
	assert.Equal(t, records, found.Records)
}

func TestRunRepository_UpdateError(t *testing.T) {
	now := time.Now()
	repo := newTestRepo(&now)

	run := &models.Run{ID: uuid.New(), Status: models.StateQueued}
	require.NoError(t, repo.Create(run))
	require.NoError(t, repo.UpdateError(run.ID, models.KindRateLimited, models.KindRateLimited.UserMessage()))

	found, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateFailed, found.Status)
	assert.Equal(t, models.KindRateLimited, found.ErrorKind)
	assert.Nil(t, found.Records)
}

func TestRunRepository_NotFound(t *testing.T) {
	repo := NewRunRepository()

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, repo.UpdateProgress(uuid.New(), models.StateCollecting, ""), ErrRunNotFound)
}

func TestRunRepository_DuplicateCreate(t *testing.T) {
	repo := NewRunRepository()
	run := &models.Run{ID: uuid.New()}

	require.NoError(t, repo.Create(run))
	assert.Error(t, repo.Create(run))
}

func TestRunRepository_FindReturnsCopy(t *testing.T) {
	repo := NewRunRepository()
	run := &models.Run{ID: uuid.New(), Status: models.StateQueued}
	require.NoError(t, repo.Create(run))

	found, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	found.Status = models.StateFailed

	again, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateQueued, again.Status)
}

func TestRunRepository_DeleteOlderThan(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	repo := newTestRepo(&now)

	finished := &models.Run{ID: uuid.New(), Status: models.StateQueued}
	active := &models.Run{ID: uuid.New(), Status: models.StateQueued}
	require.NoError(t, repo.Create(finished))
	require.NoError(t, repo.Create(active))
	require.NoError(t, repo.UpdateResult(finished.ID, nil))
	require.NoError(t, repo.UpdateProgress(active.ID, models.StateExtracting, "Analyzing"))

	assert.Equal(t, 1, repo.DeleteOlderThan(now.Add(time.Minute)))

	_, err := repo.FindByID(finished.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = repo.FindByID(active.ID)
	assert.NoError(t, err)
}
