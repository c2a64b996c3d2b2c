package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltbot/models"
)

func newTestJobs(t *testing.T, now func() time.Time) *JobsManager {
	t.Helper()
	return NewJobsManager(filepath.Join(t.TempDir(), "jobs.json"), now)
}

func TestJobsManager_SetAndGetJob(t *testing.T) {
	m := newTestJobs(t, nil)

	_, ok := m.GetJob(testServer, testUser)
	assert.False(t, ok)

	m.SetJob(testServer, testUser, "doctor")
	key, ok := m.GetJob(testServer, testUser)
	require.True(t, ok)
	assert.Equal(t, "doctor", key)

	// Empty key clears the job.
	m.SetJob(testServer, testUser, "")
	_, ok = m.GetJob(testServer, testUser)
	assert.False(t, ok)
}

func TestJobsManager_CanApply_AlreadyEmployed(t *testing.T) {
	m := newTestJobs(t, nil)
	m.SetJob(testServer, testUser, "scientist")

	ok, reason := m.CanApply(testServer, testUser)
	assert.False(t, ok)
	assert.Equal(t, "You already have a job. Use /quitjob first.", reason)
}

func TestJobsManager_CanApply_DeclineCooldown(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	m := newTestJobs(t, func() time.Time { return current })

	m.SetDeclineCooldown(testServer, testUser)

	// 3m30s in, 6m30s remain.
	current = base.Add(3*time.Minute + 30*time.Second)
	ok, reason := m.CanApply(testServer, testUser)
	assert.False(t, ok)
	assert.Equal(t, "You must wait 6m 30s before applying again.", reason)

	// At exactly the cooldown boundary the user may apply again.
	current = base.Add(DeclineCooldown)
	ok, reason = m.CanApply(testServer, testUser)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestJobsManager_ClearCooldown(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newTestJobs(t, func() time.Time { return base })

	m.SetDeclineCooldown(testServer, testUser)
	m.ClearCooldown(testServer, testUser)

	ok, _ := m.CanApply(testServer, testUser)
	assert.True(t, ok)
}

func TestJobsManager_ActiveAssignments_SortedSnapshot(t *testing.T) {
	m := newTestJobs(t, nil)
	m.SetJob(200, 5, "doctor")
	m.SetJob(100, 9, "scientist")
	m.SetJob(100, 2, "factory_worker")

	got := m.ActiveAssignments()

	assert.Equal(t, []models.JobAssignment{
		{ServerID: 100, UserID: 2, JobKey: "factory_worker"},
		{ServerID: 100, UserID: 9, JobKey: "scientist"},
		{ServerID: 200, UserID: 5, JobKey: "doctor"},
	}, got)
}

func TestJobsManager_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	m := NewJobsManager(path, func() time.Time { return base })
	m.SetJob(testServer, testUser, "office_worker")
	m.SetDeclineCooldown(testServer, 999)
	// A server holding only a cooldown must survive the round trip too.
	m.SetDeclineCooldown(101, 7)
	require.NoError(t, m.Save())

	// Reload just before the cooldowns lapse.
	current := base.Add(DeclineCooldown - time.Second)
	reloaded := NewJobsManager(path, func() time.Time { return current })
	require.NoError(t, reloaded.Load())

	key, ok := reloaded.GetJob(testServer, testUser)
	require.True(t, ok)
	assert.Equal(t, "office_worker", key)

	ok, reason := reloaded.CanApply(testServer, 999)
	assert.False(t, ok)
	assert.Equal(t, "You must wait 0m 1s before applying again.", reason)

	ok, _ = reloaded.CanApply(101, 7)
	assert.False(t, ok)
}

func TestJobsManager_Load_CorruptFileResetsAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, writeFile(t, path, "not json"))

	m := NewJobsManager(path, nil)
	m.SetJob(testServer, testUser, "doctor")

	require.Error(t, m.Load())
	_, ok := m.GetJob(testServer, testUser)
	assert.False(t, ok)
}

func TestJobsManager_Load_SkipsBadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	doc := `{
  "servers": {
    "100": {
      "user_jobs": {"200": "doctor", "bad": "scientist", "201": ""},
      "decline_cooldowns": {"202": "not-a-timestamp", "203": "2025-06-01T12:00:00Z"}
    }
  }
}`
	require.NoError(t, writeFile(t, path, doc))

	m := NewJobsManager(path, func() time.Time {
		return time.Date(2025, 6, 1, 11, 59, 0, 0, time.UTC)
	})
	require.NoError(t, m.Load())

	assert.Len(t, m.ActiveAssignments(), 1)

	// The malformed timestamp was dropped, the valid one still blocks.
	ok, _ := m.CanApply(testServer, 202)
	assert.True(t, ok)
	ok, _ = m.CanApply(testServer, 203)
	assert.False(t, ok)
}
