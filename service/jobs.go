package service

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"voltbot/models"
	"voltbot/storage"
)

// DeclineCooldown is how long a user must wait after a declined job
// application before applying again.
const DeclineCooldown = 10 * time.Minute

// JobsManager owns each user's current job and decline cooldown.
// The cooldown is advisory: CanApply checks it, nothing enforces it
// with a timer.
type JobsManager struct {
	mu        sync.Mutex
	filePath  string
	now       func() time.Time
	jobs      map[int64]map[int64]string
	cooldowns map[int64]map[int64]time.Time
}

// NewJobsManager creates an empty manager backed by filePath. now may
// be nil, in which case time.Now is used.
func NewJobsManager(filePath string, now func() time.Time) *JobsManager {
	if now == nil {
		now = time.Now
	}
	return &JobsManager{
		filePath:  filePath,
		now:       now,
		jobs:      make(map[int64]map[int64]string),
		cooldowns: make(map[int64]map[int64]time.Time),
	}
}

// GetJob returns the user's current job key, if any.
func (m *JobsManager) GetJob(serverID, userID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.jobs[serverID][userID]
	return key, ok && key != ""
}

// SetJob sets the user's job unconditionally. An empty key clears it.
// Callers are responsible for checking CanApply first.
func (m *JobsManager) SetJob(serverID, userID int64, jobKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if jobKey == "" {
		delete(m.jobs[serverID], userID)
		return
	}
	if m.jobs[serverID] == nil {
		m.jobs[serverID] = make(map[int64]string)
	}
	m.jobs[serverID][userID] = jobKey
}

// CanApply reports whether the user may apply for a job, with a
// user-facing reason when they may not.
func (m *JobsManager) CanApply(serverID, userID int64) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs[serverID][userID] != "" {
		return false, "You already have a job. Use /quitjob first."
	}
	if until, ok := m.cooldowns[serverID][userID]; ok {
		if remaining := until.Sub(m.now()); remaining > 0 {
			minutes := int(remaining.Seconds()) / 60
			seconds := int(remaining.Seconds()) % 60
			return false, fmt.Sprintf("You must wait %dm %ds before applying again.", minutes, seconds)
		}
	}
	return true, ""
}

// SetDeclineCooldown starts the fixed 10-minute reapplication lockout.
func (m *JobsManager) SetDeclineCooldown(serverID, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cooldowns[serverID] == nil {
		m.cooldowns[serverID] = make(map[int64]time.Time)
	}
	m.cooldowns[serverID][userID] = m.now().Add(DeclineCooldown)
}

// ClearCooldown removes any decline cooldown for the user.
func (m *JobsManager) ClearCooldown(serverID, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cooldowns[serverID], userID)
}

// ActiveAssignments snapshots every stored job, used to resume payout
// loops after a restart.
func (m *JobsManager) ActiveAssignments() []models.JobAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.JobAssignment
	for serverID, users := range m.jobs {
		for userID, jobKey := range users {
			if jobKey != "" {
				out = append(out, models.JobAssignment{ServerID: serverID, UserID: userID, JobKey: jobKey})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServerID != out[j].ServerID {
			return out[i].ServerID < out[j].ServerID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

type jobsServerDoc struct {
	UserJobs         map[string]string `json:"user_jobs"`
	DeclineCooldowns map[string]string `json:"decline_cooldowns"`
}

type jobsFileDoc struct {
	Servers map[string]jobsServerDoc `json:"servers"`
}

// Load replaces in-memory state with the persisted document, with the
// same missing-vs-corrupt contract as EconomyManager.Load.
func (m *JobsManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = make(map[int64]map[int64]string)
	m.cooldowns = make(map[int64]map[int64]time.Time)

	var doc jobsFileDoc
	if err := storage.Load(m.filePath, &doc); err != nil {
		if err == storage.ErrNotExist {
			return nil
		}
		return err
	}
	for serverKey, serverDoc := range doc.Servers {
		serverID, ok := parseID(serverKey)
		if !ok {
			continue
		}
		jobs := make(map[int64]string)
		for userKey, jobKey := range serverDoc.UserJobs {
			if userID, ok := parseID(userKey); ok && jobKey != "" {
				jobs[userID] = jobKey
			}
		}
		cooldowns := make(map[int64]time.Time)
		for userKey, stamp := range serverDoc.DeclineCooldowns {
			userID, ok := parseID(userKey)
			if !ok || stamp == "" {
				continue
			}
			until, err := time.Parse(time.RFC3339, stamp)
			if err != nil {
				continue
			}
			cooldowns[userID] = until
		}
		m.jobs[serverID] = jobs
		m.cooldowns[serverID] = cooldowns
	}
	return nil
}

// Save writes the full in-memory state to disk atomically.
func (m *JobsManager) Save() error {
	m.mu.Lock()
	doc := jobsFileDoc{Servers: make(map[string]jobsServerDoc)}
	for serverID, jobs := range m.jobs {
		serverDoc := jobsServerDoc{
			UserJobs:         make(map[string]string, len(jobs)),
			DeclineCooldowns: make(map[string]string),
		}
		for userID, jobKey := range jobs {
			serverDoc.UserJobs[strconv.FormatInt(userID, 10)] = jobKey
		}
		for userID, until := range m.cooldowns[serverID] {
			serverDoc.DeclineCooldowns[strconv.FormatInt(userID, 10)] = until.UTC().Format(time.RFC3339)
		}
		doc.Servers[strconv.FormatInt(serverID, 10)] = serverDoc
	}
	// Cooldowns can exist for servers with no stored jobs.
	for serverID, cooldowns := range m.cooldowns {
		key := strconv.FormatInt(serverID, 10)
		if _, ok := doc.Servers[key]; ok || len(cooldowns) == 0 {
			continue
		}
		serverDoc := jobsServerDoc{
			UserJobs:         make(map[string]string),
			DeclineCooldowns: make(map[string]string, len(cooldowns)),
		}
		for userID, until := range cooldowns {
			serverDoc.DeclineCooldowns[strconv.FormatInt(userID, 10)] = until.UTC().Format(time.RFC3339)
		}
		doc.Servers[key] = serverDoc
	}
	m.mu.Unlock()
	return storage.Save(m.filePath, doc)
}
