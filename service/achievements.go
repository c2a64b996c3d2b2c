package service

import (
	"sort"
	"strconv"
	"sync"

	"voltbot/storage"
)

// AchievementsManager owns each user's set of unlocked achievements.
// Unlocks are monotonic: once added, a key is never removed.
type AchievementsManager struct {
	mu       sync.Mutex
	filePath string
	servers  map[int64]map[int64]map[string]struct{}
}

// NewAchievementsManager creates an empty manager backed by filePath.
func NewAchievementsManager(filePath string) *AchievementsManager {
	return &AchievementsManager{
		filePath: filePath,
		servers:  make(map[int64]map[int64]map[string]struct{}),
	}
}

// UnlockAchievement records the achievement and reports whether this
// call was the locked-to-unlocked transition. Callers grant the
// one-time reward only on true, keeping rewards exactly-once.
func (m *AchievementsManager) UnlockAchievement(serverID, userID int64, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	users, ok := m.servers[serverID]
	if !ok {
		users = make(map[int64]map[string]struct{})
		m.servers[serverID] = users
	}
	unlocked, ok := users[userID]
	if !ok {
		unlocked = make(map[string]struct{})
		users[userID] = unlocked
	}
	if _, done := unlocked[key]; done {
		return false
	}
	unlocked[key] = struct{}{}
	return true
}

// HasAchievement reports whether the user has unlocked key.
func (m *AchievementsManager) HasAchievement(serverID, userID int64, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.servers[serverID][userID][key]
	return ok
}

// GetUserAchievements returns a copy of the user's unlocked set.
func (m *AchievementsManager) GetUserAchievements(serverID, userID int64) map[string]struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{})
	for key := range m.servers[serverID][userID] {
		out[key] = struct{}{}
	}
	return out
}

type achievementsServerDoc struct {
	UserAchievements map[string][]string `json:"user_achievements"`
}

type achievementsFileDoc struct {
	Servers map[string]achievementsServerDoc `json:"servers"`
}

// Load replaces in-memory state with the persisted document, with the
// same missing-vs-corrupt contract as EconomyManager.Load.
func (m *AchievementsManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers = make(map[int64]map[int64]map[string]struct{})

	var doc achievementsFileDoc
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
		users := make(map[int64]map[string]struct{})
		for userKey, keys := range serverDoc.UserAchievements {
			userID, ok := parseID(userKey)
			if !ok {
				continue
			}
			unlocked := make(map[string]struct{}, len(keys))
			for _, key := range keys {
				unlocked[key] = struct{}{}
			}
			users[userID] = unlocked
		}
		m.servers[serverID] = users
	}
	return nil
}

// Save writes the full in-memory state to disk atomically. Unlock sets
// serialize as sorted lists for stable documents.
func (m *AchievementsManager) Save() error {
	m.mu.Lock()
	doc := achievementsFileDoc{Servers: make(map[string]achievementsServerDoc, len(m.servers))}
	for serverID, users := range m.servers {
		serverDoc := achievementsServerDoc{UserAchievements: make(map[string][]string, len(users))}
		for userID, unlocked := range users {
			keys := make([]string, 0, len(unlocked))
			for key := range unlocked {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			serverDoc.UserAchievements[strconv.FormatInt(userID, 10)] = keys
		}
		doc.Servers[strconv.FormatInt(serverID, 10)] = serverDoc
	}
	m.mu.Unlock()
	return storage.Save(m.filePath, doc)
}
