package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementsManager_UnlockAchievement_FirstTransitionOnly(t *testing.T) {
	m := NewAchievementsManager(filepath.Join(t.TempDir(), "achievements.json"))

	assert.True(t, m.UnlockAchievement(testServer, testUser, "money_lover"))
	assert.False(t, m.UnlockAchievement(testServer, testUser, "money_lover"))

	// Same key for another user unlocks independently.
	assert.True(t, m.UnlockAchievement(testServer, 999, "money_lover"))

	assert.True(t, m.HasAchievement(testServer, testUser, "money_lover"))
	assert.False(t, m.HasAchievement(testServer, testUser, "guildmaster"))
}

func TestAchievementsManager_GetUserAchievements_ReturnsCopy(t *testing.T) {
	m := NewAchievementsManager(filepath.Join(t.TempDir(), "achievements.json"))
	m.UnlockAchievement(testServer, testUser, "guildeer")

	got := m.GetUserAchievements(testServer, testUser)
	got["savehacking"] = struct{}{}

	assert.False(t, m.HasAchievement(testServer, testUser, "savehacking"))
	assert.Empty(t, m.GetUserAchievements(testServer, 999))
}

func TestAchievementsManager_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "achievements.json")

	m := NewAchievementsManager(path)
	m.UnlockAchievement(testServer, testUser, "money_lover")
	m.UnlockAchievement(testServer, testUser, "guildmaster")
	m.UnlockAchievement(101, 7, "smooth_criminal")
	require.NoError(t, m.Save())

	reloaded := NewAchievementsManager(path)
	require.NoError(t, reloaded.Load())

	assert.True(t, reloaded.HasAchievement(testServer, testUser, "money_lover"))
	assert.True(t, reloaded.HasAchievement(testServer, testUser, "guildmaster"))
	assert.True(t, reloaded.HasAchievement(101, 7, "smooth_criminal"))

	// Reloaded unlocks still refuse a second reward grant.
	assert.False(t, reloaded.UnlockAchievement(testServer, testUser, "money_lover"))
}

func TestAchievementsManager_Load_CorruptFileResetsAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "achievements.json")
	require.NoError(t, writeFile(t, path, "oops"))

	m := NewAchievementsManager(path)
	m.UnlockAchievement(testServer, testUser, "money_lover")

	require.Error(t, m.Load())
	assert.False(t, m.HasAchievement(testServer, testUser, "money_lover"))
}
