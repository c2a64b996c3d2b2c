package service

import (
	"fmt"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltbot/models"
)

// sequentialIDs returns a newID func yielding G00001, G00002, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("G%05d", n)
	}
}

func newTestGuilds(t *testing.T) *GuildsManager {
	t.Helper()
	return NewGuildsManager(filepath.Join(t.TempDir(), "guilds.json"), sequentialIDs(), nil)
}

func TestGenerateGuildID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, GenerateGuildID())
	}
}

func TestGuildsManager_CreateGuild(t *testing.T) {
	m := newTestGuilds(t)

	id, err := m.CreateGuild(testServer, testUser, "The Volts", "http://img", models.GuildPrivacyPublic, "")
	require.NoError(t, err)
	assert.Equal(t, "G00001", id)

	guild, ok := m.GetGuild(testServer, id)
	require.True(t, ok)
	assert.Equal(t, testUser, guild.OwnerID)
	assert.Equal(t, "The Volts", guild.DisplayName)
	assert.Equal(t, []int64{testUser}, guild.Members)

	got, ok := m.GetUserGuild(testServer, testUser)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestGuildsManager_CreateGuild_OwnerAlreadyInGuild(t *testing.T) {
	m := newTestGuilds(t)
	_, err := m.CreateGuild(testServer, testUser, "First", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)

	_, err = m.CreateGuild(testServer, testUser, "Second", "", models.GuildPrivacyPublic, "")
	assert.ErrorIs(t, err, ErrAlreadyInGuild)
}

func TestGuildsManager_CreateGuild_RetriesOnIDCollision(t *testing.T) {
	ids := []string{"SAME01", "SAME01", "SAME01", "OTHER2"}
	newID := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	m := NewGuildsManager(filepath.Join(t.TempDir(), "guilds.json"), newID, nil)

	first, err := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)
	assert.Equal(t, "SAME01", first)

	second, err := m.CreateGuild(testServer, 2, "B", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)
	assert.Equal(t, "OTHER2", second)
}

func TestGuildsManager_JoinGuild(t *testing.T) {
	m := newTestGuilds(t)
	id, err := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)

	require.NoError(t, m.JoinGuild(testServer, 2, id))

	guild, _ := m.GetGuild(testServer, id)
	assert.Equal(t, []int64{1, 2}, guild.Members)

	assert.ErrorIs(t, m.JoinGuild(testServer, 2, id), ErrAlreadyInGuild)
	assert.ErrorIs(t, m.JoinGuild(testServer, 3, "NOPE00"), ErrGuildNotFound)
}

func TestGuildsManager_JoinGuild_Full(t *testing.T) {
	m := newTestGuilds(t)
	id, err := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)

	cap := 6
	require.True(t, m.SetMemberCap(testServer, 1, &cap))
	for user := int64(2); user <= 6; user++ {
		require.NoError(t, m.JoinGuild(testServer, user, id))
	}

	err = m.JoinGuild(testServer, 7, id)
	require.ErrorIs(t, err, ErrGuildFull)
	assert.Equal(t, "This guild is full.", err.Error())

	// Clearing the cap reopens the guild.
	require.True(t, m.SetMemberCap(testServer, 1, nil))
	assert.NoError(t, m.JoinGuild(testServer, 7, id))
}

func TestGuildsManager_LeaveGuild_Member(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 2, id))

	assert.True(t, m.LeaveGuild(testServer, 2))

	guild, _ := m.GetGuild(testServer, id)
	assert.Equal(t, []int64{1}, guild.Members)
	_, ok := m.GetUserGuild(testServer, 2)
	assert.False(t, ok)

	assert.False(t, m.LeaveGuild(testServer, 99))
}

func TestGuildsManager_LeaveGuild_OwnerDisbands(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 2, id))
	require.NoError(t, m.JoinGuild(testServer, 3, id))

	assert.True(t, m.LeaveGuild(testServer, 1))

	// The guild and every member's index entry are gone.
	_, ok := m.GetGuild(testServer, id)
	assert.False(t, ok)
	for _, user := range []int64{1, 2, 3} {
		_, ok := m.GetUserGuild(testServer, user)
		assert.False(t, ok, "user %d", user)
	}
}

func TestGuildsManager_KickMember(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 2, id))

	assert.ErrorIs(t, m.KickMember(testServer, 2, 1), ErrNotOwner)
	assert.ErrorIs(t, m.KickMember(testServer, 1, 1), ErrKickSelf)
	assert.ErrorIs(t, m.KickMember(testServer, 1, 99), ErrNotMember)
	assert.ErrorIs(t, m.KickMember(testServer, 99, 2), ErrNotInGuild)

	require.NoError(t, m.KickMember(testServer, 1, 2))
	guild, _ := m.GetGuild(testServer, id)
	assert.Equal(t, []int64{1}, guild.Members)
	_, ok := m.GetUserGuild(testServer, 2)
	assert.False(t, ok)

	// Kicked members can join something else.
	assert.NoError(t, m.JoinGuild(testServer, 2, id))
}

func TestGuildsManager_TransferOwnership(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 2, id))

	assert.ErrorIs(t, m.TransferOwnership(testServer, 1, 99), ErrNotMember)
	assert.ErrorIs(t, m.TransferOwnership(testServer, 1, 1), ErrAlreadyOwner)

	require.NoError(t, m.TransferOwnership(testServer, 1, 2))
	guild, _ := m.GetGuild(testServer, id)
	assert.Equal(t, int64(2), guild.OwnerID)

	// The old owner is now a plain member and can be kicked.
	require.NoError(t, m.KickMember(testServer, 2, 1))
}

func TestGuildsManager_DisbandGuild(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 2, id))

	assert.False(t, m.DisbandGuild(testServer, 2)) // not the owner
	assert.False(t, m.DisbandGuild(testServer, 99))

	assert.True(t, m.DisbandGuild(testServer, 1))
	_, ok := m.GetGuild(testServer, id)
	assert.False(t, ok)
	_, ok = m.GetUserGuild(testServer, 2)
	assert.False(t, ok)
}

func TestGuildsManager_RenameGuild(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "Old Name", "", models.GuildPrivacyPublic, "")

	assert.False(t, m.RenameGuild(testServer, 99, "X"))
	assert.True(t, m.RenameGuild(testServer, 1, "New Name"))

	guild, _ := m.GetGuild(testServer, id)
	assert.Equal(t, "New Name", guild.DisplayName)
}

func TestGuildsManager_GetGuild_ReturnsCopy(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")

	guild, _ := m.GetGuild(testServer, id)
	guild.Members = append(guild.Members, 999)
	guild.DisplayName = "mutated"

	fresh, _ := m.GetGuild(testServer, id)
	assert.Equal(t, []int64{1}, fresh.Members)
	assert.Equal(t, "A", fresh.DisplayName)
}

func TestGuildsManager_ListGuilds_OrderedByID(t *testing.T) {
	m := newTestGuilds(t)
	_, err := m.CreateGuild(testServer, 1, "First", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)
	_, err = m.CreateGuild(testServer, 2, "Second", "", models.GuildPrivacyPasswordLocked, "hunter2")
	require.NoError(t, err)

	listings := m.ListGuilds(testServer)
	require.Len(t, listings, 2)
	assert.Equal(t, "G00001", listings[0].ID)
	assert.Equal(t, "G00002", listings[1].ID)

	assert.Empty(t, m.ListGuilds(999))
}

func TestGuildsManager_GuildLeaderboard(t *testing.T) {
	m := newTestGuilds(t)
	id, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 2, id))
	require.NoError(t, m.JoinGuild(testServer, 3, id))

	balances := stubBalances{1: 100, 2: 500, 3: 100}
	standings := m.GuildLeaderboard(testServer, id, balances)

	require.Len(t, standings, 3)
	assert.Equal(t, int64(2), standings[0].UserID)
	// Ties broken by ascending user ID.
	assert.Equal(t, int64(1), standings[1].UserID)
	assert.Equal(t, int64(3), standings[2].UserID)

	assert.Nil(t, m.GuildLeaderboard(testServer, "NOPE00", balances))
}

func TestGuildsManager_GuildLeaderboardAll(t *testing.T) {
	m := newTestGuilds(t)
	first, _ := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	second, _ := m.CreateGuild(testServer, 2, "B", "", models.GuildPrivacyPublic, "")
	require.NoError(t, m.JoinGuild(testServer, 3, first))

	balances := stubBalances{1: 100, 2: 900, 3: 200}
	standings := m.GuildLeaderboardAll(testServer, balances)

	require.Len(t, standings, 2)
	assert.Equal(t, second, standings[0].GuildID)
	assert.Equal(t, int64(900), standings[0].TotalWealth)
	assert.Equal(t, first, standings[1].GuildID)
	assert.Equal(t, int64(300), standings[1].TotalWealth)
}

func TestGuildsManager_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guilds.json")

	m := NewGuildsManager(path, sequentialIDs(), nil)
	id, err := m.CreateGuild(testServer, 1, "The Volts", "http://img", models.GuildPrivacyPasswordLocked, "hunter2")
	require.NoError(t, err)
	require.NoError(t, m.JoinGuild(testServer, 2, id))
	cap := 6
	require.True(t, m.SetMemberCap(testServer, 1, &cap))
	require.NoError(t, m.Save())

	reloaded := NewGuildsManager(path, sequentialIDs(), nil)
	require.NoError(t, reloaded.Load())

	guild, ok := reloaded.GetGuild(testServer, id)
	require.True(t, ok)
	assert.Equal(t, int64(1), guild.OwnerID)
	assert.Equal(t, "hunter2", guild.Password)
	assert.Equal(t, models.GuildPrivacyPasswordLocked, guild.Privacy)
	assert.Equal(t, []int64{1, 2}, guild.Members)
	require.NotNil(t, guild.MemberCap)
	assert.Equal(t, 6, *guild.MemberCap)

	got, ok := reloaded.GetUserGuild(testServer, 2)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestGuildsManager_Load_CorruptFileResetsAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guilds.json")
	require.NoError(t, writeFile(t, path, "[]"))

	m := NewGuildsManager(path, sequentialIDs(), nil)
	_, err := m.CreateGuild(testServer, 1, "A", "", models.GuildPrivacyPublic, "")
	require.NoError(t, err)

	require.Error(t, m.Load())
	assert.Empty(t, m.ListGuilds(testServer))
}
