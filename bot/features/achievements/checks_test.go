package achievements

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltbot/catalog"
	"voltbot/service"
)

const (
	checkServer = int64(100)
	checkUser   = int64(200)
)

func newCheckFixture(t *testing.T) (*Feature, *service.EconomyManager, *service.AchievementsManager) {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	dir := t.TempDir()
	economy := service.NewEconomyManager(filepath.Join(dir, "economy.json"), cat, rand.New(rand.NewSource(1)))
	achievements := service.NewAchievementsManager(filepath.Join(dir, "achievements.json"))
	guilds := service.NewGuildsManager(filepath.Join(dir, "guilds.json"), nil, nil)
	return New(cat, achievements, economy, guilds), economy, achievements
}

// Viewing a balance runs the same threshold checks as a mutation, so
// money that arrived without an unlock check still counts.
func TestCheckBalance_UnlocksFromExistingFunds(t *testing.T) {
	f, economy, achievements := newCheckFixture(t)
	economy.AddWallet(checkServer, checkUser, 4_000)
	economy.AddBank(checkServer, checkUser, 8_000)

	f.CheckBalance(checkServer, checkUser)

	unlocked := achievements.GetUserAchievements(checkServer, checkUser)
	assert.Contains(t, unlocked, "money_lover")
	assert.Contains(t, unlocked, "money_fiend")
	assert.NotContains(t, unlocked, "money_launderer")
}

func TestCheckBalance_BelowThresholdUnlocksNothing(t *testing.T) {
	f, economy, achievements := newCheckFixture(t)
	economy.AddWallet(checkServer, checkUser, 4_999)

	f.CheckBalance(checkServer, checkUser)

	assert.Empty(t, achievements.GetUserAchievements(checkServer, checkUser))
}

func TestCheckBalance_RepeatViewDoesNotRepayReward(t *testing.T) {
	f, economy, _ := newCheckFixture(t)
	cat, err := catalog.Load("")
	require.NoError(t, err)
	reward := int64(0)
	if achievement, known := cat.Achievement("money_lover"); known {
		reward = achievement.Reward
	}

	economy.AddWallet(checkServer, checkUser, 5_000)
	f.CheckBalance(checkServer, checkUser)
	walletAfterFirst, _ := economy.GetBalances(checkServer, checkUser)
	require.Equal(t, 5_000+reward, walletAfterFirst)

	f.CheckBalance(checkServer, checkUser)
	walletAfterSecond, _ := economy.GetBalances(checkServer, checkUser)
	assert.Equal(t, walletAfterFirst, walletAfterSecond)
}
