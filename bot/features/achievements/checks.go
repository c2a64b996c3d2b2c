package achievements

import (
	"context"

	log "github.com/sirupsen/logrus"

	"voltbot/events"
)

// Balance thresholds and the achievements they unlock, checked in
// ascending order so one windfall can unlock several at once.
var balanceThresholds = []struct {
	total int64
	key   string
}{
	{5_000, "money_lover"},
	{10_000, "money_fiend"},
	{100_000, "money_launderer"},
	{1_000_000, "gifted_by_god"},
	{10_000_000, "savehacking"},
}

// Subscribe wires the unlock checks to the event bus. Every feature
// that changes balances, inventories or guild membership emits an
// event instead of calling into this package directly.
func (f *Feature) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			f.CheckBalance(e.ServerID, e.UserID)
		}
	})
	bus.Subscribe(events.EventTypeInventoryChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.InventoryChangeEvent); ok {
			f.CheckInventory(e.ServerID, e.UserID)
		}
	})
	bus.Subscribe(events.EventTypeGuildMembership, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GuildMembershipEvent); ok {
			f.CheckGuild(e.ServerID, e.UserID)
		}
	})
	bus.Subscribe(events.EventTypeAchievementTrigger, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.AchievementTriggerEvent); ok {
			f.Award(e.ServerID, e.UserID, e.Key)
		}
	})
}

// CheckBalance unlocks any balance-threshold achievements the user's
// total now clears.
func (f *Feature) CheckBalance(serverID, userID int64) {
	total := f.economy.TotalBalance(serverID, userID)
	for _, threshold := range balanceThresholds {
		if total >= threshold.total {
			f.Award(serverID, userID, threshold.key)
		}
	}
}

// CheckInventory unlocks inventory-based achievements.
func (f *Feature) CheckInventory(serverID, userID int64) {
	if f.economy.HasItem(serverID, userID, "admin_itemitemitem") {
		f.Award(serverID, userID, "volt_prize_receiver")
	}
}

// CheckGuild unlocks guild-membership achievements: being in any guild,
// and being in one of the top five guilds by wealth.
func (f *Feature) CheckGuild(serverID, userID int64) {
	guildID, inGuild := f.guilds.GetUserGuild(serverID, userID)
	if !inGuild {
		return
	}
	f.Award(serverID, userID, "guildeer")

	standings := f.guilds.GuildLeaderboardAll(serverID, f.economy)
	if len(standings) > 5 {
		standings = standings[:5]
	}
	for _, standing := range standings {
		if standing.GuildID == guildID {
			f.Award(serverID, userID, "leaderboard")
			return
		}
	}
}

// Award unlocks the achievement and credits its one-time reward. The
// reward is granted only on the locked-to-unlocked transition, so
// repeated awards are harmless.
func (f *Feature) Award(serverID, userID int64, key string) {
	achievement, known := f.catalog.Achievement(key)
	if !known {
		log.Warnf("Ignoring unknown achievement %q", key)
		return
	}
	if !f.achievements.UnlockAchievement(serverID, userID, key) {
		return
	}
	f.economy.AddWallet(serverID, userID, achievement.Reward)
	if err := f.economy.Save(); err != nil {
		log.Errorf("Error saving economy state after achievement reward: %v", err)
	}
	f.save()
	log.WithFields(log.Fields{
		"serverID":    serverID,
		"userID":      userID,
		"achievement": key,
		"reward":      achievement.Reward,
	}).Info("Achievement unlocked")
}
