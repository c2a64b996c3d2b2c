// Package economy implements the money, inventory and crime commands
// on top of the EconomyManager.
package economy

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
	"voltbot/catalog"
	"voltbot/config"
	"voltbot/events"
	"voltbot/service"
)

type Feature struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	economy *service.EconomyManager
	bus     *events.Bus

	mu          sync.Mutex
	coinflips   map[int64]coinflipChallenge
	coinflipSeq int64
}

func New(cfg *config.Config, cat *catalog.Catalog, economy *service.EconomyManager, bus *events.Bus) *Feature {
	return &Feature{
		cfg:       cfg,
		catalog:   cat,
		economy:   economy,
		bus:       bus,
		coinflips: make(map[int64]coinflipChallenge),
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "donate":
		f.handleDonate(s, i)
	case "givemoney":
		f.handleGiveMoney(s, i)
	case "inventory":
		f.handleInventory(s, i)
	case "sell":
		f.handleSell(s, i)
	case "shop":
		f.handleShop(s, i)
	case "giveitem":
		f.handleGiveItem(s, i)
	case "beg":
		f.handleBeg(s, i)
	case "fish":
		f.handleFish(s, i)
	case "gamble":
		f.handleGamble(s, i)
	case "coinflip":
		f.handleCoinflip(s, i)
	case "robbery":
		f.handleRobbery(s, i)
	case "mug":
		f.handleMug(s, i)
	}
}

// save flushes economy state, logging rather than failing the command.
func (f *Feature) save() {
	if err := f.economy.Save(); err != nil {
		log.Errorf("Error saving economy state: %v", err)
	}
}

func (f *Feature) emitBalanceChange(serverID, userID int64) {
	f.bus.Emit(context.Background(), events.BalanceChangeEvent{ServerID: serverID, UserID: userID})
}

func (f *Feature) emitInventoryChange(serverID, userID int64) {
	f.bus.Emit(context.Background(), events.InventoryChangeEvent{ServerID: serverID, UserID: userID})
}

// isAdmin mirrors the admin gate: whitelisted IDs pass outright,
// otherwise the member needs both manage-messages and ban-members.
func (f *Feature) isAdmin(i *discordgo.InteractionCreate) bool {
	if userID, err := common.ParseID(i.Member.User.ID); err == nil && f.cfg.IsAdminWhitelisted(userID) {
		return true
	}
	perms := i.Member.Permissions
	return perms&discordgo.PermissionManageMessages != 0 && perms&discordgo.PermissionBanMembers != 0
}
