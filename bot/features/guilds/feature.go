// Package guilds implements the player-guild commands on top of the
// GuildsManager.
package guilds

import (
	"context"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/catalog"
	"voltbot/events"
	"voltbot/service"
)

type Feature struct {
	catalog *catalog.Catalog
	guilds  *service.GuildsManager
	economy *service.EconomyManager
	bus     *events.Bus
}

func New(cat *catalog.Catalog, guilds *service.GuildsManager, economy *service.EconomyManager, bus *events.Bus) *Feature {
	return &Feature{
		catalog: cat,
		guilds:  guilds,
		economy: economy,
		bus:     bus,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "createguild":
		f.handleCreate(s, i)
	case "browseguilds":
		f.handleBrowse(s, i)
	case "joinguild":
		f.handleJoin(s, i)
	case "guildview":
		f.handleView(s, i)
	case "guildleaderboard":
		f.handleGuildLeaderboard(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "guildleave":
		f.handleLeave(s, i)
	case "guildkick":
		f.handleKick(s, i)
	case "guilddisband":
		f.handleDisband(s, i)
	case "guildrename":
		f.handleRename(s, i)
	case "guildcap":
		f.handleCap(s, i)
	case "guildtransfer":
		f.handleTransfer(s, i)
	case "guildshowpass":
		f.handleShowPassword(s, i)
	}
}

func (f *Feature) save() {
	if err := f.guilds.Save(); err != nil {
		log.Errorf("Error saving guilds state: %v", err)
	}
}

func (f *Feature) emitMembershipChange(serverID, userID int64) {
	f.bus.Emit(context.Background(), events.GuildMembershipEvent{ServerID: serverID, UserID: userID})
}
