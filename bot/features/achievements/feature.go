// Package achievements implements achievement viewing and the unlock
// checks driven by the event bus.
package achievements

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
	"voltbot/catalog"
	"voltbot/service"
)

type Feature struct {
	catalog      *catalog.Catalog
	achievements *service.AchievementsManager
	economy      *service.EconomyManager
	guilds       *service.GuildsManager
}

func New(cat *catalog.Catalog, achievements *service.AchievementsManager, economy *service.EconomyManager, guilds *service.GuildsManager) *Feature {
	return &Feature{
		catalog:      cat,
		achievements: achievements,
		economy:      economy,
		guilds:       guilds,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleView(s, i)
}

func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	unlocked := f.achievements.GetUserAchievements(serverID, userID)

	var lines []string
	for _, key := range f.catalog.AchievementKeys() {
		achievement, _ := f.catalog.Achievement(key)
		marker := "🔒"
		if _, done := unlocked[key]; done {
			marker = "🏆"
		}
		lines = append(lines, fmt.Sprintf("%s **%s** — %s (%s)",
			marker, achievement.Name, achievement.Description, common.FormatCurrency(achievement.Reward)))
	}
	common.RespondWithEmbed(s, i, common.Embed("Achievements", strings.Join(lines, "\n"), common.ColorBlurple))
}

func (f *Feature) save() {
	if err := f.achievements.Save(); err != nil {
		log.Errorf("Error saving achievements state: %v", err)
	}
}
