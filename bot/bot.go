package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/features/achievements"
	"voltbot/bot/features/economy"
	"voltbot/bot/features/guilds"
	"voltbot/bot/features/jobs"
	"voltbot/catalog"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config  Config
	session *discordgo.Session
	catalog *catalog.Catalog

	economyFeature      *economy.Feature
	jobsFeature         *jobs.Feature
	guildsFeature       *guilds.Feature
	achievementsFeature *achievements.Feature
}

func New(config Config, cat *catalog.Catalog, economyFeature *economy.Feature, jobsFeature *jobs.Feature, guildsFeature *guilds.Feature, achievementsFeature *achievements.Feature) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:              config,
		session:             dg,
		catalog:             cat,
		economyFeature:      economyFeature,
		jobsFeature:         jobsFeature,
		guildsFeature:       guildsFeature,
		achievementsFeature: achievementsFeature,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	b.jobsFeature.StopAllPayouts()
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionMessageComponent {
		if strings.HasPrefix(i.MessageComponentData().CustomID, "coinflip_") {
			b.economyFeature.HandleComponent(s, i)
		}
		return
	}
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	log.WithFields(log.Fields{
		"command": name,
		"guildID": i.GuildID,
	}).Debug("Handling slash command")

	switch name {
	case "balance", "deposit", "withdraw", "donate", "givemoney",
		"inventory", "sell", "shop", "giveitem",
		"beg", "fish", "gamble", "coinflip", "robbery", "mug":
		b.economyFeature.HandleCommand(s, i)
	case "applyjob", "quitjob":
		b.jobsFeature.HandleCommand(s, i)
	case "createguild", "browseguilds", "joinguild", "guildview",
		"guildleaderboard", "leaderboard", "guildleave", "guildkick",
		"guilddisband", "guildrename", "guildcap", "guildtransfer",
		"guildshowpass":
		b.guildsFeature.HandleCommand(s, i)
	case "viewachievements":
		b.achievementsFeature.HandleCommand(s, i)
	}
}
