package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"voltbot/bot"
	"voltbot/bot/features/achievements"
	"voltbot/bot/features/economy"
	"voltbot/bot/features/guilds"
	"voltbot/bot/features/jobs"
	"voltbot/catalog"
	"voltbot/config"
	"voltbot/events"
	"voltbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting voltbot...")

	// Load configuration
	cfg := config.Get()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Load static catalogs
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Infof("Catalog loaded: %d items, %d jobs, %d achievements",
		len(cat.Items), len(cat.Jobs), len(cat.Achievements))

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize state managers
	economyManager := service.NewEconomyManager(filepath.Join(cfg.DataDir, "economy.json"), cat, nil)
	jobsManager := service.NewJobsManager(filepath.Join(cfg.DataDir, "jobs.json"), nil)
	guildsManager := service.NewGuildsManager(filepath.Join(cfg.DataDir, "guilds.json"), nil, nil)
	achievementsManager := service.NewAchievementsManager(filepath.Join(cfg.DataDir, "achievements.json"))

	// Load persisted state. A missing file silently starts empty; a
	// corrupt file also starts empty, but we log which happened.
	loadState("economy", economyManager.Load)
	loadState("jobs", jobsManager.Load)
	loadState("guilds", guildsManager.Load)
	loadState("achievements", achievementsManager.Load)

	// Initialize features
	economyFeature := economy.New(cfg, cat, economyManager, eventBus)
	jobsFeature := jobs.New(cat, jobsManager, economyManager, eventBus)
	guildsFeature := guilds.New(cat, guildsManager, economyManager, eventBus)
	achievementsFeature := achievements.New(cat, achievementsManager, economyManager, guildsManager)
	achievementsFeature.Subscribe(eventBus)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}, cat, economyFeature, jobsFeature, guildsFeature, achievementsFeature)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Resume payout loops for jobs held before the last shutdown
	jobsFeature.ResumePayouts()

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Final flush of all manager state
	saveState("economy", economyManager.Save)
	saveState("jobs", jobsManager.Save)
	saveState("guilds", guildsManager.Save)
	saveState("achievements", achievementsManager.Save)

	log.Info("Shutdown completed")
	return nil
}

func loadState(name string, load func() error) {
	if err := load(); err != nil {
		log.Warnf("Resetting %s state to empty after load failure: %v", name, err)
	}
}

func saveState(name string, save func() error) {
	if err := save(); err != nil {
		log.Errorf("Error saving %s state on shutdown: %v", name, err)
	}
}
