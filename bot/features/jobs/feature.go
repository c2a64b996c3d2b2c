// Package jobs implements job applications, quitting and the periodic
// payout loops.
package jobs

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
	"voltbot/catalog"
	"voltbot/events"
	"voltbot/service"
)

type payoutKey struct {
	serverID int64
	userID   int64
}

type Feature struct {
	catalog *catalog.Catalog
	jobs    *service.JobsManager
	economy *service.EconomyManager
	bus     *events.Bus

	mu      sync.Mutex
	payouts map[payoutKey]payoutHandle
	gen     uint64
}

func New(cat *catalog.Catalog, jobs *service.JobsManager, economy *service.EconomyManager, bus *events.Bus) *Feature {
	return &Feature{
		catalog: cat,
		jobs:    jobs,
		economy: economy,
		bus:     bus,
		payouts: make(map[payoutKey]payoutHandle),
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "applyjob":
		f.handleApplyJob(s, i)
	case "quitjob":
		f.handleQuitJob(s, i)
	}
}

func (f *Feature) save() {
	if err := f.jobs.Save(); err != nil {
		log.Errorf("Error saving jobs state: %v", err)
	}
}

func (f *Feature) handleApplyJob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	jobKey := common.OptionMap(i)["job"].StringValue()
	job, known := f.catalog.Job(jobKey)
	if !known {
		common.RespondWithError(s, i, "Unknown Job", "That job does not exist.")
		return
	}

	allowed, reason := f.jobs.CanApply(serverID, userID)
	if !allowed {
		common.RespondWithError(s, i, "Cannot Apply", reason)
		f.save()
		return
	}

	if rand.Float64() < job.DeclineChance {
		f.jobs.SetDeclineCooldown(serverID, userID)
		common.RespondWithError(s, i, "Application Declined",
			fmt.Sprintf("Your application for %s was declined. You cannot reapply for 10 minutes.", job.Name))
		f.save()
		return
	}

	f.jobs.SetJob(serverID, userID, jobKey)
	f.jobs.ClearCooldown(serverID, userID)
	f.startPayout(serverID, userID, jobKey)

	f.bus.Emit(context.Background(), events.AchievementTriggerEvent{
		ServerID: serverID, UserID: userID, Key: "minimum_wage_slave",
	})

	common.RespondWithEmbed(s, i, common.Embed("Application Accepted",
		fmt.Sprintf("Congratulations! You got the job as %s. You will earn %s per minute.",
			job.Name, common.FormatCurrency(job.PayoutPerMinute)), common.ColorGreen))
	f.save()
}

func (f *Feature) handleQuitJob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	jobKey, employed := f.jobs.GetJob(serverID, userID)
	if !employed {
		common.RespondWithError(s, i, "No Job", "You don't have a job to quit.")
		f.save()
		return
	}

	job, _ := f.catalog.Job(jobKey)
	f.jobs.SetJob(serverID, userID, "")
	f.stopPayout(serverID, userID)

	common.RespondWithEmbed(s, i, common.Embed("Job Quit",
		fmt.Sprintf("You quit your job as %s.", job.Name), common.ColorOrange))
	f.save()
}
