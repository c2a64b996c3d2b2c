package economy

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
	"voltbot/events"
)

func (f *Feature) handleRobbery(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	locationKey := common.OptionMap(i)["location"].StringValue()
	location, known := f.catalog.Robbery(locationKey)
	if !known {
		common.RespondWithError(s, i, "Unknown Location", "That location cannot be robbed.")
		return
	}

	inventory := f.economy.GetInventory(serverID, userID)
	if !f.economy.HasItems(serverID, userID, location.RequiredItems) {
		var missing []string
		for _, key := range location.RequiredItems {
			if inventory[key] <= 0 {
				item, _ := f.catalog.Item(key)
				missing = append(missing, item.Name)
			}
		}
		common.RespondWithError(s, i, "Missing Requirements",
			fmt.Sprintf("You need: %s", strings.Join(missing, ", ")))
		f.save()
		return
	}

	if err := common.DeferResponse(s, i); err != nil {
		log.Errorf("Error deferring robbery response: %v", err)
		return
	}

	catchChance := location.BaseCatchChance
	hasMask := inventory["mask"] > 0
	hasBlocker := inventory["license_plate_blocker"] > 0
	if locationKey == "lab" {
		if hasMask {
			catchChance -= 0.05
		}
		if hasBlocker {
			catchChance -= 0.03
		}
	} else {
		if hasMask {
			catchChance -= 0.10
		}
		if hasBlocker {
			catchChance -= 0.25
		}
	}
	if catchChance < 0 {
		catchChance = 0
	}
	if catchChance > 1 {
		catchChance = 1
	}

	progress := common.Embed("Robbery in Progress",
		fmt.Sprintf("Robbing %s... This will take %d seconds.", location.Name, location.TimeSeconds), common.ColorOrange)
	progress.Fields = []*discordgo.MessageEmbedField{
		{Name: "Catch Chance", Value: fmt.Sprintf("%.1f%%", catchChance*100)},
	}
	message, err := common.FollowUpWithEmbed(s, i, progress)
	if err != nil {
		log.Errorf("Error sending robbery progress message: %v", err)
		return
	}

	time.Sleep(time.Duration(location.TimeSeconds) * time.Second)

	wallet, bank := f.economy.GetBalances(serverID, userID)

	var result *discordgo.MessageEmbed
	if rand.Float64() < catchChance {
		walletPenalty := int64(float64(wallet) * location.WalletPenalty)
		bankPenalty := int64(float64(bank) * location.BankPenalty)
		f.economy.DeductWallet(serverID, userID, walletPenalty)
		f.economy.DeductBank(serverID, userID, bankPenalty)

		var seized map[string]int64
		if location.SeizeItems {
			seized = f.economy.SeizeAllItems(serverID, userID)
		}

		description := "You were caught! The robbery failed."
		description += fmt.Sprintf("\nWallet penalty: %s", common.FormatCurrency(walletPenalty))
		description += fmt.Sprintf("\nBank penalty: %s", common.FormatCurrency(bankPenalty))
		if len(seized) > 0 {
			var names []string
			for _, key := range f.catalog.ItemKeys() {
				if seized[key] > 0 {
					item, _ := f.catalog.Item(key)
					names = append(names, item.Name)
				}
			}
			description += fmt.Sprintf("\nSeized items: %s", strings.Join(names, ", "))
		}
		result = common.Embed("Robbery Failed", description, common.ColorRed)
	} else {
		payout := location.MinPayout + rand.Int63n(location.MaxPayout-location.MinPayout+1)
		f.economy.AddWallet(serverID, userID, payout)
		result = common.Embed("Robbery Successful",
			fmt.Sprintf("You successfully robbed %s and got %s!", location.Name, common.FormatCurrency(payout)), common.ColorGreen)
		f.bus.Emit(context.Background(), events.AchievementTriggerEvent{
			ServerID: serverID, UserID: userID, Key: "smooth_criminal",
		})
	}

	common.EditFollowUp(s, i, message.ID, result)
	f.save()
	f.emitBalanceChange(serverID, userID)
}

func (f *Feature) handleMug(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	opts := common.OptionMap(i)
	target := opts["user"].UserValue(s)
	amount := opts["amount"].IntValue()

	targetID, err := common.ParseID(target.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", target.ID, err)
		return
	}

	if targetID == userID {
		common.RespondWithError(s, i, "Invalid Target", "You cannot mug yourself.")
		f.save()
		return
	}
	if amount <= 0 {
		common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to mug.")
		f.save()
		return
	}

	f.economy.EnsureUser(serverID, targetID)
	wallet, _ := f.economy.GetBalances(serverID, targetID)
	if wallet < amount {
		common.RespondWithError(s, i, "Insufficient Funds",
			fmt.Sprintf("%s only has %s in their wallet.", target.Mention(), common.FormatCurrency(wallet)))
		f.save()
		return
	}

	inventory := f.economy.GetInventory(serverID, userID)
	catchChance := 0.50 + float64(amount/20)*0.03
	if inventory["mask"] > 0 {
		catchChance /= 2
	}
	if inventory["license_plate_blocker"] > 0 {
		catchChance /= 2
	}
	if catchChance > 1 {
		catchChance = 1
	}

	if rand.Float64() < catchChance {
		common.RespondWithError(s, i, "Mugging Failed",
			fmt.Sprintf("You were caught trying to mug %s!", target.Mention()))
		f.save()
		return
	}

	if !f.economy.DeductWallet(serverID, targetID, amount) {
		common.RespondWithError(s, i, "Mugging Failed",
			fmt.Sprintf("Failed to steal from %s.", target.Mention()))
		f.save()
		return
	}
	f.economy.AddWallet(serverID, userID, amount)
	common.RespondWithEmbed(s, i, common.Embed("Mugging Successful",
		fmt.Sprintf("You successfully mugged %s and stole %s!", target.Mention(), common.FormatCurrency(amount)), common.ColorGreen))
	f.save()
	f.emitBalanceChange(serverID, userID)
}
