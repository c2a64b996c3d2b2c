package economy

import (
	"fmt"
	"math/rand"

	"github.com/bwmarrin/discordgo"

	"voltbot/bot/common"
)

func (f *Feature) handleBeg(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}

	var description string
	roll := rand.Float64()
	switch {
	case roll < 0.33:
		description = "You received nothing."
	case roll < 0.66:
		amount := int64(3 + rand.Intn(3))
		f.economy.AddWallet(serverID, userID, amount)
		description = fmt.Sprintf("You received %s.", common.FormatCurrency(amount))
	case roll < 0.81:
		amount := int64(9 + rand.Intn(8))
		f.economy.AddWallet(serverID, userID, amount)
		description = fmt.Sprintf("You received %s.", common.FormatCurrency(amount))
	case roll < 0.86:
		f.economy.AddItem(serverID, userID, "golden_potato", 1)
		description = "You found a Golden Potato."
		f.emitInventoryChange(serverID, userID)
	case roll < 0.87:
		f.economy.AddBank(serverID, userID, 120)
		description = "You found a wallet with $120 and placed it in your bank."
	default:
		description = "You received nothing."
	}

	common.RespondWithEmbed(s, i, common.Embed("Begging Results", description, common.ColorBlurple))
	f.save()
	f.emitBalanceChange(serverID, userID)
}

func (f *Feature) handleFish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}

	catch := ""
	roll := rand.Float64()
	switch {
	case roll < 0.20:
		catch = "rainbow_trout"
	case roll < 0.35:
		catch = "bass"
	case roll < 0.50:
		catch = "sunfish"
	case roll < 0.60:
		catch = "spearfish"
	case roll < 0.70:
		catch = "voltfish"
	case roll < 0.701:
		catch = "angel_o8"
	}

	if catch == "" {
		common.RespondWithEmbed(s, i, common.Embed("Fishing Results", "You caught nothing.", common.ColorBlurple))
		f.save()
		return
	}
	f.economy.AddItem(serverID, userID, catch, 1)
	item, _ := f.catalog.Item(catch)
	common.RespondWithEmbed(s, i, common.Embed("Fishing Results",
		fmt.Sprintf("You caught a %s.", item.Name), common.ColorBlurple))
	f.save()
	f.emitInventoryChange(serverID, userID)
}

func (f *Feature) handleGamble(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	amount := common.OptionMap(i)["amount"].IntValue()
	if amount <= 0 {
		common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to gamble.")
		f.save()
		return
	}
	if !f.economy.DeductWallet(serverID, userID, amount) {
		common.RespondWithError(s, i, "Insufficient Funds", "You do not have enough money in your wallet.")
		f.save()
		return
	}

	var result string
	roll := rand.Float64()
	switch {
	case roll < 0.70:
		returned := amount / 2
		if returned > 0 {
			f.economy.AddWallet(serverID, userID, returned)
		}
		result = fmt.Sprintf("You halved your bet and received %s.", common.FormatCurrency(returned))
	case roll < 0.80:
		result = "You lost everything you gambled."
	default:
		winnings := amount * 2
		f.economy.AddWallet(serverID, userID, winnings)
		result = fmt.Sprintf("You doubled your bet and won %s.", common.FormatCurrency(winnings))
	}

	common.RespondWithEmbed(s, i, common.Embed("Gamble Results", result, common.ColorBlurple))
	f.save()
	f.emitBalanceChange(serverID, userID)
}
