package economy

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
)

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	inventory := f.economy.GetInventory(serverID, userID)
	if len(inventory) == 0 {
		common.RespondWithEmbed(s, i, common.Embed("Inventory", "Your inventory is empty.", common.ColorBlurple))
		return
	}

	var lines []string
	for _, key := range f.catalog.ItemKeys() {
		count, held := inventory[key]
		if !held {
			continue
		}
		item, _ := f.catalog.Item(key)
		lines = append(lines, fmt.Sprintf("**%s** × %d", item.Name, count))
	}
	common.RespondWithEmbed(s, i, common.Embed("Inventory", strings.Join(lines, "\n"), common.ColorBlurple))
}

func (f *Feature) handleSell(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	opts := common.OptionMap(i)

	itemKey := ""
	if opt, present := opts["item"]; present {
		resolved, known := f.catalog.ResolveItemKey(opt.StringValue())
		if !known {
			common.RespondWithError(s, i, "Unknown Item", "That item does not exist.")
			return
		}
		itemKey = resolved
	}
	var quantity int64
	if opt, present := opts["amount"]; present {
		if opt.IntValue() <= 0 {
			common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to sell.")
			f.save()
			return
		}
		quantity = opt.IntValue()
	}

	details, total := f.economy.SellItems(serverID, userID, itemKey, quantity)
	if len(details) == 0 {
		common.RespondWithError(s, i, "Nothing Sold", "You have nothing sellable to sell.")
		f.save()
		return
	}

	var lines []string
	for _, sold := range details {
		item, _ := f.catalog.Item(sold.ItemKey)
		lines = append(lines, fmt.Sprintf("**%s** × %d — %s", item.Name, sold.Quantity, common.FormatCurrency(sold.Value)))
	}
	embed := common.Embed("Items Sold", strings.Join(lines, "\n"), common.ColorGreen)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Total Earned", Value: common.FormatCurrency(total)},
	}
	common.RespondWithEmbed(s, i, embed)
	f.save()
	f.emitBalanceChange(serverID, userID)
}

func (f *Feature) handleShop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	itemKey := common.OptionMap(i)["item"].StringValue()
	item, known := f.catalog.Item(itemKey)
	if !known {
		common.RespondWithError(s, i, "Unknown Item", "That item is not for sale.")
		return
	}

	if !f.economy.DeductWallet(serverID, userID, item.Price) {
		common.RespondWithError(s, i, "Insufficient Funds",
			fmt.Sprintf("You need %s to buy %s.", common.FormatCurrency(item.Price), item.Name))
		f.save()
		return
	}
	f.economy.AddItem(serverID, userID, itemKey, 1)
	common.RespondWithEmbed(s, i, common.Embed("Purchase Successful",
		fmt.Sprintf("Bought %s for %s.", item.Name, common.FormatCurrency(item.Price)), common.ColorGreen))
	f.save()
	f.emitInventoryChange(serverID, userID)
}

func (f *Feature) handleGiveItem(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, _, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	if !f.isAdmin(i) {
		common.RespondWithError(s, i, "Permission Denied", "You must have a whole lotta permissions to use this command.")
		f.save()
		return
	}
	opts := common.OptionMap(i)
	recipient := opts["user"].UserValue(s)
	itemKey := opts["item"].StringValue()

	recipientID, err := common.ParseID(recipient.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", recipient.ID, err)
		return
	}
	item, known := f.catalog.Item(itemKey)
	if !known {
		common.RespondWithError(s, i, "Unknown Item", "That item does not exist.")
		return
	}
	f.economy.AddItem(serverID, recipientID, itemKey, 1)
	common.RespondWithEmbed(s, i, common.Embed("Item Granted",
		fmt.Sprintf("Gave %s to %s.", item.Name, recipient.Mention()), common.ColorGreen))
	f.save()
	f.emitInventoryChange(serverID, recipientID)
}
