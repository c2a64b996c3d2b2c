package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}

	target := i.Member.User
	if opt, present := common.OptionMap(i)["user"]; present {
		target = opt.UserValue(s)
		parsed, err := common.ParseID(target.ID)
		if err != nil {
			log.Errorf("Error parsing Discord ID %s: %v", target.ID, err)
			return
		}
		userID = parsed
	}

	wallet, bank := f.economy.GetBalances(serverID, userID)
	embed := common.Embed("Balances", "", common.ColorBlurple)
	embed.Author = &discordgo.MessageEmbedAuthor{
		Name:    target.Username,
		IconURL: target.AvatarURL(""),
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Wallet", Value: common.FormatCurrency(wallet)},
		{Name: "Bank", Value: common.FormatCurrency(bank)},
	}
	common.RespondWithEmbed(s, i, embed)
	f.save()
	f.emitBalanceChange(serverID, userID)
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}

	var moved int64
	if opt, present := common.OptionMap(i)["amount"]; present {
		if opt.IntValue() <= 0 {
			common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to deposit.")
			f.save()
			return
		}
		moved = f.economy.Deposit(serverID, userID, opt.IntValue())
	} else {
		moved = f.economy.DepositAll(serverID, userID)
	}

	if moved <= 0 {
		common.RespondWithError(s, i, "Nothing Deposited", "You have no money in your wallet to deposit.")
		f.save()
		return
	}
	common.RespondWithEmbed(s, i, common.Embed("Deposit Successful",
		fmt.Sprintf("Deposited %s into your bank.", common.FormatCurrency(moved)), common.ColorGreen))
	f.save()
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}

	var moved int64
	if opt, present := common.OptionMap(i)["amount"]; present {
		if opt.IntValue() <= 0 {
			common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to withdraw.")
			f.save()
			return
		}
		moved = f.economy.Withdraw(serverID, userID, opt.IntValue())
	} else {
		moved = f.economy.WithdrawAll(serverID, userID)
	}

	if moved <= 0 {
		common.RespondWithError(s, i, "Nothing Withdrawn", "You have no money in your bank to withdraw.")
		f.save()
		return
	}
	common.RespondWithEmbed(s, i, common.Embed("Withdrawal Successful",
		fmt.Sprintf("Withdrew %s from your bank.", common.FormatCurrency(moved)), common.ColorGreen))
	f.save()
}

func (f *Feature) handleDonate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	opts := common.OptionMap(i)
	recipient := opts["user"].UserValue(s)
	amount := opts["amount"].IntValue()

	recipientID, err := common.ParseID(recipient.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", recipient.ID, err)
		return
	}

	if recipientID == userID {
		common.RespondWithError(s, i, "Invalid Recipient", "You cannot donate to yourself.")
		f.save()
		return
	}
	if amount <= 0 {
		common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to donate.")
		f.save()
		return
	}
	if !f.economy.DeductWallet(serverID, userID, amount) {
		common.RespondWithError(s, i, "Insufficient Funds", "You do not have enough money in your wallet.")
		f.save()
		return
	}
	f.economy.AddWallet(serverID, recipientID, amount)
	common.RespondWithEmbed(s, i, common.Embed("Donation Successful",
		fmt.Sprintf("Donated %s to %s.", common.FormatCurrency(amount), recipient.Mention()), common.ColorGreen))
	f.save()
	f.emitBalanceChange(serverID, recipientID)
}

func (f *Feature) handleGiveMoney(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, _, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	if !f.isAdmin(i) {
		common.RespondWithError(s, i, "Permission Denied", "You must have too many permissions to use this command.")
		f.save()
		return
	}
	opts := common.OptionMap(i)
	recipient := opts["user"].UserValue(s)
	amount := opts["amount"].IntValue()

	recipientID, err := common.ParseID(recipient.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", recipient.ID, err)
		return
	}
	if amount <= 0 {
		common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to give.")
		f.save()
		return
	}
	f.economy.AddWallet(serverID, recipientID, amount)
	common.RespondWithEmbed(s, i, common.Embed("Funds Granted",
		fmt.Sprintf("Gave %s to %s.", common.FormatCurrency(amount), recipient.Mention()), common.ColorGreen))
	f.save()
	f.emitBalanceChange(serverID, recipientID)
}
