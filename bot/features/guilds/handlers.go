package guilds

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
	"voltbot/events"
	"voltbot/models"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	opts := common.OptionMap(i)
	displayName := opts["name"].StringValue()
	imageURL := ""
	if opt, present := opts["image_url"]; present {
		imageURL = opt.StringValue()
	}
	privacy := opts["privacy"].StringValue()
	password := ""
	if opt, present := opts["password"]; present {
		password = opt.StringValue()
	}

	cost := f.catalog.GuildCreationCost
	if !f.economy.HasWallet(serverID, userID, cost) {
		common.RespondWithError(s, i, "Insufficient Funds",
			fmt.Sprintf("You need %s to create a guild.", common.FormatCurrency(cost)))
		return
	}
	if privacy == models.GuildPrivacyPasswordLocked && password == "" {
		common.RespondWithError(s, i, "Password Required", "Password is required for password-locked guilds.")
		return
	}

	guildID, err := f.guilds.CreateGuild(serverID, userID, displayName, imageURL, privacy, password)
	if err != nil {
		common.RespondWithError(s, i, "Creation Failed", err.Error())
		return
	}
	f.economy.DeductWallet(serverID, userID, cost)
	if saveErr := f.economy.Save(); saveErr != nil {
		log.Errorf("Error saving economy state: %v", saveErr)
	}
	f.save()

	f.bus.Emit(context.Background(), events.AchievementTriggerEvent{
		ServerID: serverID, UserID: userID, Key: "guildmaster",
	})

	common.RespondWithEmbed(s, i, common.Embed("Guild Created",
		fmt.Sprintf("Successfully created guild **%s**!\nGuild ID: `%s`", displayName, guildID), common.ColorGreen))
}

func (f *Feature) handleBrowse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, _, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	listings := f.guilds.ListGuilds(serverID)
	if len(listings) == 0 {
		common.RespondWithEmbed(s, i, common.Embed("No Guilds", "No guilds are available.", common.ColorBlurple))
		return
	}

	var lines []string
	for _, listing := range listings {
		lock := ""
		if listing.Guild.Privacy == models.GuildPrivacyPasswordLocked {
			lock = " 🔒"
		}
		lines = append(lines, fmt.Sprintf("`%s` **%s**%s — %d members",
			listing.ID, listing.Guild.DisplayName, lock, len(listing.Guild.Members)))
	}
	common.RespondWithEmbed(s, i, common.Embed("Guilds", strings.Join(lines, "\n"), common.ColorBlurple))
}

func (f *Feature) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	opts := common.OptionMap(i)
	guildID := strings.ToUpper(opts["guild_id"].StringValue())

	guild, found := f.guilds.GetGuild(serverID, guildID)
	if !found {
		common.RespondWithError(s, i, "Guild Not Found", "That guild does not exist.")
		return
	}

	if guild.Privacy == models.GuildPrivacyPasswordLocked {
		password := ""
		if opt, present := opts["password"]; present {
			password = opt.StringValue()
		}
		if password == "" {
			common.RespondWithError(s, i, "Password Required",
				fmt.Sprintf("**%s** is password locked. Provide the password option.", guild.DisplayName))
			return
		}
		if password != guild.Password {
			common.RespondWithError(s, i, "Wrong Password", "Incorrect password.")
			return
		}
	}

	if err := f.guilds.JoinGuild(serverID, userID, guildID); err != nil {
		common.RespondWithError(s, i, "Join Failed", err.Error())
		return
	}
	f.save()
	f.emitMembershipChange(serverID, userID)
	common.RespondWithEmbed(s, i, common.Embed("Joined Guild",
		fmt.Sprintf("You joined **%s**!", guild.DisplayName), common.ColorGreen))
}

func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	guildID, inGuild := f.guilds.GetUserGuild(serverID, userID)
	if !inGuild {
		common.RespondWithError(s, i, "No Guild", "You are not in a guild.")
		return
	}
	guild, found := f.guilds.GetGuild(serverID, guildID)
	if !found {
		common.RespondWithError(s, i, "No Guild", "You are not in a guild.")
		return
	}

	var members []string
	for _, memberID := range guild.Members {
		tag := ""
		if memberID == guild.OwnerID {
			tag = " 👑"
		}
		members = append(members, fmt.Sprintf("<@%d>%s", memberID, tag))
	}
	capText := "None"
	if guild.MemberCap != nil {
		capText = fmt.Sprintf("%d", *guild.MemberCap)
	}
	embed := common.Embed(guild.DisplayName, strings.Join(members, "\n"), common.ColorBlurple)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Guild ID", Value: fmt.Sprintf("`%s`", guildID), Inline: true},
		{Name: "Member Cap", Value: capText, Inline: true},
		{Name: "Created", Value: common.FormatDiscordTimestamp(guild.CreatedAt, "R"), Inline: true},
	}
	if guild.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.ImageURL}
	}
	common.RespondWithEmbed(s, i, embed)
}

func (f *Feature) handleGuildLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	guildID, inGuild := f.guilds.GetUserGuild(serverID, userID)
	if !inGuild {
		common.RespondWithError(s, i, "No Guild", "You are not in a guild.")
		return
	}
	guild, _ := f.guilds.GetGuild(serverID, guildID)
	standings := f.guilds.GuildLeaderboard(serverID, guildID, f.economy)

	var lines []string
	for rank, entry := range standings {
		lines = append(lines, fmt.Sprintf("%d. <@%d> — %s", rank+1, entry.UserID, common.FormatCurrency(entry.Total)))
	}
	title := "Guild Leaderboard"
	if guild != nil {
		title = fmt.Sprintf("%s Leaderboard", guild.DisplayName)
	}
	common.RespondWithEmbed(s, i, common.Embed(title, strings.Join(lines, "\n"), common.ColorBlurple))
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, _, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	standings := f.guilds.GuildLeaderboardAll(serverID, f.economy)
	if len(standings) == 0 {
		common.RespondWithEmbed(s, i, common.Embed("Leaderboard", "No guilds exist yet.", common.ColorBlurple))
		return
	}

	var lines []string
	var topImage string
	for rank, standing := range standings {
		if rank >= 10 {
			break
		}
		guild, found := f.guilds.GetGuild(serverID, standing.GuildID)
		if !found {
			continue
		}
		if rank == 0 {
			topImage = guild.ImageURL
		}
		lines = append(lines, fmt.Sprintf("%d. **%s** (`%s`) • %s • %d members",
			rank+1, guild.DisplayName, standing.GuildID,
			common.FormatCurrency(standing.TotalWealth), len(guild.Members)))
	}
	embed := common.Embed("Guild Leaderboard", strings.Join(lines, "\n"), common.ColorBlurple)
	if topImage != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: topImage}
	}
	common.RespondWithEmbed(s, i, embed)

	// Being in a top-5 guild can unlock the leaderboard achievement.
	for rank, standing := range standings {
		if rank >= 5 {
			break
		}
		if guild, found := f.guilds.GetGuild(serverID, standing.GuildID); found {
			for _, memberID := range guild.Members {
				f.emitMembershipChange(serverID, memberID)
			}
		}
	}
}

func (f *Feature) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	guildID, _ := f.guilds.GetUserGuild(serverID, userID)
	guild, _ := f.guilds.GetGuild(serverID, guildID)

	if !f.guilds.LeaveGuild(serverID, userID) {
		common.RespondWithError(s, i, "No Guild", "You are not in a guild.")
		return
	}
	f.save()

	if guild != nil && guild.OwnerID == userID {
		common.RespondWithEmbed(s, i, common.Embed("Guild Disbanded",
			fmt.Sprintf("You left **%s**. As the owner, leaving disbanded the guild.", guild.DisplayName), common.ColorOrange))
		return
	}
	name := "your guild"
	if guild != nil {
		name = fmt.Sprintf("**%s**", guild.DisplayName)
	}
	common.RespondWithEmbed(s, i, common.Embed("Left Guild",
		fmt.Sprintf("You left %s.", name), common.ColorOrange))
}

func (f *Feature) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	target := common.OptionMap(i)["user"].UserValue(s)
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", target.ID, err)
		return
	}

	if err := f.guilds.KickMember(serverID, userID, targetID); err != nil {
		common.RespondWithError(s, i, "Kick Failed", err.Error())
		return
	}
	f.save()
	common.RespondWithEmbed(s, i, common.Embed("Member Kicked",
		fmt.Sprintf("Kicked %s from the guild.", target.Mention()), common.ColorOrange))
}

func (f *Feature) handleDisband(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	if !f.guilds.DisbandGuild(serverID, userID) {
		common.RespondWithError(s, i, "Disband Failed", "You are not the owner of a guild.")
		return
	}
	f.save()
	common.RespondWithEmbed(s, i, common.Embed("Guild Disbanded", "Your guild has been disbanded.", common.ColorOrange))
}

func (f *Feature) handleRename(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	newName := common.OptionMap(i)["name"].StringValue()
	if !f.guilds.RenameGuild(serverID, userID, newName) {
		common.RespondWithError(s, i, "Rename Failed", "You are not the owner of a guild.")
		return
	}
	f.save()
	common.RespondWithEmbed(s, i, common.Embed("Guild Renamed",
		fmt.Sprintf("Your guild is now called **%s**.", newName), common.ColorGreen))
}

func (f *Feature) handleCap(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	var cap *int
	if opt, present := common.OptionMap(i)["cap"]; present {
		value := int(opt.IntValue())
		if value <= 0 {
			common.RespondWithError(s, i, "Invalid Cap", "Member cap must be positive.")
			return
		}
		cap = &value
	}
	if !f.guilds.SetMemberCap(serverID, userID, cap) {
		common.RespondWithError(s, i, "Cap Not Set", "You are not the owner of a guild.")
		return
	}
	f.save()
	if cap == nil {
		common.RespondWithEmbed(s, i, common.Embed("Member Cap Cleared", "Your guild no longer has a member cap.", common.ColorGreen))
		return
	}
	common.RespondWithEmbed(s, i, common.Embed("Member Cap Set",
		fmt.Sprintf("Your guild's member cap is now %d.", *cap), common.ColorGreen))
}

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	target := common.OptionMap(i)["user"].UserValue(s)
	targetID, err := common.ParseID(target.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", target.ID, err)
		return
	}

	if err := f.guilds.TransferOwnership(serverID, userID, targetID); err != nil {
		common.RespondWithError(s, i, "Transfer Failed", err.Error())
		return
	}
	f.save()
	common.RespondWithEmbed(s, i, common.Embed("Ownership Transferred",
		fmt.Sprintf("%s is now the guild owner.", target.Mention()), common.ColorGreen))
}

func (f *Feature) handleShowPassword(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	guildID, inGuild := f.guilds.GetUserGuild(serverID, userID)
	if !inGuild {
		common.RespondWithError(s, i, "No Guild", "You are not in a guild.")
		return
	}
	guild, found := f.guilds.GetGuild(serverID, guildID)
	if !found || guild.OwnerID != userID {
		common.RespondWithError(s, i, "Not Owner", "You are not the owner of this guild.")
		return
	}
	if guild.Password == "" {
		common.RespondWithEmbed(s, i, common.Embed("Guild Password", "Your guild has no password.", common.ColorBlurple))
		return
	}
	// Private response, only the owner should see it.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{common.Embed("Guild Password",
				fmt.Sprintf("||%s||", guild.Password), common.ColorBlurple)},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to guildshowpass: %v", err)
	}
}
