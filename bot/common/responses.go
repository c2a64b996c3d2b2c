package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Embed colors matching the palette the bot uses everywhere.
const (
	ColorBlurple = 0x5865F2
	ColorGreen   = 0x57F287
	ColorRed     = 0xED4245
	ColorOrange  = 0xE67E22
)

// Embed builds a basic embed with title, description and color.
func Embed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}

// RespondWithEmbed sends an embed as the interaction response.
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}

// RespondWithComponents sends plain content with message components
// attached, for responses that need buttons.
func RespondWithComponents(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}

// RespondWithError sends a red error embed as the interaction response.
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, title, message string) {
	RespondWithEmbed(s, i, Embed(title, message, ColorRed))
}

// DeferResponse sends a deferred response to give more time for processing
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// FollowUpWithEmbed sends an embed as a follow-up message
func FollowUpWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

// EditFollowUp replaces the embed on a previously sent follow-up.
func EditFollowUp(s *discordgo.Session, i *discordgo.InteractionCreate, messageID string, embed *discordgo.MessageEmbed) {
	_, err := s.FollowupMessageEdit(i.Interaction, messageID, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Errorf("Error editing follow-up message: %v", err)
	}
}

// ParseID converts a Discord snowflake string to int64.
func ParseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// InteractionIDs extracts the server and user IDs from an interaction.
// Returns false for DMs or unparseable snowflakes.
func InteractionIDs(i *discordgo.InteractionCreate) (serverID, userID int64, ok bool) {
	if i.GuildID == "" || i.Member == nil {
		return 0, 0, false
	}
	serverID, err := ParseID(i.GuildID)
	if err != nil {
		return 0, 0, false
	}
	userID, err = ParseID(i.Member.User.ID)
	if err != nil {
		return 0, 0, false
	}
	return serverID, userID, true
}

// OptionMap indexes the interaction's command options by name.
func OptionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		out[opt.Name] = opt
	}
	return out
}
