package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"voltbot/models"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check wallet and bank balances",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to check",
				},
			},
		},
		{
			Name:        "deposit",
			Description: "Deposit money into your bank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to deposit (omit for everything)",
				},
			},
		},
		{
			Name:        "withdraw",
			Description: "Withdraw money from your bank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to withdraw (omit for everything)",
				},
			},
		},
		{
			Name:        "donate",
			Description: "Donate money to another user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Recipient",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to donate",
					Required:    true,
				},
			},
		},
		{
			Name:        "givemoney",
			Description: "Give money to a user (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to receive money",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to give",
					Required:    true,
				},
			},
		},
		{
			Name:        "inventory",
			Description: "Show your inventory",
		},
		{
			Name:        "sell",
			Description: "Sell items from your inventory",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to sell (omit to sell everything)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "How many to sell (omit for the whole stack)",
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "shop",
			Description: "Buy items from the shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to buy",
					Required:    true,
					Choices:     b.shopChoices(),
				},
			},
		},
		{
			Name:        "giveitem",
			Description: "Give an item to a user (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to receive the item",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to give",
					Required:    true,
					Choices:     b.itemChoices(),
				},
			},
		},
		{
			Name:        "beg",
			Description: "Beg for money",
		},
		{
			Name:        "fish",
			Description: "Go fishing",
		},
		{
			Name:        "gamble",
			Description: "Gamble your money",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to gamble",
					Required:    true,
				},
			},
		},
		{
			Name:        "coinflip",
			Description: "Coinflip another user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Opponent",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to wager",
					Required:    true,
				},
			},
		},
		{
			Name:        "robbery",
			Description: "Rob a location",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "location",
					Description: "Location to rob",
					Required:    true,
					Choices:     b.robberyChoices(),
				},
			},
		},
		{
			Name:        "mug",
			Description: "Mug another user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to mug",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to steal from wallet",
					Required:    true,
				},
			},
		},
		{
			Name:        "applyjob",
			Description: "Apply for a job",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "job",
					Description: "Job to apply for",
					Required:    true,
					Choices:     b.jobChoices(),
				},
			},
		},
		{
			Name:        "quitjob",
			Description: "Quit your current job",
		},
		{
			Name:        "createguild",
			Description: "Create a new guild",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Guild display name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "privacy",
					Description: "Guild privacy",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Public", Value: models.GuildPrivacyPublic},
						{Name: "Password Locked", Value: models.GuildPrivacyPasswordLocked},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "image_url",
					Description: "Guild image URL",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "password",
					Description: "Password (required for password-locked guilds)",
				},
			},
		},
		{
			Name:        "browseguilds",
			Description: "Browse available guilds",
		},
		{
			Name:        "joinguild",
			Description: "Join a guild",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "guild_id",
					Description: "ID of the guild to join",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "password",
					Description: "Password for password-locked guilds",
				},
			},
		},
		{
			Name:        "guildview",
			Description: "View your guild's members",
		},
		{
			Name:        "guildleaderboard",
			Description: "View your guild's leaderboard",
		},
		{
			Name:        "leaderboard",
			Description: "Show the top guilds by total wealth",
		},
		{
			Name:        "guildleave",
			Description: "Leave your guild",
		},
		{
			Name:        "guildkick",
			Description: "Kick a member from your guild (owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to kick",
					Required:    true,
				},
			},
		},
		{
			Name:        "guilddisband",
			Description: "Disband your guild (owner only)",
		},
		{
			Name:        "guildrename",
			Description: "Rename your guild (owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "New guild name",
					Required:    true,
				},
			},
		},
		{
			Name:        "guildcap",
			Description: "Set member cap for your guild (owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "cap",
					Description: "Member cap (omit to clear)",
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "guildtransfer",
			Description: "Transfer ownership of your guild to another member (owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to make owner",
					Required:    true,
				},
			},
		},
		{
			Name:        "guildshowpass",
			Description: "Show the password of your guild (owner only)",
		},
		{
			Name:        "viewachievements",
			Description: "View your achievements",
		},
	}

	for _, command := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, command); err != nil {
			return fmt.Errorf("cannot create command %q: %w", command.Name, err)
		}
	}
	return nil
}

var minOne = float64(1)

func (b *Bot) shopChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(b.catalog.ShopItems))
	for _, key := range b.catalog.ShopItems {
		item, _ := b.catalog.Item(key)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: item.Name, Value: key})
	}
	return choices
}

func (b *Bot) itemChoices() []*discordgo.ApplicationCommandOptionChoice {
	keys := b.catalog.ItemKeys()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, key := range keys {
		item, _ := b.catalog.Item(key)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: item.Name, Value: key})
	}
	return choices
}

func (b *Bot) jobChoices() []*discordgo.ApplicationCommandOptionChoice {
	keys := b.catalog.JobKeys()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, key := range keys {
		job, _ := b.catalog.Job(key)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: job.Name, Value: key})
	}
	return choices
}

func (b *Bot) robberyChoices() []*discordgo.ApplicationCommandOptionChoice {
	keys := b.catalog.RobberyKeys()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, key := range keys {
		location, _ := b.catalog.Robbery(key)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: location.Name, Value: key})
	}
	return choices
}
