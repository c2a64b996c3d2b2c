package economy

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"voltbot/bot/common"
)

// coinflipTimeout is how long a challenge stays open before it expires.
const coinflipTimeout = time.Minute

type coinflipChallenge struct {
	serverID     int64
	challengerID int64
	targetID     int64
	amount       int64
}

type coinflipClaim int

const (
	coinflipClaimed coinflipClaim = iota
	coinflipNotTarget
	coinflipGone
)

// addCoinflip registers a pending challenge and returns its ID.
func (f *Feature) addCoinflip(ch coinflipChallenge) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coinflipSeq++
	id := f.coinflipSeq
	f.coinflips[id] = ch
	return id
}

// claimCoinflip removes a pending challenge when the target acts on it.
// Presses by anyone else leave the challenge pending.
func (f *Feature) claimCoinflip(id, userID int64) (coinflipChallenge, coinflipClaim) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.coinflips[id]
	if !ok {
		return coinflipChallenge{}, coinflipGone
	}
	if userID != ch.targetID {
		return coinflipChallenge{}, coinflipNotTarget
	}
	delete(f.coinflips, id)
	return ch, coinflipClaimed
}

// expireCoinflip drops a challenge that was never answered. Returns false
// when the challenge was already claimed.
func (f *Feature) expireCoinflip(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.coinflips[id]; !ok {
		return false
	}
	delete(f.coinflips, id)
	return true
}

// settleCoinflip moves the money for an accepted challenge. Both wallets
// are re-verified because balances may have changed since the challenge
// was posted. A non-empty failure message means no money moved.
func (f *Feature) settleCoinflip(ch coinflipChallenge) (winnerID int64, failure string) {
	if !f.economy.HasWallet(ch.serverID, ch.challengerID, ch.amount) {
		return 0, fmt.Sprintf("<@%d> does not have enough funds for the coinflip.", ch.challengerID)
	}
	if !f.economy.HasWallet(ch.serverID, ch.targetID, ch.amount) {
		return 0, fmt.Sprintf("<@%d> does not have enough funds for the coinflip.", ch.targetID)
	}
	if !f.economy.DeductWallet(ch.serverID, ch.challengerID, ch.amount) {
		return 0, fmt.Sprintf("<@%d> no longer has enough funds for the coinflip.", ch.challengerID)
	}
	if !f.economy.DeductWallet(ch.serverID, ch.targetID, ch.amount) {
		f.economy.AddWallet(ch.serverID, ch.challengerID, ch.amount)
		return 0, fmt.Sprintf("<@%d> no longer has enough funds for the coinflip.", ch.targetID)
	}
	winnerID = ch.challengerID
	if rand.Intn(2) == 1 {
		winnerID = ch.targetID
	}
	f.economy.AddWallet(ch.serverID, winnerID, ch.amount*2)
	return winnerID, ""
}

func coinflipComponents(id int64, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Accept",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("coinflip_accept_%d", id),
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Decline",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("coinflip_decline_%d", id),
					Disabled: disabled,
				},
			},
		},
	}
}

func (f *Feature) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	serverID, userID, ok := common.InteractionIDs(i)
	if !ok {
		return
	}
	opts := common.OptionMap(i)
	opponent := opts["user"].UserValue(s)
	amount := opts["amount"].IntValue()

	opponentID, err := common.ParseID(opponent.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", opponent.ID, err)
		return
	}

	if opponentID == userID {
		common.RespondWithError(s, i, "Invalid Opponent", "You cannot coinflip yourself.")
		f.save()
		return
	}
	if amount <= 0 {
		common.RespondWithError(s, i, "Invalid Amount", "Enter a positive amount to wager.")
		f.save()
		return
	}
	if !f.economy.HasWallet(serverID, userID, amount) {
		common.RespondWithError(s, i, "Insufficient Funds", "You do not have enough money in your wallet.")
		f.save()
		return
	}
	f.economy.EnsureUser(serverID, opponentID)
	if !f.economy.HasWallet(serverID, opponentID, amount) {
		common.RespondWithError(s, i, "Opponent Funds",
			fmt.Sprintf("%s does not have enough money to coinflip.", opponent.Mention()))
		f.save()
		return
	}

	id := f.addCoinflip(coinflipChallenge{
		serverID:     serverID,
		challengerID: userID,
		targetID:     opponentID,
		amount:       amount,
	})
	content := fmt.Sprintf("%s challenged %s to a coinflip for %s.",
		i.Member.User.Mention(), opponent.Mention(), common.FormatCurrency(amount))
	common.RespondWithComponents(s, i, content, coinflipComponents(id, false))
	f.save()

	interaction := i.Interaction
	time.AfterFunc(coinflipTimeout, func() {
		if !f.expireCoinflip(id) {
			return
		}
		expired := "Coinflip request expired."
		disabled := coinflipComponents(id, true)
		if _, err := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
			Content:    &expired,
			Components: &disabled,
		}); err != nil {
			log.Errorf("Error expiring coinflip message: %v", err)
		}
	})
}

// HandleComponent routes coinflip accept/decline button presses.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, "_")
	if len(parts) != 3 {
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}
	userID, err := common.ParseID(i.Member.User.ID)
	if err != nil {
		return
	}

	ch, claim := f.claimCoinflip(id, userID)
	if claim != coinflipClaimed {
		// Presses by non-targets and on settled challenges are ignored.
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}); err != nil {
			log.Errorf("Error deferring coinflip interaction: %v", err)
		}
		return
	}

	switch parts[1] {
	case "accept":
		f.resolveCoinflip(s, i, id, ch)
	case "decline":
		f.updateCoinflipMessage(s, i, id,
			fmt.Sprintf("<@%d> declined the coinflip from <@%d>.", ch.targetID, ch.challengerID))
	}
}

func (f *Feature) resolveCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate, id int64, ch coinflipChallenge) {
	winnerID, failure := f.settleCoinflip(ch)
	if failure != "" {
		f.updateCoinflipMessage(s, i, id, failure)
		f.save()
		return
	}
	f.updateCoinflipMessage(s, i, id,
		fmt.Sprintf("<@%d> accepted the coinflip from <@%d>. <@%d> wins %s.",
			ch.targetID, ch.challengerID, winnerID, common.FormatCurrency(ch.amount)))
	f.save()
	f.emitBalanceChange(ch.serverID, winnerID)
}

func (f *Feature) updateCoinflipMessage(s *discordgo.Session, i *discordgo.InteractionCreate, id int64, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: coinflipComponents(id, true),
		},
	})
	if err != nil {
		log.Errorf("Error updating coinflip message: %v", err)
	}
}
