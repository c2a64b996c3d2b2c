package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"strconv"
	"sync"
	"time"

	"voltbot/models"
	"voltbot/storage"
)

// Guild precondition failures. The messages are rendered to users
// verbatim by the command layer, hence the non-standard capitalization.
var (
	ErrAlreadyInGuild = errors.New("You are already in a guild.")
	ErrGuildNotFound  = errors.New("Guild not found.")
	ErrAlreadyMember  = errors.New("You are already a member of this guild.")
	ErrGuildFull      = errors.New("This guild is full.")
	ErrNotInGuild     = errors.New("You are not in a guild.")
	ErrNotOwner       = errors.New("You are not the owner of this guild.")
	ErrNotMember      = errors.New("User is not a member of this guild.")
	ErrKickSelf       = errors.New("You cannot kick yourself.")
	ErrAlreadyOwner   = errors.New("You are already the owner.")
)

const guildIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateGuildID returns a random 6-character uppercase alphanumeric
// ID from a cryptographically strong source.
func GenerateGuildID() string {
	buf := make([]byte, 6)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(guildIDAlphabet))))
		if err != nil {
			// crypto/rand read failures are not recoverable here
			panic(err)
		}
		buf[i] = guildIDAlphabet[n.Int64()]
	}
	return string(buf)
}

type guildRegistry struct {
	guilds     map[string]*models.PlayerGuild
	userGuilds map[int64]string
}

func newGuildRegistry() *guildRegistry {
	return &guildRegistry{
		guilds:     make(map[string]*models.PlayerGuild),
		userGuilds: make(map[int64]string),
	}
}

// GuildsManager owns the per-server guild registry and the user→guild
// membership index. The two structures stay consistent: every entry in
// a guild's member list has a matching index entry and vice versa.
type GuildsManager struct {
	mu       sync.Mutex
	filePath string
	newID    func() string
	now      func() time.Time
	servers  map[int64]*guildRegistry
}

// NewGuildsManager creates an empty manager backed by filePath. newID
// and now may be nil for the crypto/rand generator and time.Now.
func NewGuildsManager(filePath string, newID func() string, now func() time.Time) *GuildsManager {
	if newID == nil {
		newID = GenerateGuildID
	}
	if now == nil {
		now = time.Now
	}
	return &GuildsManager{
		filePath: filePath,
		newID:    newID,
		now:      now,
		servers:  make(map[int64]*guildRegistry),
	}
}

func (m *GuildsManager) registry(serverID int64) *guildRegistry {
	reg, ok := m.servers[serverID]
	if !ok {
		reg = newGuildRegistry()
		m.servers[serverID] = reg
	}
	return reg
}

// CreateGuild creates a guild owned by ownerID and returns its ID. The
// owner must not already be in a guild; cost deduction is the caller's
// responsibility.
func (m *GuildsManager) CreateGuild(serverID, ownerID int64, displayName, imageURL, privacy, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	if reg.userGuilds[ownerID] != "" {
		return "", ErrAlreadyInGuild
	}

	guildID := m.newID()
	for _, taken := reg.guilds[guildID]; taken; _, taken = reg.guilds[guildID] {
		guildID = m.newID()
	}

	reg.guilds[guildID] = &models.PlayerGuild{
		OwnerID:     ownerID,
		DisplayName: displayName,
		ImageURL:    imageURL,
		Privacy:     privacy,
		Password:    password,
		Members:     []int64{ownerID},
		CreatedAt:   m.now().UTC(),
	}
	reg.userGuilds[ownerID] = guildID
	return guildID, nil
}

// GetGuild returns a copy of the guild with the given ID.
func (m *GuildsManager) GetGuild(serverID int64, guildID string) (*models.PlayerGuild, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	guild, ok := m.registry(serverID).guilds[guildID]
	if !ok {
		return nil, false
	}
	return guild.Clone(), true
}

// GetUserGuild returns the ID of the guild the user belongs to.
func (m *GuildsManager) GetUserGuild(serverID, userID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	guildID := m.registry(serverID).userGuilds[userID]
	return guildID, guildID != ""
}

// JoinGuild adds the user to the guild's member list and index.
func (m *GuildsManager) JoinGuild(serverID, userID int64, guildID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	if reg.userGuilds[userID] != "" {
		return ErrAlreadyInGuild
	}
	guild, ok := reg.guilds[guildID]
	if !ok {
		return ErrGuildNotFound
	}
	if guild.HasMember(userID) {
		return ErrAlreadyMember
	}
	if guild.IsFull() {
		return ErrGuildFull
	}
	guild.Members = append(guild.Members, userID)
	reg.userGuilds[userID] = guildID
	return nil
}

// LeaveGuild removes the user from their guild. When the owner leaves,
// the guild is disbanded and every member's index entry is cleared.
// Returns false if the user is not in a guild.
func (m *GuildsManager) LeaveGuild(serverID, userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	guildID := reg.userGuilds[userID]
	if guildID == "" {
		return false
	}
	guild, ok := reg.guilds[guildID]
	if !ok {
		delete(reg.userGuilds, userID)
		return true
	}
	if guild.OwnerID == userID {
		m.disbandLocked(reg, guildID, guild)
		return true
	}
	guild.Members = removeMember(guild.Members, userID)
	delete(reg.userGuilds, userID)
	return true
}

// KickMember removes target from the caller's guild. The caller must
// own the guild and cannot kick themselves.
func (m *GuildsManager) KickMember(serverID, ownerID, targetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	guild, err := m.ownedGuildLocked(reg, ownerID)
	if err != nil {
		return err
	}
	if !guild.HasMember(targetID) {
		return ErrNotMember
	}
	if targetID == ownerID {
		return ErrKickSelf
	}
	guild.Members = removeMember(guild.Members, targetID)
	delete(reg.userGuilds, targetID)
	return nil
}

// TransferOwnership makes newOwnerID, an existing member, the owner.
func (m *GuildsManager) TransferOwnership(serverID, ownerID, newOwnerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	guild, err := m.ownedGuildLocked(m.registry(serverID), ownerID)
	if err != nil {
		return err
	}
	if !guild.HasMember(newOwnerID) {
		return ErrNotMember
	}
	if newOwnerID == ownerID {
		return ErrAlreadyOwner
	}
	guild.OwnerID = newOwnerID
	return nil
}

// DisbandGuild tears down the caller's guild, clearing every member's
// index entry. Returns false unless the caller owns a guild.
func (m *GuildsManager) DisbandGuild(serverID, ownerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	guildID := reg.userGuilds[ownerID]
	if guildID == "" {
		return false
	}
	guild, ok := reg.guilds[guildID]
	if !ok || guild.OwnerID != ownerID {
		return false
	}
	m.disbandLocked(reg, guildID, guild)
	return true
}

func (m *GuildsManager) disbandLocked(reg *guildRegistry, guildID string, guild *models.PlayerGuild) {
	for _, memberID := range guild.Members {
		delete(reg.userGuilds, memberID)
	}
	delete(reg.guilds, guildID)
}

// RenameGuild sets a new display name. Owner only.
func (m *GuildsManager) RenameGuild(serverID, ownerID int64, newDisplayName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	guild, err := m.ownedGuildLocked(m.registry(serverID), ownerID)
	if err != nil {
		return false
	}
	guild.DisplayName = newDisplayName
	return true
}

// SetMemberCap sets or clears (nil) the member cap. Owner only. An
// existing overflow is allowed to stand; the cap only blocks new joins.
func (m *GuildsManager) SetMemberCap(serverID, ownerID int64, cap *int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	guild, err := m.ownedGuildLocked(m.registry(serverID), ownerID)
	if err != nil {
		return false
	}
	if cap != nil {
		c := *cap
		guild.MemberCap = &c
	} else {
		guild.MemberCap = nil
	}
	return true
}

func (m *GuildsManager) ownedGuildLocked(reg *guildRegistry, ownerID int64) (*models.PlayerGuild, error) {
	guildID := reg.userGuilds[ownerID]
	if guildID == "" {
		return nil, ErrNotInGuild
	}
	guild, ok := reg.guilds[guildID]
	if !ok || guild.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return guild, nil
}

// GuildListing pairs a guild ID with a copy of its record.
type GuildListing struct {
	ID    string
	Guild *models.PlayerGuild
}

// ListGuilds returns every guild in the server, ordered by ID.
func (m *GuildsManager) ListGuilds(serverID int64) []GuildListing {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	out := make([]GuildListing, 0, len(reg.guilds))
	for id, guild := range reg.guilds {
		out = append(out, GuildListing{ID: id, Guild: guild.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GuildLeaderboard ranks the guild's members by total balance, read
// through the economy manager. The economy lock is only ever taken
// nested inside the guilds lock, never the other way around.
func (m *GuildsManager) GuildLeaderboard(serverID int64, guildID string, economy BalanceReader) []models.LeaderboardEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	guild, ok := m.registry(serverID).guilds[guildID]
	if !ok {
		return nil
	}
	standings := make([]models.LeaderboardEntry, 0, len(guild.Members))
	for _, userID := range guild.Members {
		wallet, bank := economy.GetBalances(serverID, userID)
		standings = append(standings, models.LeaderboardEntry{
			UserID: userID,
			Wallet: wallet,
			Bank:   bank,
			Total:  wallet + bank,
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].UserID < standings[j].UserID
	})
	return standings
}

// GuildLeaderboardAll ranks every guild in the server by summed member
// wealth.
func (m *GuildsManager) GuildLeaderboardAll(serverID int64, economy BalanceReader) []models.GuildStanding {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg := m.registry(serverID)
	standings := make([]models.GuildStanding, 0, len(reg.guilds))
	for guildID, guild := range reg.guilds {
		var total int64
		for _, userID := range guild.Members {
			wallet, bank := economy.GetBalances(serverID, userID)
			total += wallet + bank
		}
		standings = append(standings, models.GuildStanding{GuildID: guildID, TotalWealth: total})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].TotalWealth != standings[j].TotalWealth {
			return standings[i].TotalWealth > standings[j].TotalWealth
		}
		return standings[i].GuildID < standings[j].GuildID
	})
	return standings
}

func removeMember(members []int64, userID int64) []int64 {
	for i, id := range members {
		if id == userID {
			return append(members[:i], members[i+1:]...)
		}
	}
	return members
}

type guildsServerDoc struct {
	Guilds     map[string]*models.PlayerGuild `json:"guilds"`
	UserGuilds map[string]string              `json:"user_guilds"`
}

type guildsFileDoc struct {
	Servers map[string]guildsServerDoc `json:"servers"`
}

// Load replaces in-memory state with the persisted document, with the
// same missing-vs-corrupt contract as EconomyManager.Load.
func (m *GuildsManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers = make(map[int64]*guildRegistry)

	var doc guildsFileDoc
	if err := storage.Load(m.filePath, &doc); err != nil {
		if err == storage.ErrNotExist {
			return nil
		}
		return err
	}
	for serverKey, serverDoc := range doc.Servers {
		serverID, ok := parseID(serverKey)
		if !ok {
			continue
		}
		reg := newGuildRegistry()
		for guildID, guild := range serverDoc.Guilds {
			if guild == nil {
				continue
			}
			reg.guilds[guildID] = guild
		}
		for userKey, guildID := range serverDoc.UserGuilds {
			if userID, ok := parseID(userKey); ok && guildID != "" {
				reg.userGuilds[userID] = guildID
			}
		}
		m.servers[serverID] = reg
	}
	return nil
}

// Save writes the full in-memory state to disk atomically.
func (m *GuildsManager) Save() error {
	m.mu.Lock()
	doc := guildsFileDoc{Servers: make(map[string]guildsServerDoc, len(m.servers))}
	for serverID, reg := range m.servers {
		serverDoc := guildsServerDoc{
			Guilds:     make(map[string]*models.PlayerGuild, len(reg.guilds)),
			UserGuilds: make(map[string]string, len(reg.userGuilds)),
		}
		for guildID, guild := range reg.guilds {
			serverDoc.Guilds[guildID] = guild.Clone()
		}
		for userID, guildID := range reg.userGuilds {
			serverDoc.UserGuilds[strconv.FormatInt(userID, 10)] = guildID
		}
		doc.Servers[strconv.FormatInt(serverID, 10)] = serverDoc
	}
	m.mu.Unlock()
	return storage.Save(m.filePath, doc)
}
