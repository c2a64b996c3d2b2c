package service

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"voltbot/catalog"
	"voltbot/models"
	"voltbot/storage"
)

// EconomyManager owns every user's wallet, bank and inventory, keyed by
// Discord server and user ID. All operations are serialized behind a
// single mutex; callers trigger Save separately after mutations.
type EconomyManager struct {
	mu       sync.Mutex
	filePath string
	catalog  *catalog.Catalog
	rng      *rand.Rand
	servers  map[int64]map[int64]*models.Account
}

// NewEconomyManager creates an empty manager backed by filePath. rng is
// used for per-unit sale pricing; pass nil for a time-seeded source.
func NewEconomyManager(filePath string, cat *catalog.Catalog, rng *rand.Rand) *EconomyManager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &EconomyManager{
		filePath: filePath,
		catalog:  cat,
		rng:      rng,
		servers:  make(map[int64]map[int64]*models.Account),
	}
}

func (m *EconomyManager) account(serverID, userID int64) *models.Account {
	users, ok := m.servers[serverID]
	if !ok {
		users = make(map[int64]*models.Account)
		m.servers[serverID] = users
	}
	acct, ok := users[userID]
	if !ok {
		acct = models.NewAccount()
		users[userID] = acct
	}
	return acct
}

// EnsureUser creates the account lazily so it shows up on leaderboards.
func (m *EconomyManager) EnsureUser(serverID, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account(serverID, userID)
}

// GetBalances returns the user's wallet and bank balances.
func (m *EconomyManager) GetBalances(serverID, userID int64) (wallet, bank int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	return acct.Wallet, acct.Bank
}

// TotalBalance returns wallet plus bank.
func (m *EconomyManager) TotalBalance(serverID, userID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account(serverID, userID).Total()
}

// Deposit moves up to amount from wallet to bank and returns the amount
// moved. Amounts above the wallet balance are clamped; non-positive
// amounts move nothing.
func (m *EconomyManager) Deposit(serverID, userID, amount int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depositLocked(m.account(serverID, userID), amount)
}

// DepositAll moves the entire wallet into the bank.
func (m *EconomyManager) DepositAll(serverID, userID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	return m.depositLocked(acct, acct.Wallet)
}

func (m *EconomyManager) depositLocked(acct *models.Account, amount int64) int64 {
	if acct.Wallet <= 0 {
		return 0
	}
	if amount > acct.Wallet {
		amount = acct.Wallet
	}
	if amount <= 0 {
		return 0
	}
	acct.Wallet -= amount
	acct.Bank = saturatingAdd(acct.Bank, amount)
	return amount
}

// Withdraw moves up to amount from bank to wallet and returns the
// amount moved.
func (m *EconomyManager) Withdraw(serverID, userID, amount int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withdrawLocked(m.account(serverID, userID), amount)
}

// WithdrawAll moves the entire bank into the wallet.
func (m *EconomyManager) WithdrawAll(serverID, userID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	return m.withdrawLocked(acct, acct.Bank)
}

func (m *EconomyManager) withdrawLocked(acct *models.Account, amount int64) int64 {
	if acct.Bank <= 0 {
		return 0
	}
	if amount > acct.Bank {
		amount = acct.Bank
	}
	if amount <= 0 {
		return 0
	}
	acct.Bank -= amount
	acct.Wallet = saturatingAdd(acct.Wallet, amount)
	return amount
}

// AddWallet credits max(0, amount) to the wallet and returns the new
// wallet balance. Credits saturate at math.MaxInt64.
func (m *EconomyManager) AddWallet(serverID, userID, amount int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	if amount > 0 {
		acct.Wallet = saturatingAdd(acct.Wallet, amount)
	}
	return acct.Wallet
}

// AddBank credits max(0, amount) to the bank and returns the new bank
// balance.
func (m *EconomyManager) AddBank(serverID, userID, amount int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	if amount > 0 {
		acct.Bank = saturatingAdd(acct.Bank, amount)
	}
	return acct.Bank
}

// DeductWallet debits amount from the wallet. It fails without mutation
// when amount is non-positive or exceeds the wallet balance.
func (m *EconomyManager) DeductWallet(serverID, userID, amount int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	if amount <= 0 || acct.Wallet < amount {
		return false
	}
	acct.Wallet -= amount
	return true
}

// DeductBank removes up to amount from the bank, clamping at zero, and
// returns the amount actually removed. Used for robbery penalties.
func (m *EconomyManager) DeductBank(serverID, userID, amount int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	if amount <= 0 {
		return 0
	}
	if amount > acct.Bank {
		amount = acct.Bank
	}
	acct.Bank -= amount
	return amount
}

// HasWallet reports whether the wallet holds at least amount.
func (m *EconomyManager) HasWallet(serverID, userID, amount int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account(serverID, userID).Wallet >= amount
}

// GetInventory returns a copy of the user's inventory.
func (m *EconomyManager) GetInventory(serverID, userID int64) map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := m.account(serverID, userID).Inventory
	out := make(map[string]int64, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// AddItem adds amount of itemKey to the inventory. Unknown item keys
// are ignored; negative amounts contribute nothing.
func (m *EconomyManager) AddItem(serverID, userID int64, itemKey string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.catalog.HasItem(itemKey) {
		return
	}
	if amount < 0 {
		amount = 0
	}
	acct := m.account(serverID, userID)
	if amount > 0 {
		acct.Inventory[itemKey] = saturatingAdd(acct.Inventory[itemKey], amount)
	}
}

// HasItem reports whether the user holds at least one of itemKey.
func (m *EconomyManager) HasItem(serverID, userID int64, itemKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account(serverID, userID).Inventory[itemKey] > 0
}

// HasItems reports whether the user holds at least one of every key.
// Presence only, not quantity.
func (m *EconomyManager) HasItems(serverID, userID int64, itemKeys []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := m.account(serverID, userID).Inventory
	for _, key := range itemKeys {
		if inv[key] <= 0 {
			return false
		}
	}
	return true
}

// SellItems sells inventory for wallet credit. With itemKey empty every
// sellable stack is sold; otherwise only that key, with quantity 0
// meaning the whole stack. Each unit's price is an independent uniform
// draw from the item's value range. Non-sellable items are skipped and
// keep their stock.
func (m *EconomyManager) SellItems(serverID, userID int64, itemKey string, quantity int64) ([]models.SoldItem, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	if len(acct.Inventory) == 0 {
		return nil, 0
	}

	var details []models.SoldItem
	var total int64

	sell := func(key string, qty int64) {
		item, ok := m.catalog.Item(key)
		if !ok || qty <= 0 || !item.Sellable {
			return
		}
		var value int64
		for i := int64(0); i < qty; i++ {
			value += m.rollValue(item.MinValue, item.MaxValue)
		}
		acct.Inventory[key] -= qty
		if acct.Inventory[key] <= 0 {
			delete(acct.Inventory, key)
		}
		details = append(details, models.SoldItem{ItemKey: key, Quantity: qty, Value: value})
		total += value
	}

	if itemKey == "" {
		keys := make([]string, 0, len(acct.Inventory))
		for key := range acct.Inventory {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			sell(key, acct.Inventory[key])
		}
	} else {
		held := acct.Inventory[itemKey]
		if held <= 0 {
			return nil, 0
		}
		if quantity == 0 || quantity > held {
			quantity = held
		}
		if quantity <= 0 {
			return nil, 0
		}
		sell(itemKey, quantity)
	}

	if total > 0 {
		acct.Wallet = saturatingAdd(acct.Wallet, total)
	}
	return details, total
}

func (m *EconomyManager) rollValue(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + m.rng.Int63n(max-min+1)
}

// SeizeAllItems empties the user's inventory and returns what was held.
func (m *EconomyManager) SeizeAllItems(serverID, userID int64) map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := m.account(serverID, userID)
	seized := acct.Inventory
	acct.Inventory = make(map[string]int64)
	return seized
}

// Leaderboard returns up to limit entries ordered by total balance
// descending, ties broken by ascending user ID. limit <= 0 uses 10.
func (m *EconomyManager) Leaderboard(serverID int64, limit int) []models.LeaderboardEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	users, ok := m.servers[serverID]
	if !ok {
		return nil
	}
	standings := make([]models.LeaderboardEntry, 0, len(users))
	for userID, acct := range users {
		standings = append(standings, models.LeaderboardEntry{
			UserID: userID,
			Wallet: acct.Wallet,
			Bank:   acct.Bank,
			Total:  acct.Total(),
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].UserID < standings[j].UserID
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	return standings
}

type economyAccountDoc struct {
	Wallet    int64            `json:"wallet"`
	Bank      int64            `json:"bank"`
	Inventory map[string]int64 `json:"inventory"`
}

type economyServerDoc struct {
	Users map[string]economyAccountDoc `json:"users"`
}

type economyFileDoc struct {
	Servers map[string]economyServerDoc `json:"servers"`
}

// Load replaces in-memory state with the persisted document. A missing
// file yields empty state and a nil error; an unreadable or corrupt
// file yields empty state and the underlying error, so the caller can
// log which recovery happened.
func (m *EconomyManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers = make(map[int64]map[int64]*models.Account)

	var doc economyFileDoc
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
		users := make(map[int64]*models.Account, len(serverDoc.Users))
		for userKey, acctDoc := range serverDoc.Users {
			userID, ok := parseID(userKey)
			if !ok {
				continue
			}
			acct := models.NewAccount()
			acct.Wallet = clampNonNegative(acctDoc.Wallet)
			acct.Bank = clampNonNegative(acctDoc.Bank)
			for itemKey, count := range acctDoc.Inventory {
				if m.catalog.HasItem(itemKey) && count > 0 {
					acct.Inventory[itemKey] = count
				}
			}
			users[userID] = acct
		}
		m.servers[serverID] = users
	}
	return nil
}

// Save writes the full in-memory state to disk atomically.
func (m *EconomyManager) Save() error {
	m.mu.Lock()
	doc := economyFileDoc{Servers: make(map[string]economyServerDoc, len(m.servers))}
	for serverID, users := range m.servers {
		serverDoc := economyServerDoc{Users: make(map[string]economyAccountDoc, len(users))}
		for userID, acct := range users {
			inv := make(map[string]int64, len(acct.Inventory))
			for k, v := range acct.Inventory {
				inv[k] = v
			}
			serverDoc.Users[strconv.FormatInt(userID, 10)] = economyAccountDoc{
				Wallet:    acct.Wallet,
				Bank:      acct.Bank,
				Inventory: inv,
			}
		}
		doc.Servers[strconv.FormatInt(serverID, 10)] = serverDoc
	}
	m.mu.Unlock()
	return storage.Save(m.filePath, doc)
}

func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
