package models

// Account holds one user's money and inventory within a single Discord server.
type Account struct {
	Wallet    int64            `json:"wallet"`
	Bank      int64            `json:"bank"`
	Inventory map[string]int64 `json:"inventory"`
}

// NewAccount returns an empty account with an initialized inventory map.
func NewAccount() *Account {
	return &Account{Inventory: make(map[string]int64)}
}

// Total returns wallet plus bank.
func (a *Account) Total() int64 {
	return a.Wallet + a.Bank
}

// LeaderboardEntry is one row of a wealth leaderboard.
type LeaderboardEntry struct {
	UserID int64
	Wallet int64
	Bank   int64
	Total  int64
}

// GuildStanding is one row of the cross-guild wealth leaderboard.
type GuildStanding struct {
	GuildID     string
	TotalWealth int64
}
