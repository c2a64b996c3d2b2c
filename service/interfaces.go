package service

// BalanceReader is the read-only economy view the guilds manager uses
// for leaderboards. Cross-manager coupling stays read-only and one
// directional: guilds call into economy, never the reverse.
type BalanceReader interface {
	GetBalances(serverID, userID int64) (wallet, bank int64)
}
