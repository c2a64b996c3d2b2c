package models

// JobAssignment identifies one user's active job within a server.
// Used when resuming payout loops from persisted state.
type JobAssignment struct {
	ServerID int64
	UserID   int64
	JobKey   string
}

// SoldItem records one stack sold by EconomyManager.SellItems.
type SoldItem struct {
	ItemKey  string
	Quantity int64
	Value    int64
}
