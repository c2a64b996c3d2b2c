package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeInventoryChange    EventType = "inventory_change"
	EventTypeGuildMembership    EventType = "guild_membership"
	EventTypeAchievementTrigger EventType = "achievement_trigger"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent fires after any operation that changed a user's
// wallet or bank. Achievement threshold checks hang off it.
type BalanceChangeEvent struct {
	ServerID int64
	UserID   int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// InventoryChangeEvent fires after a user gained an item.
type InventoryChangeEvent struct {
	ServerID int64
	UserID   int64
}

func (e InventoryChangeEvent) Type() EventType {
	return EventTypeInventoryChange
}

// GuildMembershipEvent fires after a user joined or created a guild.
type GuildMembershipEvent struct {
	ServerID int64
	UserID   int64
}

func (e GuildMembershipEvent) Type() EventType {
	return EventTypeGuildMembership
}

// AchievementTriggerEvent requests a direct unlock of a specific
// achievement, e.g. smooth_criminal after an unnoticed robbery.
type AchievementTriggerEvent struct {
	ServerID int64
	UserID   int64
	Key      string
}

func (e AchievementTriggerEvent) Type() EventType {
	return EventTypeAchievementTrigger
}
