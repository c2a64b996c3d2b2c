package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	bass, ok := c.Item("bass")
	require.True(t, ok)
	assert.Equal(t, "Bass", bass.Name)
	assert.Equal(t, int64(18), bass.MinValue)
	assert.Equal(t, int64(19), bass.MaxValue)
	assert.True(t, bass.Sellable)

	lockpick, ok := c.Item("lockpick")
	require.True(t, ok)
	assert.Equal(t, int64(50), lockpick.Price)
	assert.False(t, lockpick.Sellable)

	doctor, ok := c.Job("doctor")
	require.True(t, ok)
	assert.Equal(t, int64(500), doctor.PayoutPerMinute)
	assert.Equal(t, 0.90, doctor.DeclineChance)

	assert.Equal(t, int64(12500), c.GuildCreationCost)

	lab, ok := c.Robbery("lab")
	require.True(t, ok)
	assert.Equal(t, []string{"advanced_lockpick", "gun", "hacker_tool"}, lab.RequiredItems)
	assert.Equal(t, 180, lab.TimeSeconds)
	assert.True(t, lab.SeizeItems)

	prize, ok := c.Achievement("volt_prize_receiver")
	require.True(t, ok)
	assert.Equal(t, int64(100000), prize.Reward)

	// Every shop entry resolves to a priced item.
	for _, key := range c.ShopItems {
		item, ok := c.Item(key)
		require.True(t, ok, "shop item %s", key)
		assert.Greater(t, item.Price, int64(0), "shop item %s", key)
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	override := `
items:
  pebble:
    name: Pebble
    min_value: 1
    max_value: 2
    sellable: true
jobs:
  tester:
    name: Tester
    payout_per_minute: 10
    decline_chance: 0.1
guild_creation_cost: 100
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.HasItem("pebble"))
	assert.False(t, c.HasItem("bass"))
	assert.Equal(t, int64(100), c.GuildCreationCost)
}

func TestLoad_OverrideMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "shop item not in table",
			yaml: "shop_items: [ghost]",
		},
		{
			name: "shop item without price",
			yaml: "items:\n  rock:\n    name: Rock\nshop_items: [rock]",
		},
		{
			name: "inverted value range",
			yaml: "items:\n  rock:\n    name: Rock\n    min_value: 10\n    max_value: 5\n    sellable: true",
		},
		{
			name: "robbery requires unknown item",
			yaml: "robberies:\n  vault:\n    name: Vault\n    required_items: [ghost]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestResolveItemKey(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	key, ok := c.ResolveItemKey("Golden Potato")
	require.True(t, ok)
	assert.Equal(t, "golden_potato", key)

	key, ok = c.ResolveItemKey("license-plate-blocker")
	require.True(t, ok)
	assert.Equal(t, "license_plate_blocker", key)

	_, ok = c.ResolveItemKey("Nonexistent Thing")
	assert.False(t, ok)
}

func TestSortedKeys(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	keys := c.JobKeys()
	assert.Equal(t, []string{"doctor", "factory_worker", "office_worker", "scientist"}, keys)

	robberies := c.RobberyKeys()
	assert.Equal(t, []string{"gas_station", "house", "jewelry_store", "lab"}, robberies)
}
