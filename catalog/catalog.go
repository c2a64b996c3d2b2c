// Package catalog holds the static item, job, achievement and robbery
// tables. The defaults are embedded in the binary; an override file can
// replace them wholesale at startup. A loaded Catalog is immutable.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultFiles embed.FS

// Item describes one obtainable item. Sellable items carry a value
// range sampled per unit at sale time; shop items carry a price.
type Item struct {
	Name     string `yaml:"name"`
	MinValue int64  `yaml:"min_value"`
	MaxValue int64  `yaml:"max_value"`
	Price    int64  `yaml:"price"`
	Sellable bool   `yaml:"sellable"`
}

// Job describes one applyable job.
type Job struct {
	Name            string  `yaml:"name"`
	PayoutPerMinute int64   `yaml:"payout_per_minute"`
	DeclineChance   float64 `yaml:"decline_chance"`
}

// Achievement describes one unlockable achievement and its one-time reward.
type Achievement struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Reward      int64  `yaml:"reward"`
}

// Robbery describes one robbable location.
type Robbery struct {
	Name            string   `yaml:"name"`
	RequiredItems   []string `yaml:"required_items"`
	TimeSeconds     int      `yaml:"time_seconds"`
	MinPayout       int64    `yaml:"min_payout"`
	MaxPayout       int64    `yaml:"max_payout"`
	BaseCatchChance float64  `yaml:"base_catch_chance"`
	WalletPenalty   float64  `yaml:"wallet_penalty"`
	BankPenalty     float64  `yaml:"bank_penalty"`
	SeizeItems      bool     `yaml:"seize_items"`
}

// Catalog is the full set of static tables.
type Catalog struct {
	Items             map[string]Item        `yaml:"items"`
	ShopItems         []string               `yaml:"shop_items"`
	Jobs              map[string]Job         `yaml:"jobs"`
	GuildCreationCost int64                  `yaml:"guild_creation_cost"`
	Achievements      map[string]Achievement `yaml:"achievements"`
	Robberies         map[string]Robbery     `yaml:"robberies"`
}

// Load reads the embedded defaults, or overridePath if non-empty.
func Load(overridePath string) (*Catalog, error) {
	var raw []byte
	var err error
	if strings.TrimSpace(overridePath) != "" {
		raw, err = os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read catalog override: %w", err)
		}
	} else {
		raw, err = fs.ReadFile(defaultFiles, "defaults.yaml")
		if err != nil {
			return nil, fmt.Errorf("read embedded catalog: %w", err)
		}
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for _, key := range c.ShopItems {
		item, ok := c.Items[key]
		if !ok {
			return fmt.Errorf("shop item %q not in item table", key)
		}
		if item.Price <= 0 {
			return fmt.Errorf("shop item %q has no price", key)
		}
	}
	for key, item := range c.Items {
		if item.Sellable && item.MinValue > item.MaxValue {
			return fmt.Errorf("item %q has inverted value range", key)
		}
	}
	for key, rob := range c.Robberies {
		for _, req := range rob.RequiredItems {
			if _, ok := c.Items[req]; !ok {
				return fmt.Errorf("robbery %q requires unknown item %q", key, req)
			}
		}
	}
	return nil
}

// Item returns the item for key.
func (c *Catalog) Item(key string) (Item, bool) {
	item, ok := c.Items[key]
	return item, ok
}

// HasItem reports whether key is a known item.
func (c *Catalog) HasItem(key string) bool {
	_, ok := c.Items[key]
	return ok
}

// Job returns the job for key.
func (c *Catalog) Job(key string) (Job, bool) {
	job, ok := c.Jobs[key]
	return job, ok
}

// Achievement returns the achievement for key.
func (c *Catalog) Achievement(key string) (Achievement, bool) {
	a, ok := c.Achievements[key]
	return a, ok
}

// Robbery returns the robbery location for key.
func (c *Catalog) Robbery(key string) (Robbery, bool) {
	r, ok := c.Robberies[key]
	return r, ok
}

// ItemKeys returns all item keys in sorted order, for stable command choices.
func (c *Catalog) ItemKeys() []string {
	return sortedKeys(c.Items)
}

// JobKeys returns all job keys in sorted order.
func (c *Catalog) JobKeys() []string {
	return sortedKeys(c.Jobs)
}

// RobberyKeys returns all robbery location keys in sorted order.
func (c *Catalog) RobberyKeys() []string {
	return sortedKeys(c.Robberies)
}

// AchievementKeys returns all achievement keys in sorted order.
func (c *Catalog) AchievementKeys() []string {
	return sortedKeys(c.Achievements)
}

// ResolveItemKey normalizes a display name ("Golden Potato") to its key.
func (c *Catalog) ResolveItemKey(name string) (string, bool) {
	normalized := strings.ToLower(name)
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if _, ok := c.Items[normalized]; ok {
		return normalized, true
	}
	return "", false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
