package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var catalogMarketIDRegex = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Catalog describes the markets the server runs, loaded from an optional
// YAML file. With no file configured, the catalog holds one default market.
type Catalog struct {
	Markets []MarketSpec `yaml:"markets"`
}

// MarketSpec describes a single market.
type MarketSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// TradeTimeoutMs overrides the global trade timeout when positive.
	TradeTimeoutMs int64 `yaml:"trade_timeout_ms"`
	// IgnoreFields lists the term fields excluded from fuzzy matching.
	IgnoreFields []string `yaml:"ignore_fields"`
}

// TradeTimeout returns the market's expiry duration, falling back to the
// given default when the spec has no override.
func (m MarketSpec) TradeTimeout(defaultTimeout time.Duration) time.Duration {
	if m.TradeTimeoutMs > 0 {
		return time.Duration(m.TradeTimeoutMs) * time.Millisecond
	}
	return defaultTimeout
}

// LoadCatalog reads the market catalog from the given path. An empty path
// yields the default single-market catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return defaultCatalog(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(b, &cat); err != nil {
		return Catalog{}, fmt.Errorf("markets file: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// Validate checks market ids for uniqueness and shape.
func (c Catalog) Validate() error {
	if len(c.Markets) == 0 {
		return fmt.Errorf("markets file: no markets defined")
	}

	seen := make(map[string]bool, len(c.Markets))
	for _, m := range c.Markets {
		if !catalogMarketIDRegex.MatchString(m.ID) {
			return fmt.Errorf("markets file: market id %q must match %s", m.ID, catalogMarketIDRegex)
		}
		if seen[m.ID] {
			return fmt.Errorf("markets file: duplicate market id %q", m.ID)
		}
		seen[m.ID] = true
		if m.TradeTimeoutMs < 0 {
			return fmt.Errorf("markets file: market %q: trade_timeout_ms must not be negative", m.ID)
		}
	}
	return nil
}

func defaultCatalog() Catalog {
	return Catalog{
		Markets: []MarketSpec{
			{
				ID:           "cacao",
				Name:         "Cacao Market",
				IgnoreFields: []string{"submitted_at"},
			},
		},
	}
}
