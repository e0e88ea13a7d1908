// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/vechain/farm/thor"
)

const (
	DefaultName     = "VerseFarm"
	DefaultSymbol   = "VFARM"
	DefaultDecimals = 18

	// MaxDuration bounds reward durations and deposit locks, in seconds.
	MaxDuration uint64 = 10 * 365 * 24 * 3600
)

// deadline returns now + duration, rejecting durations that are zero, over
// MaxDuration or that would overflow the clock.
func deadline(now, duration uint64) (uint64, error) {
	if duration == 0 || duration > MaxDuration || now+duration < now {
		return 0, ErrInvalidDuration
	}
	return now + duration, nil
}

// Config is the construction time description of a farm.
// Only RewardDuration, Owner and Manager change after initialization, and they do so in storage.
type Config struct {
	Name           string
	Symbol         string
	StakeToken     thor.Address
	RewardTokens   []thor.Address
	RewardDuration uint64 // seconds
	TimeLock       bool   // deposits are locked for the reward duration in force at deposit time
	Guard          Guard  // zero supply policy, LastStakerGuard if nil
	Funding        FundingPolicy
	Owner          thor.Address
	Manager        thor.Address
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Symbol == "" {
		cfg.Symbol = DefaultSymbol
	}
	if cfg.Guard == nil {
		cfg.Guard = &LastStakerGuard{}
	}
	if cfg.Funding == nil {
		cfg.Funding = FlatFunding{}
	}
	return cfg
}

// Validate checks the config without touching state.
func (c *Config) Validate() error {
	if c.RewardDuration == 0 || c.RewardDuration > MaxDuration {
		return ErrInvalidDuration
	}
	if c.StakeToken.IsZero() || c.Owner.IsZero() || c.Manager.IsZero() {
		return ErrWrongAddress
	}
	seen := make(map[thor.Address]bool, len(c.RewardTokens))
	for _, token := range c.RewardTokens {
		if token.IsZero() || token == c.StakeToken {
			return ErrInvalidToken
		}
		if seen[token] {
			return ErrExistingToken
		}
		seen[token] = true
	}
	if c.Guard != nil {
		return c.Guard.validate()
	}
	return nil
}
