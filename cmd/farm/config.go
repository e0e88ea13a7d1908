// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/farm"
	"github.com/vechain/farm/runtime"
	"github.com/vechain/farm/thor"
	"gopkg.in/yaml.v3"
)

const (
	guardLastStaker = "last-staker"
	guardFloor      = "floor"

	fundingFlat     = "flat"
	fundingRollover = "rollover"

	defaultRewardDuration = 30 * 24 * 3600
)

type farmConfig struct {
	Address        thor.Address   `yaml:"address"`
	Name           string         `yaml:"name"`
	Symbol         string         `yaml:"symbol"`
	StakeToken     thor.Address   `yaml:"stakeToken"`
	RewardTokens   []thor.Address `yaml:"rewardTokens"`
	RewardDuration uint64         `yaml:"rewardDuration"`
	TimeLock       bool           `yaml:"timeLock"`
	Guard          string         `yaml:"guard"`
	FloorAmount    string         `yaml:"floorAmount"`
	Funding        string         `yaml:"funding"`
	Owner          thor.Address   `yaml:"owner"`
	Manager        thor.Address   `yaml:"manager"`
	Funder         thor.Address   `yaml:"funder"`
}

type tokenConfig struct {
	Address  thor.Address `yaml:"address"`
	Name     string       `yaml:"name"`
	Symbol   string       `yaml:"symbol"`
	Decimals *uint8       `yaml:"decimals"`
}

type allocationConfig struct {
	Token   thor.Address `yaml:"token"`
	Account thor.Address `yaml:"account"`
	Amount  string       `yaml:"amount"`
}

// config is the yaml file given by --config.
type config struct {
	Farm        farmConfig         `yaml:"farm"`
	Tokens      []tokenConfig      `yaml:"tokens"`
	Allocations []allocationConfig `yaml:"allocations"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*config, error) {
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.withDefaults()
	return &cfg, nil
}

func (c *config) withDefaults() {
	if c.Farm.Address.IsZero() {
		c.Farm.Address = thor.BytesToAddress([]byte("farm"))
	}
	if c.Farm.RewardDuration == 0 {
		c.Farm.RewardDuration = defaultRewardDuration
	}
	if c.Farm.Guard == "" {
		c.Farm.Guard = guardLastStaker
	}
	if c.Farm.Funding == "" {
		c.Farm.Funding = fundingFlat
	}
	if c.Farm.Funder.IsZero() {
		c.Farm.Funder = c.Farm.Owner
	}
}

func parseAmount(s, field string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("%s: invalid amount %q", field, s)
	}
	return v, nil
}

// genesis converts the config into the genesis of the runtime.
func (c *config) genesis() (*runtime.Genesis, error) {
	fc := farm.Config{
		Name:           c.Farm.Name,
		Symbol:         c.Farm.Symbol,
		StakeToken:     c.Farm.StakeToken,
		RewardTokens:   c.Farm.RewardTokens,
		RewardDuration: c.Farm.RewardDuration,
		TimeLock:       c.Farm.TimeLock,
		Owner:          c.Farm.Owner,
		Manager:        c.Farm.Manager,
	}
	switch c.Farm.Guard {
	case guardLastStaker:
		fc.Guard = &farm.LastStakerGuard{}
	case guardFloor:
		amount, err := parseAmount(c.Farm.FloorAmount, "farm.floorAmount")
		if err != nil {
			return nil, err
		}
		fc.Guard = &farm.FloorGuard{Amount: amount}
	default:
		return nil, errors.Errorf("farm.guard: unknown guard %q", c.Farm.Guard)
	}
	switch c.Farm.Funding {
	case fundingFlat:
		fc.Funding = farm.FlatFunding{}
	case fundingRollover:
		fc.Funding = farm.RolloverFunding{}
	default:
		return nil, errors.Errorf("farm.funding: unknown policy %q", c.Farm.Funding)
	}
	if err := fc.Validate(); err != nil {
		return nil, errors.WithMessage(err, "farm")
	}

	gen := &runtime.Genesis{
		Farm:   c.Farm.Address,
		Config: fc,
		Funder: c.Farm.Funder,
	}
	known := make(map[thor.Address]bool)
	for i, t := range c.Tokens {
		if t.Address.IsZero() || t.Address == c.Farm.Address {
			return nil, errors.Errorf("tokens[%d]: invalid address", i)
		}
		if known[t.Address] {
			return nil, errors.Errorf("tokens[%d]: duplicate address %v", i, t.Address)
		}
		known[t.Address] = true
		decimals := uint8(farm.DefaultDecimals)
		if t.Decimals != nil {
			decimals = *t.Decimals
		}
		gen.Tokens = append(gen.Tokens, runtime.TokenSpec{
			Address:  t.Address,
			Name:     t.Name,
			Symbol:   t.Symbol,
			Decimals: decimals,
		})
	}
	for _, token := range append([]thor.Address{fc.StakeToken}, fc.RewardTokens...) {
		if !known[token] {
			return nil, errors.Errorf("token %v is not declared in tokens", token)
		}
	}
	for i, a := range c.Allocations {
		amount, err := parseAmount(a.Amount, "allocations.amount")
		if err != nil {
			return nil, errors.WithMessagef(err, "allocations[%d]", i)
		}
		if !known[a.Token] {
			return nil, errors.Errorf("allocations[%d]: token %v is not declared in tokens", i, a.Token)
		}
		gen.Allocations = append(gen.Allocations, runtime.Allocation{
			Token:   a.Token,
			Account: a.Account,
			Amount:  amount,
		})
	}
	return gen, nil
}
