// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts one farm and its token collaborators. Calls are serialized, each one
// runs against a monotonic clock and either commits as a whole or leaves no trace.
package runtime

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/farm"
	"github.com/vechain/farm/builtin/reverts"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/builtin/token"
	"github.com/vechain/farm/kv"
	"github.com/vechain/farm/log"
	"github.com/vechain/farm/logdb"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

var (
	logger = log.WithContext("pkg", "runtime")

	clockAddress = thor.BytesToAddress([]byte("runtime-clock"))
	slotLastTime = thor.BytesToBytes32([]byte("last-time"))
)

// Clock returns the current unix time in seconds.
type Clock func() uint64

func WallClock() uint64 {
	return uint64(time.Now().Unix())
}

// Genesis describes the farm a runtime hosts and the state it starts with.
type Genesis struct {
	Farm        thor.Address
	Config      farm.Config
	Tokens      []TokenSpec
	Allocations []Allocation
	Funder      thor.Address // pays the floor stake, if any
}

type Runtime struct {
	mu     sync.Mutex
	state  *state.State
	farm   *farm.Farm
	assets *Assets
	events *logdb.LogDB
	clock  Clock
	last   *solidity.Raw[uint64]
}

// New opens the runtime on db. The genesis is applied only if the farm is not initialized yet.
// events may be nil, in which case committed events are dropped.
func New(db kv.Store, events *logdb.LogDB, gen *Genesis, clock Clock) (*Runtime, error) {
	if clock == nil {
		clock = WallClock
	}
	st := state.New(db)
	assets := newAssets(st, gen.Tokens)
	rt := &Runtime{
		state:  st,
		farm:   farm.New(gen.Farm, st, gen.Config, assets),
		assets: assets,
		events: events,
		clock:  clock,
		last:   solidity.NewRaw[uint64](solidity.NewContext(clockAddress, st), slotLastTime),
	}

	owner, err := rt.farm.Owner()
	if err != nil {
		return nil, err
	}
	if !owner.IsZero() {
		logger.Info("farm loaded", "address", gen.Farm)
		return rt, nil
	}
	if err := rt.Execute("genesis", func(f *farm.Farm, now uint64) error {
		return rt.applyGenesis(gen, now)
	}); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	logger.Info("farm initialized", "address", gen.Farm, "tokens", len(gen.Config.RewardTokens))
	return rt, nil
}

func (rt *Runtime) applyGenesis(gen *Genesis, now uint64) error {
	for _, spec := range gen.Tokens {
		t, _ := rt.assets.Token(spec.Address)
		if err := t.Initialize(spec.Name, spec.Symbol, spec.Decimals); err != nil {
			return err
		}
	}
	for _, alloc := range gen.Allocations {
		t, ok := rt.assets.Token(alloc.Token)
		if !ok {
			return errors.WithMessagef(ErrUnknownAsset, "allocation of %v", alloc.Token)
		}
		if err := t.Mint(alloc.Account, alloc.Amount); err != nil {
			return err
		}
	}
	// the funder grants the floor stake to the farm up front
	if g, ok := gen.Config.Guard.(*farm.FloorGuard); ok && g.Amount != nil {
		if stake, ok := rt.assets.Token(gen.Config.StakeToken); ok {
			if err := stake.IncreaseAllowance(gen.Funder, gen.Farm, g.Amount); err != nil {
				return err
			}
		}
	}
	return rt.farm.Initialize(gen.Funder, now)
}

// now must be called with the lock held.
func (rt *Runtime) now() (uint64, error) {
	last, err := rt.last.Get()
	if err != nil {
		return 0, err
	}
	return max(rt.clock(), last), nil
}

// Execute runs fn as one farm call.
func (rt *Runtime) Execute(name string, fn func(f *farm.Farm, now uint64) error) error {
	return rt.exec(name, func(now uint64) error {
		return fn(rt.farm, now)
	})
}

// ExecuteAsset runs fn as one call on the built-in token at addr.
func (rt *Runtime) ExecuteAsset(name string, addr thor.Address, fn func(t *token.Token, now uint64) error) error {
	t, ok := rt.assets.Token(addr)
	if !ok {
		return ErrUnknownAsset
	}
	return rt.exec(name, func(now uint64) error {
		return fn(t, now)
	})
}

func (rt *Runtime) exec(name string, fn func(now uint64) error) (err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	defer func() {
		metricOperations().AddWithLabel(1, map[string]string{"op": name, "outcome": outcome(err)})
	}()

	now, err := rt.now()
	if err != nil {
		return err
	}
	rev := rt.state.NewCheckpoint()
	if err := fn(now); err != nil {
		rt.state.RevertTo(rev)
		if reason, ok := reverts.Reason(err); ok {
			logger.Debug("call reverted", "op", name, "reason", reason)
		} else {
			logger.Warn("call failed", "op", name, "error", err)
		}
		return err
	}
	if err := rt.last.Set(now); err != nil {
		rt.state.RevertTo(rev)
		return err
	}
	events, err := rt.state.Commit()
	if err != nil {
		rt.state.RevertTo(rev)
		logger.Error("failed to commit", "op", name, "error", err)
		return err
	}
	logger.Debug("call committed", "op", name, "now", now, "events", len(events))

	if rt.events != nil && len(events) > 0 {
		if err := rt.events.Write(events, now); err != nil {
			// state is already committed, the event log lags behind
			logger.Warn("failed to write events", "op", name, "error", err)
		}
	}
	metricEvents().Add(int64(len(events)))
	rt.updateGauges()
	return nil
}

func (rt *Runtime) updateGauges() {
	if total, err := rt.farm.TotalSupply(); err == nil {
		metricTotalStaked().Set(wholeTokens(total))
	}
	if count, err := rt.farm.TokenCount(); err == nil {
		metricRewardTokens().Set(int64(count))
	}
}

// View runs fn against the committed state. Writes made by fn are discarded.
func (rt *Runtime) View(fn func(f *farm.Farm, now uint64) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	now, err := rt.now()
	if err != nil {
		return err
	}
	rev := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(rev)
	return fn(rt.farm, now)
}

// ViewAsset runs fn against the built-in token at addr.
func (rt *Runtime) ViewAsset(addr thor.Address, fn func(t *token.Token) error) error {
	t, ok := rt.assets.Token(addr)
	if !ok {
		return ErrUnknownAsset
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rev := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(rev)
	return fn(t)
}

func (rt *Runtime) Assets() []thor.Address {
	return rt.assets.Addresses()
}

// Events returns the event store, nil if events are not kept.
func (rt *Runtime) Events() *logdb.LogDB {
	return rt.events
}
