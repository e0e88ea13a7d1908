// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/builtin/farm"
	"github.com/vechain/farm/builtin/token"
	"github.com/vechain/farm/logdb"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/thor"
)

var (
	farmAddr  = thor.BytesToAddress([]byte("farm"))
	stakeAddr = thor.BytesToAddress([]byte("stake"))
	rewardA   = thor.BytesToAddress([]byte("reward-a"))
	owner     = thor.BytesToAddress([]byte("owner"))
	manager   = thor.BytesToAddress([]byte("manager"))
	alice     = thor.BytesToAddress([]byte("alice"))
)

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), thor.Precision)
}

func testGenesis() *Genesis {
	return &Genesis{
		Farm: farmAddr,
		Config: farm.Config{
			StakeToken:     stakeAddr,
			RewardTokens:   []thor.Address{rewardA},
			RewardDuration: 100,
			Owner:          owner,
			Manager:        manager,
		},
		Tokens: []TokenSpec{
			{Address: stakeAddr, Name: "Stake", Symbol: "STK", Decimals: 18},
			{Address: rewardA, Name: "Reward", Symbol: "RWD", Decimals: 18},
		},
		Allocations: []Allocation{
			{Token: stakeAddr, Account: alice, Amount: tokens(100)},
			{Token: rewardA, Account: manager, Amount: tokens(1_000_000)},
		},
	}
}

type testClock struct{ t uint64 }

func (c *testClock) now() uint64 { return c.t }

func newTestRuntime(t *testing.T) (*Runtime, *testClock, *logdb.LogDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	events, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		events.Close()
		db.Close()
	})

	clock := &testClock{t: 1000}
	rt, err := New(db, events, testGenesis(), clock.now)
	require.NoError(t, err)
	return rt, clock, events
}

func approve(t *testing.T, rt *Runtime, asset, holder thor.Address) {
	require.NoError(t, rt.ExecuteAsset("approve", asset, func(tk *token.Token, _ uint64) error {
		return tk.Approve(holder, farmAddr, thor.MaxUint256)
	}))
}

func TestGenesis(t *testing.T) {
	rt, _, _ := newTestRuntime(t)

	require.NoError(t, rt.View(func(f *farm.Farm, _ uint64) error {
		name, err := f.Name()
		require.NoError(t, err)
		assert.Equal(t, farm.DefaultName, name)
		got, err := f.Owner()
		require.NoError(t, err)
		assert.Equal(t, owner, got)
		list, err := f.RewardTokens()
		require.NoError(t, err)
		assert.Equal(t, []thor.Address{rewardA}, list)
		return nil
	}))

	require.NoError(t, rt.ViewAsset(stakeAddr, func(tk *token.Token) error {
		bal, err := tk.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, tokens(100).String(), bal.String())
		return nil
	}))

	assert.ElementsMatch(t, []thor.Address{stakeAddr, rewardA}, rt.Assets())
	assert.ErrorIs(t, rt.ViewAsset(alice, func(*token.Token) error { return nil }), ErrUnknownAsset)
}

func TestExecuteCommitsAndAccrues(t *testing.T) {
	rt, clock, events := newTestRuntime(t)
	approve(t, rt, stakeAddr, alice)
	approve(t, rt, rewardA, manager)

	require.NoError(t, rt.Execute("deposit", func(f *farm.Farm, now uint64) error {
		return f.Deposit(alice, tokens(10), now)
	}))
	require.NoError(t, rt.Execute("setRewardRates", func(f *farm.Farm, now uint64) error {
		return f.SetRewardRate(manager, rewardA, tokens(1), now)
	}))

	clock.t = 1050
	require.NoError(t, rt.View(func(f *farm.Farm, now uint64) error {
		assert.Equal(t, uint64(1050), now)
		earned, err := f.EarnedByToken(alice, rewardA, now)
		require.NoError(t, err)
		assert.Equal(t, tokens(50).String(), earned.String())
		return nil
	}))

	staked, err := events.Filter(context.Background(), &logdb.Filter{
		CriteriaSet: []*logdb.Criteria{{Address: &farmAddr, Name: "Staked"}},
	})
	require.NoError(t, err)
	require.Len(t, staked, 1)
	assert.Equal(t, tokens(10).String(), staked[0].Amount.String())
	assert.Equal(t, uint64(1000), staked[0].Time)
}

func TestExecuteRevertsOnError(t *testing.T) {
	rt, _, events := newTestRuntime(t)
	approve(t, rt, stakeAddr, alice)

	before, err := events.Filter(context.Background(), nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = rt.Execute("deposit", func(f *farm.Farm, now uint64) error {
		if err := f.Deposit(alice, tokens(10), now); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	err = rt.Execute("deposit", func(f *farm.Farm, now uint64) error {
		return f.Deposit(alice, tokens(1000), now)
	})
	assert.Error(t, err)

	require.NoError(t, rt.View(func(f *farm.Farm, _ uint64) error {
		total, err := f.TotalSupply()
		require.NoError(t, err)
		assert.Equal(t, 0, total.Sign())
		return nil
	}))
	after, err := events.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestClockIsMonotonic(t *testing.T) {
	rt, clock, _ := newTestRuntime(t)

	clock.t = 2000
	require.NoError(t, rt.Execute("noop", func(*farm.Farm, uint64) error { return nil }))

	clock.t = 1500
	require.NoError(t, rt.Execute("noop", func(_ *farm.Farm, now uint64) error {
		assert.Equal(t, uint64(2000), now)
		return nil
	}))
	require.NoError(t, rt.View(func(_ *farm.Farm, now uint64) error {
		assert.Equal(t, uint64(2000), now)
		return nil
	}))
}

func TestReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	clock := &testClock{t: 1000}
	rt, err := New(db, nil, testGenesis(), clock.now)
	require.NoError(t, err)
	approve(t, rt, stakeAddr, alice)
	require.NoError(t, rt.Execute("deposit", func(f *farm.Farm, now uint64) error {
		return f.Deposit(alice, tokens(10), now)
	}))
	clock.t = 3000
	require.NoError(t, rt.Execute("noop", func(*farm.Farm, uint64) error { return nil }))

	// a second open must not apply the genesis again
	clock.t = 10
	rt, err = New(db, nil, testGenesis(), clock.now)
	require.NoError(t, err)
	require.NoError(t, rt.View(func(f *farm.Farm, now uint64) error {
		assert.Equal(t, uint64(3000), now)
		bal, err := f.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, tokens(10).String(), bal.String())
		return nil
	}))
	require.NoError(t, rt.ViewAsset(stakeAddr, func(tk *token.Token) error {
		bal, err := tk.BalanceOf(alice)
		require.NoError(t, err)
		assert.Equal(t, tokens(90).String(), bal.String())
		return nil
	}))
}

func TestInvalidGenesis(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := testGenesis()
	gen.Config.RewardDuration = 0
	_, err = New(db, nil, gen, nil)
	assert.ErrorIs(t, err, farm.ErrInvalidDuration)

	gen = testGenesis()
	gen.Allocations = append(gen.Allocations, Allocation{Token: alice, Account: alice, Amount: tokens(1)})
	_, err = New(db, nil, gen, nil)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}
