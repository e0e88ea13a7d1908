// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/builtin/token"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/test/datagen"
	"github.com/vechain/farm/thor"
)

const (
	start    = uint64(1_000_000)
	duration = uint64(300)
)

var (
	farmAddress = thor.BytesToAddress([]byte("farm"))
	oneToken    = big.NewInt(1e18)
)

type testAssets map[thor.Address]*token.Token

func (a testAssets) Asset(addr thor.Address) (Asset, error) {
	tk, ok := a[addr]
	if !ok {
		return nil, errors.New("unknown asset")
	}
	return tk, nil
}

type testEnv struct {
	t       *testing.T
	st      *state.State
	farm    *Farm
	assets  testAssets
	stake   *token.Token
	rewards []*token.Token
	owner   thor.Address
	manager thor.Address
}

func newTestEnv(t *testing.T, opts ...func(*Config)) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		t:       t,
		st:      state.New(db),
		assets:  make(testAssets),
		owner:   datagen.RandAddress(),
		manager: datagen.RandAddress(),
	}
	env.stake = env.newAsset("Stake", "STK")
	env.rewards = []*token.Token{env.newAsset("Reward A", "RWA"), env.newAsset("Reward B", "RWB")}

	cfg := Config{
		StakeToken:     env.stake.Address(),
		RewardTokens:   []thor.Address{env.rewards[0].Address(), env.rewards[1].Address()},
		RewardDuration: duration,
		Owner:          env.owner,
		Manager:        env.manager,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	env.fund(env.owner, new(big.Int).Mul(oneToken, big.NewInt(1000)))
	for _, reward := range env.rewards {
		env.fundReward(reward)
	}
	env.farm = New(farmAddress, env.st, cfg, env.assets)
	require.NoError(t, env.farm.Initialize(env.owner, start))
	return env
}

func (e *testEnv) newAsset(name, symbol string) *token.Token {
	tk := token.New(datagen.RandAddress(), e.st)
	require.NoError(e.t, tk.Initialize(name, symbol, 18))
	e.assets[tk.Address()] = tk
	return tk
}

// fund mints stake to account and approves the farm to pull it.
func (e *testEnv) fund(account thor.Address, amount *big.Int) {
	require.NoError(e.t, e.stake.Mint(account, amount))
	require.NoError(e.t, e.stake.Approve(account, farmAddress, thor.MaxUint256))
}

func (e *testEnv) fundReward(reward *token.Token) {
	require.NoError(e.t, reward.Mint(e.manager, new(big.Int).Mul(oneToken, big.NewInt(1_000_000))))
	require.NoError(e.t, reward.Approve(e.manager, farmAddress, thor.MaxUint256))
}

func (e *testEnv) staker(amount *big.Int) thor.Address {
	acc := datagen.RandAddress()
	e.fund(acc, amount)
	return acc
}

func (e *testEnv) token(i int) thor.Address {
	return e.rewards[i].Address()
}

func (e *testEnv) setRates(now uint64, rates ...int64) error {
	tokens := make([]thor.Address, len(rates))
	values := make([]*big.Int, len(rates))
	for i, r := range rates {
		tokens[i] = e.token(i)
		values[i] = big.NewInt(r)
	}
	return e.farm.SetRewardRates(e.manager, tokens, values, now)
}

func (e *testEnv) earned(account thor.Address, i int, now uint64) *big.Int {
	earned, err := e.farm.EarnedByToken(account, e.token(i), now)
	require.NoError(e.t, err)
	return earned
}

func balanceOf(t *testing.T, tk *token.Token, account thor.Address) *big.Int {
	bal, err := tk.BalanceOf(account)
	require.NoError(t, err)
	return bal
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env   *testEnv
	funcs []TestFunc
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{env: env}
}

func (s *TestSequence) AddFunc(f TestFunc) *TestSequence {
	s.funcs = append(s.funcs, f)
	return s
}

func (s *TestSequence) Deposit(account thor.Address, amount *big.Int, now uint64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		if err := s.env.farm.Deposit(account, amount, now); err != nil {
			t.Fatalf("failed to deposit %s for %s: %v", amount, account, err)
		}
	})
}

func (s *TestSequence) Withdraw(account thor.Address, amount *big.Int, now uint64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		if err := s.env.farm.Withdraw(account, amount, now); err != nil {
			t.Fatalf("failed to withdraw %s for %s: %v", amount, account, err)
		}
	})
}

func (s *TestSequence) SetRates(now uint64, rates ...int64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		if err := s.env.setRates(now, rates...); err != nil {
			t.Fatalf("failed to set rates %v: %v", rates, err)
		}
	})
}

func (s *TestSequence) Claim(account thor.Address, now uint64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		if err := s.env.farm.Claim(account, now); err != nil {
			t.Fatalf("failed to claim for %s: %v", account, err)
		}
	})
}

func (s *TestSequence) Transfer(from, to thor.Address, amount *big.Int, now uint64) *TestSequence {
	return s.AddFunc(func(t *testing.T) {
		if err := s.env.farm.Transfer(from, to, amount, now); err != nil {
			t.Fatalf("failed to transfer %s from %s: %v", amount, from, err)
		}
	})
}

func (s *TestSequence) Run(t *testing.T) {
	for _, f := range s.funcs {
		f(t)
	}
}

type AccountAssertions struct {
	env     *testEnv
	account thor.Address
	now     uint64

	balance    *big.Int
	unlockable *big.Int
	earned     map[int]*big.Int
	stakeCount *uint64
}

func AssertAccount(env *testEnv, account thor.Address, now uint64) *AccountAssertions {
	return &AccountAssertions{env: env, account: account, now: now, earned: make(map[int]*big.Int)}
}

func (a *AccountAssertions) Balance(expected *big.Int) *AccountAssertions {
	a.balance = expected
	return a
}

func (a *AccountAssertions) Unlockable(expected *big.Int) *AccountAssertions {
	a.unlockable = expected
	return a
}

func (a *AccountAssertions) Earned(token int, expected int64) *AccountAssertions {
	a.earned[token] = big.NewInt(expected)
	return a
}

func (a *AccountAssertions) StakeCount(expected uint64) *AccountAssertions {
	a.stakeCount = &expected
	return a
}

func (a *AccountAssertions) Assert(t *testing.T) {
	t.Helper()
	f := a.env.farm
	if a.balance != nil {
		bal, err := f.BalanceOf(a.account)
		require.NoError(t, err)
		assert.Equal(t, a.balance.String(), bal.String(), "balance of %s", a.account)
	}
	if a.unlockable != nil {
		unlockable, err := f.Unlockable(a.account, a.now)
		require.NoError(t, err)
		assert.Equal(t, a.unlockable.String(), unlockable.String(), "unlockable of %s at %d", a.account, a.now)
	}
	for token, expected := range a.earned {
		assert.Equal(t, expected.String(), a.env.earned(a.account, token, a.now).String(),
			"earned %d of %s at %d", token, a.account, a.now)
	}
	if a.stakeCount != nil {
		count, err := f.StakeCount(a.account)
		require.NoError(t, err)
		assert.Equal(t, *a.stakeCount, count)
	}
}
