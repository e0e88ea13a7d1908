// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/test/datagen"
	"github.com/vechain/farm/thor"
)

func withTimeLock(c *Config) {
	c.TimeLock = true
}

func TestUnlockSchedule(t *testing.T) {
	env := newTestEnv(t, withTimeLock)
	alice := env.staker(big.NewInt(100))
	f := env.farm

	NewSequence(env).
		Deposit(alice, big.NewInt(10), start).
		Deposit(alice, big.NewInt(13), start+50).
		Run(t)

	AssertAccount(env, alice, start+299).Balance(big.NewInt(23)).Unlockable(big.NewInt(0)).StakeCount(2).Assert(t)
	AssertAccount(env, alice, start+300).Unlockable(big.NewInt(10)).Assert(t)
	AssertAccount(env, alice, start+349).Unlockable(big.NewInt(10)).Assert(t)
	AssertAccount(env, alice, start+350).Unlockable(big.NewInt(23)).Assert(t)

	assert.ErrorIs(t, f.Withdraw(alice, big.NewInt(11), start+300), ErrUnlockInsufficient)
	assert.ErrorIs(t, f.Withdraw(alice, big.NewInt(1), start+299), ErrUnlockInsufficient)

	// partial consumption keeps the lot at the head
	require.NoError(t, f.Withdraw(alice, big.NewInt(4), start+300))
	lot, err := f.Stakes(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, "6", lot.Amount.String())
	assert.Equal(t, start+300, lot.UnlockTime)
	AssertAccount(env, alice, start+300).Unlockable(big.NewInt(6)).StakeCount(2).Assert(t)

	require.NoError(t, f.Withdraw(alice, big.NewInt(6), start+320))
	AssertAccount(env, alice, start+320).Unlockable(big.NewInt(0)).StakeCount(1).Assert(t)
	lot, _ = f.Stakes(alice, 0)
	assert.Equal(t, "13", lot.Amount.String())
	assert.Equal(t, start+350, lot.UnlockTime)

	lot, err = f.Stakes(alice, 5)
	require.NoError(t, err)
	assert.Nil(t, lot)
}

func TestLockedLotBlocksQueue(t *testing.T) {
	env := newTestEnv(t, withTimeLock)
	user := env.staker(big.NewInt(100))
	env.fund(env.manager, big.NewInt(100))
	f := env.farm

	assert.ErrorIs(t, f.DepositFor(user, user, big.NewInt(10), 600, start), ErrNotManager)
	assert.ErrorIs(t, f.DepositFor(env.manager, thor.Address{}, big.NewInt(10), 600, start), ErrWrongAddress)

	require.NoError(t, f.DepositFor(env.manager, user, big.NewInt(10), 600, start))
	assert.Equal(t, "90", balanceOf(t, env.stake, env.manager).String())

	// the later deposit would mature first, it's queued behind the long lock
	require.NoError(t, f.Deposit(user, big.NewInt(5), start+10))
	lot, err := f.Stakes(user, 1)
	require.NoError(t, err)
	assert.Equal(t, start+600, lot.UnlockTime)

	AssertAccount(env, user, start+400).Unlockable(big.NewInt(0)).Assert(t)
	AssertAccount(env, user, start+600).Unlockable(big.NewInt(15)).Assert(t)

	// a zero lock takes the reward duration
	require.NoError(t, f.DepositFor(env.manager, user, big.NewInt(1), 0, start+600))
	lot, _ = f.Stakes(user, 2)
	assert.Equal(t, start+600+duration, lot.UnlockTime)
}

func TestDepositForLockBounds(t *testing.T) {
	env := newTestEnv(t, withTimeLock)
	user := datagen.RandAddress()
	env.fund(env.manager, big.NewInt(100))
	f := env.farm

	assert.ErrorIs(t, f.DepositFor(env.manager, user, big.NewInt(10), math.MaxUint64, start), ErrInvalidDuration)
	assert.ErrorIs(t, f.DepositFor(env.manager, user, big.NewInt(10), MaxDuration+1, start), ErrInvalidDuration)
	assert.Equal(t, "100", balanceOf(t, env.stake, env.manager).String())
	AssertAccount(env, user, start).Balance(big.NewInt(0)).StakeCount(0).Assert(t)

	require.NoError(t, f.DepositFor(env.manager, user, big.NewInt(10), MaxDuration, start))
	lot, err := f.Stakes(user, 0)
	require.NoError(t, err)
	assert.Equal(t, start+MaxDuration, lot.UnlockTime)
	assert.ErrorIs(t, f.Withdraw(user, big.NewInt(10), start+MaxDuration-1), ErrUnlockInsufficient)
	require.NoError(t, f.Withdraw(user, big.NewInt(10), start+MaxDuration))
}

func TestTimeLockTransfer(t *testing.T) {
	env := newTestEnv(t, withTimeLock)
	alice := env.staker(big.NewInt(100))
	bob := env.staker(big.NewInt(100))
	f := env.farm

	NewSequence(env).Deposit(alice, big.NewInt(10), start).Run(t)

	assert.ErrorIs(t, f.Transfer(alice, bob, big.NewInt(5), start), ErrUnlockInsufficient)
	require.NoError(t, f.Transfer(alice, bob, big.NewInt(4), start+300))

	// the recipient doesn't inherit the lock schedule
	AssertAccount(env, bob, start+300).Balance(big.NewInt(4)).Unlockable(big.NewInt(4)).StakeCount(0).Assert(t)
	AssertAccount(env, alice, start+300).Unlockable(big.NewInt(6)).StakeCount(1).Assert(t)

	// free balance and lots add up
	require.NoError(t, f.Deposit(bob, big.NewInt(10), start+300))
	AssertAccount(env, bob, start+300).Balance(big.NewInt(14)).Unlockable(big.NewInt(4)).StakeCount(1).Assert(t)
	require.NoError(t, f.Withdraw(bob, big.NewInt(4), start+300))
	assert.ErrorIs(t, f.Withdraw(bob, big.NewInt(1), start+300), ErrUnlockInsufficient)
	AssertAccount(env, bob, start+600).Unlockable(big.NewInt(10)).Assert(t)
}

func TestTimeLockExit(t *testing.T) {
	env := newTestEnv(t, withTimeLock)
	alice := env.staker(oneToken)
	other := datagen.RandAddress()
	f := env.farm

	NewSequence(env).Deposit(alice, oneToken, start).SetRates(start, 10).Run(t)

	// nothing is unlocked yet, exit only claims
	require.NoError(t, f.Exit(alice, start+100))
	AssertAccount(env, alice, start+100).Balance(oneToken).StakeCount(1).Assert(t)
	assert.Equal(t, "1000", balanceOf(t, env.rewards[0], alice).String())

	require.NoError(t, f.Exit(alice, start+duration))
	AssertAccount(env, alice, start+duration).Balance(new(big.Int)).StakeCount(0).Assert(t)
	assert.Equal(t, "3000", balanceOf(t, env.rewards[0], alice).String())
	assert.Equal(t, oneToken.String(), balanceOf(t, env.stake, alice).String())

	AssertAccount(env, other, start+duration).Unlockable(new(big.Int)).StakeCount(0).Assert(t)
}
