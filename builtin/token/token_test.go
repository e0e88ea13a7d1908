// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/test/datagen"
	"github.com/vechain/farm/thor"
)

func newToken(t *testing.T) (*Token, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	tk := New(thor.BytesToAddress([]byte("stake")), st)
	require.NoError(t, tk.Initialize("Stake", "STK", 18))
	return tk, st
}

func assertBalance(t *testing.T, tk *Token, addr thor.Address, expected int64) {
	t.Helper()
	bal, err := tk.BalanceOf(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(expected).String(), bal.String())
}

func TestMetadata(t *testing.T) {
	tk, _ := newToken(t)

	name, err := tk.Name()
	assert.NoError(t, err)
	assert.Equal(t, "Stake", name)
	symbol, _ := tk.Symbol()
	assert.Equal(t, "STK", symbol)
	decimals, _ := tk.Decimals()
	assert.Equal(t, uint8(18), decimals)
}

func TestMintTransferBurn(t *testing.T) {
	tk, st := newToken(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, tk.Mint(alice, big.NewInt(100)))
	require.NoError(t, tk.Transfer(alice, bob, big.NewInt(40)))
	assertBalance(t, tk, alice, 60)
	assertBalance(t, tk, bob, 40)

	assert.ErrorIs(t, tk.Transfer(alice, bob, big.NewInt(61)), ErrInsufficientBalance)
	assert.ErrorIs(t, tk.Transfer(alice, thor.Address{}, big.NewInt(1)), ErrZeroAddress)
	assert.ErrorIs(t, tk.Transfer(alice, bob, big.NewInt(-1)), ErrNegativeAmount)

	require.NoError(t, tk.Burn(bob, big.NewInt(15)))
	assertBalance(t, tk, bob, 25)
	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(85), supply.Int64())
	assert.ErrorIs(t, tk.Burn(bob, big.NewInt(26)), ErrInsufficientBalance)

	events := st.Events()
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, "Transfer", ev.Name)
		assert.Equal(t, tk.Address(), ev.Address)
	}
	assert.Equal(t, state.AddressTopic(thor.Address{}), events[0].Topics[1], "mint is a transfer from zero")
	assert.Equal(t, state.AddressTopic(thor.Address{}), events[2].Topics[2], "burn is a transfer to zero")
}

func TestAllowance(t *testing.T) {
	tk, _ := newToken(t)
	owner, spender, to := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tk.Mint(owner, big.NewInt(100)))

	assert.ErrorIs(t, tk.TransferFrom(spender, owner, to, big.NewInt(1)), ErrInsufficientAllowance)

	require.NoError(t, tk.Approve(owner, spender, big.NewInt(50)))
	require.NoError(t, tk.TransferFrom(spender, owner, to, big.NewInt(20)))
	allowance, _ := tk.Allowance(owner, spender)
	assert.Equal(t, int64(30), allowance.Int64())

	assert.ErrorIs(t, tk.TransferFrom(spender, owner, to, big.NewInt(31)), ErrInsufficientAllowance)

	require.NoError(t, tk.IncreaseAllowance(owner, spender, big.NewInt(5)))
	allowance, _ = tk.Allowance(owner, spender)
	assert.Equal(t, int64(35), allowance.Int64())

	require.NoError(t, tk.DecreaseAllowance(owner, spender, big.NewInt(35)))
	allowance, _ = tk.Allowance(owner, spender)
	assert.Equal(t, 0, allowance.Sign())
	assert.ErrorIs(t, tk.DecreaseAllowance(owner, spender, big.NewInt(1)), ErrAllowanceBelowZero)
}

func TestInfiniteAllowance(t *testing.T) {
	tk, _ := newToken(t)
	owner, spender := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tk.Mint(owner, big.NewInt(100)))
	require.NoError(t, tk.Approve(owner, spender, thor.MaxUint256))

	require.NoError(t, tk.TransferFrom(spender, owner, spender, big.NewInt(60)))
	require.NoError(t, tk.TransferFrom(spender, owner, spender, big.NewInt(40)))

	allowance, err := tk.Allowance(owner, spender)
	require.NoError(t, err)
	assert.Equal(t, thor.MaxUint256.String(), allowance.String())
	assertBalance(t, tk, spender, 100)

	assert.Error(t, tk.IncreaseAllowance(owner, spender, big.NewInt(1)), "allowance overflow")
}

func TestFailedTransferIsAtomicUnderCheckpoint(t *testing.T) {
	tk, st := newToken(t)
	owner, spender := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, tk.Mint(owner, big.NewInt(10)))
	require.NoError(t, tk.Approve(owner, spender, big.NewInt(100)))

	rev := st.NewCheckpoint()
	// allowance is spent before the balance check fails
	err := tk.TransferFrom(spender, owner, spender, big.NewInt(50))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	st.RevertTo(rev)

	allowance, _ := tk.Allowance(owner, spender)
	assert.Equal(t, int64(100), allowance.Int64())
	assertBalance(t, tk, owner, 10)
}
