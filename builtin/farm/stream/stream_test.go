// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stream

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/test/datagen"
	"github.com/vechain/farm/thor"
)

var oneToken = big.NewInt(1e18)

func running(rate int64, from, finish uint64) *Stream {
	s := NewStream(from)
	s.Rate = big.NewInt(rate)
	s.PeriodFinish = finish
	return s
}

func TestAccrue(t *testing.T) {
	tests := []struct {
		name        string
		total       *big.Int
		now         uint64
		index       string
		distributed string
		last        uint64
	}{
		{"no time passed", oneToken, 100, "0", "0", 100},
		{"inside the period", oneToken, 150, "500", "500", 150},
		{"clamped at finish", oneToken, 10_000, "2000", "2000", 300},
		{"two units staked", big.NewInt(2e18), 300, "1000", "2000", 300},
		{"empty pool", new(big.Int), 200, "0", "0", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := running(10, 100, 300)
			s.Accrue(tt.total, tt.now)
			assert.Equal(t, tt.index, s.RewardPerTokenStored.String())
			assert.Equal(t, tt.distributed, s.Distributed.String())
			assert.Equal(t, tt.last, s.LastUpdateTime)
		})
	}
}

func TestAccrueIsIdempotent(t *testing.T) {
	s := running(7, 0, 1000)
	s.Accrue(big.NewInt(3), 500)
	index := new(big.Int).Set(s.RewardPerTokenStored)
	s.Accrue(big.NewInt(3), 500)
	assert.Equal(t, index.String(), s.RewardPerTokenStored.String())
}

func TestIdleStreamKeepsCheckpoint(t *testing.T) {
	s := NewStream(500)
	s.Accrue(oneToken, 900)
	assert.Equal(t, uint64(500), s.LastUpdateTime)
	assert.Equal(t, "0", s.RewardPerTokenStored.String())
	assert.False(t, s.Active(900))
}

func TestProjectDoesNotMutate(t *testing.T) {
	s := running(10, 100, 300)
	assert.Equal(t, "1000", s.Project(oneToken, 200).String())
	assert.Equal(t, "0", s.RewardPerTokenStored.String())
	assert.Equal(t, uint64(100), s.LastUpdateTime)
}

func TestRemainingAndOutstanding(t *testing.T) {
	s := running(10, 100, 300)
	assert.Equal(t, "1500", s.Remaining(150).String())
	assert.Equal(t, "0", s.Remaining(300).String())

	s.Accrue(oneToken, 150)
	s.Claimed = big.NewInt(200)
	assert.Equal(t, "1800", s.Outstanding(150).String())
}

func TestCheckpoint(t *testing.T) {
	cp := &Checkpoint{Index: big.NewInt(100), Owed: big.NewInt(5)}
	balance := big.NewInt(2e18)

	assert.Equal(t, "205", cp.Earned(balance, big.NewInt(200)).String())

	cp.Settle(balance, big.NewInt(200))
	assert.Equal(t, "205", cp.Owed.String())
	assert.Equal(t, "200", cp.Index.String())

	assert.Equal(t, "205", cp.Take().String())
	assert.Equal(t, "0", cp.Owed.String())
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("farm")), state.New(db)))

	s, err := svc.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "0", s.Rate.String())

	s = running(10, 100, 300)
	s.Accrue(oneToken, 200)
	require.NoError(t, svc.Set(1, s))

	got, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.RewardPerTokenStored.String())
	assert.Equal(t, uint64(300), got.PeriodFinish)
	assert.Equal(t, uint64(200), got.LastUpdateTime)

	acc := datagen.RandAddress()
	cp, err := svc.Checkpoint(acc, 1, big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, "42", cp.Index.String())
	assert.Equal(t, "0", cp.Owed.String())

	cp.Settle(oneToken, got.RewardPerTokenStored)
	require.NoError(t, svc.SetCheckpoint(acc, 1, cp))
	cp, err = svc.Checkpoint(acc, 1, big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, "1000", cp.Index.String())
	assert.Equal(t, "958", cp.Owed.String())

	other, err := svc.Checkpoint(acc, 0, new(big.Int))
	require.NoError(t, err)
	assert.Equal(t, "0", other.Index.String())
}
