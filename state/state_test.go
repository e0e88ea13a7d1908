// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/thor"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("farm"))
	key := thor.BytesToBytes32([]byte("total-staked"))

	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Empty(t, raw)

	assert.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(big.NewInt(100))
	}))

	var v big.Int
	assert.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &v)
	}))
	assert.Equal(t, int64(100), v.Int64())

	other := thor.BytesToAddress([]byte("token"))
	raw, err = st.GetRawStorage(other, key)
	assert.NoError(t, err)
	assert.Empty(t, raw, "slots are scoped by contract address")
}

func TestStateCheckpointRevert(t *testing.T) {
	st, _ := newTestState(t)
	addr := thor.BytesToAddress([]byte("farm"))
	key := thor.BytesToBytes32([]byte("k"))

	st.SetRawStorage(addr, key, []byte{0x01})
	st.AddEvent(NewEvent(addr, "Staked(address,uint256)", big.NewInt(1)))

	rev := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte{0x02})
	st.AddEvent(NewEvent(addr, "Withdrawn(address,uint256)", big.NewInt(1)))

	inner := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte{0x03})
	st.RevertTo(inner)

	raw, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, []byte{0x02}, raw)
	assert.Len(t, st.Events(), 2)

	st.RevertTo(rev)
	raw, _ = st.GetRawStorage(addr, key)
	assert.Equal(t, []byte{0x01}, raw)
	require.Len(t, st.Events(), 1)
	assert.Equal(t, "Staked", st.Events()[0].Name)
}

func TestStateCommit(t *testing.T) {
	st, db := newTestState(t)
	addr := thor.BytesToAddress([]byte("farm"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetRawStorage(addr, k1, []byte{0x01})
	st.SetRawStorage(addr, k2, []byte{0x02})
	st.AddEvent(NewEvent(addr, "RewardAdded(address,uint256)", big.NewInt(3000), AddressTopic(addr)))

	events, err := st.Commit()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "RewardAdded", events[0].Name)
	assert.Equal(t, thor.Keccak256([]byte("RewardAdded(address,uint256)")), events[0].Topics[0])
	assert.Empty(t, st.Events())

	// a fresh state over the same store sees the committed values
	reopened := New(db)
	raw, err := reopened.GetRawStorage(addr, k2)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x02}, raw)

	// clearing a slot deletes the key
	st.SetRawStorage(addr, k1, nil)
	_, err = st.Commit()
	require.NoError(t, err)
	has, err := db.Has(storageKey{addr, k1}.dbKey())
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestKeccakTopicOfTransfer(t *testing.T) {
	ev := NewEvent(thor.Address{}, "Transfer(address,address,uint256)", big.NewInt(1))
	// well known ERC20 Transfer topic
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		ev.Topics[0].String())
}
