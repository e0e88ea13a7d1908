// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/test/datagen"
	"github.com/vechain/farm/thor"
)

func newRegistry(t *testing.T) *Registry {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(thor.BytesToAddress([]byte("farm")), state.New(db)))
}

func TestRegistry(t *testing.T) {
	r := newRegistry(t)
	a, b := datagen.RandAddress(), datagen.RandAddress()

	count, err := r.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	id, err := r.Add(a, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	id, err = r.Add(b, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	_, err = r.Add(a, 300)
	assert.ErrorIs(t, err, ErrDuplicate)

	id, ok, err := r.IndexOf(b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), id)

	_, ok, err = r.IndexOf(datagen.RandAddress())
	require.NoError(t, err)
	assert.False(t, ok)

	entry, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, b, entry.Asset)
	assert.Equal(t, uint64(200), entry.AddedTime)
	assert.Equal(t, "0", entry.AddedAt.String())

	tokens, err := r.Tokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{a, b}, tokens)
}
