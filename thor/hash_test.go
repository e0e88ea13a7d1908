// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlake2b(t *testing.T) {
	single := Blake2b([]byte("multipledata"))
	multi := Blake2b([]byte("multi"), []byte("ple"), []byte("data"))
	assert.Equal(t, single, multi)
	assert.NotEqual(t, single, Blake2b([]byte("data")))

	h := Blake2bFn(func(w io.Writer) {
		w.Write([]byte("custom writer"))
	})
	assert.Equal(t, Blake2b([]byte("custom writer")), h)
	assert.Len(t, NewBlake2b().Sum(nil), 32)
}

func TestKeccak256(t *testing.T) {
	// topic of the erc20 Transfer event
	h := Keccak256([]byte("Transfer(address,address,uint256)"))
	assert.Equal(t, "ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", hex.EncodeToString(h[:]))

	assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
}
