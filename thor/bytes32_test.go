// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes32JSON(t *testing.T) {
	hex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var b Bytes32
	require.NoError(t, json.Unmarshal([]byte(hex), &b))
	assert.Equal(t, BytesToBytes32([]byte("master")), b)

	out, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, hex, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &b))
	assert.Error(t, json.Unmarshal([]byte(`12`), &b))
}

func TestParseBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("farm"))

	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	parsed, err = ParseBytes32(b.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("1x" + b.String()[2:])
	assert.Error(t, err)
	_, err = ParseBytes32("0x" + string(make([]byte, 64)))
	assert.Error(t, err)

	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, b.IsZero())
	assert.Equal(t, "0x00000000…6661726d", b.AbbrevString())
}

func TestBytesToBytes32Crops(t *testing.T) {
	long := make([]byte, 40)
	long[39] = 1
	long[0] = 0xff
	b := BytesToBytes32(long)
	assert.Equal(t, byte(1), b[31])
	assert.Equal(t, byte(0), b[0])
}
