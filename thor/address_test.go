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
	"gopkg.in/yaml.v3"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x000000000000000000000000000000000000dEaD")
	require.NoError(t, err)
	assert.Equal(t, DeadAddress, addr)
	assert.Equal(t, "0x000000000000000000000000000000000000dead", addr.String())

	noPrefix, err := ParseAddress("000000000000000000000000000000000000dead")
	require.NoError(t, err)
	assert.Equal(t, addr, noPrefix)

	for _, bad := range []string{"", "0x12", "1x000000000000000000000000000000000000dead", "0x00000000000000000000000000000000000000zz"} {
		_, err := ParseAddress(bad)
		assert.Error(t, err, bad)
	}
	assert.Panics(t, func() { MustParseAddress("nope") })
}

func TestAddressEncoding(t *testing.T) {
	type holder struct {
		Owner Address `json:"owner" yaml:"owner"`
	}
	owner := BytesToAddress([]byte("owner"))

	data, err := json.Marshal(holder{owner})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+owner.String()+`"}`, string(data))

	var h holder
	require.NoError(t, json.Unmarshal(data, &h))
	assert.Equal(t, owner, h.Owner)
	assert.Error(t, json.Unmarshal([]byte(`{"owner":"0x1"}`), &h))

	h = holder{}
	require.NoError(t, yaml.Unmarshal([]byte(`owner: "`+owner.String()+`"`), &h))
	assert.Equal(t, owner, h.Owner)

	assert.True(t, Address{}.IsZero())
	assert.False(t, owner.IsZero())
	assert.Len(t, owner.Bytes(), AddressLength)
}
