// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Bytes32 is a storage slot key or an event topic.
type Bytes32 [32]byte

var (
	_ encoding.TextMarshaler   = Bytes32{}
	_ encoding.TextUnmarshaler = (*Bytes32)(nil)
)

func (b Bytes32) String() string {
	return hexutil.Encode(b[:])
}

// AbbrevString keeps the first and last four bytes, for logs.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalText encodes as 0x-prefixed hex, which also drives JSON and YAML.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	parsed, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 parses 64 hex digits, with or without the 0x prefix.
func ParseBytes32(s string) (Bytes32, error) {
	switch len(s) {
	case 64:
		s = "0x" + s
	case 66:
		if s[:2] != "0x" && s[:2] != "0X" {
			return Bytes32{}, errors.New("invalid prefix")
		}
		s = "0x" + s[2:]
	default:
		return Bytes32{}, errors.New("invalid length")
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return Bytes32{}, errors.Wrap(err, "parse bytes32")
	}
	return Bytes32(raw), nil
}

// BytesToBytes32 left pads b to 32 bytes, or keeps its last 32 bytes when longer.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}
