// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Precision scales reward-per-token indexes, 1e18.
var Precision = big.NewInt(1e18)

// MaxUint256 is the largest amount a storage word can hold. An allowance of it is treated as infinite.
var MaxUint256 = new(big.Int).Set(uint256.NewInt(0).SetAllOne().ToBig())

// Fits256 reports whether v is a valid unsigned 256-bit word.
func Fits256(v *big.Int) bool {
	return v.Sign() >= 0 && v.BitLen() <= 256
}
