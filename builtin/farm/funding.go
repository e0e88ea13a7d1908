// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/farm/builtin/farm/stream"
)

// FundingPolicy decides how much reward asset a rate announcement pulls from the manager.
type FundingPolicy interface {
	// amount is called after the stream was settled to now and before the new rate is applied.
	amount(s *stream.Stream, rate *big.Int, duration, now uint64) *big.Int
}

// FlatFunding pulls rate * duration for every announcement.
// Leftover emission of an interrupted period stays in custody and becomes recoverable.
type FlatFunding struct{}

func (FlatFunding) amount(_ *stream.Stream, rate *big.Int, duration, _ uint64) *big.Int {
	return new(big.Int).Mul(rate, new(big.Int).SetUint64(duration))
}

// RolloverFunding pulls rate * duration minus what the interrupted period still had to emit.
type RolloverFunding struct{}

func (RolloverFunding) amount(s *stream.Stream, rate *big.Int, duration, now uint64) *big.Int {
	need := new(big.Int).Mul(rate, new(big.Int).SetUint64(duration))
	need.Sub(need, s.Remaining(now))
	if need.Sign() < 0 {
		return new(big.Int)
	}
	return need
}
