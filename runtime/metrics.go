// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/farm/builtin/reverts"
	"github.com/vechain/farm/metrics"
	"github.com/vechain/farm/thor"
)

var (
	metricOperations   = metrics.LazyLoadCounterVec("operations_count", []string{"op", "outcome"})
	metricTotalStaked  = metrics.LazyLoadGauge("total_staked_tokens")
	metricRewardTokens = metrics.LazyLoadGauge("reward_tokens")
	metricEvents       = metrics.LazyLoadCounter("events_count")
)

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case reverts.IsRevertErr(err):
		return "revert"
	default:
		return "error"
	}
}

// wholeTokens drops the 18 decimals so the gauge fits an int64.
func wholeTokens(amount *big.Int) int64 {
	v := new(big.Int).Quo(amount, thor.Precision)
	if !v.IsInt64() {
		return -1
	}
	return v.Int64()
}
