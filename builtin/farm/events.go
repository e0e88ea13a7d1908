// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

const (
	StakedEvent                = "Staked(address,uint256)"
	WithdrawnEvent             = "Withdrawn(address,uint256)"
	RewardAddedEvent           = "RewardAdded(address,uint256)"
	RewardPaidEvent            = "RewardPaid(address,address,uint256)"
	RewardTokenAddedEvent      = "RewardTokenAdded(address)"
	RewardDurationChangedEvent = "RewardDurationChanged(uint256)"
	RecoveredEvent             = "Recovered(address,uint256)"
	OwnerChangedEvent          = "OwnerChanged(address)"
	ManagerChangedEvent        = "ManagerChanged(address)"
)

func (f *Farm) emit(signature string, amount *big.Int, indexed ...thor.Address) {
	topics := make([]thor.Bytes32, 0, len(indexed))
	for _, addr := range indexed {
		topics = append(topics, state.AddressTopic(addr))
	}
	f.sctx.Emit(state.NewEvent(f.addr, signature, amount, topics...))
}
