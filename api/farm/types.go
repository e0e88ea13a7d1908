// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/vechain/farm/thor"
)

type Summary struct {
	Address        thor.Address          `json:"address"`
	Name           string                `json:"name"`
	Symbol         string                `json:"symbol"`
	Decimals       uint8                 `json:"decimals"`
	StakeToken     thor.Address          `json:"stakeToken"`
	TotalSupply    *math.HexOrDecimal256 `json:"totalSupply"`
	TotalSupplySQR *math.HexOrDecimal256 `json:"totalSupplySQR"`
	RewardDuration uint64                `json:"rewardDuration"`
	TimeLocked     bool                  `json:"timeLocked"`
	Owner          thor.Address          `json:"owner"`
	ProposedOwner  thor.Address          `json:"proposedOwner"`
	Manager        thor.Address          `json:"manager"`
	Now            uint64                `json:"now"`
}

type RewardToken struct {
	Token                thor.Address          `json:"token"`
	RewardRate           *math.HexOrDecimal256 `json:"rewardRate"`
	PeriodFinish         uint64                `json:"periodFinish"`
	LastUpdateTime       uint64                `json:"lastUpdateTime"`
	RewardPerTokenStored *math.HexOrDecimal256 `json:"rewardPerTokenStored"`
	RewardPerToken       *math.HexOrDecimal256 `json:"rewardPerToken"`
	Recoverable          *math.HexOrDecimal256 `json:"recoverable"`
}

type Earned struct {
	Token  thor.Address          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Account struct {
	Balance    *math.HexOrDecimal256 `json:"balance"`
	BalanceSQR *math.HexOrDecimal256 `json:"balanceSQR"`
	Unlockable *math.HexOrDecimal256 `json:"unlockable"`
	StakeCount uint64                `json:"stakeCount"`
	Earned     []Earned              `json:"earned"`
}

type Stake struct {
	Amount     *math.HexOrDecimal256 `json:"amount"`
	UnlockTime uint64                `json:"unlockTime"`
}

type Allowance struct {
	Owner   thor.Address          `json:"owner"`
	Spender thor.Address          `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

// Call is the body of every write. Caller is the account the call is made on behalf of.
type Call struct {
	Caller    thor.Address            `json:"caller"`
	Amount    *math.HexOrDecimal256   `json:"amount,omitempty"`
	Token     *thor.Address           `json:"token,omitempty"`
	To        thor.Address            `json:"to,omitzero"`
	From      thor.Address            `json:"from,omitzero"`
	Spender   thor.Address            `json:"spender,omitzero"`
	User      thor.Address            `json:"user,omitzero"`
	Candidate thor.Address            `json:"candidate,omitzero"`
	Manager   thor.Address            `json:"manager,omitzero"`
	Lock      uint64                  `json:"lock,omitempty"`
	Duration  uint64                  `json:"duration,omitempty"`
	Tokens    []thor.Address          `json:"tokens,omitempty"`
	Rates     []*math.HexOrDecimal256 `json:"rates,omitempty"`
}

// Receipt acknowledges a committed write.
type Receipt struct {
	Time uint64 `json:"time"`
}
