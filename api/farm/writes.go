// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/api/utils"
	"github.com/vechain/farm/builtin/farm"
	"github.com/vechain/farm/thor"
)

var writes = []struct {
	path string
	bind func(call *Call) (invocation, error)
}{
	{"deposit", bindDeposit},
	{"deposits", bindDepositFor},
	{"withdraw", bindWithdraw},
	{"claim", bindClaim},
	{"exit", bindExit},
	{"transfer", bindTransfer},
	{"transferFrom", bindTransferFrom},
	{"approve", bindApprove},
	{"increaseAllowance", bindIncreaseAllowance},
	{"decreaseAllowance", bindDecreaseAllowance},
	{"rates", bindSetRewardRates},
	{"duration", bindSetRewardDuration},
	{"tokens", bindAddRewardToken},
	{"recover", bindRecoverTokens},
	{"owner/propose", bindProposeNewOwner},
	{"owner/claim", bindClaimOwnership},
	{"manager", bindChangeManager},
}

func bindDeposit(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, now uint64) error {
		return fm.Deposit(call.Caller, amount, now)
	}, nil
}

func bindDepositFor(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, now uint64) error {
		return fm.DepositFor(call.Caller, call.User, amount, call.Lock, now)
	}, nil
}

func bindWithdraw(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, now uint64) error {
		return fm.Withdraw(call.Caller, amount, now)
	}, nil
}

// bindClaim claims every token, or only call.Token when it is set.
func bindClaim(call *Call) (invocation, error) {
	if call.Token != nil {
		token := *call.Token
		return func(fm *farm.Farm, now uint64) error {
			return fm.ClaimReward(call.Caller, token, now)
		}, nil
	}
	return func(fm *farm.Farm, now uint64) error {
		return fm.Claim(call.Caller, now)
	}, nil
}

func bindExit(call *Call) (invocation, error) {
	return func(fm *farm.Farm, now uint64) error {
		return fm.Exit(call.Caller, now)
	}, nil
}

func bindTransfer(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, now uint64) error {
		return fm.Transfer(call.Caller, call.To, amount, now)
	}, nil
}

func bindTransferFrom(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, now uint64) error {
		return fm.TransferFrom(call.Caller, call.From, call.To, amount, now)
	}, nil
}

func bindApprove(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, _ uint64) error {
		return fm.Approve(call.Caller, call.Spender, amount)
	}, nil
}

func bindIncreaseAllowance(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, _ uint64) error {
		return fm.IncreaseAllowance(call.Caller, call.Spender, amount)
	}, nil
}

func bindDecreaseAllowance(call *Call) (invocation, error) {
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	return func(fm *farm.Farm, _ uint64) error {
		return fm.DecreaseAllowance(call.Caller, call.Spender, amount)
	}, nil
}

func bindSetRewardRates(call *Call) (invocation, error) {
	rates := make([]*big.Int, 0, len(call.Rates))
	for _, r := range call.Rates {
		rate, err := utils.Amount(r, "rates")
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	tokens := append([]thor.Address(nil), call.Tokens...)
	return func(fm *farm.Farm, now uint64) error {
		return fm.SetRewardRates(call.Caller, tokens, rates, now)
	}, nil
}

func bindSetRewardDuration(call *Call) (invocation, error) {
	return func(fm *farm.Farm, now uint64) error {
		return fm.SetRewardDuration(call.Caller, call.Duration, now)
	}, nil
}

func bindAddRewardToken(call *Call) (invocation, error) {
	if call.Token == nil {
		return nil, utils.BadRequest(errors.New("token: required"))
	}
	token := *call.Token
	return func(fm *farm.Farm, now uint64) error {
		return fm.AddRewardToken(call.Caller, token, now)
	}, nil
}

func bindRecoverTokens(call *Call) (invocation, error) {
	if call.Token == nil {
		return nil, utils.BadRequest(errors.New("token: required"))
	}
	amount, err := utils.Amount(call.Amount, "amount")
	if err != nil {
		return nil, err
	}
	token := *call.Token
	return func(fm *farm.Farm, now uint64) error {
		return fm.RecoverTokens(call.Caller, token, amount, now)
	}, nil
}

func bindProposeNewOwner(call *Call) (invocation, error) {
	return func(fm *farm.Farm, _ uint64) error {
		return fm.ProposeNewOwner(call.Caller, call.Candidate)
	}, nil
}

func bindClaimOwnership(call *Call) (invocation, error) {
	return func(fm *farm.Farm, _ uint64) error {
		return fm.ClaimOwnership(call.Caller)
	}, nil
}

func bindChangeManager(call *Call) (invocation, error) {
	return func(fm *farm.Farm, _ uint64) error {
		return fm.ChangeManager(call.Caller, call.Manager)
	}, nil
}
