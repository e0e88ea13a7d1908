// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible balance ledger as a native contract.
// The farm uses it for the stake and reward assets it takes into custody, and for its own receipt token.
package token

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/reverts"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/log"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

var logger = log.WithContext("pkg", "token")

var (
	ErrInsufficientBalance   = reverts.New("token: transfer amount exceeds balance")
	ErrInsufficientAllowance = reverts.New("token: insufficient allowance")
	ErrAllowanceBelowZero    = reverts.New("token: decreased allowance below zero")
	ErrZeroAddress           = reverts.New("token: zero address")
	ErrNegativeAmount        = reverts.New("token: negative amount")
)

const (
	TransferEvent = "Transfer(address,address,uint256)"
	ApprovalEvent = "Approval(address,address,uint256)"
)

var (
	slotName        = nameToSlot("token-name")
	slotSymbol      = nameToSlot("token-symbol")
	slotDecimals    = nameToSlot("token-decimals")
	slotTotalSupply = nameToSlot("token-total-supply")
	slotBalances    = nameToSlot("token-balances")
	slotAllowances  = nameToSlot("token-allowances")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// Token is a fungible ledger stored under the contract address addr.
type Token struct {
	context     *solidity.Context
	name        *solidity.Raw[string]
	symbol      *solidity.Raw[string]
	decimals    *solidity.Raw[uint8]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
}

// New create a token instance.
func New(addr thor.Address, state *state.State) *Token {
	ctx := solidity.NewContext(addr, state)
	return &Token{
		context:     ctx,
		name:        solidity.NewRaw[string](ctx, slotName),
		symbol:      solidity.NewRaw[string](ctx, slotSymbol),
		decimals:    solidity.NewRaw[uint8](ctx, slotDecimals),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](ctx, slotAllowances),
	}
}

// Initialize writes the token metadata.
func (t *Token) Initialize(name, symbol string, decimals uint8) error {
	if err := t.name.Set(name); err != nil {
		return err
	}
	if err := t.symbol.Set(symbol); err != nil {
		return err
	}
	return t.decimals.Set(decimals)
}

func (t *Token) Address() thor.Address {
	return t.context.Address()
}

func (t *Token) Name() (string, error) {
	return t.name.Get()
}

func (t *Token) Symbol() (string, error) {
	return t.symbol.Get()
}

func (t *Token) Decimals() (uint8, error) {
	return t.decimals.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) setBalance(addr thor.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	if !thor.Fits256(bal) {
		return errors.New("balance overflow")
	}
	return t.balances.Set(addr, bal)
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return allowance, nil
}

func (t *Token) setAllowance(owner, spender thor.Address, amount *big.Int) error {
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	if !thor.Fits256(amount) {
		return errors.New("allowance overflow")
	}
	key := allowanceKey(owner, spender)
	if amount.Sign() == 0 {
		t.allowances.Delete(key)
	} else if err := t.allowances.Set(key, amount); err != nil {
		return err
	}
	t.context.Emit(state.NewEvent(t.Address(), ApprovalEvent, amount,
		state.AddressTopic(owner), state.AddressTopic(spender)))
	return nil
}

// Approve sets the allowance of spender over the balance of owner.
// An allowance of thor.MaxUint256 is infinite and never decreases on spending.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	return t.setAllowance(owner, spender, amount)
}

func (t *Token) IncreaseAllowance(owner, spender thor.Address, added *big.Int) error {
	allowance, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	return t.setAllowance(owner, spender, allowance.Add(allowance, added))
}

func (t *Token) DecreaseAllowance(owner, spender thor.Address, subtracted *big.Int) error {
	allowance, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(subtracted) < 0 {
		return ErrAllowanceBelowZero
	}
	return t.setAllowance(owner, spender, allowance.Sub(allowance, subtracted))
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	t.context.Emit(state.NewEvent(t.Address(), TransferEvent, amount,
		state.AddressTopic(from), state.AddressTopic(to)))
	return nil
}

// TransferFrom moves amount out of from on behalf of spender, spending its allowance.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	if err := t.spendAllowance(from, spender, amount); err != nil {
		return err
	}
	return t.Transfer(from, to, amount)
}

func (t *Token) spendAllowance(owner, spender thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	allowance, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(thor.MaxUint256) == 0 {
		return nil
	}
	if allowance.Cmp(amount) < 0 {
		logger.Debug("allowance exceeded", "token", t.Address(), "owner", owner, "spender", spender, "amount", amount)
		return ErrInsufficientAllowance
	}
	key := allowanceKey(owner, spender)
	remained := allowance.Sub(allowance, amount)
	if remained.Sign() == 0 {
		t.allowances.Delete(key)
		return nil
	}
	// spending does not emit Approval
	return t.allowances.Set(key, remained)
}

func (t *Token) move(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, toBal.Add(toBal, amount))
}

// Mint creates amount for the account, emitted as a Transfer from the zero address.
func (t *Token) Mint(to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return errors.Wrap(err, "mint")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	t.context.Emit(state.NewEvent(t.Address(), TransferEvent, amount,
		state.AddressTopic(thor.Address{}), state.AddressTopic(to)))
	return nil
}

// Burn destroys amount of the account, emitted as a Transfer to the zero address.
func (t *Token) Burn(from thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	bal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.setBalance(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(amount); err != nil {
		return errors.Wrap(err, "burn")
	}
	t.context.Emit(state.NewEvent(t.Address(), TransferEvent, amount,
		state.AddressTopic(from), state.AddressTopic(thor.Address{})))
	return nil
}
