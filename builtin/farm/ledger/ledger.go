// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger is the stake ledger of a farm: the receipt token minted one for one against
// deposited stake, plus the square-root-weighted supply.
package ledger

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/builtin/token"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

var slotSqrtSupply = thor.BytesToBytes32([]byte("stake-sqrt-supply"))

// Ledger embeds the receipt token. Every method that moves balances keeps the sqrt supply in step.
type Ledger struct {
	*token.Token
	sqrtSupply *solidity.Uint256
}

func New(addr thor.Address, st *state.State) *Ledger {
	return &Ledger{
		Token:      token.New(addr, st),
		sqrtSupply: solidity.NewUint256(solidity.NewContext(addr, st), slotSqrtSupply),
	}
}

// Isqrt returns floor(sqrt(v)).
func Isqrt(v *big.Int) *big.Int {
	x, overflow := uint256.FromBig(v)
	if overflow {
		return new(big.Int).Sqrt(v)
	}
	return x.Sqrt(x).ToBig()
}

// SqrtBalanceOf returns isqrt of the stake balance of addr.
func (l *Ledger) SqrtBalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := l.BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	return Isqrt(bal), nil
}

// SqrtSupply returns the sum of isqrt(balance) over all accounts.
func (l *Ledger) SqrtSupply() (*big.Int, error) {
	return l.sqrtSupply.Get()
}

// track runs fn and folds the change of isqrt(balance) of the given accounts into the sqrt supply.
func (l *Ledger) track(fn func() error, accounts ...thor.Address) error {
	if len(accounts) == 2 && accounts[0] == accounts[1] {
		accounts = accounts[:1]
	}
	before := make([]*big.Int, len(accounts))
	for i, addr := range accounts {
		s, err := l.SqrtBalanceOf(addr)
		if err != nil {
			return err
		}
		before[i] = s
	}
	if err := fn(); err != nil {
		return err
	}
	supply, err := l.sqrtSupply.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get sqrt supply")
	}
	for i, addr := range accounts {
		after, err := l.SqrtBalanceOf(addr)
		if err != nil {
			return err
		}
		supply.Add(supply, after.Sub(after, before[i]))
	}
	if err := l.sqrtSupply.Set(supply); err != nil {
		return errors.Wrap(err, "failed to set sqrt supply")
	}
	return nil
}

func (l *Ledger) Mint(to thor.Address, amount *big.Int) error {
	return l.track(func() error { return l.Token.Mint(to, amount) }, to)
}

func (l *Ledger) Burn(from thor.Address, amount *big.Int) error {
	return l.track(func() error { return l.Token.Burn(from, amount) }, from)
}

func (l *Ledger) Transfer(from, to thor.Address, amount *big.Int) error {
	return l.track(func() error { return l.Token.Transfer(from, to, amount) }, from, to)
}

func (l *Ledger) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	return l.track(func() error { return l.Token.TransferFrom(spender, from, to, amount) }, from, to)
}
