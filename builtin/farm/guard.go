// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/thor"
)

// Guard keeps the reward index defined when the stake supply could reach zero.
// Exactly one guard is chosen when the farm is constructed.
type Guard interface {
	validate() error
	// initialize runs once, inside Farm.Initialize.
	initialize(f *Farm, funder thor.Address) ([]custodyMove, error)
	// beforeDebit runs after settlement and before the stake of account is reduced by amount.
	beforeDebit(f *Farm, account thor.Address, amount *big.Int, now uint64, withdraw bool) error
	// floorAccount returns the account holding the permanent stake, if any.
	floorAccount() (thor.Address, bool)
}

// FloorGuard stakes Amount on behalf of the dead address at initialization.
// The stake never leaves, so the supply is never zero. Rewards accrued by the floor
// are recoverable by the manager.
type FloorGuard struct {
	Amount *big.Int
}

func (g *FloorGuard) validate() error {
	if g.Amount == nil || g.Amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return nil
}

func (g *FloorGuard) initialize(f *Farm, funder thor.Address) ([]custodyMove, error) {
	if err := f.ledger.Mint(thor.DeadAddress, g.Amount); err != nil {
		return nil, errors.Wrap(err, "failed to mint floor stake")
	}
	f.emit(StakedEvent, g.Amount, thor.DeadAddress)
	return []custodyMove{f.pull(f.cfg.StakeToken, funder, g.Amount)}, nil
}

func (g *FloorGuard) beforeDebit(_ *Farm, account thor.Address, _ *big.Int, _ uint64, _ bool) error {
	if account == thor.DeadAddress {
		return ErrFloorStake
	}
	return nil
}

func (g *FloorGuard) floorAccount() (thor.Address, bool) {
	return thor.DeadAddress, true
}

// LastStakerGuard refuses the withdrawal that would empty the pool while a period
// is running and the requester still has rewards to claim.
type LastStakerGuard struct{}

func (g *LastStakerGuard) validate() error {
	return nil
}

func (g *LastStakerGuard) initialize(*Farm, thor.Address) ([]custodyMove, error) {
	return nil, nil
}

func (g *LastStakerGuard) beforeDebit(f *Farm, account thor.Address, amount *big.Int, now uint64, withdraw bool) error {
	if !withdraw {
		return nil
	}
	total, err := f.ledger.TotalSupply()
	if err != nil {
		return err
	}
	if total.Cmp(amount) > 0 {
		return nil
	}
	active, err := f.anyActive(now)
	if err != nil || !active {
		return err
	}
	owed, err := f.hasOwed(account)
	if err != nil {
		return err
	}
	if owed {
		return ErrStillEarning
	}
	return nil
}

func (g *LastStakerGuard) floorAccount() (thor.Address, bool) {
	return thor.Address{}, false
}
