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

// custodyMove is an asset transfer between the farm and an outside account.
// Moves are collected while the farm mutates its own storage and executed last.
type custodyMove struct {
	asset   thor.Address
	account thor.Address
	amount  *big.Int
	in      bool
}

func (f *Farm) pull(asset, from thor.Address, amount *big.Int) custodyMove {
	return custodyMove{asset: asset, account: from, amount: new(big.Int).Set(amount), in: true}
}

func (f *Farm) push(asset, to thor.Address, amount *big.Int) custodyMove {
	return custodyMove{asset: asset, account: to, amount: new(big.Int).Set(amount)}
}

func (f *Farm) execute(moves []custodyMove) error {
	for _, m := range moves {
		if m.amount.Sign() == 0 {
			continue
		}
		asset, err := f.assets.Asset(m.asset)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve asset %v", m.asset)
		}
		if m.in {
			err = asset.TransferFrom(f.addr, m.account, f.addr, m.amount)
		} else {
			err = asset.Transfer(f.addr, m.account, m.amount)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// atomic runs fn, then the custody moves it returned.
// Any failure reverts the storage and the events written by both.
func (f *Farm) atomic(fn func() ([]custodyMove, error)) error {
	rev := f.state.NewCheckpoint()
	moves, err := fn()
	if err == nil {
		err = f.execute(moves)
	}
	if err != nil {
		f.state.RevertTo(rev)
	}
	return err
}
