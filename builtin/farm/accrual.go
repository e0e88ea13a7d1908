// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/farm/builtin/farm/stream"
	"github.com/vechain/farm/thor"
)

// settle accrues every stream up to now, then moves the accrual of each account into its owed amount.
// It must run before any change of a stake balance or of the total supply.
func (f *Farm) settle(now uint64, accounts ...thor.Address) error {
	n, err := f.registry.Count()
	if err != nil {
		return err
	}
	total, err := f.ledger.TotalSupply()
	if err != nil {
		return err
	}
	balances := make(map[thor.Address]*big.Int, len(accounts))
	for _, account := range accounts {
		if _, ok := balances[account]; ok {
			continue
		}
		bal, err := f.ledger.BalanceOf(account)
		if err != nil {
			return err
		}
		balances[account] = bal
	}

	for id := range n {
		s, err := f.streams.Get(id)
		if err != nil {
			return err
		}
		s.Accrue(total, now)
		if err := f.streams.Set(id, s); err != nil {
			return err
		}
		if len(balances) == 0 {
			continue
		}
		entry, err := f.registry.Get(id)
		if err != nil {
			return err
		}
		for account, bal := range balances {
			cp, err := f.streams.Checkpoint(account, id, entry.AddedAt)
			if err != nil {
				return err
			}
			cp.Settle(bal, s.RewardPerTokenStored)
			if err := f.streams.SetCheckpoint(account, id, cp); err != nil {
				return err
			}
		}
	}
	return nil
}

// earned projects the stream id to now and returns the claimable amount of account.
func (f *Farm) earned(account thor.Address, id uint64, total *big.Int, now uint64) (*big.Int, error) {
	s, err := f.streams.Get(id)
	if err != nil {
		return nil, err
	}
	cp, err := f.checkpoint(account, id)
	if err != nil {
		return nil, err
	}
	bal, err := f.ledger.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	return cp.Earned(bal, s.Project(total, now)), nil
}

func (f *Farm) checkpoint(account thor.Address, id uint64) (*stream.Checkpoint, error) {
	entry, err := f.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return f.streams.Checkpoint(account, id, entry.AddedAt)
}

// anyActive reports whether any stream still emits at now.
func (f *Farm) anyActive(now uint64) (bool, error) {
	n, err := f.registry.Count()
	if err != nil {
		return false, err
	}
	for id := range n {
		s, err := f.streams.Get(id)
		if err != nil {
			return false, err
		}
		if s.Active(now) {
			return true, nil
		}
	}
	return false, nil
}

// hasOwed reports whether account has a settled, unclaimed amount in any stream.
func (f *Farm) hasOwed(account thor.Address) (bool, error) {
	n, err := f.registry.Count()
	if err != nil {
		return false, err
	}
	for id := range n {
		cp, err := f.checkpoint(account, id)
		if err != nil {
			return false, err
		}
		if cp.Owed.Sign() > 0 {
			return true, nil
		}
	}
	return false, nil
}

// takeOwed zeroes the owed amount of account in stream id and books it as claimed.
// Call it only after settle.
func (f *Farm) takeOwed(account thor.Address, id uint64) (*big.Int, error) {
	cp, err := f.checkpoint(account, id)
	if err != nil {
		return nil, err
	}
	owed := cp.Take()
	if owed.Sign() == 0 {
		return owed, nil
	}
	if err := f.streams.SetCheckpoint(account, id, cp); err != nil {
		return nil, err
	}
	s, err := f.streams.Get(id)
	if err != nil {
		return nil, err
	}
	s.Claimed.Add(s.Claimed, owed)
	if err := f.streams.Set(id, s); err != nil {
		return nil, err
	}
	return owed, nil
}
