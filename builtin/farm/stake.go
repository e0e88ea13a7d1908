// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/farm/thor"
)

//
// Stake ledger - deposits, withdrawals and receipt token transfers
//

// Deposit stakes amount of the stake token from caller, locked for the current reward duration
// if the farm is time locked. The farm must be approved to spend amount.
func (f *Farm) Deposit(caller thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("depositing", "account", caller, "amount", amount)
	err := f.atomic(func() ([]custodyMove, error) {
		return f.deposit(caller, caller, amount, 0, now)
	})
	if err != nil {
		logger.Info("deposit failed", "account", caller, "error", err)
	}
	return err
}

// DepositFor stakes amount paid by the manager on behalf of user.
// A zero lock uses the current reward duration; a lock over MaxDuration is rejected.
// The lot never unlocks before the user's previous lot, so its unlock time is
// max(now+lock, last unlock time).
func (f *Farm) DepositFor(caller, user thor.Address, amount *big.Int, lock uint64, now uint64) error {
	logger.Debug("depositing for user", "manager", caller, "user", user, "amount", amount, "lock", lock)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.requireManager(caller); err != nil {
			return nil, err
		}
		if user.IsZero() {
			return nil, ErrWrongAddress
		}
		return f.deposit(caller, user, amount, lock, now)
	})
	if err != nil {
		logger.Info("deposit for user failed", "user", user, "error", err)
	}
	return err
}

func (f *Farm) deposit(funder, user thor.Address, amount *big.Int, lock uint64, now uint64) ([]custodyMove, error) {
	if err := positive(amount); err != nil {
		return nil, err
	}
	if err := f.settle(now, user); err != nil {
		return nil, err
	}
	if err := f.ledger.Mint(user, amount); err != nil {
		return nil, err
	}
	if f.cfg.TimeLock {
		if lock == 0 {
			duration, err := f.duration.Get()
			if err != nil {
				return nil, err
			}
			lock = duration
		}
		unlock, err := deadline(now, lock)
		if err != nil {
			return nil, err
		}
		if _, err := f.lots.Push(user, amount, unlock); err != nil {
			return nil, err
		}
	}
	f.emit(StakedEvent, amount, user)
	return []custodyMove{f.pull(f.cfg.StakeToken, funder, amount)}, nil
}

// Withdraw returns amount of stake to caller.
func (f *Farm) Withdraw(caller thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("withdrawing", "account", caller, "amount", amount)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := positive(amount); err != nil {
			return nil, err
		}
		if err := f.settle(now, caller); err != nil {
			return nil, err
		}
		return f.withdraw(caller, amount, now)
	})
	if err != nil {
		logger.Info("withdraw failed", "account", caller, "error", err)
	}
	return err
}

// withdraw expects account to be settled.
func (f *Farm) withdraw(account thor.Address, amount *big.Int, now uint64) ([]custodyMove, error) {
	if err := f.debit(account, amount, now, true); err != nil {
		return nil, err
	}
	if err := f.ledger.Burn(account, amount); err != nil {
		return nil, err
	}
	f.emit(WithdrawnEvent, amount, account)
	return []custodyMove{f.push(f.cfg.StakeToken, account, amount)}, nil
}

// debit applies the guard and the lock schedule to a stake leaving account.
// The receipt balance itself is changed by the caller.
func (f *Farm) debit(account thor.Address, amount *big.Int, now uint64, withdraw bool) error {
	if err := f.cfg.Guard.beforeDebit(f, account, amount, now, withdraw); err != nil {
		return err
	}
	if !f.cfg.TimeLock {
		return nil
	}
	unlockable, err := f.Unlockable(account, now)
	if err != nil {
		return err
	}
	if amount.Cmp(unlockable) > 0 {
		return ErrUnlockInsufficient
	}
	// whatever the matured lots don't cover comes out of the free balance
	_, err = f.lots.Consume(account, amount, now)
	return err
}

// Transfer moves amount of receipt token, and the stake it represents, from caller to to.
// The recipient receives it unlocked.
func (f *Farm) Transfer(caller, to thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("transferring", "from", caller, "to", to, "amount", amount)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.settle(now, caller, to); err != nil {
			return nil, err
		}
		if err := f.debit(caller, amount, now, false); err != nil {
			return nil, err
		}
		return nil, f.ledger.Transfer(caller, to, amount)
	})
	if err != nil {
		logger.Info("transfer failed", "from", caller, "error", err)
	}
	return err
}

// TransferFrom moves amount from from to to, spending the allowance of caller.
func (f *Farm) TransferFrom(caller, from, to thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("transferring from", "spender", caller, "from", from, "to", to, "amount", amount)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.settle(now, from, to); err != nil {
			return nil, err
		}
		if err := f.debit(from, amount, now, false); err != nil {
			return nil, err
		}
		return nil, f.ledger.TransferFrom(caller, from, to, amount)
	})
	if err != nil {
		logger.Info("transfer from failed", "spender", caller, "error", err)
	}
	return err
}

func (f *Farm) Approve(caller, spender thor.Address, amount *big.Int) error {
	return f.atomic(func() ([]custodyMove, error) {
		return nil, f.ledger.Approve(caller, spender, amount)
	})
}

func (f *Farm) IncreaseAllowance(caller, spender thor.Address, added *big.Int) error {
	return f.atomic(func() ([]custodyMove, error) {
		return nil, f.ledger.IncreaseAllowance(caller, spender, added)
	})
}

func (f *Farm) DecreaseAllowance(caller, spender thor.Address, subtracted *big.Int) error {
	return f.atomic(func() ([]custodyMove, error) {
		return nil, f.ledger.DecreaseAllowance(caller, spender, subtracted)
	})
}
