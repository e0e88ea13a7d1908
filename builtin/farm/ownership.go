// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/vechain/farm/thor"
)

// ProposeNewOwner starts a two step ownership transfer to candidate.
func (f *Farm) ProposeNewOwner(caller, candidate thor.Address) error {
	logger.Debug("proposing new owner", "owner", caller, "candidate", candidate)
	return f.atomic(func() ([]custodyMove, error) {
		if err := f.requireOwner(caller); err != nil {
			return nil, err
		}
		if candidate.IsZero() || candidate == caller {
			return nil, ErrWrongAddress
		}
		return nil, f.roles.SetProposedOwner(candidate)
	})
}

// ClaimOwnership completes the transfer started by ProposeNewOwner.
func (f *Farm) ClaimOwnership(caller thor.Address) error {
	logger.Debug("claiming ownership", "candidate", caller)
	return f.atomic(func() ([]custodyMove, error) {
		proposed, err := f.roles.ProposedOwner()
		if err != nil {
			return nil, err
		}
		if proposed.IsZero() || proposed != caller {
			return nil, ErrInvalidCandidate
		}
		if err := f.roles.SetOwner(caller); err != nil {
			return nil, err
		}
		if err := f.roles.SetProposedOwner(thor.Address{}); err != nil {
			return nil, err
		}
		f.emit(OwnerChangedEvent, nil, caller)
		return nil, nil
	})
}

// ChangeManager hands the manager role to manager.
func (f *Farm) ChangeManager(caller, manager thor.Address) error {
	logger.Debug("changing manager", "owner", caller, "manager", manager)
	return f.atomic(func() ([]custodyMove, error) {
		if err := f.requireOwner(caller); err != nil {
			return nil, err
		}
		if manager.IsZero() {
			return nil, ErrWrongAddress
		}
		if err := f.roles.SetManager(manager); err != nil {
			return nil, err
		}
		f.emit(ManagerChangedEvent, nil, manager)
		return nil, nil
	})
}
