// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/thor"
)

var (
	slotOwner         = thor.BytesToBytes32([]byte("owner"))
	slotProposedOwner = thor.BytesToBytes32([]byte("proposed-owner"))
	slotManager       = thor.BytesToBytes32([]byte("manager"))
)

// Roles holds the owner, the pending owner candidate and the manager.
type Roles struct {
	owner         *solidity.Address
	proposedOwner *solidity.Address
	manager       *solidity.Address
}

func New(sctx *solidity.Context) *Roles {
	return &Roles{
		owner:         solidity.NewAddress(sctx, slotOwner),
		proposedOwner: solidity.NewAddress(sctx, slotProposedOwner),
		manager:       solidity.NewAddress(sctx, slotManager),
	}
}

func (r *Roles) Owner() (thor.Address, error) {
	addr, err := r.owner.Get()
	return addr, errors.Wrap(err, "failed to get owner")
}

func (r *Roles) ProposedOwner() (thor.Address, error) {
	addr, err := r.proposedOwner.Get()
	return addr, errors.Wrap(err, "failed to get proposed owner")
}

func (r *Roles) Manager() (thor.Address, error) {
	addr, err := r.manager.Get()
	return addr, errors.Wrap(err, "failed to get manager")
}

func (r *Roles) SetOwner(addr thor.Address) error {
	return r.owner.Set(&addr)
}

func (r *Roles) SetProposedOwner(addr thor.Address) error {
	return r.proposedOwner.Set(&addr)
}

func (r *Roles) SetManager(addr thor.Address) error {
	return r.manager.Set(&addr)
}

// IsOwner reports whether addr holds the owner role.
func (r *Roles) IsOwner(addr thor.Address) (bool, error) {
	owner, err := r.Owner()
	if err != nil {
		return false, err
	}
	return !owner.IsZero() && owner == addr, nil
}

func (r *Roles) IsManager(addr thor.Address) (bool, error) {
	manager, err := r.Manager()
	if err != nil {
		return false, err
	}
	return !manager.IsZero() && manager == addr, nil
}
