// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/vechain/farm/thor"
)

var (
	errOverflow  = errors.New("uint256 overflow")
	errUnderflow = errors.New("uint256 underflow")
)

// Uint256 is a single storage word holding an unsigned 256-bit integer.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*big.Int, error) {
	value := new(big.Int)
	err := u.context.state.DecodeStorage(u.context.address, u.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value)
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errUnderflow
	}
	if !thor.Fits256(value) {
		return errOverflow
	}
	if value.Sign() == 0 {
		u.context.state.SetRawStorage(u.context.address, u.pos, nil)
		return nil
	}
	return u.context.state.EncodeStorage(u.context.address, u.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (u *Uint256) Add(delta *big.Int) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(value.Add(value, delta))
}

func (u *Uint256) Sub(delta *big.Int) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(value.Sub(value, delta))
}

// Address is a storage slot holding an address.
type Address struct {
	raw *Raw[thor.Address]
}

func NewAddress(context *Context, slot thor.Bytes32) *Address {
	return &Address{raw: NewRaw[thor.Address](context, slot)}
}

func (a *Address) Get() (thor.Address, error) {
	return a.raw.Get()
}

// Set stores addr, clearing the slot for nil or the zero address.
func (a *Address) Set(addr *thor.Address) error {
	if addr == nil || addr.IsZero() {
		a.raw.Clear()
		return nil
	}
	return a.raw.Set(*addr)
}

// Raw stores an arbitrary rlp encodable value in one slot.
type Raw[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[V any](context *Context, slot thor.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: slot}
}

// Get returns the stored value, the zero value if unset.
func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (r *Raw[V]) Clear() {
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
}
