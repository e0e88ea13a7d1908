// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the ordered set of reward tokens of a farm.
// Ids are dense, start at zero and never get reused.
package registry

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/thor"
)

var (
	slotCount   = thor.BytesToBytes32([]byte("reward-tokens-count"))
	slotEntries = thor.BytesToBytes32([]byte("reward-tokens"))
	slotIndex   = thor.BytesToBytes32([]byte("reward-tokens-index"))

	ErrDuplicate = errors.New("reward token already registered")
)

type entryKey uint64

func (k entryKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Entry describes a registered reward token.
type Entry struct {
	Asset     thor.Address
	AddedAt   *big.Int // stream index at registration, the default checkpoint of every account
	AddedTime uint64
}

type Registry struct {
	count   *solidity.Raw[uint64]
	entries *solidity.Mapping[entryKey, *Entry]
	index   *solidity.Mapping[thor.Address, uint64] // id + 1, zero means absent
}

func New(sctx *solidity.Context) *Registry {
	return &Registry{
		count:   solidity.NewRaw[uint64](sctx, slotCount),
		entries: solidity.NewMapping[entryKey, *Entry](sctx, slotEntries),
		index:   solidity.NewMapping[thor.Address, uint64](sctx, slotIndex),
	}
}

// Add registers asset and returns its id.
func (r *Registry) Add(asset thor.Address, now uint64) (uint64, error) {
	pos, err := r.index.Get(asset)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get token index")
	}
	if pos != 0 {
		return 0, ErrDuplicate
	}
	id, err := r.count.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get token count")
	}
	entry := &Entry{Asset: asset, AddedAt: new(big.Int), AddedTime: now}
	if err := r.entries.Set(entryKey(id), entry); err != nil {
		return 0, errors.Wrap(err, "failed to set token entry")
	}
	if err := r.index.Set(asset, id+1); err != nil {
		return 0, errors.Wrap(err, "failed to set token index")
	}
	if err := r.count.Set(id + 1); err != nil {
		return 0, errors.Wrap(err, "failed to set token count")
	}
	return id, nil
}

// IndexOf returns the id of asset, or false if it is not registered.
func (r *Registry) IndexOf(asset thor.Address) (uint64, bool, error) {
	pos, err := r.index.Get(asset)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get token index")
	}
	if pos == 0 {
		return 0, false, nil
	}
	return pos - 1, true, nil
}

func (r *Registry) Get(id uint64) (*Entry, error) {
	entry, err := r.entries.Get(entryKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token entry")
	}
	if entry.AddedAt == nil {
		entry.AddedAt = new(big.Int)
	}
	return entry, nil
}

func (r *Registry) Count() (uint64, error) {
	return r.count.Get()
}

// Tokens returns the registered assets in registration order.
func (r *Registry) Tokens() ([]thor.Address, error) {
	n, err := r.count.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token count")
	}
	tokens := make([]thor.Address, 0, n)
	for id := range n {
		entry, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, entry.Asset)
	}
	return tokens, nil
}
