// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stream

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/thor"
)

var (
	slotStreams     = thor.BytesToBytes32([]byte("reward-streams"))
	slotCheckpoints = thor.BytesToBytes32([]byte("reward-checkpoints"))
)

type streamKey uint64

func (k streamKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

func checkpointKey(account thor.Address, id uint64) thor.Bytes32 {
	return thor.Blake2b(account.Bytes(), streamKey(id).Bytes())
}

// Service stores streams by token id and checkpoints by (account, token id).
type Service struct {
	streams     *solidity.Mapping[streamKey, *Stream]
	checkpoints *solidity.Mapping[thor.Bytes32, *Checkpoint]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		streams:     solidity.NewMapping[streamKey, *Stream](sctx, slotStreams),
		checkpoints: solidity.NewMapping[thor.Bytes32, *Checkpoint](sctx, slotCheckpoints),
	}
}

func (s *Service) Get(id uint64) (*Stream, error) {
	st, err := s.streams.Get(streamKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stream")
	}
	st.normalize()
	return st, nil
}

func (s *Service) Set(id uint64, st *Stream) error {
	if err := s.streams.Set(streamKey(id), st); err != nil {
		return errors.Wrap(err, "failed to set stream")
	}
	return nil
}

// Checkpoint returns the checkpoint of account, starting at initial if the account was never settled.
func (s *Service) Checkpoint(account thor.Address, id uint64, initial *big.Int) (*Checkpoint, error) {
	cp, err := s.checkpoints.Get(checkpointKey(account, id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	if cp.Index == nil {
		cp.Index = new(big.Int).Set(initial)
	}
	if cp.Owed == nil {
		cp.Owed = new(big.Int)
	}
	return cp, nil
}

func (s *Service) SetCheckpoint(account thor.Address, id uint64, cp *Checkpoint) error {
	if err := s.checkpoints.Set(checkpointKey(account, id), cp); err != nil {
		return errors.Wrap(err, "failed to set checkpoint")
	}
	return nil
}
