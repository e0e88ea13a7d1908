// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timelock

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/thor"
)

var (
	slotLots   = thor.BytesToBytes32([]byte("stake-lots"))
	slotQueues = thor.BytesToBytes32([]byte("stake-queues"))

	ErrEmptyLot = errors.New("empty stake lot")
)

// Lot is a deposit increment that can't leave the account before UnlockTime.
type Lot struct {
	Amount     *big.Int
	UnlockTime uint64
}

// queue is the per-account window [Head, Tail) over the lot slots.
// Queued is the sum of the amounts inside the window.
type queue struct {
	Head   uint64
	Tail   uint64
	Queued *big.Int
}

func (q *queue) len() uint64 {
	return q.Tail - q.Head
}

func lotKey(account thor.Address, seq uint64) thor.Bytes32 {
	return thor.Blake2b(account.Bytes(), binary.BigEndian.AppendUint64(nil, seq))
}

// Queue is the FIFO of stake lots of every account.
// Lots are appended at the tail and consumed from the head, the head only ever moves forward.
type Queue struct {
	lots   *solidity.Mapping[thor.Bytes32, *Lot]
	queues *solidity.Mapping[thor.Address, *queue]
}

func New(sctx *solidity.Context) *Queue {
	return &Queue{
		lots:   solidity.NewMapping[thor.Bytes32, *Lot](sctx, slotLots),
		queues: solidity.NewMapping[thor.Address, *queue](sctx, slotQueues),
	}
}

func (q *Queue) getQueue(account thor.Address) (*queue, error) {
	qu, err := q.queues.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake queue")
	}
	if qu.Queued == nil {
		qu.Queued = new(big.Int)
	}
	return qu, nil
}

func (q *Queue) setQueue(account thor.Address, qu *queue) error {
	if err := q.queues.Set(account, qu); err != nil {
		return errors.Wrap(err, "failed to set stake queue")
	}
	return nil
}

func (q *Queue) getLot(account thor.Address, seq uint64) (*Lot, error) {
	lot, err := q.lots.Get(lotKey(account, seq))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake lot")
	}
	if lot.Amount == nil {
		lot.Amount = new(big.Int)
	}
	return lot, nil
}

// Push appends a lot of amount maturing at unlockTime.
// The unlock time is raised to the one of the last lot so that the queue stays ordered.
func (q *Queue) Push(account thor.Address, amount *big.Int, unlockTime uint64) (*Lot, error) {
	if amount.Sign() <= 0 {
		return nil, ErrEmptyLot
	}
	qu, err := q.getQueue(account)
	if err != nil {
		return nil, err
	}
	if qu.len() > 0 {
		last, err := q.getLot(account, qu.Tail-1)
		if err != nil {
			return nil, err
		}
		unlockTime = max(unlockTime, last.UnlockTime)
	}
	lot := &Lot{Amount: new(big.Int).Set(amount), UnlockTime: unlockTime}
	if err := q.lots.Set(lotKey(account, qu.Tail), lot); err != nil {
		return nil, errors.Wrap(err, "failed to set stake lot")
	}
	qu.Tail++
	qu.Queued.Add(qu.Queued, amount)
	return lot, q.setQueue(account, qu)
}

// Count returns the number of lots still queued.
func (q *Queue) Count(account thor.Address) (uint64, error) {
	qu, err := q.getQueue(account)
	if err != nil {
		return 0, err
	}
	return qu.len(), nil
}

// At returns the lot at index, counted from the head of the queue. It returns nil if out of range.
func (q *Queue) At(account thor.Address, index uint64) (*Lot, error) {
	qu, err := q.getQueue(account)
	if err != nil {
		return nil, err
	}
	if index >= qu.len() {
		return nil, nil
	}
	return q.getLot(account, qu.Head+index)
}

// Queued returns the sum of all queued lots, matured or not.
func (q *Queue) Queued(account thor.Address) (*big.Int, error) {
	qu, err := q.getQueue(account)
	if err != nil {
		return nil, err
	}
	return qu.Queued, nil
}

// Unlocked returns the sum of the matured prefix of the queue.
func (q *Queue) Unlocked(account thor.Address, now uint64) (*big.Int, error) {
	qu, err := q.getQueue(account)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for seq := qu.Head; seq < qu.Tail; seq++ {
		lot, err := q.getLot(account, seq)
		if err != nil {
			return nil, err
		}
		if lot.UnlockTime > now {
			break
		}
		sum.Add(sum, lot.Amount)
	}
	return sum, nil
}

// Locked returns the sum of the lots that haven't matured at now.
func (q *Queue) Locked(account thor.Address, now uint64) (*big.Int, error) {
	qu, err := q.getQueue(account)
	if err != nil {
		return nil, err
	}
	unlocked, err := q.Unlocked(account, now)
	if err != nil {
		return nil, err
	}
	return unlocked.Sub(qu.Queued, unlocked), nil
}

// Consume drains up to amount from the matured prefix, oldest first.
// A partially consumed lot keeps its unlock time and stays at the head.
// It returns the part of amount that the matured lots couldn't cover.
func (q *Queue) Consume(account thor.Address, amount *big.Int, now uint64) (*big.Int, error) {
	qu, err := q.getQueue(account)
	if err != nil {
		return nil, err
	}
	left := new(big.Int).Set(amount)
	for qu.Head < qu.Tail && left.Sign() > 0 {
		lot, err := q.getLot(account, qu.Head)
		if err != nil {
			return nil, err
		}
		if lot.UnlockTime > now {
			break
		}
		if lot.Amount.Cmp(left) > 0 {
			lot.Amount.Sub(lot.Amount, left)
			qu.Queued.Sub(qu.Queued, left)
			left.SetUint64(0)
			if err := q.lots.Set(lotKey(account, qu.Head), lot); err != nil {
				return nil, errors.Wrap(err, "failed to set stake lot")
			}
			break
		}
		left.Sub(left, lot.Amount)
		qu.Queued.Sub(qu.Queued, lot.Amount)
		q.lots.Delete(lotKey(account, qu.Head))
		qu.Head++
	}
	return left, q.setQueue(account, qu)
}
