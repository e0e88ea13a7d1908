// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

// Event is a committed contract event as stored in the db.
type Event struct {
	Seq     uint64 // global insertion order
	Time    uint64 // farm time of the call that emitted the event
	Address thor.Address
	Name    string
	Topics  [4]*thor.Bytes32
	Amount  *big.Int
}

func newEvent(seq uint64, time uint64, ev *state.Event) *Event {
	e := &Event{
		Seq:     seq,
		Time:    time,
		Address: ev.Address,
		Name:    ev.Name,
		Amount:  ev.Amount,
	}
	for i := 0; i < len(ev.Topics) && i < len(e.Topics); i++ {
		topic := ev.Topics[i]
		e.Topics[i] = &topic
	}
	return e
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. A To below From leaves the range open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Criteria matches events by emitter, name and topics. Nil fields match anything.
// Topics[0] is the event signature hash, the account topics follow.
type Criteria struct {
	Address *thor.Address
	Name    string
	Topics  [4]*thor.Bytes32
}

type Filter struct {
	CriteriaSet []*Criteria
	Range       *Range
	Options     *Options
	Order       Order
}
