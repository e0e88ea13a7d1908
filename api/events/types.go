// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/vechain/farm/logdb"
	"github.com/vechain/farm/thor"
)

type Criteria struct {
	Address *thor.Address `json:"address"`
	Name    string        `json:"name"`
	Topic0  *thor.Bytes32 `json:"topic0"`
	Topic1  *thor.Bytes32 `json:"topic1"`
	Topic2  *thor.Bytes32 `json:"topic2"`
	Topic3  *thor.Bytes32 `json:"topic3"`
}

type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type Filter struct {
	CriteriaSet []*Criteria `json:"criteriaSet"`
	Range       *Range      `json:"range"`
	Options     *Options    `json:"options"`
	Order       logdb.Order `json:"order"`
}

type FilteredEvent struct {
	Seq     uint64                `json:"seq"`
	Time    uint64                `json:"time"`
	Address thor.Address          `json:"address"`
	Name    string                `json:"name"`
	Topics  []*thor.Bytes32       `json:"topics"`
	Amount  *math.HexOrDecimal256 `json:"amount,omitempty"`
}

func convertFilter(f *Filter) *logdb.Filter {
	filter := &logdb.Filter{Order: f.Order}
	for _, c := range f.CriteriaSet {
		filter.CriteriaSet = append(filter.CriteriaSet, &logdb.Criteria{
			Address: c.Address,
			Name:    c.Name,
			Topics:  [4]*thor.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3},
		})
	}
	if f.Range != nil {
		r := &logdb.Range{To: ^uint64(0)}
		if f.Range.From != nil {
			r.From = *f.Range.From
		}
		if f.Range.To != nil {
			r.To = *f.Range.To
		}
		filter.Range = r
	}
	if f.Options != nil {
		filter.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return filter
}

func convertEvent(e *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Seq:     e.Seq,
		Time:    e.Time,
		Address: e.Address,
		Name:    e.Name,
		Topics:  make([]*thor.Bytes32, 0, len(e.Topics)),
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	if e.Amount != nil {
		fe.Amount = (*math.HexOrDecimal256)(e.Amount)
	}
	return fe
}
