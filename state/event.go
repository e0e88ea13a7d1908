// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"strings"

	"github.com/vechain/farm/thor"
)

// Event is a log emitted by a native contract.
// Topics[0] is the keccak hash of the event signature, followed by the indexed arguments.
type Event struct {
	Address thor.Address
	Name    string
	Topics  []thor.Bytes32
	Amount  *big.Int // the only non-indexed argument of farm events, nil if absent
}

// NewEvent builds an event for the given signature, e.g. "Transfer(address,address,uint256)".
func NewEvent(emitter thor.Address, signature string, amount *big.Int, indexed ...thor.Bytes32) *Event {
	name := signature
	if i := strings.IndexByte(signature, '('); i >= 0 {
		name = signature[:i]
	}
	topics := make([]thor.Bytes32, 0, len(indexed)+1)
	topics = append(topics, thor.Keccak256([]byte(signature)))
	topics = append(topics, indexed...)

	var value *big.Int
	if amount != nil {
		value = new(big.Int).Set(amount)
	}
	return &Event{
		Address: emitter,
		Name:    name,
		Topics:  topics,
		Amount:  value,
	}
}

// AddressTopic left pads the address into a topic.
func AddressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}
