// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"sort"

	"github.com/vechain/farm/builtin/farm"
	"github.com/vechain/farm/builtin/reverts"
	"github.com/vechain/farm/builtin/token"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

var ErrUnknownAsset = reverts.New("runtime: unknown asset")

// TokenSpec describes a built-in token contract.
type TokenSpec struct {
	Address  thor.Address
	Name     string
	Symbol   string
	Decimals uint8
}

// Allocation is a genesis balance.
type Allocation struct {
	Token   thor.Address
	Account thor.Address
	Amount  *big.Int
}

// Assets holds the built-in tokens the farm takes custody of.
type Assets struct {
	tokens map[thor.Address]*token.Token
}

func newAssets(st *state.State, specs []TokenSpec) *Assets {
	tokens := make(map[thor.Address]*token.Token, len(specs))
	for _, spec := range specs {
		tokens[spec.Address] = token.New(spec.Address, st)
	}
	return &Assets{tokens: tokens}
}

// Asset implements farm.Assets.
func (a *Assets) Asset(addr thor.Address) (farm.Asset, error) {
	t, ok := a.tokens[addr]
	if !ok {
		return nil, ErrUnknownAsset
	}
	return t, nil
}

func (a *Assets) Token(addr thor.Address) (*token.Token, bool) {
	t, ok := a.tokens[addr]
	return t, ok
}

// Addresses returns the token addresses in ascending order.
func (a *Assets) Addresses() []thor.Address {
	addrs := make([]thor.Address, 0, len(a.tokens))
	for addr := range a.tokens {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].String() < addrs[j].String()
	})
	return addrs
}
