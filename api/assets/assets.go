// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package assets serves the built-in token contracts the farm holds in custody.
package assets

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/farm/api/utils"
	"github.com/vechain/farm/builtin/reverts"
	"github.com/vechain/farm/builtin/token"
	"github.com/vechain/farm/runtime"
	"github.com/vechain/farm/thor"
)

type Asset struct {
	Address     thor.Address          `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Account thor.Address          `json:"account"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Call struct {
	Caller  thor.Address          `json:"caller"`
	Spender thor.Address          `json:"spender,omitzero"`
	To      thor.Address          `json:"to,omitzero"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type Assets struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Assets {
	return &Assets{rt}
}

func convertError(err error) error {
	if errors.Is(err, runtime.ErrUnknownAsset) {
		return utils.NotFound(err)
	}
	if reverts.IsRevertErr(err) {
		return utils.BadRequest(err)
	}
	return err
}

func (a *Assets) handleList(w http.ResponseWriter, _ *http.Request) error {
	list := make([]*Asset, 0)
	for _, addr := range a.rt.Assets() {
		asset := &Asset{Address: addr}
		err := a.rt.ViewAsset(addr, func(t *token.Token) (err error) {
			if asset.Name, err = t.Name(); err != nil {
				return err
			}
			if asset.Symbol, err = t.Symbol(); err != nil {
				return err
			}
			if asset.Decimals, err = t.Decimals(); err != nil {
				return err
			}
			supply, err := t.TotalSupply()
			if err != nil {
				return err
			}
			asset.TotalSupply = utils.Hex(supply)
			return nil
		})
		if err != nil {
			return convertError(err)
		}
		list = append(list, asset)
	}
	return utils.WriteJSON(w, list)
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var bal *big.Int
	err = a.rt.ViewAsset(addr, func(t *token.Token) (err error) {
		bal, err = t.BalanceOf(account)
		return err
	})
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &Balance{Account: account, Balance: utils.Hex(bal)})
}

func (a *Assets) write(name string, op func(t *token.Token, call *Call, amount *big.Int) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := utils.AddressVar(req, "address")
		if err != nil {
			return err
		}
		var call Call
		if err := utils.ParseJSON(req.Body, &call); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if call.Caller.IsZero() {
			return utils.BadRequest(errors.New("caller: required"))
		}
		amount, err := utils.Amount(call.Amount, "amount")
		if err != nil {
			return err
		}
		err = a.rt.ExecuteAsset(name, addr, func(t *token.Token, _ uint64) error {
			return op(t, &call, amount)
		})
		if err != nil {
			return convertError(err)
		}
		return utils.WriteJSON(w, utils.M{"ok": true})
	}
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /assets").HandlerFunc(utils.WrapHandlerFunc(a.handleList))
	sub.Path("/{address}/balances/{account}").Methods(http.MethodGet).Name("GET /assets/{address}/balances/{account}").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	sub.Path("/{address}/approve").Methods(http.MethodPost).Name("POST /assets/{address}/approve").HandlerFunc(utils.WrapHandlerFunc(
		a.write("asset.approve", func(t *token.Token, call *Call, amount *big.Int) error {
			return t.Approve(call.Caller, call.Spender, amount)
		})))
	sub.Path("/{address}/transfer").Methods(http.MethodPost).Name("POST /assets/{address}/transfer").HandlerFunc(utils.WrapHandlerFunc(
		a.write("asset.transfer", func(t *token.Token, call *Call, amount *big.Int) error {
			return t.Transfer(call.Caller, call.To, amount)
		})))
}
