// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm serves the farm over REST.
package farm

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/farm/api/utils"
	"github.com/vechain/farm/builtin/farm"
	"github.com/vechain/farm/builtin/reverts"
	"github.com/vechain/farm/runtime"
)

type Farm struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Farm {
	return &Farm{rt}
}

// convertError maps farm errors to http errors. Anything that is not a revert is a server fault.
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case farm.IsUnauthorized(err):
		return utils.Forbidden(err)
	case reverts.IsRevertErr(err):
		return utils.BadRequest(err)
	default:
		return err
	}
}

func (f *Farm) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	var summary Summary
	err := f.rt.View(func(fm *farm.Farm, now uint64) (err error) {
		summary.Address = fm.Address()
		summary.StakeToken = fm.StakeToken()
		summary.TimeLocked = fm.TimeLocked()
		summary.Now = now
		if summary.Name, err = fm.Name(); err != nil {
			return err
		}
		if summary.Symbol, err = fm.Symbol(); err != nil {
			return err
		}
		if summary.Decimals, err = fm.Decimals(); err != nil {
			return err
		}
		total, err := fm.TotalSupply()
		if err != nil {
			return err
		}
		summary.TotalSupply = utils.Hex(total)
		sqr, err := fm.TotalSupplySQR()
		if err != nil {
			return err
		}
		summary.TotalSupplySQR = utils.Hex(sqr)
		if summary.RewardDuration, err = fm.RewardDuration(); err != nil {
			return err
		}
		if summary.Owner, err = fm.Owner(); err != nil {
			return err
		}
		if summary.ProposedOwner, err = fm.ProposedOwner(); err != nil {
			return err
		}
		summary.Manager, err = fm.Manager()
		return err
	})
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &summary)
}

func (f *Farm) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	var tokens []RewardToken
	err := f.rt.View(func(fm *farm.Farm, now uint64) error {
		list, err := fm.RewardTokens()
		if err != nil {
			return err
		}
		tokens = make([]RewardToken, 0, len(list))
		for _, token := range list {
			s, err := fm.Stream(token)
			if err != nil {
				return err
			}
			rpt, err := fm.RewardPerToken(token, now)
			if err != nil {
				return err
			}
			recoverable, err := fm.Recoverable(token, now)
			if err != nil {
				return err
			}
			tokens = append(tokens, RewardToken{
				Token:                token,
				RewardRate:           utils.Hex(s.Rate),
				PeriodFinish:         s.PeriodFinish,
				LastUpdateTime:       s.LastUpdateTime,
				RewardPerTokenStored: utils.Hex(s.RewardPerTokenStored),
				RewardPerToken:       utils.Hex(rpt),
				Recoverable:          utils.Hex(recoverable),
			})
		}
		return nil
	})
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, tokens)
}

func (f *Farm) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var acc Account
	err = f.rt.View(func(fm *farm.Farm, now uint64) error {
		bal, err := fm.BalanceOf(addr)
		if err != nil {
			return err
		}
		sqr, err := fm.BalanceSQR(addr)
		if err != nil {
			return err
		}
		unlockable, err := fm.Unlockable(addr, now)
		if err != nil {
			return err
		}
		if acc.StakeCount, err = fm.StakeCount(addr); err != nil {
			return err
		}
		tokens, err := fm.RewardTokens()
		if err != nil {
			return err
		}
		earned, err := fm.Earned(addr, now)
		if err != nil {
			return err
		}
		acc.Balance = utils.Hex(bal)
		acc.BalanceSQR = utils.Hex(sqr)
		acc.Unlockable = utils.Hex(unlockable)
		acc.Earned = make([]Earned, 0, len(tokens))
		for i, token := range tokens {
			acc.Earned = append(acc.Earned, Earned{Token: token, Amount: utils.Hex(earned[i])})
		}
		return nil
	})
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &acc)
}

func (f *Farm) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	index, err := strconv.ParseUint(mux.Vars(req)["index"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "index"))
	}
	var stake *Stake
	err = f.rt.View(func(fm *farm.Farm, _ uint64) error {
		lot, err := fm.Stakes(addr, index)
		if err != nil || lot == nil {
			return err
		}
		stake = &Stake{Amount: utils.Hex(lot.Amount), UnlockTime: lot.UnlockTime}
		return nil
	})
	if err != nil {
		return convertError(err)
	}
	if stake == nil {
		return utils.NotFound(errors.New("stake not found"))
	}
	return utils.WriteJSON(w, stake)
}

func (f *Farm) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	var amount *big.Int
	err = f.rt.View(func(fm *farm.Farm, _ uint64) (err error) {
		amount, err = fm.Allowance(owner, spender)
		return err
	})
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &Allowance{Owner: owner, Spender: spender, Amount: utils.Hex(amount)})
}

// invocation is a farm call bound to its arguments.
type invocation func(fm *farm.Farm, now uint64) error

// write parses a Call, lets bind check its arguments and runs the result as one farm call.
func (f *Farm) write(name string, bind func(call *Call) (invocation, error)) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var call Call
		if err := utils.ParseJSON(req.Body, &call); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if call.Caller.IsZero() {
			return utils.BadRequest(errors.New("caller: required"))
		}
		invoke, err := bind(&call)
		if err != nil {
			return err
		}
		var at uint64
		err = f.rt.Execute(name, func(fm *farm.Farm, now uint64) error {
			at = now
			return invoke(fm, now)
		})
		if err != nil {
			return convertError(err)
		}
		return utils.WriteJSON(w, &Receipt{Time: at})
	}
}

func (f *Farm) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /farm").HandlerFunc(utils.WrapHandlerFunc(f.handleGetSummary))
	sub.Path("/tokens").Methods(http.MethodGet).Name("GET /farm/tokens").HandlerFunc(utils.WrapHandlerFunc(f.handleGetTokens))
	sub.Path("/accounts/{address}").Methods(http.MethodGet).Name("GET /farm/accounts/{address}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetAccount))
	sub.Path("/accounts/{address}/stakes/{index}").Methods(http.MethodGet).Name("GET /farm/accounts/{address}/stakes/{index}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetStake))
	sub.Path("/allowance/{owner}/{spender}").Methods(http.MethodGet).Name("GET /farm/allowance/{owner}/{spender}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetAllowance))

	for _, r := range writes {
		sub.Path("/"+r.path).Methods(http.MethodPost).Name("POST /farm/"+r.path).HandlerFunc(utils.WrapHandlerFunc(f.write(r.path, r.bind)))
	}
}
