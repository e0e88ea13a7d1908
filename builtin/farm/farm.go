// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm implements a multi-token staking farm as a native contract.
//
// Stakers deposit the stake token and receive the receipt token one for one. Every registered
// reward token runs its own emission stream, and stakers accrue each stream pro rata to their
// receipt balance. Accrual uses a cumulative reward-per-token index per stream and a checkpoint
// per account, so no operation iterates over accounts.
//
// All writes take the current time from the caller. Time must not go backwards between calls.
package farm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/farm/admin"
	"github.com/vechain/farm/builtin/farm/ledger"
	"github.com/vechain/farm/builtin/farm/registry"
	"github.com/vechain/farm/builtin/farm/stream"
	"github.com/vechain/farm/builtin/farm/timelock"
	"github.com/vechain/farm/builtin/solidity"
	"github.com/vechain/farm/log"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

var (
	logger = log.WithContext("pkg", "farm")

	slotDuration = thor.BytesToBytes32([]byte("reward-duration"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Asset is a token the farm takes into custody or pays out.
type Asset interface {
	BalanceOf(addr thor.Address) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) error
	TransferFrom(spender, from, to thor.Address, amount *big.Int) error
}

// Assets resolves token addresses to assets.
type Assets interface {
	Asset(addr thor.Address) (Asset, error)
}

// Farm implements the native methods of a farm contract.
type Farm struct {
	addr   thor.Address
	state  *state.State
	sctx   *solidity.Context
	cfg    Config
	assets Assets

	ledger   *ledger.Ledger
	streams  *stream.Service
	registry *registry.Registry
	lots     *timelock.Queue
	roles    *admin.Roles
	duration *solidity.Raw[uint64]
}

// New binds a farm to the contract address addr.
func New(addr thor.Address, st *state.State, cfg Config, assets Assets) *Farm {
	sctx := solidity.NewContext(addr, st)
	return &Farm{
		addr:   addr,
		state:  st,
		sctx:   sctx,
		cfg:    cfg.withDefaults(),
		assets: assets,

		ledger:   ledger.New(addr, st),
		streams:  stream.New(sctx),
		registry: registry.New(sctx),
		lots:     timelock.New(sctx),
		roles:    admin.New(sctx),
		duration: solidity.NewRaw[uint64](sctx, slotDuration),
	}
}

// Initialize writes the config to storage. funder pays the floor stake when the floor guard is used.
func (f *Farm) Initialize(funder thor.Address, now uint64) error {
	logger.Debug("initializing farm", "address", f.addr, "stakeToken", f.cfg.StakeToken, "duration", f.cfg.RewardDuration)
	return f.atomic(func() ([]custodyMove, error) {
		if err := f.cfg.Validate(); err != nil {
			return nil, err
		}
		owner, err := f.roles.Owner()
		if err != nil {
			return nil, err
		}
		if !owner.IsZero() {
			return nil, ErrInitialized
		}
		if err := f.ledger.Initialize(f.cfg.Name, f.cfg.Symbol, DefaultDecimals); err != nil {
			return nil, errors.Wrap(err, "failed to initialize receipt token")
		}
		if err := f.roles.SetOwner(f.cfg.Owner); err != nil {
			return nil, err
		}
		if err := f.roles.SetManager(f.cfg.Manager); err != nil {
			return nil, err
		}
		if err := f.duration.Set(f.cfg.RewardDuration); err != nil {
			return nil, errors.Wrap(err, "failed to set duration")
		}
		for _, token := range f.cfg.RewardTokens {
			if err := f.addToken(token, now); err != nil {
				return nil, err
			}
		}
		return f.cfg.Guard.initialize(f, funder)
	})
}

//
// Getters - no state change
//

func (f *Farm) Address() thor.Address {
	return f.addr
}

func (f *Farm) StakeToken() thor.Address {
	return f.cfg.StakeToken
}

func (f *Farm) TimeLocked() bool {
	return f.cfg.TimeLock
}

// Floor returns the account holding the permanent floor stake, if the farm has one.
func (f *Farm) Floor() (thor.Address, bool) {
	return f.cfg.Guard.floorAccount()
}

func (f *Farm) Name() (string, error) {
	return f.ledger.Name()
}

func (f *Farm) Symbol() (string, error) {
	return f.ledger.Symbol()
}

func (f *Farm) Decimals() (uint8, error) {
	return f.ledger.Decimals()
}

// TotalSupply returns the total stake, which is the receipt token supply.
func (f *Farm) TotalSupply() (*big.Int, error) {
	return f.ledger.TotalSupply()
}

func (f *Farm) BalanceOf(account thor.Address) (*big.Int, error) {
	return f.ledger.BalanceOf(account)
}

// TotalSupplySQR returns the sum of isqrt(balance) over all stakers.
func (f *Farm) TotalSupplySQR() (*big.Int, error) {
	return f.ledger.SqrtSupply()
}

func (f *Farm) BalanceSQR(account thor.Address) (*big.Int, error) {
	return f.ledger.SqrtBalanceOf(account)
}

func (f *Farm) Allowance(owner, spender thor.Address) (*big.Int, error) {
	return f.ledger.Allowance(owner, spender)
}

func (f *Farm) RewardDuration() (uint64, error) {
	return f.duration.Get()
}

func (f *Farm) Owner() (thor.Address, error) {
	return f.roles.Owner()
}

func (f *Farm) ProposedOwner() (thor.Address, error) {
	return f.roles.ProposedOwner()
}

func (f *Farm) Manager() (thor.Address, error) {
	return f.roles.Manager()
}

func (f *Farm) TokenCount() (uint64, error) {
	return f.registry.Count()
}

// RewardTokens returns the reward tokens in registration order.
func (f *Farm) RewardTokens() ([]thor.Address, error) {
	return f.registry.Tokens()
}

// Stream returns the stored stream of token, as of its last settlement.
func (f *Farm) Stream(token thor.Address) (*stream.Stream, error) {
	id, err := f.tokenID(token)
	if err != nil {
		return nil, err
	}
	return f.streams.Get(id)
}

// PeriodFinish returns the end of the current emission period of token.
func (f *Farm) PeriodFinish(token thor.Address) (uint64, error) {
	s, err := f.Stream(token)
	if err != nil {
		return 0, err
	}
	return s.PeriodFinish, nil
}

func (f *Farm) RewardRate(token thor.Address) (*big.Int, error) {
	s, err := f.Stream(token)
	if err != nil {
		return nil, err
	}
	return s.Rate, nil
}

func (f *Farm) RewardPerTokenStored(token thor.Address) (*big.Int, error) {
	s, err := f.Stream(token)
	if err != nil {
		return nil, err
	}
	return s.RewardPerTokenStored, nil
}

func (f *Farm) LastUpdateTime(token thor.Address) (uint64, error) {
	s, err := f.Stream(token)
	if err != nil {
		return 0, err
	}
	return s.LastUpdateTime, nil
}

// RewardPerToken returns the index of token projected to now.
func (f *Farm) RewardPerToken(token thor.Address, now uint64) (*big.Int, error) {
	s, err := f.Stream(token)
	if err != nil {
		return nil, err
	}
	total, err := f.ledger.TotalSupply()
	if err != nil {
		return nil, err
	}
	return s.Project(total, now), nil
}

// EarnedByToken returns what account could claim of token at now.
func (f *Farm) EarnedByToken(account, token thor.Address, now uint64) (*big.Int, error) {
	id, err := f.tokenID(token)
	if err != nil {
		return nil, err
	}
	total, err := f.ledger.TotalSupply()
	if err != nil {
		return nil, err
	}
	return f.earned(account, id, total, now)
}

// Earned returns what account could claim at now, in registration order of the reward tokens.
func (f *Farm) Earned(account thor.Address, now uint64) ([]*big.Int, error) {
	n, err := f.registry.Count()
	if err != nil {
		return nil, err
	}
	total, err := f.ledger.TotalSupply()
	if err != nil {
		return nil, err
	}
	earned := make([]*big.Int, 0, n)
	for id := range n {
		e, err := f.earned(account, id, total, now)
		if err != nil {
			return nil, err
		}
		earned = append(earned, e)
	}
	return earned, nil
}

// Unlockable returns how much of the stake of account may leave it at now.
func (f *Farm) Unlockable(account thor.Address, now uint64) (*big.Int, error) {
	bal, err := f.ledger.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	if !f.cfg.TimeLock {
		return bal, nil
	}
	queued, err := f.lots.Queued(account)
	if err != nil {
		return nil, err
	}
	unlocked, err := f.lots.Unlocked(account, now)
	if err != nil {
		return nil, err
	}
	free := bal.Sub(bal, queued)
	return free.Add(free, unlocked), nil
}

// StakeCount returns the number of lots queued for account.
func (f *Farm) StakeCount(account thor.Address) (uint64, error) {
	return f.lots.Count(account)
}

// Stakes returns the lot at index of the queue of account, nil if out of range.
func (f *Farm) Stakes(account thor.Address, index uint64) (*timelock.Lot, error) {
	return f.lots.At(account, index)
}

//
// helpers
//

func (f *Farm) tokenID(token thor.Address) (uint64, error) {
	id, ok, err := f.registry.IndexOf(token)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (f *Farm) requireManager(caller thor.Address) error {
	ok, err := f.roles.IsManager(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotManager
	}
	return nil
}

func (f *Farm) requireOwner(caller thor.Address) error {
	ok, err := f.roles.IsOwner(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}

func positive(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return nil
}
