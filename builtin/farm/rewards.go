// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/vechain/farm/builtin/farm/registry"
	"github.com/vechain/farm/builtin/farm/stream"
	"github.com/vechain/farm/thor"
)

//
// Rewards - claims and stream administration
//

// Claim pays caller everything it has earned in every stream.
func (f *Farm) Claim(caller thor.Address, now uint64) error {
	logger.Debug("claiming rewards", "account", caller)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.settle(now, caller); err != nil {
			return nil, err
		}
		moves, err := f.claimAll(caller)
		if err != nil {
			return nil, err
		}
		if len(moves) == 0 {
			return nil, ErrNothingToClaim
		}
		return moves, nil
	})
	if err != nil {
		logger.Info("claim failed", "account", caller, "error", err)
	}
	return err
}

// ClaimReward pays caller what it has earned of a single reward token.
func (f *Farm) ClaimReward(caller, token thor.Address, now uint64) error {
	logger.Debug("claiming reward", "account", caller, "token", token)
	err := f.atomic(func() ([]custodyMove, error) {
		id, err := f.tokenID(token)
		if err != nil {
			return nil, err
		}
		if err := f.settle(now, caller); err != nil {
			return nil, err
		}
		move, err := f.claim(caller, id, token)
		if err != nil {
			return nil, err
		}
		if move == nil {
			return nil, ErrNothingToClaim
		}
		return []custodyMove{*move}, nil
	})
	if err != nil {
		logger.Info("claim reward failed", "account", caller, "token", token, "error", err)
	}
	return err
}

// Exit withdraws the whole unlockable stake of caller and claims every stream.
// It fails with ErrNothingToClaim when nothing is owed, use Withdraw instead.
func (f *Farm) Exit(caller thor.Address, now uint64) error {
	logger.Debug("exiting", "account", caller)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.settle(now, caller); err != nil {
			return nil, err
		}
		amount, err := f.Unlockable(caller, now)
		if err != nil {
			return nil, err
		}
		var moves []custodyMove
		if amount.Sign() > 0 {
			if moves, err = f.withdraw(caller, amount, now); err != nil {
				return nil, err
			}
		}
		paid, err := f.claimAll(caller)
		if err != nil {
			return nil, err
		}
		if len(paid) == 0 {
			return nil, ErrNothingToClaim
		}
		return append(moves, paid...), nil
	})
	if err != nil {
		logger.Info("exit failed", "account", caller, "error", err)
	}
	return err
}

func (f *Farm) claimAll(account thor.Address) ([]custodyMove, error) {
	tokens, err := f.registry.Tokens()
	if err != nil {
		return nil, err
	}
	var moves []custodyMove
	for id, token := range tokens {
		move, err := f.claim(account, uint64(id), token)
		if err != nil {
			return nil, err
		}
		if move != nil {
			moves = append(moves, *move)
		}
	}
	return moves, nil
}

// claim returns nil if nothing is owed.
func (f *Farm) claim(account thor.Address, id uint64, token thor.Address) (*custodyMove, error) {
	owed, err := f.takeOwed(account, id)
	if err != nil {
		return nil, err
	}
	if owed.Sign() == 0 {
		return nil, nil
	}
	f.emit(RewardPaidEvent, owed, account, token)
	move := f.push(token, account, owed)
	return &move, nil
}

// SetRewardRate announces a new rate for a single token. See SetRewardRates.
func (f *Farm) SetRewardRate(caller, token thor.Address, rate *big.Int, now uint64) error {
	return f.SetRewardRates(caller, []thor.Address{token}, []*big.Int{rate}, now)
}

// SetRewardRates starts a new emission period of the current duration for each token.
// A rate may only decrease once the running period of its token is over.
// The manager funds the new periods according to the funding policy.
func (f *Farm) SetRewardRates(caller thor.Address, tokens []thor.Address, rates []*big.Int, now uint64) error {
	logger.Debug("setting reward rates", "manager", caller, "tokens", tokens, "rates", rates)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.requireManager(caller); err != nil {
			return nil, err
		}
		if len(tokens) != len(rates) || len(tokens) == 0 {
			return nil, ErrLengthMismatch
		}
		total, err := f.ledger.TotalSupply()
		if err != nil {
			return nil, err
		}
		if total.Sign() == 0 {
			return nil, ErrNoStakers
		}
		duration, err := f.duration.Get()
		if err != nil {
			return nil, err
		}
		finish, err := deadline(now, duration)
		if err != nil {
			return nil, err
		}

		ids := make([]uint64, len(tokens))
		seen := make(map[thor.Address]bool, len(tokens))
		for i, token := range tokens {
			if seen[token] {
				return nil, ErrInvalidToken
			}
			seen[token] = true
			if ids[i], err = f.tokenID(token); err != nil {
				return nil, err
			}
			rate := rates[i]
			if rate == nil || rate.Sign() <= 0 {
				return nil, ErrInvalidRate
			}
			s, err := f.streams.Get(ids[i])
			if err != nil {
				return nil, err
			}
			if s.Active(now) && rate.Cmp(s.Rate) < 0 {
				return nil, ErrRateCannotDecrease
			}
		}

		if err := f.settle(now); err != nil {
			return nil, err
		}
		moves := make([]custodyMove, 0, len(tokens))
		for i, token := range tokens {
			s, err := f.streams.Get(ids[i])
			if err != nil {
				return nil, err
			}
			amount := f.cfg.Funding.amount(s, rates[i], duration, now)
			s.Funded.Add(s.Funded, amount)
			s.Rate = new(big.Int).Set(rates[i])
			s.PeriodFinish = finish
			s.LastUpdateTime = now
			if err := f.streams.Set(ids[i], s); err != nil {
				return nil, err
			}
			f.emit(RewardAddedEvent, amount, token)
			moves = append(moves, f.pull(token, caller, amount))
		}
		return moves, nil
	})
	if err != nil {
		logger.Info("set reward rates failed", "error", err)
	}
	return err
}

// SetRewardDuration changes the length of the next emission periods and of new locks.
func (f *Farm) SetRewardDuration(caller thor.Address, duration uint64, now uint64) error {
	logger.Debug("setting reward duration", "manager", caller, "duration", duration)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.requireManager(caller); err != nil {
			return nil, err
		}
		if _, err := deadline(now, duration); err != nil {
			return nil, err
		}
		active, err := f.anyActive(now)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, ErrOngoingDistribution
		}
		if err := f.duration.Set(duration); err != nil {
			return nil, errors.Wrap(err, "failed to set duration")
		}
		f.emit(RewardDurationChangedEvent, new(big.Int).SetUint64(duration))
		return nil, nil
	})
	if err != nil {
		logger.Info("set reward duration failed", "error", err)
	}
	return err
}

// AddRewardToken registers a new reward token. Its stream stays idle until a rate is set,
// and nobody accrues it for the time before registration.
func (f *Farm) AddRewardToken(caller, token thor.Address, now uint64) error {
	logger.Debug("adding reward token", "manager", caller, "token", token)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.requireManager(caller); err != nil {
			return nil, err
		}
		return nil, f.addToken(token, now)
	})
	if err != nil {
		logger.Info("add reward token failed", "token", token, "error", err)
	}
	return err
}

func (f *Farm) addToken(token thor.Address, now uint64) error {
	if token.IsZero() {
		return ErrWrongAddress
	}
	if token == f.cfg.StakeToken {
		return ErrStakeToken
	}
	id, err := f.registry.Add(token, now)
	if errors.Is(err, registry.ErrDuplicate) {
		return ErrExistingToken
	}
	if err != nil {
		return err
	}
	if err := f.streams.Set(id, stream.NewStream(now)); err != nil {
		return err
	}
	f.emit(RewardTokenAddedEvent, nil, token)
	return nil
}

// Recoverable returns how much of asset the manager may take out of custody at now.
// For a reward token it is the balance not reserved for stakers plus what the floor has earned.
func (f *Farm) Recoverable(asset thor.Address, now uint64) (*big.Int, error) {
	if asset == f.cfg.StakeToken {
		return new(big.Int), nil
	}
	a, err := f.assets.Asset(asset)
	if err != nil {
		return nil, err
	}
	bal, err := a.BalanceOf(f.addr)
	if err != nil {
		return nil, err
	}
	id, ok, err := f.registry.IndexOf(asset)
	if err != nil || !ok {
		return bal, err
	}
	excess, floorOwed, err := f.reserve(id, bal, now)
	if err != nil {
		return nil, err
	}
	return excess.Add(excess, floorOwed), nil
}

// reserve splits the custody balance bal of stream id into the unreserved excess
// and the part owed to the floor, both projected to now.
func (f *Farm) reserve(id uint64, bal *big.Int, now uint64) (*big.Int, *big.Int, error) {
	s, err := f.streams.Get(id)
	if err != nil {
		return nil, nil, err
	}
	total, err := f.ledger.TotalSupply()
	if err != nil {
		return nil, nil, err
	}
	projected := *s
	projected.Distributed = new(big.Int).Set(s.Distributed)
	projected.RewardPerTokenStored = new(big.Int).Set(s.RewardPerTokenStored)
	projected.Accrue(total, now)

	excess := new(big.Int).Sub(bal, projected.Outstanding(now))
	if excess.Sign() < 0 {
		excess.SetUint64(0)
	}
	floorOwed := new(big.Int)
	if floor, ok := f.cfg.Guard.floorAccount(); ok {
		if floorOwed, err = f.earned(floor, id, total, now); err != nil {
			return nil, nil, err
		}
	}
	return excess, floorOwed, nil
}

// RecoverTokens sends amount of asset from custody to the manager.
// The stake token is never recoverable. A reward token is recoverable up to the balance
// nobody can claim, which includes the share accrued by the floor stake.
func (f *Farm) RecoverTokens(caller, asset thor.Address, amount *big.Int, now uint64) error {
	logger.Debug("recovering tokens", "manager", caller, "asset", asset, "amount", amount)
	err := f.atomic(func() ([]custodyMove, error) {
		if err := f.requireManager(caller); err != nil {
			return nil, err
		}
		if asset == f.cfg.StakeToken {
			return nil, ErrStakeToken
		}
		if err := positive(amount); err != nil {
			return nil, err
		}
		id, ok, err := f.registry.IndexOf(asset)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := f.recoverReward(id, asset, amount, now); err != nil {
				return nil, err
			}
		}
		f.emit(RecoveredEvent, amount, asset)
		return []custodyMove{f.push(asset, caller, amount)}, nil
	})
	if err != nil {
		logger.Info("recover tokens failed", "asset", asset, "error", err)
	}
	return err
}

func (f *Farm) recoverReward(id uint64, asset thor.Address, amount *big.Int, now uint64) error {
	floor, hasFloor := f.cfg.Guard.floorAccount()
	if hasFloor {
		if err := f.settle(now, floor); err != nil {
			return err
		}
	} else if err := f.settle(now); err != nil {
		return err
	}
	a, err := f.assets.Asset(asset)
	if err != nil {
		return err
	}
	bal, err := a.BalanceOf(f.addr)
	if err != nil {
		return err
	}
	excess, floorOwed, err := f.reserve(id, bal, now)
	if err != nil {
		return err
	}
	if amount.Cmp(new(big.Int).Add(excess, floorOwed)) > 0 {
		return ErrNotEnoughRewards
	}
	if amount.Cmp(excess) <= 0 {
		return nil
	}
	// the rest is taken from the floor and booked as claimed
	fromFloor := new(big.Int).Sub(amount, excess)
	cp, err := f.checkpoint(floor, id)
	if err != nil {
		return err
	}
	cp.Owed.Sub(cp.Owed, fromFloor)
	if err := f.streams.SetCheckpoint(floor, id, cp); err != nil {
		return err
	}
	s, err := f.streams.Get(id)
	if err != nil {
		return err
	}
	s.Claimed.Add(s.Claimed, fromFloor)
	return f.streams.Set(id, s)
}
