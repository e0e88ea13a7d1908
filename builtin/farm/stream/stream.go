// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stream

import (
	"math/big"

	"github.com/vechain/farm/thor"
)

// Stream is the emission schedule and the cumulative reward-per-token index of one reward token.
type Stream struct {
	Rate                 *big.Int // reward units per second
	PeriodFinish         uint64
	RewardPerTokenStored *big.Int // scaled by thor.Precision
	LastUpdateTime       uint64

	Funded      *big.Int // pulled into custody by rate announcements
	Distributed *big.Int // emitted while stake existed
	Claimed     *big.Int // paid out of custody to stakers or recovered from the floor
}

// NewStream returns an idle stream checkpointed at now.
func NewStream(now uint64) *Stream {
	s := &Stream{LastUpdateTime: now}
	s.normalize()
	return s
}

func (s *Stream) normalize() {
	for _, v := range []**big.Int{&s.Rate, &s.RewardPerTokenStored, &s.Funded, &s.Distributed, &s.Claimed} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
}

// Active returns whether the emission period is still running at now.
func (s *Stream) Active(now uint64) bool {
	return now < s.PeriodFinish
}

// EffectiveTime returns min(now, PeriodFinish).
func (s *Stream) EffectiveTime(now uint64) uint64 {
	if now < s.PeriodFinish {
		return now
	}
	return s.PeriodFinish
}

// emission returns the index increment and the amount emitted between LastUpdateTime and the effective time.
func (s *Stream) emission(totalStaked *big.Int, now uint64) (delta *big.Int, emitted *big.Int, effective uint64) {
	effective = s.EffectiveTime(now)
	delta, emitted = new(big.Int), new(big.Int)
	if effective <= s.LastUpdateTime || totalStaked.Sign() <= 0 {
		return
	}
	elapsed := new(big.Int).SetUint64(effective - s.LastUpdateTime)
	emitted.Mul(elapsed, s.Rate)
	delta.Mul(emitted, thor.Precision)
	delta.Quo(delta, totalStaked)
	return
}

// Accrue integrates the index up to now. It's idempotent for a fixed now.
// LastUpdateTime never moves backwards, so a stream that never had a rate stays checkpointed at registration.
func (s *Stream) Accrue(totalStaked *big.Int, now uint64) {
	delta, emitted, effective := s.emission(totalStaked, now)
	s.RewardPerTokenStored.Add(s.RewardPerTokenStored, delta)
	s.Distributed.Add(s.Distributed, emitted)
	if effective > s.LastUpdateTime {
		s.LastUpdateTime = effective
	}
}

// Project returns the index as it would be after Accrue at now, without mutating the stream.
func (s *Stream) Project(totalStaked *big.Int, now uint64) *big.Int {
	delta, _, _ := s.emission(totalStaked, now)
	return delta.Add(delta, s.RewardPerTokenStored)
}

// Remaining returns the amount still scheduled for emission after now.
func (s *Stream) Remaining(now uint64) *big.Int {
	if !s.Active(now) {
		return new(big.Int)
	}
	left := new(big.Int).SetUint64(s.PeriodFinish - now)
	return left.Mul(left, s.Rate)
}

// Outstanding returns what custody owes for this stream at the last accrual:
// emitted but not yet claimed, plus the scheduled remainder.
func (s *Stream) Outstanding(now uint64) *big.Int {
	owed := new(big.Int).Sub(s.Distributed, s.Claimed)
	return owed.Add(owed, s.Remaining(now))
}

// Checkpoint is the settled position of one account in one stream.
type Checkpoint struct {
	Index *big.Int // stream index at the last settlement
	Owed  *big.Int // settled but unclaimed
}

// Earned returns owed plus the accrual of balance between the checkpoint and index.
func (c *Checkpoint) Earned(balance, index *big.Int) *big.Int {
	earned := new(big.Int).Sub(index, c.Index)
	earned.Mul(earned, balance)
	earned.Quo(earned, thor.Precision)
	return earned.Add(earned, c.Owed)
}

// Settle moves the accrual up to index into owed.
func (c *Checkpoint) Settle(balance, index *big.Int) {
	c.Owed = c.Earned(balance, index)
	c.Index = new(big.Int).Set(index)
}

// Take zeroes owed and returns the former value.
func (c *Checkpoint) Take() *big.Int {
	owed := c.Owed
	c.Owed = new(big.Int)
	return owed
}
