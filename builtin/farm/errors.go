// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/pkg/errors"

	"github.com/vechain/farm/builtin/reverts"
)

var (
	// configuration
	ErrInvalidDuration = reverts.New("farm: invalid duration")
	ErrInvalidRate     = reverts.New("farm: invalid rate")
	ErrWrongAddress    = reverts.New("farm: wrong address")
	ErrZeroAmount      = reverts.New("farm: zero amount")
	ErrLengthMismatch  = reverts.New("farm: length mismatch")
	ErrInvalidToken    = reverts.New("farm: invalid token")
	ErrStakeToken      = reverts.New("farm: stake token")
	ErrInitialized     = reverts.New("farm: already initialized")

	// authorization
	ErrNotManager       = reverts.New("farm: not manager")
	ErrNotOwner         = reverts.New("farm: not owner")
	ErrInvalidCandidate = reverts.New("farm: invalid candidate")

	// policy
	ErrRateCannotDecrease  = reverts.New("farm: rate cannot decrease")
	ErrOngoingDistribution = reverts.New("farm: ongoing distribution")
	ErrExistingToken       = reverts.New("farm: existing token")
	ErrFloorStake          = reverts.New("farm: floor stake is permanent")

	// liquidity and timing
	ErrNoStakers          = reverts.New("farm: no stakers")
	ErrUnlockInsufficient = reverts.New("farm: unlock insufficient")
	ErrNothingToClaim     = reverts.New("farm: nothing to claim")
	ErrStillEarning       = reverts.New("farm: still earning")
	ErrNotEnoughRewards   = reverts.New("farm: not enough rewards")
)

// IsUnauthorized reports whether err rejects the caller rather than the arguments.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotManager) || errors.Is(err, ErrNotOwner) || errors.Is(err, ErrInvalidCandidate)
}
