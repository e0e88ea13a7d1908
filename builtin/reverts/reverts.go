// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts separates rule rejections from storage failures.
package reverts

import (
	"github.com/pkg/errors"
)

// ErrRevert rejects a call by the contract's own rules. The host rolls the
// whole call back and the caller may retry with other arguments.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevertErr reports whether err, or anything it wraps, is a revert.
func IsRevertErr(err error) bool {
	_, ok := Reason(err)
	return ok
}

// Reason returns the message of the revert wrapped in err, without the
// context added on the way up.
func Reason(err error) (string, bool) {
	var revert *ErrRevert
	if err == nil || !errors.As(err, &revert) {
		return "", false
	}
	return revert.message, true
}
