// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates test fixtures.
package datagen

import (
	"crypto/rand"

	"github.com/vechain/farm/thor"
)

// RandAddress returns a fresh account for tests.
func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}
