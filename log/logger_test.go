// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	out := new(bytes.Buffer)
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)
	l := NewLogger(NewTerminalHandlerWithLevel(out, &lvl, false))

	l.Debug("hidden", "k", 1)
	assert.Empty(t, out.String())

	l.Info("deposit", "amount", big.NewInt(1000), "index", uint256.NewInt(7), "memo", "two words")
	line := out.String()
	assert.True(t, strings.HasPrefix(line, "INFO ["))
	assert.Contains(t, line, "deposit")
	assert.Contains(t, line, "amount=1000")
	assert.Contains(t, line, "index=7")
	assert.Contains(t, line, `memo="two words"`)
}

func TestJSONHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(JSONHandler(out))
	l.Warn("withdraw", "amount", big.NewInt(42), "nil", (*big.Int)(nil))

	var m map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, "warn", m["lvl"])
	assert.Equal(t, "withdraw", m["msg"])
	assert.Equal(t, "42", m["amount"])
	assert.Equal(t, "<nil>", m["nil"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	out := new(bytes.Buffer)
	prev := Root()
	SetDefault(NewLogger(LogfmtHandler(out)))
	defer SetDefault(prev)

	pkgLogger.Info("hello", "n", 3)
	assert.Contains(t, out.String(), "pkg=test")
	assert.Contains(t, out.String(), "n=3")
	assert.Contains(t, out.String(), "lvl=info")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}
