// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

var levelColors = map[slog.Level]int{
	LevelCrit:       35,
	slog.LevelError: 31,
	slog.LevelWarn:  33,
	slog.LevelInfo:  32,
	slog.LevelDebug: 36,
	LevelTrace:      34,
}

func (h *TerminalHandler) format(buf []byte, r slog.Record, usecolor bool) []byte {
	b := bytes.NewBuffer(buf)

	lvl := LevelAlignedString(r.Level)
	if color, ok := levelColors[r.Level]; ok && usecolor {
		b.WriteString("\x1b[")
		b.WriteString(strconv.Itoa(color))
		b.WriteString("m")
		b.WriteString(lvl)
		b.WriteString("\x1b[0m")
	} else {
		b.WriteString(lvl)
	}
	b.WriteString("[")
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	// try to justify the log output for short messages
	if r.NumAttrs()+len(h.attrs) > 0 {
		if pad := termMsgJust - utf8.RuneCountInString(r.Message); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}

	for _, attr := range h.attrs {
		writeAttr(b, attr, usecolor)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(b, attr, usecolor)
		return true
	})
	b.WriteByte('\n')
	return b.Bytes()
}

func writeAttr(b *bytes.Buffer, attr slog.Attr, usecolor bool) {
	b.WriteByte(' ')
	if usecolor {
		b.WriteString("\x1b[2m")
		b.WriteString(attr.Key)
		b.WriteString("\x1b[0m=")
	} else {
		b.WriteString(attr.Key)
		b.WriteByte('=')
	}
	b.WriteString(escape(formatValue(attr.Value)))
}

func formatValue(v slog.Value) string {
	v = replaceValue(v.Resolve(), false)
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	}
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	return v.String()
}

// escape quotes values containing spaces, quotes or control characters.
func escape(s string) string {
	needsQuoting := false
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == utf8.RuneError {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting && s != "" {
		return s
	}
	return strconv.Quote(s)
}
