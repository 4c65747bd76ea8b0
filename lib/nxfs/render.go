// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nxfs

import (
	"math"
	"strconv"

	"github.com/bureau-foundation/nxfs/lib/nx"
)

func escaped(c byte) bool {
	return c == '"' || c == '\\'
}

// quoteString renders text as "text"\n with quote and backslash
// escaped. Every other byte, NUL and invalid UTF-8 included, passes
// through unchanged.
func quoteString(text string) []byte {
	out := make([]byte, 0, quotedLength(text))
	out = append(out, '"')
	for i := 0; i < len(text); i++ {
		if escaped(text[i]) {
			out = append(out, '\\')
		}
		out = append(out, text[i])
	}
	return append(out, '"', '\n')
}

// quotedLength is len(quoteString(text)) without allocating.
func quotedLength(text string) uint64 {
	length := uint64(len(text)) + 3
	for i := 0; i < len(text); i++ {
		if escaped(text[i]) {
			length++
		}
	}
	return length
}

// renderScalar renders an int64, real or vector node as a text line.
func renderScalar(node nx.Node) []byte {
	var out []byte
	switch node.Type {
	case nx.TypeInt64:
		out = strconv.AppendInt(out, node.Int64(), 10)
	case nx.TypeReal:
		out = appendReal(out, node.Real())
	case nx.TypeVector:
		x, y := node.Vector()
		out = append(out, '[')
		out = strconv.AppendInt(out, int64(x), 10)
		out = append(out, ',')
		out = strconv.AppendInt(out, int64(y), 10)
		out = append(out, ']')
	}
	return append(out, '\n')
}

// appendReal formats like glibc's %.17g, which is enough digits to
// round trip any float64. A NaN keeps its sign bit, as glibc prints it.
func appendReal(out []byte, value float64) []byte {
	switch {
	case math.IsNaN(value) && math.Signbit(value):
		return append(out, "-nan"...)
	case math.IsNaN(value):
		return append(out, "nan"...)
	case math.IsInf(value, 1):
		return append(out, "inf"...)
	case math.IsInf(value, -1):
		return append(out, "-inf"...)
	}
	return strconv.AppendFloat(out, value, 'g', 17, 64)
}
