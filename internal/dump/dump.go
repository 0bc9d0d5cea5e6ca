// Package dump renders data bytes, codewords and encoded words as bit
// patterns for diagnostic output.
package dump

import (
	"fmt"
	"strings"

	"github.com/retroenv/eccemu/internal/ecc"
)

var codewordOrder = []ecc.Position{ecc.PosPW, ecc.PosP1, ecc.PosP2, ecc.PosP3, ecc.PosP4}

// Codeword returns the parity bits in the order pW p1 p2 p3 p4.
func Codeword(c ecc.Codeword) string {
	var sb strings.Builder
	for _, pos := range codewordOrder {
		sb.WriteByte(bit(c.Bit(pos)))
	}
	return sb.String()
}

// CodewordLayout returns the parity bits at their encoded word positions,
// data positions are rendered as underscore.
func CodewordLayout(c ecc.Codeword) string {
	return layout(func(pos ecc.Position) byte {
		if !pos.IsParity() {
			return '_'
		}
		return bit(c.Bit(pos))
	})
}

// DataLayout returns the data bits at their encoded word positions,
// parity positions are rendered as underscore.
func DataLayout(d ecc.Data) string {
	return layout(func(pos ecc.Position) byte {
		if !pos.IsData() {
			return '_'
		}
		return bit(d.Bit(pos))
	})
}

// DataByte returns the data byte with the most significant bit first,
// followed by its hex value, for example "1010 1011 [0xAB]".
func DataByte(d ecc.Data) string {
	return fmt.Sprintf("%04b %04b [0x%02X]", uint8(d)>>4, uint8(d)&0x0F, uint8(d))
}

// Encoded returns the 13 bit encoded word in position order.
func Encoded(d ecc.Data, c ecc.Codeword) string {
	return layout(func(pos ecc.Position) byte {
		if pos.IsData() {
			return bit(d.Bit(pos))
		}
		return bit(c.Bit(pos))
	})
}

func layout(render func(pos ecc.Position) byte) string {
	buf := make([]byte, ecc.PositionCount)
	for _, pos := range ecc.Positions() {
		buf[pos] = render(pos)
	}
	return string(buf)
}

func bit(set bool) byte {
	if set {
		return '1'
	}
	return '0'
}
