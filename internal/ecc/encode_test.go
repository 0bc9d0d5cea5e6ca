package ecc

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		data     Data
		expected Codeword
	}{
		{
			name:     "zero",
			data:     0x00,
			expected: EncodedBit,
		},
		{
			name:     "d1 only",
			data:     0x01,
			expected: EncodedBit | PW | P1 | P2,
		},
		{
			name:     "d4 only",
			data:     0x08,
			expected: EncodedBit | P1 | P2 | P3,
		},
		{
			name:     "all bits set",
			data:     0xFF,
			expected: EncodedBit | P1 | P2,
		},
		{
			// d1 d2 d4 d6 d8 set
			name:     "0xAB",
			data:     0xAB,
			expected: EncodedBit | P1 | P2 | P3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(tt.data))
		})
	}
}

// The overall parity has to make the 12 bit Hamming word plus pW even.
func TestEncodeOverallParity(t *testing.T) {
	for i := range 256 {
		d := Data(i)
		code := Encode(d)
		assert.True(t, code.Encoded())

		ones := 0
		for _, pos := range Positions() {
			if d.Bit(pos) || code.Bit(pos) {
				ones++
			}
		}
		assert.Equal(t, 0, ones%2)
	}
}

func TestCodewordAccessors(t *testing.T) {
	code := P1 | P3 | PW
	assert.True(t, code.P1())
	assert.False(t, code.P2())
	assert.True(t, code.P3())
	assert.False(t, code.P4())
	assert.True(t, code.PW())
	assert.False(t, code.Encoded())
	assert.True(t, code.Bit(PosP3))
	assert.False(t, code.Bit(PosD2))
}
