package ecc

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// flip toggles the bit at pos in either the data byte or the codeword.
func flip(d Data, c Codeword, pos Position) (Data, Codeword) {
	if pos.IsData() {
		return d ^ pos.DataMask(), c
	}
	return d, c ^ pos.CodeMask()
}

func TestCheckNoError(t *testing.T) {
	for i := range 256 {
		d := Data(i)
		result := Check(d, Encode(d))
		assert.Equal(t, NoError, result.Status)
		assert.Equal(t, uint8(0), result.Syndrome)
	}
}

func TestCheckUnwrittenCell(t *testing.T) {
	result := Check(0, 0)
	assert.Equal(t, NoError, result.Status)
}

func TestCheckSingleBitErrors(t *testing.T) {
	for i := range 256 {
		for _, pos := range Positions() {
			d, c := flip(Data(i), Encode(Data(i)), pos)
			result := Check(d, c)

			if pos == PosPW {
				assert.Equal(t, ParityBitError, result.Status)
				assert.Equal(t, Encode(d), result.Repair(c))
				continue
			}

			assert.Equal(t, SingleBitError, result.Status)
			assert.Equal(t, pos, result.Position)
			assert.Equal(t, uint8(pos), result.Syndrome)
		}
	}
}

func TestCheckDoubleBitErrors(t *testing.T) {
	for i := range 256 {
		for _, first := range Positions() {
			for _, second := range Positions()[first+1:] {
				d, c := flip(Data(i), Encode(Data(i)), first)
				d, c = flip(d, c, second)

				result := Check(d, c)
				assert.Equal(t, DoubleBitError, result.Status)
			}
		}
	}
}

func TestCheckUnknownSyndrome(t *testing.T) {
	tests := []struct {
		name   string
		stored Codeword
	}{
		{"syndrome 13", EncodedBit | P1 | P3 | P4},
		{"syndrome 14", EncodedBit | P2 | P3 | P4},
		{"syndrome 15", EncodedBit | P1 | P2 | P3 | P4 | PW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Check(0, tt.stored)
			assert.Equal(t, UnknownError, result.Status)
			assert.Equal(t, Position(0), result.Position)
		})
	}
}

func TestCheckScenarios(t *testing.T) {
	tests := []struct {
		name      string
		data      Data
		flips     []Position
		status    Status
		errorBits Position
	}{
		{"d1 flipped", 0xAB, []Position{3}, SingleBitError, 3},
		{"d6 flipped", 0x5A, []Position{10}, SingleBitError, 10},
		{"pW flipped", 0xCC, []Position{0}, ParityBitError, 0},
		{"p1 flipped", 0xAB, []Position{1}, SingleBitError, 1},
		{"d3 and d4 flipped", 0xA4, []Position{6, 7}, DoubleBitError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := tt.data, Encode(tt.data)
			for _, pos := range tt.flips {
				d, c = flip(d, c, pos)
			}

			result := Check(d, c)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.errorBits, result.Position)
		})
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "no error", Result{}.String())
	assert.Equal(t, "single bit error @ 10 (d6)", Result{Status: SingleBitError, Position: PosD6}.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
