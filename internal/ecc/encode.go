package ecc

import "math/bits"

// Data is a byte protected by the code, bit 0 is d1 and bit 7 is d8.
type Data uint8

// Codeword contains the parity bits computed for a data byte.
type Codeword uint8

const (
	p1Bit      = 1 << 0
	p2Bit      = 1 << 1
	p3Bit      = 1 << 2
	p4Bit      = 1 << 3
	pwBit      = 1 << 4
	encodedBit = 1 << 7
)

// codeword bits.
const (
	P1         Codeword = p1Bit
	P2         Codeword = p2Bit
	P3         Codeword = p3Bit
	P4         Codeword = p4Bit
	PW         Codeword = pwBit
	EncodedBit Codeword = encodedBit // marks a codeword that was computed by Encode

	// SyndromeBits masks the Hamming parity bits p1..p4. Their bit order
	// matches the encoded word position values 1, 2, 4 and 8, which allows
	// a syndrome to be used as position directly.
	SyndromeBits = P1 | P2 | P3 | P4
)

var hammingBits = [4]Codeword{P1, P2, P3, P4}

// Encode computes the codeword for the given data byte. Every parity bit
// uses even parity, it is 0 when the covered bits contain an even number
// of ones.
func Encode(d Data) Codeword {
	var code Codeword
	for i, covered := range coverage {
		if parity(uint8(d & covered)) {
			code |= hammingBits[i]
		}
	}

	if parity(uint8(d)) != parity(uint8(code&SyndromeBits)) {
		code |= PW
	}
	return code | EncodedBit
}

// P1 returns the parity bit p1.
func (c Codeword) P1() bool { return c&P1 != 0 }

// P2 returns the parity bit p2.
func (c Codeword) P2() bool { return c&P2 != 0 }

// P3 returns the parity bit p3.
func (c Codeword) P3() bool { return c&P3 != 0 }

// P4 returns the parity bit p4.
func (c Codeword) P4() bool { return c&P4 != 0 }

// PW returns the overall parity bit.
func (c Codeword) PW() bool { return c&PW != 0 }

// Encoded returns whether the codeword was computed by Encode, a zero
// initialized memory cell does not have this marker set.
func (c Codeword) Encoded() bool { return c&EncodedBit != 0 }

// Bit returns the data bit at the given encoded word position.
// It returns false for positions that do not hold a data bit.
func (d Data) Bit(pos Position) bool {
	return d&pos.DataMask() != 0
}

// Bit returns the parity bit at the given encoded word position.
// It returns false for positions that do not hold a parity bit.
func (c Codeword) Bit(pos Position) bool {
	return c&pos.CodeMask() != 0
}

func parity(b uint8) bool {
	return bits.OnesCount8(b)&1 == 1
}
