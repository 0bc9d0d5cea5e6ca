// Package ecc implements a SECDED Hamming code protecting a single data byte
// with four Hamming parity bits and one overall parity bit.
package ecc

// Position is the index of a bit inside the 13 bit encoded word.
//
// Encoded word layout:
//
//	pW p1 p2 d1 p3 d2 d3 d4 p4 d5 d6 d7 d8
//	00 01 02 03 04 05 06 07 08 09 10 11 12
type Position uint8

// encoded word positions.
const (
	PosPW Position = iota
	PosP1
	PosP2
	PosD1
	PosP3
	PosD2
	PosD3
	PosD4
	PosP4
	PosD5
	PosD6
	PosD7
	PosD8

	PositionCount = 13
)

// Role defines whether an encoded word position holds a parity or a data bit.
type Role uint8

// position roles.
const (
	ParityRole Role = iota
	DataRole
)

type slot struct {
	name string
	role Role
	mask uint8 // bit inside the data byte or the codeword
}

var layout = [PositionCount]slot{
	PosPW: {name: "pW", role: ParityRole, mask: pwBit},
	PosP1: {name: "p1", role: ParityRole, mask: p1Bit},
	PosP2: {name: "p2", role: ParityRole, mask: p2Bit},
	PosD1: {name: "d1", role: DataRole, mask: 1 << 0},
	PosP3: {name: "p3", role: ParityRole, mask: p3Bit},
	PosD2: {name: "d2", role: DataRole, mask: 1 << 1},
	PosD3: {name: "d3", role: DataRole, mask: 1 << 2},
	PosD4: {name: "d4", role: DataRole, mask: 1 << 3},
	PosP4: {name: "p4", role: ParityRole, mask: p4Bit},
	PosD5: {name: "d5", role: DataRole, mask: 1 << 4},
	PosD6: {name: "d6", role: DataRole, mask: 1 << 5},
	PosD7: {name: "d7", role: DataRole, mask: 1 << 6},
	PosD8: {name: "d8", role: DataRole, mask: 1 << 7},
}

// coverage contains the data bits that each Hamming parity bit p1..p4 protects.
var coverage = [4]Data{
	0b0101_1011, // p1: d1 d2 d4 d5 d7
	0b0110_1101, // p2: d1 d3 d4 d6 d7
	0b1000_1110, // p3: d2 d3 d4 d8
	0b1111_0000, // p4: d5 d6 d7 d8
}

// Positions returns all encoded word positions in layout order.
func Positions() []Position {
	positions := make([]Position, PositionCount)
	for i := range positions {
		positions[i] = Position(i)
	}
	return positions
}

// Valid returns whether the position is part of the encoded word.
func (p Position) Valid() bool {
	return p < PositionCount
}

// Role returns the role of the bit at the position.
// The result is undefined for invalid positions.
func (p Position) Role() Role {
	return layout[p].role
}

// IsParity returns whether the position holds one of the parity bits.
func (p Position) IsParity() bool {
	return p.Valid() && layout[p].role == ParityRole
}

// IsData returns whether the position holds one of the data bits.
func (p Position) IsData() bool {
	return p.Valid() && layout[p].role == DataRole
}

// DataMask returns the mask of the data bit at the position,
// 0 if the position does not hold a data bit.
func (p Position) DataMask() Data {
	if !p.IsData() {
		return 0
	}
	return Data(layout[p].mask)
}

// CodeMask returns the mask of the parity bit at the position inside
// a codeword, 0 if the position does not hold a parity bit.
func (p Position) CodeMask() Codeword {
	if !p.IsParity() {
		return 0
	}
	return Codeword(layout[p].mask)
}

func (p Position) String() string {
	if !p.Valid() {
		return "invalid"
	}
	return layout[p].name
}
