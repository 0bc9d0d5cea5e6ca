package ecc

import "fmt"

// Status is the classification of a codeword check.
type Status uint8

// check results.
const (
	NoError Status = iota
	// ParityBitError means only the overall parity bit pW is wrong.
	ParityBitError
	// SingleBitError means one correctable bit is wrong, see Result.Position.
	SingleBitError
	// DoubleBitError is uncorrectable, the data can not be trusted.
	DoubleBitError
	// UnknownError means the syndrome does not map to an encoded word position.
	UnknownError
)

var statusNames = map[Status]string{
	NoError:        "no error",
	ParityBitError: "parity bit error",
	SingleBitError: "single bit error",
	DoubleBitError: "double bit error",
	UnknownError:   "unknown error",
}

func (s Status) String() string {
	name, ok := statusNames[s]
	if !ok {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return name
}

// Result contains the outcome of checking a data byte against its stored codeword.
type Result struct {
	Status   Status
	Position Position // faulty bit, only set for SingleBitError
	Syndrome uint8    // difference of recomputed and stored p1..p4

	// ExpectedPW is the overall parity bit implied by the stored word.
	// A ParityBitError is repaired by storing this value.
	ExpectedPW bool
}

func (r Result) String() string {
	if r.Status == SingleBitError {
		return fmt.Sprintf("%s @ %d (%s)", r.Status, r.Position, r.Position)
	}
	return r.Status.String()
}

// Check recomputes the parity bits of data and classifies the difference to
// the stored codeword.
//
// The syndrome is the XOR of the recomputed and stored Hamming parity bits.
// The expected overall parity is derived from the stored word itself, the
// data bits combined with the stored p1..p4, so that any single flipped bit
// of the 13 bit word, including a Hamming parity bit, changes it. When the
// syndrome is 0 the stored p1..p4 equal the recomputed ones and the value
// equals Encode(data).PW().
func Check(data Data, stored Codeword) Result {
	recomputed := Encode(data)
	syndrome := uint8((recomputed ^ stored) & SyndromeBits)
	expectedPW := parity(uint8(data)) != parity(uint8(stored&SyndromeBits))

	result := Result{
		Syndrome:   syndrome,
		ExpectedPW: expectedPW,
	}
	pwMatch := stored.PW() == expectedPW

	switch {
	case syndrome == 0 && pwMatch:
		result.Status = NoError

	case syndrome == 0 && !pwMatch:
		result.Status = ParityBitError

	case syndrome != 0 && pwMatch:
		result.Status = DoubleBitError

	case syndrome != 0 && !pwMatch:
		pos := Position(syndrome)
		if !pos.Valid() {
			result.Status = UnknownError
			break
		}
		result.Status = SingleBitError
		result.Position = pos

	default:
		result.Status = UnknownError
	}

	return result
}

// Repair returns the stored codeword with the overall parity bit replaced
// by the expected value of the result.
func (r Result) Repair(stored Codeword) Codeword {
	if r.ExpectedPW {
		return stored | PW
	}
	return stored &^ PW
}
