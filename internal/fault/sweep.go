package fault

import (
	"context"
	"fmt"
	"slices"

	"github.com/retroenv/eccemu/internal/ecc"
	"github.com/retroenv/retrogolib/set"
)

// Memory is a memory that faults can be injected into and that reports the
// check result of reads.
type Memory interface {
	Target
	Write(offset int, b byte) error
	Read(offset int) (byte, ecc.Result, error)
}

// Outcome is the read result for one set of injected faults.
type Outcome struct {
	Positions []ecc.Position // injected faults
	Data      byte           // byte returned by the read
	Result    ecc.Result
}

// Misleading returns whether the read did not report the injected faults
// correctly. A single injected fault has to be reported at its position,
// two injected faults have to be reported as double bit error.
func (o Outcome) Misleading() bool {
	switch len(o.Positions) {
	case 0:
		return o.Result.Status != ecc.NoError
	case 1:
		if o.Positions[0] == ecc.PosPW {
			return o.Result.Status != ecc.ParityBitError
		}
		return o.Result.Status != ecc.SingleBitError || o.Result.Position != o.Positions[0]
	case 2:
		return o.Result.Status != ecc.DoubleBitError
	default:
		return false
	}
}

// Report contains the outcomes of a sweep.
type Report struct {
	Outcomes []Outcome
	Counts   map[ecc.Status]int

	// Located contains the positions of single faults that were reported
	// at the injected position.
	Located set.Set[ecc.Position]
}

func newReport() *Report {
	return &Report{
		Counts:  make(map[ecc.Status]int),
		Located: set.New[ecc.Position](),
	}
}

func (r *Report) add(outcome Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
	r.Counts[outcome.Result.Status]++

	if len(outcome.Positions) == 1 && !outcome.Misleading() {
		r.Located.Add(outcome.Positions[0])
	}
}

// Misleading returns all outcomes that did not report the injected faults correctly.
func (r *Report) Misleading() []Outcome {
	var outcomes []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Misleading() {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// SweepSingle injects every single bit fault of the encoded word into the
// cell at the offset. Every case writes the value, flips one bit, reads it
// back and writes the value again, the cell holds a clean encoded value
// after every case.
func SweepSingle(ctx context.Context, mem Memory, offset int, value byte) (*Report, error) {
	cases := make([][]ecc.Position, 0, ecc.PositionCount)
	for _, pos := range ecc.Positions() {
		cases = append(cases, []ecc.Position{pos})
	}
	return sweep(ctx, mem, offset, value, cases)
}

// SweepDouble injects every combination of two distinct bit faults of the
// encoded word into the cell at the offset.
func SweepDouble(ctx context.Context, mem Memory, offset int, value byte) (*Report, error) {
	positions := ecc.Positions()
	cases := make([][]ecc.Position, 0, len(positions)*(len(positions)-1)/2)
	for i, first := range positions {
		for _, second := range positions[i+1:] {
			cases = append(cases, []ecc.Position{first, second})
		}
	}
	return sweep(ctx, mem, offset, value, cases)
}

func sweep(ctx context.Context, mem Memory, offset int, value byte, cases [][]ecc.Position) (*Report, error) {
	injector := New(mem)
	report := newReport()

	for _, positions := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sweep canceled: %w", err)
		}

		outcome, err := inject(injector, mem, offset, value, positions)
		if err != nil {
			return nil, err
		}
		report.add(outcome)
	}
	return report, nil
}

func inject(injector *Injector, mem Memory, offset int, value byte, positions []ecc.Position) (Outcome, error) {
	if err := mem.Write(offset, value); err != nil {
		return Outcome{}, fmt.Errorf("writing offset %d: %w", offset, err)
	}
	if err := injector.FlipBits(offset, positions...); err != nil {
		return Outcome{}, err
	}

	b, result, err := mem.Read(offset)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading offset %d: %w", offset, err)
	}

	// flipping back would undo a repaired parity bit, rewriting restores any outcome
	if err := mem.Write(offset, value); err != nil {
		return Outcome{}, fmt.Errorf("restoring offset %d: %w", offset, err)
	}

	return Outcome{
		Positions: slices.Clone(positions),
		Data:      b,
		Result:    result,
	}, nil
}
