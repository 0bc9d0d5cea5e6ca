// Package scenario runs fault injection scenarios against an emulated
// SECDED memory and verifies that every fault is classified as expected.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/eccemu/internal/ecc"
	"github.com/retroenv/eccemu/internal/fault"
	"github.com/retroenv/eccemu/internal/memory"
	"github.com/retroenv/eccemu/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnexpectedOutcome is returned when a read is not classified as expected.
var ErrUnexpectedOutcome = errors.New("unexpected outcome")

// Case is a demonstration of a fault and the classification it has to get.
type Case struct {
	Name     string
	Value    byte
	Flips    []ecc.Position
	Expected ecc.Status
	Position ecc.Position // expected position of a single bit error

	// Correct flips the reported position back after the read, as a caller
	// correcting a single bit error would, and expects a clean read.
	Correct bool
}

// DemoCases covers every classification outcome.
var DemoCases = []Case{
	{Name: "no fault", Value: 0xA1, Expected: ecc.NoError},
	{Name: "pW at position 0 of 0xA2", Value: 0xA2, Flips: []ecc.Position{ecc.PosPW},
		Expected: ecc.ParityBitError},
	{Name: "d1 at position 3", Value: 0xAB, Flips: []ecc.Position{ecc.PosD1},
		Expected: ecc.SingleBitError, Position: ecc.PosD1, Correct: true},
	{Name: "d6 at position 10", Value: 0x5A, Flips: []ecc.Position{ecc.PosD6},
		Expected: ecc.SingleBitError, Position: ecc.PosD6, Correct: true},
	{Name: "pW at position 0", Value: 0xCC, Flips: []ecc.Position{ecc.PosPW},
		Expected: ecc.ParityBitError},
	{Name: "p1 at position 1", Value: 0xAB, Flips: []ecc.Position{ecc.PosP1},
		Expected: ecc.SingleBitError, Position: ecc.PosP1, Correct: true},
	{Name: "d3 and d4 at positions 6 and 7", Value: 0xA4, Flips: []ecc.Position{ecc.PosD3, ecc.PosD4},
		Expected: ecc.DoubleBitError},
}

// Runner executes scenarios on a memory.
type Runner struct {
	logger   *log.Logger
	mem      *memory.Memory
	injector *fault.Injector
	opts     options.Program
}

// New returns a runner that creates a memory based on the program options.
func New(logger *log.Logger, opts options.Program) (*Runner, error) {
	mem, err := memory.New(logger, opts.Capacity, memory.WithTrace(opts.Trace))
	if err != nil {
		return nil, fmt.Errorf("creating memory: %w", err)
	}

	return &Runner{
		logger:   logger,
		mem:      mem,
		injector: fault.New(mem),
		opts:     opts,
	}, nil
}

// Run executes all scenarios that are enabled by the program options.
func (r *Runner) Run(ctx context.Context) error {
	if r.opts.RunsDemo() {
		if err := r.RunDemo(ctx, DemoCases); err != nil {
			return fmt.Errorf("running demo cases: %w", err)
		}
		if err := r.RunReadAfterWrite(ctx); err != nil {
			return fmt.Errorf("running read after write: %w", err)
		}
	}

	if r.opts.RunsSweep() {
		if err := r.RunSweeps(ctx); err != nil {
			return fmt.Errorf("running fault sweeps: %w", err)
		}
	}
	return nil
}

// RunDemo executes the given cases at the configured offset.
func (r *Runner) RunDemo(ctx context.Context, cases []Case) error {
	offset := r.opts.Offset

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("demo canceled: %w", err)
		}
		if err := r.runCase(offset, c); err != nil {
			return fmt.Errorf("case '%s': %w", c.Name, err)
		}
		r.logger.Info("Case passed", log.String("case", c.Name))
	}
	return nil
}

func (r *Runner) runCase(offset int, c Case) error {
	if err := r.mem.Write(offset, c.Value); err != nil {
		return fmt.Errorf("writing offset %d: %w", offset, err)
	}
	if err := r.injector.FlipBits(offset, c.Flips...); err != nil {
		return err
	}

	_, result, err := r.mem.Read(offset)
	if err != nil {
		return fmt.Errorf("reading offset %d: %w", offset, err)
	}
	if result.Status != c.Expected || result.Position != c.Position {
		return fmt.Errorf("%w: expected %s at position %d, got %s",
			ErrUnexpectedOutcome, c.Expected, c.Position, result)
	}

	switch {
	case c.Correct:
		if err := r.injector.FlipBit(offset, result.Position); err != nil {
			return err
		}
	case result.Status != ecc.ParityBitError:
		// the parity bit repairs itself, everything else stays corrupted
		return nil
	}

	data, result, err := r.mem.Read(offset)
	if err != nil {
		return fmt.Errorf("reading offset %d: %w", offset, err)
	}
	if result.Status != ecc.NoError || data != c.Value {
		return fmt.Errorf("%w: expected clean read of 0x%02X after correction, got 0x%02X with %s",
			ErrUnexpectedOutcome, c.Value, data, result)
	}
	return nil
}

// RunReadAfterWrite writes a distinct value to every offset and verifies
// that all of them read back without error.
func (r *Runner) RunReadAfterWrite(ctx context.Context) error {
	capacity := r.mem.Capacity()
	for offset := range capacity {
		if err := r.mem.Write(offset, byte(offset)); err != nil {
			return fmt.Errorf("writing offset %d: %w", offset, err)
		}
	}

	for offset := range capacity {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("read after write canceled: %w", err)
		}

		data, result, err := r.mem.Read(offset)
		if err != nil {
			return fmt.Errorf("reading offset %d: %w", offset, err)
		}
		if result.Status != ecc.NoError || data != byte(offset) {
			return fmt.Errorf("%w: offset %d read 0x%02X with %s",
				ErrUnexpectedOutcome, offset, data, result)
		}
	}

	r.logger.Info("Read after write passed", log.Int("cells", capacity))
	return nil
}

// RunSweeps injects every single and double bit fault at the configured
// offset. Misleading classifications are logged and reported as error.
func (r *Runner) RunSweeps(ctx context.Context) error {
	single, err := fault.SweepSingle(ctx, r.mem, r.opts.Offset, r.opts.Byte)
	if err != nil {
		return fmt.Errorf("single bit sweep: %w", err)
	}
	r.logReport("Single bit sweep", single)

	for _, pos := range ecc.Positions() {
		if !single.Located.Contains(pos) {
			return fmt.Errorf("%w: single bit fault at position %d (%s) not located",
				ErrUnexpectedOutcome, pos, pos)
		}
	}

	double, err := fault.SweepDouble(ctx, r.mem, r.opts.Offset, r.opts.Byte)
	if err != nil {
		return fmt.Errorf("double bit sweep: %w", err)
	}
	r.logReport("Double bit sweep", double)

	if misleading := double.Misleading(); len(misleading) > 0 {
		return fmt.Errorf("%w: %d double bit faults not detected", ErrUnexpectedOutcome, len(misleading))
	}
	return nil
}

func (r *Runner) logReport(name string, report *fault.Report) {
	for _, outcome := range report.Misleading() {
		r.logger.Warn("Misleading classification",
			log.String("sweep", name),
			log.String("injected", positionNames(outcome.Positions)),
			log.String("result", outcome.Result.String()))
	}

	r.logger.Info(name,
		log.Hex("value", r.opts.Byte),
		log.Int("cases", len(report.Outcomes)),
		log.Int("parity_bit_errors", report.Counts[ecc.ParityBitError]),
		log.Int("single_bit_errors", report.Counts[ecc.SingleBitError]),
		log.Int("double_bit_errors", report.Counts[ecc.DoubleBitError]),
		log.Int("unknown_errors", report.Counts[ecc.UnknownError]))
}

func positionNames(positions []ecc.Position) string {
	names := make([]string, 0, len(positions))
	for _, pos := range positions {
		names = append(names, pos.String())
	}
	return strings.Join(names, ",")
}
