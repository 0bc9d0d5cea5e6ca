// Package memory emulates a byte addressable memory that stores a SECDED
// codeword next to every data byte.
package memory

import (
	"errors"
	"fmt"

	"github.com/retroenv/eccemu/internal/dump"
	"github.com/retroenv/eccemu/internal/ecc"
	"github.com/retroenv/retrogolib/log"
)

var (
	// ErrOutOfRange is returned for offsets outside of the address space.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrInvalidBitPosition is returned for encoded word positions above 12.
	ErrInvalidBitPosition = errors.New("invalid bit position")
	// ErrInvalidCapacity is returned when creating a memory without cells.
	ErrInvalidCapacity = errors.New("invalid capacity")
)

// Cell is a data byte and the codeword that protects it.
type Cell struct {
	Data ecc.Data
	Code ecc.Codeword
}

// Memory is a fixed size address space of cells. It does not synchronize
// access, concurrent callers have to serialize access or use Locked.
type Memory struct {
	logger *log.Logger
	trace  bool
	cells  []Cell
}

// Option configures a memory.
type Option func(*Memory)

// WithTrace enables debug logging of the data, codeword and encoded word
// of every write and read.
func WithTrace(enabled bool) Option {
	return func(m *Memory) {
		m.trace = enabled
	}
}

// New returns a memory with the given number of zero initialized cells.
func New(logger *log.Logger, capacity int, options ...Option) (*Memory, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	m := &Memory{
		logger: logger,
		cells:  make([]Cell, capacity),
	}
	for _, option := range options {
		option(m)
	}
	return m, nil
}

// Capacity returns the number of cells of the memory.
func (m *Memory) Capacity() int {
	return len(m.cells)
}

// Cell returns a copy of the cell at the given offset.
func (m *Memory) Cell(offset int) (Cell, error) {
	if err := m.checkOffset(offset); err != nil {
		return Cell{}, err
	}
	return m.cells[offset], nil
}

// Write stores the byte at the given offset together with its codeword.
func (m *Memory) Write(offset int, b byte) error {
	if err := m.checkOffset(offset); err != nil {
		return err
	}

	data := ecc.Data(b)
	cell := &m.cells[offset]
	cell.Data = data
	cell.Code = ecc.Encode(data)

	if m.trace {
		m.logger.Debug("Write",
			log.Hex("offset", offset),
			log.String("computed", dump.Codeword(cell.Code)),
			log.String("parity", dump.CodewordLayout(cell.Code)),
			log.String("data", dump.DataLayout(cell.Data)),
			log.String("byte", dump.DataByte(cell.Data)),
			log.String("encoded", dump.Encoded(cell.Data, cell.Code)))
	}
	return nil
}

// Read returns the stored byte at the given offset and the result of checking
// it against its stored codeword. The data byte is returned as stored, a
// single bit error is reported but not corrected. A wrong overall parity bit
// is the only error that gets repaired in place.
func (m *Memory) Read(offset int) (byte, ecc.Result, error) {
	if err := m.checkOffset(offset); err != nil {
		return 0, ecc.Result{}, err
	}

	cell := &m.cells[offset]
	result := ecc.Check(cell.Data, cell.Code)

	if m.trace {
		m.logger.Debug("Read",
			log.Hex("offset", offset),
			log.String("computed", dump.Codeword(ecc.Encode(cell.Data))),
			log.String("parity", dump.CodewordLayout(cell.Code)),
			log.String("data", dump.DataLayout(cell.Data)),
			log.String("byte", dump.DataByte(cell.Data)),
			log.String("encoded", dump.Encoded(cell.Data, cell.Code)),
			log.Uint8("syndrome", result.Syndrome))
	}

	switch result.Status {
	case ecc.NoError:

	case ecc.ParityBitError:
		cell.Code = result.Repair(cell.Code)
		m.logger.Debug("Overall parity bit repaired", log.Hex("offset", offset))

	case ecc.SingleBitError:
		m.logger.Debug("Single bit error",
			log.Hex("offset", offset),
			log.Uint8("position", uint8(result.Position)),
			log.String("bit", result.Position.String()))

	default:
		m.logger.Debug("Uncorrectable error",
			log.Hex("offset", offset),
			log.String("status", result.Status.String()),
			log.Uint8("syndrome", result.Syndrome))
	}

	return byte(cell.Data), result, nil
}

// FlipBit toggles the bit at the given encoded word position of the cell at
// the offset. The codeword is not updated, this simulates a storage fault
// that desynchronizes data and parity.
func (m *Memory) FlipBit(offset int, pos ecc.Position) error {
	if err := m.checkOffset(offset); err != nil {
		return err
	}
	if !pos.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidBitPosition, pos)
	}

	cell := &m.cells[offset]
	if pos.IsData() {
		cell.Data ^= pos.DataMask()
	} else {
		cell.Code ^= pos.CodeMask()
	}

	if m.trace {
		m.logger.Debug("Bit flipped",
			log.Hex("offset", offset),
			log.Uint8("position", uint8(pos)),
			log.String("bit", pos.String()),
			log.String("encoded", dump.Encoded(cell.Data, cell.Code)))
	}
	return nil
}

func (m *Memory) checkOffset(offset int) error {
	if offset < 0 || offset >= len(m.cells) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, offset, len(m.cells))
	}
	return nil
}
