package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/retroenv/eccemu/internal/ecc"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestMemory(t *testing.T, capacity int) *Memory {
	t.Helper()
	mem, err := New(log.NewTestLogger(t), capacity, WithTrace(true))
	assert.NoError(t, err)
	return mem
}

func TestNew(t *testing.T) {
	t.Run("zero initialized", func(t *testing.T) {
		mem := newTestMemory(t, 16)
		assert.Equal(t, 16, mem.Capacity())

		cell, err := mem.Cell(15)
		assert.NoError(t, err)
		assert.Equal(t, ecc.Data(0), cell.Data)
		assert.False(t, cell.Code.Encoded())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		mem, err := New(log.NewTestLogger(t), 0)
		assert.True(t, errors.Is(err, ErrInvalidCapacity))
		assert.Nil(t, mem)
	})
}

func TestReadAfterWrite(t *testing.T) {
	mem := newTestMemory(t, 1)

	for i := range 256 {
		assert.NoError(t, mem.Write(0, byte(i)))

		b, result, err := mem.Read(0)
		assert.NoError(t, err)
		assert.Equal(t, byte(i), b)
		assert.Equal(t, ecc.NoError, result.Status)
	}
}

func TestReadUnwrittenCell(t *testing.T) {
	mem := newTestMemory(t, 4)

	b, result, err := mem.Read(3)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
	assert.Equal(t, ecc.NoError, result.Status)
}

func TestWriteCommitsCodeword(t *testing.T) {
	mem := newTestMemory(t, 4)
	assert.NoError(t, mem.Write(2, 0x5A))

	cell, err := mem.Cell(2)
	assert.NoError(t, err)
	assert.Equal(t, ecc.Data(0x5A), cell.Data)
	assert.Equal(t, ecc.Encode(0x5A), cell.Code)
	assert.True(t, cell.Code.Encoded())
}

func TestSingleBitErrorEveryOffset(t *testing.T) {
	const capacity = 32
	mem := newTestMemory(t, capacity)

	for offset := range capacity {
		value := byte(offset * 7)
		for pos := ecc.PosP1; pos < ecc.PositionCount; pos++ {
			assert.NoError(t, mem.Write(offset, value))
			assert.NoError(t, mem.FlipBit(offset, pos))

			_, result, err := mem.Read(offset)
			assert.NoError(t, err)
			assert.Equal(t, ecc.SingleBitError, result.Status)
			assert.Equal(t, pos, result.Position)

			assert.NoError(t, mem.FlipBit(offset, pos))
			b, result, err := mem.Read(offset)
			assert.NoError(t, err)
			assert.Equal(t, value, b)
			assert.Equal(t, ecc.NoError, result.Status)
		}
	}
}

func TestReadReturnsUncorrectedData(t *testing.T) {
	mem := newTestMemory(t, 1)
	assert.NoError(t, mem.Write(0, 0xAB))
	assert.NoError(t, mem.FlipBit(0, ecc.PosD1))

	b, result, err := mem.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAA), b)
	assert.Equal(t, ecc.PosD1, result.Position)

	// reading again reports the same fault, nothing was corrected
	_, result, err = mem.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, ecc.SingleBitError, result.Status)
}

func TestParityBitErrorSelfHeals(t *testing.T) {
	mem := newTestMemory(t, 1)
	assert.NoError(t, mem.Write(0, 0xCC))
	assert.NoError(t, mem.FlipBit(0, ecc.PosPW))

	b, result, err := mem.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xCC), b)
	assert.Equal(t, ecc.ParityBitError, result.Status)

	cell, err := mem.Cell(0)
	assert.NoError(t, err)
	assert.Equal(t, ecc.Encode(0xCC), cell.Code)

	b, result, err = mem.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xCC), b)
	assert.Equal(t, ecc.NoError, result.Status)
}

func TestDoubleBitErrors(t *testing.T) {
	mem := newTestMemory(t, 1)

	for _, first := range ecc.Positions() {
		for _, second := range ecc.Positions()[first+1:] {
			assert.NoError(t, mem.Write(0, 0xA4))
			assert.NoError(t, mem.FlipBit(0, first))
			assert.NoError(t, mem.FlipBit(0, second))

			_, result, err := mem.Read(0)
			assert.NoError(t, err)
			assert.Equal(t, ecc.DoubleBitError, result.Status)
		}
	}
}

func TestErrors(t *testing.T) {
	mem := newTestMemory(t, 8)

	tests := []struct {
		name     string
		call     func() error
		expected error
	}{
		{"write negative offset", func() error { return mem.Write(-1, 0) }, ErrOutOfRange},
		{"write past end", func() error { return mem.Write(8, 0) }, ErrOutOfRange},
		{"read past end", func() error { _, _, err := mem.Read(8); return err }, ErrOutOfRange},
		{"cell past end", func() error { _, err := mem.Cell(100); return err }, ErrOutOfRange},
		{"flip past end", func() error { return mem.FlipBit(8, ecc.PosD1) }, ErrOutOfRange},
		{"flip invalid position", func() error { return mem.FlipBit(0, 13) }, ErrInvalidBitPosition},
		{"flip offset checked first", func() error { return mem.FlipBit(-1, 13) }, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestFullSweep(t *testing.T) {
	const capacity = 256
	mem, err := New(log.NewTestLogger(t), capacity)
	assert.NoError(t, err)

	for offset := range capacity {
		assert.NoError(t, mem.Write(offset, byte(offset)))
	}
	for offset := range capacity {
		b, result, err := mem.Read(offset)
		assert.NoError(t, err)
		assert.Equal(t, byte(offset), b)
		assert.Equal(t, ecc.NoError, result.Status)
	}
}

func TestLocked(t *testing.T) {
	const capacity = 64
	mem, err := New(log.NewTestLogger(t), capacity)
	assert.NoError(t, err)
	locked := NewLocked(mem)

	const workers = 4
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for worker := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- lockedWorker(locked, worker, workers, capacity)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	for offset := range capacity {
		b, result, err := locked.Read(offset)
		assert.NoError(t, err)
		assert.Equal(t, byte(offset), b)
		assert.Equal(t, ecc.NoError, result.Status)
	}
}

func lockedWorker(locked *Locked, first, step, capacity int) error {
	for offset := first; offset < capacity; offset += step {
		if err := locked.Write(offset, byte(offset)); err != nil {
			return err
		}
		if err := locked.FlipBit(offset, ecc.PosD8); err != nil {
			return err
		}
		if err := locked.FlipBit(offset, ecc.PosD8); err != nil {
			return err
		}
	}
	return nil
}
