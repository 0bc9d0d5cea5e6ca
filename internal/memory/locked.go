package memory

import (
	"sync"

	"github.com/retroenv/eccemu/internal/ecc"
)

// Locked serializes all access to a memory, it allows sharing one address
// space between goroutines.
type Locked struct {
	mu  sync.Mutex
	mem *Memory
}

// NewLocked returns a locked wrapper for the memory.
func NewLocked(mem *Memory) *Locked {
	return &Locked{mem: mem}
}

// Write stores the byte at the given offset.
func (l *Locked) Write(offset int, b byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mem.Write(offset, b)
}

// Read returns the stored byte at the given offset and its check result.
func (l *Locked) Read(offset int) (byte, ecc.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mem.Read(offset)
}

// FlipBit toggles a bit of the encoded word at the given offset.
func (l *Locked) FlipBit(offset int, pos ecc.Position) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mem.FlipBit(offset, pos)
}
