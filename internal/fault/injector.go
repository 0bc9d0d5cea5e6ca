// Package fault injects bit faults into an emulated SECDED memory.
package fault

import (
	"fmt"

	"github.com/retroenv/eccemu/internal/ecc"
)

// Target is a memory that supports flipping single bits of an encoded word.
type Target interface {
	FlipBit(offset int, pos ecc.Position) error
}

// Injector flips bits of encoded words, addressed by encoded word position.
type Injector struct {
	target Target
}

// New returns an injector for the given memory.
func New(target Target) *Injector {
	return &Injector{target: target}
}

// FlipBit toggles the bit at the encoded word position of the given offset.
func (i *Injector) FlipBit(offset int, pos ecc.Position) error {
	if err := i.target.FlipBit(offset, pos); err != nil {
		return fmt.Errorf("flipping bit %d at offset %d: %w", pos, offset, err)
	}
	return nil
}

// FlipBits toggles all given positions in order and stops at the first error.
// Flipping a position twice restores it.
func (i *Injector) FlipBits(offset int, positions ...ecc.Position) error {
	for _, pos := range positions {
		if err := i.FlipBit(offset, pos); err != nil {
			return err
		}
	}
	return nil
}
