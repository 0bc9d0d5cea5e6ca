// Package options contains the program options.
package options

// Run modes.
const (
	ModeDemo  = "demo"
	ModeSweep = "sweep"
	ModeAll   = "all"
)

// DefaultCapacity is the size of the emulated address space if none is given.
const DefaultCapacity = 256

// Parameters contains the memory and fault injection parameters.
type Parameters struct {
	Capacity int    `flag:"capacity" usage:"number of bytes of the emulated memory" default:"256"`
	Offset   int    `flag:"offset" usage:"memory offset used for the demo cases and fault sweeps"`
	Value    string `flag:"value" usage:"byte written before every injected fault of the sweeps" default:"0xAB"`
	Mode     string `flag:"mode" usage:"what to run: demo, sweep, all" default:"all"`
}

// Flags contains behavior options.
type Flags struct {
	Trace bool `flag:"trace" usage:"log every memory write and read with its bit patterns"`
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Quiet bool `flag:"q" usage:"quiet mode"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags

	Byte byte // Value parsed and validated by the cli
}

// RunsDemo returns whether the demonstration cases should be run.
func (p Program) RunsDemo() bool {
	return p.Mode == ModeDemo || p.Mode == ModeAll
}

// RunsSweep returns whether the exhaustive fault sweeps should be run.
func (p Program) RunsSweep() bool {
	return p.Mode == ModeSweep || p.Mode == ModeAll
}
