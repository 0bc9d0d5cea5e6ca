// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/eccemu/internal/options"
	"github.com/retroenv/retrogolib/cli"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	var opts options.Program
	flags := cli.NewFlagSet("eccemu")
	flags.AddSection("Parameters", &opts.Parameters)
	flags.AddSection("Flags", &opts.Flags)

	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		// the flag set already printed the usage for help requests and parse errors
		usageErr := &UsageError{flags: flags, usageShown: true}
		if !errors.Is(err, cli.ErrHelpRequested) {
			usageErr.msg = err.Error()
		}
		return opts, usageErr
	}
	if len(args) > 0 {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s, all options have to be passed as flags", args[0]),
		}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags      *cli.FlagSet
	msg        string
	usageShown bool
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the error message and the usage, unless the flag set
// already printed both while parsing.
func (e *UsageError) ShowUsage() {
	if e.usageShown {
		return
	}
	if e.msg != "" {
		fmt.Printf("error: %s\n\n", e.msg)
	}
	e.flags.ShowUsage()
}

// HelpRequested returns whether the error was caused by -h or -help.
func (e *UsageError) HelpRequested() bool {
	return e.usageShown && e.msg == ""
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Capacity <= 0 {
		return fmt.Errorf("invalid capacity %d, has to be positive", opts.Capacity)
	}
	if opts.Offset < 0 || opts.Offset >= opts.Capacity {
		return fmt.Errorf("offset %d is outside of the memory capacity %d", opts.Offset, opts.Capacity)
	}

	value, err := strconv.ParseUint(opts.Value, 0, 8)
	if err != nil {
		return fmt.Errorf("parsing value '%s': %w", opts.Value, err)
	}
	opts.Byte = byte(value)

	opts.Mode = strings.ToLower(opts.Mode)
	validModes := []string{options.ModeDemo, options.ModeSweep, options.ModeAll}
	for _, valid := range validModes {
		if opts.Mode == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported mode: %s. Valid options: %s",
		opts.Mode, strings.Join(validModes, ", "))
}
