// Package main implements an emulator for memory protected by a SECDED Hamming code
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/eccemu/internal/cli"
	"github.com/retroenv/eccemu/internal/config"
	"github.com/retroenv/eccemu/internal/options"
	"github.com/retroenv/eccemu/internal/scenario"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
			if usageErr.HelpRequested() {
				return
			}
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)
	printBanner(opts)

	runner, err := scenario.New(logger, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	logger.Info("Emulating memory",
		log.Int("capacity", opts.Capacity),
		log.Hex("offset", opts.Offset),
		log.Hex("value", opts.Byte),
		log.String("mode", opts.Mode))

	if err := runner.Run(ctx); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Scenario failed", log.Err(err))
		os.Exit(1)
	}
	logger.Info("All scenarios passed")
}

func printBanner(opts options.Program) {
	if opts.Quiet {
		return
	}
	fmt.Println("[-------------------------------------]")
	fmt.Println("[ eccemu - SECDED ECC memory emulator ]")
	fmt.Printf("[-------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}
