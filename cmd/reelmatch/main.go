// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
)

var (
	// errUsage marks errors that already printed usage.
	errUsage = errors.New("usage")

	// errReported fails the command after it wrote its own message.
	errReported = errors.New("reported")
)

// cli carries the process environment so commands can run under test.
type cli struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (*config.Config, error)

	// logger is set from the loaded config when nil.
	logger *zerolog.Logger
}

type command struct {
	name    string
	summary string
	run     func(c *cli, ctx context.Context, cfg *config.Config, args []string) error
}

var commands = []command{
	{"download", "fetch the IMDb dataset files", (*cli).download},
	{"reduce", "score and reduce the IMDb catalog to a dataset CSV", (*cli).reduce},
	{"recommend", "print movies similar to a title", (*cli).recommend},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
	}
	code := c.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run dispatches args to a subcommand and returns the exit code.
func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		c.usage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(c.stderr, "reelmatch: unknown command %q\n\n", args[0])
		c.usage()
		return 2
	}

	cfg, err := c.loadConfig()
	if err != nil {
		fmt.Fprintf(c.stderr, "reelmatch: %v\n", err)
		return 1
	}
	if c.logger == nil {
		logCfg := cfg.Logging.LoggingConfig()
		logCfg.Output = c.stderr
		logging.Init(logCfg)
		l := logging.Logger()
		c.logger = &l
	}

	if err := cmd.run(c, ctx, cfg, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, errUsage) {
			return 2
		}
		if errors.Is(err, errReported) {
			return 1
		}
		fmt.Fprintf(c.stderr, "reelmatch %s: %v\n", cmd.name, err)
		return 1
	}
	return 0
}

func (c *cli) usage() {
	fmt.Fprintln(c.stderr, "Usage: reelmatch <command> [flags]")
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(c.stderr, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Run 'reelmatch <command> -h' for command flags. The server is cmd/server.")
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("reelmatch "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parse maps flag errors onto errUsage; the flag package already printed them.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}
