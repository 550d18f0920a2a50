// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cchexcode/bobr"
	"github.com/cchexcode/bobr/internal/commandfile"
	"github.com/cchexcode/bobr/internal/ctxlog"
	"github.com/cchexcode/bobr/internal/multiplex"
	"github.com/cchexcode/bobr/internal/resultwriter"
	"github.com/cchexcode/bobr/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	commandFlag     = "command"
	fileFlag        = "file"
	programFlag     = "program"
	stderrFlag      = "stderr"
	parallelismFlag = "parallelism"
	outputFlag      = "output"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "bobr",
	Version:   bobr.Version + " (" + bobr.Commit + ")",
	Description: `Bobr runs a set of shell commands concurrently with a bounded worker
pool, shows their progress on a live dashboard and emits a structured result
with the captured stdout of every command.`,
	Usage: `bobr -c "sleep 1" -c "echo done" -o json`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    commandFlag,
			Aliases: []string{"c"},
			Usage:   "Command to run. Repeat the flag to run several commands.",
		},
		&cli.StringSliceFlag{
			Name:      fileFlag,
			Aliases:   []string{"f"},
			Usage:     "File with commands to run (" + strings.Join(commandfile.Extensions(), ", ") + "). Repeatable; local path or go-getter URL.",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:        programFlag,
			Usage:       "Interpreter the commands are passed to.",
			Value:       "/bin/sh -c",
			DefaultText: "/bin/sh -c",
		},
		&cli.IntFlag{
			Name:        stderrFlag,
			Usage:       "Number of recent stderr lines kept per command.",
			Value:       multiplex.DefaultStderrTail,
			DefaultText: "3",
		},
		&cli.IntFlag{
			Name:        parallelismFlag,
			Aliases:     []string{"p"},
			Usage:       "Maximum number of commands running at once. Zero means the number of commands.",
			DefaultText: "number of commands",
		},
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Write the result to stdout in the given format (" + strings.Join(resultwriter.Formats(), ", ") + ").",
		},
	},
	Action:                actionFunc,
	EnableShellCompletion: true,
}

// validateRun checks the numeric and format flags before the engine starts.
func validateRun(tail, parallelism int, format string) error {
	if tail < 0 {
		return errors.New("stderr tail must not be negative")
	}

	if parallelism < 0 {
		return errors.New("parallelism must not be negative")
	}

	if format != "" && !resultwriter.Supported(format) {
		return fmt.Errorf("unknown output format %q, expected one of: %s",
			format, strings.Join(resultwriter.Formats(), ", "))
	}

	return nil
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	commands := cmd.StringSlice(commandFlag)

	if files := cmd.StringSlice(fileFlag); len(files) > 0 {
		fromFiles, err := commandfile.LoadAll(ctx, files)
		if err != nil {
			return cli.Exit("failed to load command files: "+err.Error(), 1)
		}

		commands = append(commands, fromFiles...)
	}

	if len(commands) == 0 {
		return cli.Exit("no commands to run, provide --command or --file", 1)
	}

	program := strings.Fields(cmd.String(programFlag))
	if len(program) == 0 {
		return cli.Exit("program must not be empty", 1)
	}

	tail := cmd.Int(stderrFlag)
	parallelism := cmd.Int(parallelismFlag)
	format := cmd.String(outputFlag)

	if err := validateRun(tail, parallelism, format); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	mux := multiplex.New(program, commands)
	mux.StderrTail = tail
	mux.Parallelism = parallelism

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctxlog.Debug(ctx, "starting run",
		"commands", len(commands),
		"parallelism", mux.Parallelism,
		"program", program,
	)

	res, err := tui.Run(runCtx, cancel, mux, commands)
	if err != nil {
		return cli.Exit("run aborted: "+err.Error(), 1)
	}

	if format != "" {
		if err := resultwriter.Write(cmd.Writer, format, res); err != nil {
			return cli.Exit("failed to write result: "+err.Error(), 1)
		}
	}

	return nil
}
