// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/woozymasta/bsa/internal/command"
)

// newApp builds the CLI with one subcommand per operation.
func newApp(out io.Writer, log *logrus.Logger) *cli.App {
	app := &cli.App{
		Name:            "bsa",
		Usage:           "Inspect and extract Bethesda BSA archives",
		Version:         version,
		Writer:          out,
		ErrWriter:       log.Out,
		HideHelpCommand: true,
		// Exit codes are returned to main instead of exiting inside Run.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   logrus.InfoLevel.String(),
				Usage:   "Set log level (panic, fatal, error, warn, info, debug, trace)",
				EnvVars: []string{"BSA_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return exitError(log, fmt.Errorf("%w: %w", command.ErrInvalidParameter, err))
			}
			log.SetLevel(level)
			return nil
		},
	}

	for _, op := range command.Operations() {
		app.Commands = append(app.Commands, newCLICommand(op, out, log))
	}

	return app
}

// newCLICommand wires one operation to urfave/cli.
func newCLICommand(op command.Operation, out io.Writer, log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      op.String(),
		Usage:     op.Usage(),
		ArgsUsage: op.ArgsUsage(),
		Flags:     operationFlags(op),
		Action: func(c *cli.Context) error {
			opts := command.Options{
				Long:      c.Bool("long"),
				Overwrite: c.Bool("overwrite"),
				Include:   c.StringSlice("include"),
				Exclude:   c.StringSlice("exclude"),
			}

			cmd, err := command.New(op, c.Args().Slice(), opts)
			if err == nil {
				log.WithField("command", op).Debug("running")
				err = cmd.Run(command.Env{Out: out, Log: log})
			}

			return exitError(log, err)
		},
	}
}

// operationFlags returns flags accepted by op.
func operationFlags(op command.Operation) []cli.Flag {
	overwrite := &cli.BoolFlag{
		Name:    "overwrite",
		Usage:   "Replace existing output files",
		EnvVars: []string{"BSA_OVERWRITE"},
	}
	include := &cli.StringSliceFlag{
		Name:  "include",
		Usage: "Extract only paths matching the glob (repeatable)",
	}
	exclude := &cli.StringSliceFlag{
		Name:  "exclude",
		Usage: "Skip paths matching the glob (repeatable)",
	}

	switch op {
	case command.OpList:
		return []cli.Flag{&cli.BoolFlag{Name: "long", Aliases: []string{"l"}, Usage: "Show sizes, compression and hashes"}}
	case command.OpExtractAll, command.OpExtractDirectory:
		return []cli.Flag{overwrite, include, exclude}
	case command.OpExtractFile:
		return []cli.Flag{overwrite}
	default:
		return nil
	}
}

// exitError logs err as one line and converts it to a cli exit code.
func exitError(log logrus.FieldLogger, err error) error {
	if err == nil {
		return nil
	}

	log.Error(err)
	return cli.Exit("", command.ExitCode(err))
}
