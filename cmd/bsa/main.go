// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

// The bsa CLI inspects and extracts Bethesda BSA archives.
package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/woozymasta/bsa/internal/command"
)

var version = "dev"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	app := newApp(os.Stdout, log)
	if err := app.Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}

		// Errors not mapped by command actions come from flag parsing.
		log.Error(err)
		os.Exit(command.ExitInvalidParameter)
	}
}
