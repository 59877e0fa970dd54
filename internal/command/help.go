// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package command

import (
	"fmt"
	"text/tabwriter"
)

type helpCommand struct {
	topic string
}

func (c *helpCommand) Operation() Operation { return OpHelp }

func (c *helpCommand) Run(env Env) error {
	if c.topic != "" {
		op, err := ParseOperation(c.topic)
		if err != nil {
			return err
		}

		fmt.Fprintf(env.Out, "bsa %s %s\n\n  %s\n", op, op.ArgsUsage(), op.Usage())
		return nil
	}

	fmt.Fprintln(env.Out, "usage: bsa [global options] <command> [options] [arguments]")
	fmt.Fprintln(env.Out)

	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	for _, op := range Operations() {
		fmt.Fprintf(w, "  %s %s\t%s\n", op, op.ArgsUsage(), op.Usage())
	}

	return w.Flush()
}

type commandsCommand struct{}

func (c *commandsCommand) Operation() Operation { return OpCommands }

func (c *commandsCommand) Run(env Env) error {
	for _, op := range Operations() {
		fmt.Fprintln(env.Out, op)
	}

	return nil
}
