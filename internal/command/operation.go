// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package command

import (
	"fmt"
	"strings"
)

// Operation identifies one CLI subcommand.
type Operation uint8

// Supported operations.
const (
	OpInfo Operation = iota + 1
	OpList
	OpDirectories
	OpDirectoryMetadata
	OpFileMetadata
	OpCheckHashes
	OpExtractAll
	OpExtractFile
	OpExtractDirectory
	OpHelp
	OpCommands
)

// operationInfo describes argv shape of one operation.
type operationInfo struct {
	name      string
	usage     string
	argsUsage string
	minArgs   int
	maxArgs   int
}

var operationTable = map[Operation]operationInfo{
	OpInfo: {
		name: "info", usage: "Print archive header summary",
		argsUsage: "<archive>", minArgs: 1, maxArgs: 1,
	},
	OpList: {
		name: "list", usage: "List all files",
		argsUsage: "<archive>", minArgs: 1, maxArgs: 1,
	},
	OpDirectories: {
		name: "directories", usage: "List stored directories",
		argsUsage: "<archive>", minArgs: 1, maxArgs: 1,
	},
	OpDirectoryMetadata: {
		name: "directory-metadata", usage: "Print metadata of one stored or virtual directory",
		argsUsage: "<archive> <directory>", minArgs: 2, maxArgs: 2,
	},
	OpFileMetadata: {
		name: "file-metadata", usage: "Print metadata of one file",
		argsUsage: "<archive> <file>", minArgs: 2, maxArgs: 2,
	},
	OpCheckHashes: {
		name: "check-hashes", usage: "Compare stored name hashes with calculated ones",
		argsUsage: "<archive>", minArgs: 1, maxArgs: 1,
	},
	OpExtractAll: {
		name: "extract-all", usage: "Extract every file into a directory",
		argsUsage: "<archive> <dest-dir>", minArgs: 2, maxArgs: 2,
	},
	OpExtractFile: {
		name: "extract-file", usage: "Extract one file to a path",
		argsUsage: "<archive> <file> <dest>", minArgs: 3, maxArgs: 3,
	},
	OpExtractDirectory: {
		name: "extract-directory", usage: "Extract one stored directory into a directory",
		argsUsage: "<archive> <directory> <dest-dir>", minArgs: 3, maxArgs: 3,
	},
	OpHelp: {
		name: "help", usage: "Show usage of all or one command",
		argsUsage: "[command]", minArgs: 0, maxArgs: 1,
	},
	OpCommands: {
		name: "commands", usage: "List command names",
		argsUsage: "", minArgs: 0, maxArgs: 0,
	},
}

// Operations returns all operations in display order.
func Operations() []Operation {
	out := make([]Operation, 0, len(operationTable))
	for op := OpInfo; op <= OpCommands; op++ {
		out = append(out, op)
	}

	return out
}

// ParseOperation resolves a subcommand name.
func ParseOperation(name string) (Operation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations() {
		if operationTable[op].name == name {
			return op, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown command %q", ErrInvalidParameter, name)
}

// String returns subcommand name.
func (o Operation) String() string {
	if info, ok := operationTable[o]; ok {
		return info.name
	}

	return fmt.Sprintf("operation(%d)", uint8(o))
}

// Usage returns one-line description.
func (o Operation) Usage() string {
	return operationTable[o].usage
}

// ArgsUsage returns positional argument synopsis.
func (o Operation) ArgsUsage() string {
	return operationTable[o].argsUsage
}

// checkArgs validates positional argument count.
func (o Operation) checkArgs(args []string) error {
	info, ok := operationTable[o]
	if !ok {
		return fmt.Errorf("%w: unknown operation %d", ErrInvalidParameter, uint8(o))
	}

	if len(args) < info.minArgs || len(args) > info.maxArgs {
		return fmt.Errorf("%w: %s expects %s, got %d argument(s)", ErrInvalidParameter, info.name, info.argsUsage, len(args))
	}

	for i, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("%w: %s argument %d is empty", ErrInvalidParameter, info.name, i+1)
		}
	}

	return nil
}
