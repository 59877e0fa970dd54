// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

// Package command implements bsa CLI operations on top of the bsa package.
package command

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/woozymasta/bsa"
	"github.com/woozymasta/pathrules"
)

// Command is one parsed CLI operation ready to run.
type Command interface {
	// Operation returns the operation tag of the command.
	Operation() Operation
	// Run executes the command, writing results to env.Out.
	Run(env Env) error
}

// Env carries command output and logging.
type Env struct {
	// Out receives command results.
	Out io.Writer
	// Log receives progress and diagnostics.
	Log logrus.FieldLogger
}

// Options holds flag values shared by commands.
type Options struct {
	// Long enables detailed listing output.
	Long bool
	// Overwrite replaces existing output files.
	Overwrite bool
	// Include selects extracted paths with glob rules.
	Include []string
	// Exclude skips extracted paths with glob rules.
	Exclude []string
}

// extractOptions converts flags to library extract options.
func (o Options) extractOptions() bsa.ExtractOptions {
	opts := bsa.ExtractOptions{FileMode: bsa.ExtractFileModeCreateOnly}
	if o.Overwrite {
		opts.FileMode = bsa.ExtractFileModeOverwrite
	}

	for _, pattern := range o.Include {
		opts.Rules = append(opts.Rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
	}
	for _, pattern := range o.Exclude {
		opts.Rules = append(opts.Rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}

	return opts
}

// New builds the command for op from positional args.
func New(op Operation, args []string, opts Options) (Command, error) {
	if err := op.checkArgs(args); err != nil {
		return nil, err
	}

	switch op {
	case OpInfo:
		return &infoCommand{archive: args[0]}, nil
	case OpList:
		return &listCommand{archive: args[0], long: opts.Long}, nil
	case OpDirectories:
		return &directoriesCommand{archive: args[0]}, nil
	case OpDirectoryMetadata:
		return &directoryMetadataCommand{archive: args[0], directory: args[1]}, nil
	case OpFileMetadata:
		return &fileMetadataCommand{archive: args[0], file: args[1]}, nil
	case OpCheckHashes:
		return &checkHashesCommand{archive: args[0]}, nil
	case OpExtractAll:
		return &extractAllCommand{archive: args[0], dest: args[1], opts: opts.extractOptions()}, nil
	case OpExtractFile:
		return &extractFileCommand{archive: args[0], file: args[1], dest: args[2], overwrite: opts.Overwrite}, nil
	case OpExtractDirectory:
		return &extractDirectoryCommand{archive: args[0], directory: args[1], dest: args[2], opts: opts.extractOptions()}, nil
	case OpHelp:
		topic := ""
		if len(args) == 1 {
			topic = args[0]
		}
		return &helpCommand{topic: topic}, nil
	case OpCommands:
		return &commandsCommand{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown operation %d", ErrInvalidParameter, uint8(op))
	}
}

// openArchive opens path and loads structure data up to stage.
func openArchive(env Env, path string, stage bsa.Status) (*bsa.Archive, error) {
	a := bsa.New()
	if err := a.Open(path); err != nil {
		return nil, err
	}

	log := env.Log.WithField("archive", path)
	h := a.Header()
	log.WithFields(logrus.Fields{
		"version":     h.Version,
		"directories": h.DirectoryCount,
		"files":       h.FileCount,
	}).Debug("header parsed")

	stages := []struct {
		status bsa.Status
		run    func() error
	}{
		{bsa.StatusDirectoryData, a.GrabDirectoryData},
		{bsa.StatusDirectoryBlocks, a.GrabDirectoryBlocks},
		{bsa.StatusFileNames, a.GrabFileNames},
	}

	for _, s := range stages {
		if s.status > stage {
			break
		}
		if err := s.run(); err != nil {
			_ = a.Close()
			return nil, err
		}
		log.Debugf("loaded %s", s.status)
	}

	return a, nil
}
