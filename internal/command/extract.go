// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package command

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/woozymasta/bsa"
)

// progress logs written files and accumulates totals.
type progress struct {
	log   logrus.FieldLogger
	bytes uint64
}

func (p *progress) onFileDone(file bsa.FileInfo, written int64, outputPath string) {
	p.bytes += uint64(written) //nolint:gosec // non-negative write count
	p.log.WithFields(logrus.Fields{
		"file":  file.Path,
		"bytes": written,
	}).Debugf("extracted to %s", outputPath)
}

// report prints extraction summary.
func (p *progress) report(env Env, count int) {
	fmt.Fprintf(env.Out, "extracted %s file(s), %s\n", humanize.Comma(int64(count)), humanize.IBytes(p.bytes))
}

type extractAllCommand struct {
	archive string
	dest    string
	opts    bsa.ExtractOptions
}

func (c *extractAllCommand) Operation() Operation { return OpExtractAll }

func (c *extractAllCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	p := &progress{log: env.Log}
	opts := c.opts
	opts.OnFileDone = p.onFileDone

	count, err := a.ExtractAll(c.dest, opts)
	if err != nil {
		env.Log.WithField("extracted", count).Debug("extraction stopped")
		return err
	}

	p.report(env, count)
	return nil
}

type extractDirectoryCommand struct {
	archive   string
	directory string
	dest      string
	opts      bsa.ExtractOptions
}

func (c *extractDirectoryCommand) Operation() Operation { return OpExtractDirectory }

func (c *extractDirectoryCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	p := &progress{log: env.Log}
	opts := c.opts
	opts.OnFileDone = p.onFileDone

	count, err := a.ExtractDirectory(c.directory, c.dest, opts)
	if err != nil {
		env.Log.WithField("extracted", count).Debug("extraction stopped")
		return err
	}

	p.report(env, count)
	return nil
}

type extractFileCommand struct {
	archive   string
	file      string
	dest      string
	overwrite bool
}

func (c *extractFileCommand) Operation() Operation { return OpExtractFile }

func (c *extractFileCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if !c.overwrite {
		if _, err := os.Lstat(c.dest); err == nil {
			return fmt.Errorf("extract %s: %w", c.dest, fs.ErrExist)
		}
	}

	if err := a.ExtractFileByName(c.file, c.dest); err != nil {
		return err
	}

	size, err := fileSize(c.dest)
	if err != nil {
		return err
	}

	env.Log.WithField("file", c.file).Debugf("extracted to %s", c.dest)
	fmt.Fprintf(env.Out, "extracted %s, %s\n", c.file, humanize.IBytes(size))
	return nil
}

func fileSize(path string) (uint64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	return uint64(st.Size()), nil //nolint:gosec // regular file size
}
