// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package command

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/woozymasta/bsa"
)

type infoCommand struct {
	archive string
}

func (c *infoCommand) Operation() Operation { return OpInfo }

func (c *infoCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusOpen)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	h := a.Header()
	types := make([]string, 0, 9)
	for _, t := range h.ContentTypes() {
		types = append(types, t.String())
	}

	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Path:\t%s\n", c.archive)
	fmt.Fprintf(w, "Size:\t%s (%d bytes)\n", humanize.IBytes(uint64(a.Size())), a.Size()) //nolint:gosec // file size
	fmt.Fprintf(w, "Version:\t%d\n", h.Version)
	fmt.Fprintf(w, "Codec:\t%s\n", h.Codec())
	fmt.Fprintf(w, "Archive flags:\t%#x\n", h.ArchiveFlags)
	fmt.Fprintf(w, "  Directory names:\t%t\n", h.HasDirectoryNames())
	fmt.Fprintf(w, "  File names:\t%t\n", h.HasFileNames())
	fmt.Fprintf(w, "  Compressed:\t%t\n", h.CompressedByDefault())
	fmt.Fprintf(w, "  Xbox:\t%t\n", h.IsXboxArchive())
	fmt.Fprintf(w, "  Embedded names:\t%t\n", h.HasEmbeddedFileNames())
	fmt.Fprintf(w, "  XMem codec:\t%t\n", h.UsesXMemCodec())
	fmt.Fprintf(w, "Directories:\t%s\n", humanize.Comma(int64(h.DirectoryCount)))
	fmt.Fprintf(w, "Files:\t%s\n", humanize.Comma(int64(h.FileCount)))
	fmt.Fprintf(w, "Directory names length:\t%d\n", h.TotalDirectoryNameLength)
	fmt.Fprintf(w, "File names length:\t%d\n", h.TotalFileNameLength)
	fmt.Fprintf(w, "Content:\t%s\n", strings.Join(types, ", "))

	return w.Flush()
}

type listCommand struct {
	archive string
	long    bool
}

func (c *listCommand) Operation() Operation { return OpList }

func (c *listCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	files := a.Files()
	if !c.long {
		for _, f := range files {
			fmt.Fprintln(env.Out, f.Path)
		}
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	var total uint64
	for _, f := range files {
		mark := "-"
		if f.Compressed {
			mark = "c"
		}
		total += uint64(f.BlockSize)
		fmt.Fprintf(w, "%s\t%s\t%016x\t\t%s\n", humanize.IBytes(uint64(f.BlockSize)), mark, f.NameHash, f.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "%s files, %s stored\n", humanize.Comma(int64(len(files))), humanize.IBytes(total))
	return nil
}

type directoriesCommand struct {
	archive string
}

func (c *directoriesCommand) Operation() Operation { return OpDirectories }

func (c *directoriesCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusDirectoryBlocks)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	for _, d := range a.Directories() {
		fmt.Fprintf(env.Out, "%s\t%d\n", d.Name, d.Count)
	}

	return nil
}

type directoryMetadataCommand struct {
	archive   string
	directory string
}

func (c *directoryMetadataCommand) Operation() Operation { return OpDirectoryMetadata }

func (c *directoryMetadataCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	idx, stored := a.IndexOfDirectory(c.directory)
	switch {
	case stored:
		info, err := a.DirectoryInfo(idx)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Name:\t%s\n", info.Name)
		fmt.Fprintf(w, "Index:\t%d\n", info.Index)
		fmt.Fprintf(w, "Hash:\t%016x\n", info.NameHash)
		fmt.Fprintf(w, "Files:\t%d\n", info.Count)
		fmt.Fprintf(w, "Offset:\t%d\n", info.Offset)
	case a.HasIntermediateDirectory(c.directory):
		fmt.Fprintf(w, "Name:\t%s\n", bsa.NormalizePath(c.directory))
		fmt.Fprintf(w, "Virtual:\ttrue\n")
	default:
		return fmt.Errorf("%w: directory %s", bsa.ErrEntryNotFound, c.directory)
	}

	if subdirs := a.VirtualSubDirectories(c.directory); len(subdirs) > 0 {
		fmt.Fprintf(w, "Subdirectories:\t%s\n", strings.Join(subdirs, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if stored {
		files, err := directoryFiles(a, idx)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(env.Out, "  %s\n", f.Path)
		}
	}

	return nil
}

// directoryFiles returns listing metadata of all files in directory dirIdx.
func directoryFiles(a *bsa.Archive, dirIdx int) ([]bsa.FileInfo, error) {
	info, err := a.DirectoryInfo(dirIdx)
	if err != nil {
		return nil, err
	}

	out := make([]bsa.FileInfo, 0, info.Count)
	for f := 0; f < int(info.Count); f++ {
		fi, err := a.FileInfo(dirIdx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, fi)
	}

	return out, nil
}

type fileMetadataCommand struct {
	archive string
	file    string
}

func (c *fileMetadataCommand) Operation() Operation { return OpFileMetadata }

func (c *fileMetadataCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	pair, ok, err := a.IndexPairForFile(c.file)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: file %s", bsa.ErrEntryNotFound, c.file)
	}

	info, err := a.FileInfo(pair.Directory, pair.File)
	if err != nil {
		return err
	}

	size, err := a.ExtractedFileSize(pair.Directory, pair.File)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Path:\t%s\n", info.Path)
	fmt.Fprintf(w, "Index:\t%d/%d\n", info.Index.Directory, info.Index.File)
	fmt.Fprintf(w, "Hash:\t%016x\n", info.NameHash)
	fmt.Fprintf(w, "Offset:\t%d\n", info.Offset)
	fmt.Fprintf(w, "Stored size:\t%s (%d bytes)\n", humanize.IBytes(uint64(info.BlockSize)), info.BlockSize)
	fmt.Fprintf(w, "Extracted size:\t%s (%d bytes)\n", humanize.IBytes(uint64(size)), size)
	fmt.Fprintf(w, "Compressed:\t%t\n", info.Compressed)
	fmt.Fprintf(w, "Toggled:\t%t\n", info.Toggled)

	return w.Flush()
}

type checkHashesCommand struct {
	archive string
}

func (c *checkHashesCommand) Operation() Operation { return OpCheckHashes }

// Run reports mismatches without failing; stored hashes are advisory.
func (c *checkHashesCommand) Run(env Env) error {
	a, err := openArchive(env, c.archive, bsa.StatusFileNames)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	mismatches, err := a.CheckHashes()
	if err != nil {
		return err
	}

	for _, m := range mismatches {
		kind := "file"
		if m.Directory {
			kind = "directory"
		}
		env.Log.WithField("path", m.Path).Warnf("%s hash mismatch", kind)
		fmt.Fprintf(env.Out, "%s\t%s\tstored=%016x\tcalculated=%016x\n", kind, m.Path, m.Stored, m.Calculated)
	}

	fmt.Fprintf(env.Out, "%d hash mismatch(es)\n", len(mismatches))
	return nil
}
