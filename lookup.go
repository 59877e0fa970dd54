// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"fmt"
	"sort"
	"strings"
)

// HasDirectory reports whether a directory with the given path is stored.
// Virtual directories implied by deeper paths are not reported; see HasIntermediateDirectory.
func (a *Archive) HasDirectory(name string) bool {
	_, ok := a.IndexOfDirectory(name)
	return ok
}

// HasFile reports whether a file with the given archive path ("dir\name") exists.
func (a *Archive) HasFile(path string) bool {
	_, ok, err := a.IndexPairForFile(path)
	return err == nil && ok
}

// IndexOfDirectory returns index of the stored directory with the given path.
func (a *Archive) IndexOfDirectory(name string) (int, bool) {
	if !a.status.atLeast(StatusDirectoryBlocks) {
		return -1, false
	}

	lookupName := NormalizePath(name)
	for i := range a.blocks {
		if strings.EqualFold(NormalizePath(a.blocks[i].Name), lookupName) {
			return i, true
		}
	}

	return -1, false
}

// IndexOfFile returns index of the named file inside directory dirIdx.
func (a *Archive) IndexOfFile(dirIdx int, name string) (int, bool) {
	if !a.status.atLeast(StatusFileNames) || dirIdx < 0 || dirIdx >= len(a.blocks) {
		return -1, false
	}

	files := a.blocks[dirIdx].Files
	for i := range files {
		if strings.EqualFold(files[i].Name, name) {
			return i, true
		}
	}

	return -1, false
}

// IndexPairForFile resolves an archive file path to directory and file indexes.
// It returns ErrNotLoaded when file names are not loaded yet and ok=false when
// the path does not exist.
func (a *Archive) IndexPairForFile(path string) (IndexPair, bool, error) {
	if !a.status.atLeast(StatusFileNames) {
		return IndexPair{}, false, fmt.Errorf("%w: file names required, status %s", ErrNotLoaded, a.status)
	}

	dir, name := splitFilePath(path)
	if name == "" {
		return IndexPair{}, false, nil
	}

	dirIdx, ok := a.IndexOfDirectory(dir)
	if !ok {
		return IndexPair{}, false, nil
	}

	fileIdx, ok := a.IndexOfFile(dirIdx, name)
	if !ok {
		return IndexPair{}, false, nil
	}

	return IndexPair{Directory: dirIdx, File: fileIdx}, true, nil
}

// HasIntermediateDirectory reports whether name is the root or a directory
// level implied by stored directories. The format stores only leaf directory
// paths, so "a\b" is an intermediate directory of a stored "a\b\c".
func (a *Archive) HasIntermediateDirectory(name string) bool {
	prefix := splitPath(name)
	if len(prefix) == 0 {
		return true
	}

	if !a.status.atLeast(StatusDirectoryBlocks) {
		return false
	}

	for i := range a.blocks {
		if hasComponentPrefix(splitPath(a.blocks[i].Name), prefix) {
			return true
		}
	}

	return false
}

// VirtualSubDirectories returns sorted single-component names of real or
// virtual directories directly beneath name. Spelling of the first
// occurrence wins for names differing only in case.
func (a *Archive) VirtualSubDirectories(name string) []string {
	if !a.status.atLeast(StatusDirectoryBlocks) {
		return nil
	}

	prefix := splitPath(name)
	seen := make(map[string]struct{})
	var out []string
	for i := range a.blocks {
		parts := splitPath(a.blocks[i].Name)
		if !hasComponentPrefix(parts, prefix) {
			continue
		}

		child := parts[len(prefix)]
		key := strings.ToLower(child)
		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, child)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})

	return out
}

// fileRecord returns the file record at indexes.
// It returns ErrNotLoaded before directory blocks are loaded and ErrEntryNotFound for bad indexes.
func (a *Archive) fileRecord(dirIdx int, fileIdx int) (FileRecord, error) {
	if !a.status.atLeast(StatusDirectoryBlocks) {
		return FileRecord{}, fmt.Errorf("%w: directory blocks required, status %s", ErrNotLoaded, a.status)
	}

	if dirIdx < 0 || dirIdx >= len(a.blocks) {
		return FileRecord{}, fmt.Errorf("%w: directory index %d", ErrEntryNotFound, dirIdx)
	}

	files := a.blocks[dirIdx].Files
	if fileIdx < 0 || fileIdx >= len(files) {
		return FileRecord{}, fmt.Errorf("%w: file index %d in directory %d", ErrEntryNotFound, fileIdx, dirIdx)
	}

	return files[fileIdx], nil
}

// IsFileCompressed reports the effective compression state of one file.
func (a *Archive) IsFileCompressed(dirIdx int, fileIdx int) (bool, error) {
	rec, err := a.fileRecord(dirIdx, fileIdx)
	if err != nil {
		return false, err
	}

	return a.isCompressed(rec), nil
}

// isCompressed applies the record toggle bit to the archive default.
func (a *Archive) isCompressed(rec FileRecord) bool {
	return a.header.CompressedByDefault() != rec.IsCompressionToggled()
}

// FileInfo returns listing metadata of one file.
func (a *Archive) FileInfo(dirIdx int, fileIdx int) (FileInfo, error) {
	rec, err := a.fileRecord(dirIdx, fileIdx)
	if err != nil {
		return FileInfo{}, err
	}

	return a.fileInfo(dirIdx, fileIdx, rec), nil
}

// fileInfo builds FileInfo from an already resolved record.
func (a *Archive) fileInfo(dirIdx int, fileIdx int, rec FileRecord) FileInfo {
	return FileInfo{
		Path:       joinArchivePath(a.blocks[dirIdx].Name, rec.Name),
		Index:      IndexPair{Directory: dirIdx, File: fileIdx},
		NameHash:   rec.NameHash,
		Offset:     rec.Offset,
		BlockSize:  rec.RealBlockSize(),
		Compressed: a.isCompressed(rec),
		Toggled:    rec.IsCompressionToggled(),
	}
}

// Files returns listing metadata of all files in directory-then-file order.
func (a *Archive) Files() []FileInfo {
	if !a.status.atLeast(StatusDirectoryBlocks) {
		return nil
	}

	out := make([]FileInfo, 0, a.header.FileCount)
	for d := range a.blocks {
		for f, rec := range a.blocks[d].Files {
			out = append(out, a.fileInfo(d, f, rec))
		}
	}

	return out
}

// DirectoryInfo returns listing metadata of one stored directory.
func (a *Archive) DirectoryInfo(dirIdx int) (DirectoryInfo, error) {
	if !a.status.atLeast(StatusDirectoryBlocks) {
		return DirectoryInfo{}, fmt.Errorf("%w: directory blocks required, status %s", ErrNotLoaded, a.status)
	}
	if dirIdx < 0 || dirIdx >= len(a.blocks) {
		return DirectoryInfo{}, fmt.Errorf("%w: directory index %d", ErrEntryNotFound, dirIdx)
	}

	return DirectoryInfo{
		Name:     a.blocks[dirIdx].Name,
		Index:    dirIdx,
		NameHash: a.records[dirIdx].NameHash,
		Count:    a.records[dirIdx].Count,
		Offset:   a.records[dirIdx].Offset,
	}, nil
}

// Directories returns listing metadata of all stored directories.
func (a *Archive) Directories() []DirectoryInfo {
	out := make([]DirectoryInfo, 0, len(a.blocks))
	for i := range a.blocks {
		info, err := a.DirectoryInfo(i)
		if err != nil {
			return nil
		}
		out = append(out, info)
	}

	return out
}
