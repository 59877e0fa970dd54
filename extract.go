// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractCopyBufferSize defines buffer size for file copy during extraction.
const extractCopyBufferSize = 64 * 1024

// extractWorkItem stores one selected file with prepared output path.
type extractWorkItem struct {
	outPath string
	info    FileInfo
}

// ExtractFile writes one file to dest, replacing an existing file.
// Output is written to a temporary file next to dest and renamed into place,
// so a failed extraction never leaves a partially written dest.
func (a *Archive) ExtractFile(dirIdx int, fileIdx int, dest string) error {
	info, err := a.FileInfo(dirIdx, fileIdx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	_, err = a.extractOne(info, dest, ExtractFileModeOverwrite, make([]byte, extractCopyBufferSize))
	return err
}

// ExtractFileByName writes the file at archive path to dest.
func (a *Archive) ExtractFileByName(path string, dest string) error {
	pair, err := a.resolveFile(path)
	if err != nil {
		return err
	}

	return a.ExtractFile(pair.Directory, pair.File, dest)
}

// ExtractDirectory writes all files of the stored directory name under
// destDir/<directory path>. It returns the number of written files.
func (a *Archive) ExtractDirectory(name string, destDir string, opts ExtractOptions) (int, error) {
	if !a.status.atLeast(StatusFileNames) {
		return 0, fmt.Errorf("%w: file names required, status %s", ErrNotLoaded, a.status)
	}

	dirIdx, ok := a.IndexOfDirectory(name)
	if !ok {
		return 0, fmt.Errorf("%w: directory %s", ErrEntryNotFound, name)
	}

	return a.ExtractDirectoryIndex(dirIdx, destDir, opts)
}

// ExtractDirectoryIndex writes all files of directory dirIdx under
// destDir/<directory path>. It returns the number of written files.
func (a *Archive) ExtractDirectoryIndex(dirIdx int, destDir string, opts ExtractOptions) (int, error) {
	if !a.status.atLeast(StatusFileNames) {
		return 0, fmt.Errorf("%w: file names required, status %s", ErrNotLoaded, a.status)
	}
	if dirIdx < 0 || dirIdx >= len(a.blocks) {
		return 0, fmt.Errorf("%w: directory index %d", ErrEntryNotFound, dirIdx)
	}

	files := make([]FileInfo, 0, len(a.blocks[dirIdx].Files))
	for f, rec := range a.blocks[dirIdx].Files {
		files = append(files, a.fileInfo(dirIdx, f, rec))
	}

	return a.extractFiles(files, destDir, opts)
}

// ExtractAll writes every file under destDir/<directory path>, creating the
// intermediate directories the archive does not store. Files are processed
// in directory-then-file order and extraction stops at the first error; the
// returned count reports files written before it.
func (a *Archive) ExtractAll(destDir string, opts ExtractOptions) (int, error) {
	if !a.status.atLeast(StatusFileNames) {
		return 0, fmt.Errorf("%w: file names required, status %s", ErrNotLoaded, a.status)
	}

	return a.extractFiles(a.Files(), destDir, opts)
}

// extractFiles filters, validates, and writes files sequentially.
func (a *Archive) extractFiles(files []FileInfo, destDir string, opts ExtractOptions) (int, error) {
	opts.applyDefaults()

	matcher, err := newExtractMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return 0, err
	}

	dstRootAbs, err := filepath.Abs(destDir)
	if err != nil {
		return 0, fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	workItems, err := prepareExtractWorkItems(dstRootAbs, files, matcher)
	if err != nil {
		return 0, err
	}

	if err := prepareExtractDirs(workItems); err != nil {
		return 0, err
	}

	copyBuf := make([]byte, extractCopyBufferSize)
	count := 0
	for _, task := range workItems {
		written, err := a.extractOne(task.info, task.outPath, opts.FileMode, copyBuf)
		if err != nil {
			return count, err
		}

		count++
		if opts.OnFileDone != nil {
			opts.OnFileDone(task.info, written, task.outPath)
		}
	}

	return count, nil
}

// prepareExtractWorkItems selects files and resolves output paths before any write.
func prepareExtractWorkItems(dstRootAbs string, files []FileInfo, matcher *extractMatcher) ([]extractWorkItem, error) {
	workItems := make([]extractWorkItem, 0, len(files))
	for _, info := range files {
		info.Path = outputArchivePath(info)
		if !matcher.Match(info.Path) {
			continue
		}

		outPath, err := resolveOutputPath(dstRootAbs, info.Path)
		if err != nil {
			return nil, fmt.Errorf("resolve output path %s: %w", info.Path, err)
		}

		workItems = append(workItems, extractWorkItem{outPath: outPath, info: info})
	}

	return workItems, nil
}

// outputArchivePath returns archive path used for output, naming unnamed files by hash.
func outputArchivePath(info FileInfo) string {
	if !strings.HasSuffix(info.Path, `\`) && info.Path != "" {
		return info.Path
	}

	return info.Path + fmt.Sprintf("%016x", info.NameHash)
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(workItems []extractWorkItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		dirPath := filepath.Dir(task.outPath)
		key := strings.ToLower(dirPath)
		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// extractOne decodes one file and writes it to outPath through a temporary file.
func (a *Archive) extractOne(info FileInfo, outPath string, mode ExtractFileMode, copyBuf []byte) (int64, error) {
	if mode == ExtractFileModeCreateOnly {
		if _, err := os.Lstat(outPath); err == nil {
			return 0, fmt.Errorf("open %s: %w", info.Path, os.ErrExist)
		}
	} else if mode != ExtractFileModeOverwrite {
		return 0, fmt.Errorf("unknown extract file mode %q", mode)
	}

	r, _, block, err := a.openData(info.Index.Directory, info.Index.File)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", info.Path, err)
	}

	written, err := writeFileAtomic(outPath, r, int64(block.originalSize), copyBuf)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", info.Path, err)
	}

	return written, nil
}

// writeFileAtomic copies exactly size bytes from src into a temporary file
// and renames it to path. The temporary file is removed on any failure.
func writeFileAtomic(path string, src io.Reader, size int64, copyBuf []byte) (written int64, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, err
	}

	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	written, err = io.CopyBuffer(tmp, io.LimitReader(src, size), copyBuf)
	if err != nil {
		return written, err
	}
	if written != size {
		return written, fmt.Errorf("%w: wrote %d of %d bytes", ErrTruncated, written, size)
	}

	if err = tmp.Close(); err != nil {
		return written, err
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return written, err
	}

	return written, nil
}
