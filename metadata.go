// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

// ListFiles opens a BSA and returns file metadata without payload reads.
func ListFiles(path string) ([]FileInfo, error) {
	a, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return a.Files(), nil
}

// ListDirectories opens a BSA and returns stored directory metadata.
func ListDirectories(path string) ([]DirectoryInfo, error) {
	a := New()
	defer func() { _ = a.Close() }()

	if err := a.Open(path); err != nil {
		return nil, err
	}

	// Directory listing needs names from blocks but not the file name table.
	if err := a.GrabDirectoryData(); err != nil {
		return nil, err
	}
	if err := a.GrabDirectoryBlocks(); err != nil {
		return nil, err
	}

	return a.Directories(), nil
}
