// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import "fmt"

// HashMismatch describes one stored hash that differs from the calculated one.
type HashMismatch struct {
	// Path is the directory path or "dir\file" path of the checked entry.
	Path string `json:"path" yaml:"path"`
	// Index locates the entry; File is -1 for directory hashes.
	Index IndexPair `json:"index" yaml:"index"`
	// Stored is the hash stored in the archive.
	Stored uint64 `json:"stored" yaml:"stored"`
	// Calculated is the hash computed from the name.
	Calculated uint64 `json:"calculated" yaml:"calculated"`
	// Directory reports whether the mismatch is a directory hash.
	Directory bool `json:"directory,omitempty" yaml:"directory,omitempty"`
}

// CheckHashes compares stored directory and file hashes with calculated ones.
// The hash algorithm is not exact for every archive, so mismatches are
// collected and returned instead of failing the scan.
func (a *Archive) CheckHashes() ([]HashMismatch, error) {
	if !a.status.atLeast(StatusFileNames) {
		return nil, fmt.Errorf("%w: file names required, status %s", ErrNotLoaded, a.status)
	}

	var out []HashMismatch
	for d := range a.blocks {
		if a.header.HasDirectoryNames() {
			calculated := CalculateDirectoryHash(a.blocks[d].Name)
			if calculated != a.records[d].NameHash {
				out = append(out, HashMismatch{
					Path:       a.blocks[d].Name,
					Index:      IndexPair{Directory: d, File: -1},
					Stored:     a.records[d].NameHash,
					Calculated: calculated,
					Directory:  true,
				})
			}
		}

		if !a.header.HasFileNames() {
			continue
		}

		for f, rec := range a.blocks[d].Files {
			calculated := CalculateHash(rec.Name)
			if calculated == rec.NameHash {
				continue
			}

			out = append(out, HashMismatch{
				Path:       joinArchivePath(a.blocks[d].Name, rec.Name),
				Index:      IndexPair{Directory: d, File: f},
				Stored:     rec.NameHash,
				Calculated: calculated,
			})
		}
	}

	return out, nil
}
