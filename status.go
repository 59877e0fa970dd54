// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import "fmt"

// Status is the staged-loading state of an Archive.
type Status uint8

// Archive load stages.
const (
	// StatusFresh is a new archive without a source.
	StatusFresh Status = iota
	// StatusOpen has a parsed header.
	StatusOpen
	// StatusDirectoryData has parsed directory records.
	StatusDirectoryData
	// StatusDirectoryBlocks has parsed directory blocks and file records.
	StatusDirectoryBlocks
	// StatusFileNames has all structure data including file names.
	StatusFileNames
	// StatusClosed has released its source.
	StatusClosed
	// StatusFailed hit a structural error; discard the archive.
	StatusFailed
)

// String returns stage name.
func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusOpen:
		return "open"
	case StatusDirectoryData:
		return "directory-data"
	case StatusDirectoryBlocks:
		return "directory-blocks"
	case StatusFileNames:
		return "file-names"
	case StatusClosed:
		return "closed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// transition returns the next status for a move to target or ErrInvalidState.
// Closed and Failed are reachable from anywhere; the load stages only advance one step.
func (s Status) transition(to Status) (Status, error) {
	switch to {
	case StatusClosed, StatusFailed:
		return to, nil
	case StatusOpen:
		if s == StatusFresh {
			return to, nil
		}
	case StatusDirectoryData:
		if s == StatusOpen {
			return to, nil
		}
	case StatusDirectoryBlocks:
		if s == StatusDirectoryData {
			return to, nil
		}
	case StatusFileNames:
		if s == StatusDirectoryBlocks {
			return to, nil
		}
	case StatusFresh:
	}

	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidState, s, to)
}

// atLeast reports whether s is a live load stage at or past stage.
func (s Status) atLeast(stage Status) bool {
	return s >= stage && s <= StatusFileNames
}
