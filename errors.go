// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import "errors"

// Sentinel errors for BSA operations. Use errors.Is in callers.
var (
	// ErrInvalidHeader means the BSA file is missing or has a bad header.
	ErrInvalidHeader = errors.New("invalid BSA file: missing or bad header")
	// ErrInvalidMagic means the file does not start with "BSA\x00".
	ErrInvalidMagic = errors.New("invalid BSA magic")
	// ErrInvalidHeaderOffset means the stored header size is not 36.
	ErrInvalidHeaderOffset = errors.New("invalid BSA header offset")
	// ErrTruncated means a structure ended before all declared bytes were read.
	ErrTruncated = errors.New("unexpected end of BSA data")
	// ErrRecordCountMismatch means parsed record or block counts disagree with declared counts.
	ErrRecordCountMismatch = errors.New("record count mismatch")
	// ErrFileNameTable means the flat file name table is malformed.
	ErrFileNameTable = errors.New("malformed file name table")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrAlreadyOpen means Open was called on an archive that already has a source.
	ErrAlreadyOpen = errors.New("archive already open")
	// ErrInvalidState means an operation was called in a load stage that does not allow it.
	ErrInvalidState = errors.New("invalid archive state for operation")
	// ErrNotLoaded means the structural data required by a query is not loaded yet.
	ErrNotLoaded = errors.New("archive structure data not loaded")
	// ErrClosed means the archive is already closed.
	ErrClosed = errors.New("archive already closed")
	// ErrEntryNotFound means the directory or file is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEmbeddedName means the embedded file name prefix of a data block is malformed.
	ErrEmbeddedName = errors.New("malformed embedded file name")
	// ErrDecompress means the compressed payload could not be decoded.
	ErrDecompress = errors.New("decompress failed")
	// ErrUnsupportedCodec means the payload codec cannot be decoded.
	ErrUnsupportedCodec = errors.New("unsupported payload codec")
	// ErrSizeMismatch means decoded size differs from the declared size.
	ErrSizeMismatch = errors.New("decompressed size mismatch")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means resolved extraction path escapes destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrInvalidFilterRules means one or more extraction filter rules are invalid.
	ErrInvalidFilterRules = errors.New("invalid filter rules")
)
