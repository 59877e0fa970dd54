// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"fmt"
	"io"
	"os"
)

// parseHeader reads and validates the fixed 36-byte header.
func parseHeader(br *binaryReader) (Header, error) {
	var h Header
	if err := br.readFull(h.Magic[:], "magic"); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if string(h.Magic[:]) != magic {
		return Header{}, fmt.Errorf("%w: %w: got %q", ErrInvalidHeader, ErrInvalidMagic, h.Magic[:])
	}

	fields := []struct {
		dst  *uint32
		name string
	}{
		{&h.Version, "version"},
		{&h.Offset, "header offset"},
		{&h.ArchiveFlags, "archive flags"},
		{&h.DirectoryCount, "directory count"},
		{&h.FileCount, "file count"},
		{&h.TotalDirectoryNameLength, "total directory name length"},
		{&h.TotalFileNameLength, "total file name length"},
		{&h.FileFlags, "file flags"},
	}
	for _, f := range fields {
		v, err := br.readUint32(f.name)
		if err != nil {
			return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		*f.dst = v

		if f.dst == &h.Offset && v != headerSize {
			return Header{}, fmt.Errorf("%w: %w: got %d, want %d", ErrInvalidHeader, ErrInvalidHeaderOffset, v, headerSize)
		}
	}

	return h, nil
}

// hasFlag reports whether archive flag bit is set.
func (h Header) hasFlag(f ArchiveFlag) bool {
	return h.ArchiveFlags&uint32(f) != 0
}

// HasDirectoryNames reports whether directory blocks carry names.
func (h Header) HasDirectoryNames() bool { return h.hasFlag(FlagDirectoryNames) }

// HasFileNames reports whether the archive has a file name table.
func (h Header) HasFileNames() bool { return h.hasFlag(FlagFileNames) }

// CompressedByDefault reports whether files are compressed unless toggled.
func (h Header) CompressedByDefault() bool { return h.hasFlag(FlagCompressed) }

// IsXboxArchive reports whether the archive targets Xbox.
func (h Header) IsXboxArchive() bool { return h.hasFlag(FlagXbox) }

// HasEmbeddedFileNames reports whether data blocks start with the file name.
func (h Header) HasEmbeddedFileNames() bool { return h.hasFlag(FlagEmbeddedFileNames) }

// UsesXMemCodec reports whether the XMem flag is set.
// Version 103 archives reuse the bit for something else and always report false.
func (h Header) UsesXMemCodec() bool {
	if h.Version == VersionOblivion {
		return false
	}

	return h.hasFlag(FlagXMemCodec)
}

// Contains reports whether the content type bit is set in FileFlags.
func (h Header) Contains(t ContentType) bool {
	return h.FileFlags&uint32(t) != 0
}

// ContentTypes returns the set content type bits in bit order.
func (h Header) ContentTypes() []ContentType {
	var out []ContentType
	for _, n := range contentTypeNames {
		if h.Contains(n.t) {
			out = append(out, n.t)
		}
	}

	return out
}

// usesLZ4 reports whether compressed payloads use LZ4 frames instead of zlib.
func (h Header) usesLZ4() bool {
	return h.Version >= VersionSkyrimSE
}

// ReadHeader opens a BSA and returns only its parsed header.
func ReadHeader(path string) (Header, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return Header{}, err
	}
	defer func() { _ = f.Close() }()

	return ReadHeaderFromReaderAt(f, size)
}

// ReadHeaderFromReaderAt reads only the BSA header from a random-access source.
func ReadHeaderFromReaderAt(ra io.ReaderAt, size int64) (Header, error) {
	if ra == nil {
		return Header{}, ErrNilReader
	}

	br, release := newTableReader(ra, 0, size)
	defer release()

	return parseHeader(br)
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open BSA: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
