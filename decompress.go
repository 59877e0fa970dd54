// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies payload compression of one archive version.
type Codec uint8

// Payload codecs.
const (
	// CodecZlib is used by versions up to 104.
	CodecZlib Codec = iota
	// CodecLZ4Frame is used by versions 105 and later.
	CodecLZ4Frame
)

// String returns codec name.
func (c Codec) String() string {
	switch c {
	case CodecZlib:
		return "zlib"
	case CodecLZ4Frame:
		return "lz4"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// Codec returns payload codec selected by version.
func (h Header) Codec() Codec {
	if h.usesLZ4() {
		return CodecLZ4Frame
	}

	return CodecZlib
}

// dataBlock is resolved payload layout of one file data block.
type dataBlock struct {
	// embeddedName is the name prefix when the archive embeds names.
	embeddedName string
	// payloadOffset is absolute offset of raw or compressed payload bytes.
	payloadOffset int64
	// payloadSize is number of raw or compressed payload bytes.
	payloadSize int64
	// originalSize is the extracted size.
	originalSize uint32
	// compressed reports whether payload must be decoded.
	compressed bool
}

// locateData resolves payload layout of one file, reading the embedded name
// prefix and decompressed-size field when present.
func (a *Archive) locateData(dirIdx int, fileIdx int) (FileRecord, dataBlock, error) {
	ra, err := a.source()
	if err != nil {
		return FileRecord{}, dataBlock{}, err
	}

	rec, err := a.fileRecord(dirIdx, fileIdx)
	if err != nil {
		return FileRecord{}, dataBlock{}, err
	}

	start := int64(rec.Offset)
	end := start + int64(rec.RealBlockSize())
	if end > a.size {
		return rec, dataBlock{}, fmt.Errorf("%w: data block of %q ends at %d, file has %d", ErrTruncated, rec.Name, end, a.size)
	}

	br := &binaryReader{r: io.NewSectionReader(ra, start, end-start), off: start}
	block := dataBlock{compressed: a.isCompressed(rec)}

	if a.header.HasEmbeddedFileNames() {
		name, _, err := br.readBString("embedded file name")
		if err != nil {
			return rec, dataBlock{}, fmt.Errorf("%w: %q: %w", ErrEmbeddedName, rec.Name, err)
		}
		if err := validateEmbeddedName(name, rec.Name); err != nil {
			return rec, dataBlock{}, err
		}
		block.embeddedName = name
	}

	if block.compressed {
		size, err := br.readUint32("decompressed size")
		if err != nil {
			return rec, dataBlock{}, fmt.Errorf("file %q: %w", rec.Name, err)
		}
		block.originalSize = size
	}

	block.payloadOffset = br.offset()
	block.payloadSize = end - block.payloadOffset
	if !block.compressed {
		block.originalSize = uint32(block.payloadSize) //nolint:gosec // bounded by RealBlockSize
	} else if !plausibleDecodedSize(block.originalSize, block.payloadSize) {
		return rec, dataBlock{}, fmt.Errorf("%w: file %q declares %d bytes from %d compressed", ErrSizeMismatch, rec.Name, block.originalSize, block.payloadSize)
	}

	return rec, block, nil
}

// plausibleDecodedSize bounds the declared size by what the codecs can
// produce from payloadSize bytes, so buffers are never sized from a bare header.
func plausibleDecodedSize(declared uint32, payloadSize int64) bool {
	if declared > maxDecompressedSize {
		return false
	}

	return int64(declared) <= payloadSize*maxCompressionRatio
}

// validateEmbeddedName checks that the embedded path ends with the record file name.
// Records without a resolved name skip the comparison.
func validateEmbeddedName(embedded string, recordName string) error {
	if embedded == "" {
		return fmt.Errorf("%w: empty name", ErrEmbeddedName)
	}
	if recordName == "" {
		return nil
	}

	_, base := splitFilePath(embedded)
	if !strings.EqualFold(base, recordName) {
		return fmt.Errorf("%w: %q does not name %q", ErrEmbeddedName, embedded, recordName)
	}

	return nil
}

// openData returns a reader over extracted bytes of one file.
// Raw payloads are streamed from the source; compressed payloads are decoded
// into a buffer sized by the declared decompressed size.
func (a *Archive) openData(dirIdx int, fileIdx int) (io.Reader, FileRecord, dataBlock, error) {
	rec, block, err := a.locateData(dirIdx, fileIdx)
	if err != nil {
		return nil, rec, block, err
	}

	payload := io.NewSectionReader(a.ra, block.payloadOffset, block.payloadSize)
	if !block.compressed {
		return payload, rec, block, nil
	}

	if a.header.UsesXMemCodec() {
		return nil, rec, block, fmt.Errorf("%w: file %q uses XMem codec", ErrUnsupportedCodec, rec.Name)
	}

	data, err := decodePayload(a.header.Codec(), payload, block.originalSize)
	if err != nil {
		return nil, rec, block, fmt.Errorf("file %q: %w", rec.Name, err)
	}

	return bytes.NewReader(data), rec, block, nil
}

// decodePayload decompresses src and requires exactly size output bytes.
func decodePayload(codec Codec, src io.Reader, size uint32) ([]byte, error) {
	var dec io.Reader
	switch codec {
	case CodecZlib:
		zr, err := zlib.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %w", ErrDecompress, err)
		}
		defer func() { _ = zr.Close() }()
		dec = zr
	case CodecLZ4Frame:
		dec = lz4.NewReader(src)
	default:
		return nil, fmt.Errorf("%w: codec %d", ErrUnsupportedCodec, codec)
	}

	out := make([]byte, size)
	n, err := io.ReadFull(dec, out)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %s produced %d of %d bytes", ErrSizeMismatch, codec, n, size)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrDecompress, codec, err)
	}

	extra, err := io.CopyN(io.Discard, dec, 1)
	if extra > 0 {
		return nil, fmt.Errorf("%w: %s produced more than %d bytes", ErrSizeMismatch, codec, size)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecompress, codec, err)
	}

	return out, nil
}

// ExtractedFileSize returns the size of one file after extraction.
// For compressed files it reads the stored decompressed-size field.
func (a *Archive) ExtractedFileSize(dirIdx int, fileIdx int) (uint32, error) {
	_, block, err := a.locateData(dirIdx, fileIdx)
	if err != nil {
		return 0, err
	}

	return block.originalSize, nil
}

// ReadFile reads full extracted content of one file.
func (a *Archive) ReadFile(dirIdx int, fileIdx int) ([]byte, error) {
	r, _, block, err := a.openData(dirIdx, fileIdx)
	if err != nil {
		return nil, err
	}

	out := make([]byte, block.originalSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	return out, nil
}

// ReadFileByName reads full extracted content of the file at archive path.
func (a *Archive) ReadFileByName(path string) ([]byte, error) {
	pair, err := a.resolveFile(path)
	if err != nil {
		return nil, err
	}

	return a.ReadFile(pair.Directory, pair.File)
}

// resolveFile maps archive path to indexes or ErrEntryNotFound.
func (a *Archive) resolveFile(path string) (IndexPair, error) {
	pair, ok, err := a.IndexPairForFile(path)
	if err != nil {
		return IndexPair{}, err
	}
	if !ok {
		return IndexPair{}, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}

	return pair, nil
}
