// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

// tableReaderBufferSize is a sequential read buffer for structure table parsing.
const tableReaderBufferSize = 64 * 1024

var (
	// tableReaderPool reuses buffered readers for sequential table parsing.
	tableReaderPool = sync.Pool{
		New: func() any {
			return bufio.NewReaderSize(bytes.NewReader(nil), tableReaderBufferSize)
		},
	}
)

// binaryReader reads little-endian primitives and tracks consumed bytes.
type binaryReader struct {
	r   io.Reader
	off int64
	buf [8]byte
}

// newTableReader returns a buffered binaryReader positioned at offset and a release func.
func newTableReader(ra io.ReaderAt, offset int64, size int64) (*binaryReader, func()) {
	remaining := size - offset
	if remaining < 0 {
		remaining = 0
	}

	br := tableReaderPool.Get().(*bufio.Reader) //nolint:forcetypeassert // pool contains only *bufio.Reader
	br.Reset(io.NewSectionReader(ra, offset, remaining))

	return &binaryReader{r: br, off: offset}, func() {
		br.Reset(bytes.NewReader(nil))
		tableReaderPool.Put(br)
	}
}

// offset returns absolute position of the next unread byte.
func (br *binaryReader) offset() int64 {
	return br.off
}

// readFull reads exactly len(p) bytes.
func (br *binaryReader) readFull(p []byte, what string) error {
	n, err := io.ReadFull(br.r, p)
	br.off += int64(n)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: read %s at offset %d: got %d of %d bytes", ErrTruncated, what, br.off-int64(n), n, len(p))
	}

	return fmt.Errorf("read %s: %w", what, err)
}

// readUint8 reads one byte.
func (br *binaryReader) readUint8(what string) (uint8, error) {
	if err := br.readFull(br.buf[:1], what); err != nil {
		return 0, err
	}

	return br.buf[0], nil
}

// readUint32 reads little-endian uint32.
func (br *binaryReader) readUint32(what string) (uint32, error) {
	if err := br.readFull(br.buf[:4], what); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(br.buf[:4]), nil
}

// readUint64 reads little-endian uint64.
func (br *binaryReader) readUint64(what string) (uint64, error) {
	if err := br.readFull(br.buf[:8], what); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(br.buf[:8]), nil
}

// skip discards n bytes without validating them.
func (br *binaryReader) skip(n int, what string) error {
	if n <= 0 {
		return nil
	}

	var pad [8]byte
	for n > 0 {
		chunk := min(n, len(pad))
		if err := br.readFull(pad[:chunk], what); err != nil {
			return err
		}
		n -= chunk
	}

	return nil
}

// readBString reads a string prefixed with a 1-byte length.
// Trailing NUL bytes counted by the length are not part of the result.
func (br *binaryReader) readBString(what string) (string, int, error) {
	n, err := br.readUint8(what + " length")
	if err != nil {
		return "", 0, err
	}

	if n == 0 {
		return "", 1, nil
	}

	raw := make([]byte, n)
	if err := br.readFull(raw, what); err != nil {
		return "", 0, err
	}

	return string(bytes.TrimRight(raw, "\x00")), int(n) + 1, nil
}
