// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"fmt"
	"io"
	"os"
)

// Archive provides staged read-only access to a BSA file.
//
// Structure data is loaded in stages (directory records, directory blocks,
// file names) so callers can stop early on metadata-only scans. Any
// structural error moves the archive to StatusFailed; such an archive must
// be discarded. An Archive is not safe for concurrent use.
type Archive struct {
	// ra is the random-access source used for structure and payload reads.
	ra io.ReaderAt
	// file is set when Archive owns an *os.File opened via Open.
	file *os.File
	// path is the source path when opened from disk.
	path string
	// records are parsed directory records.
	records []DirectoryRecord
	// blocks are parsed directory blocks, index-parallel with records.
	blocks []DirectoryBlock
	// header is the parsed fixed header.
	header Header
	// size is total source size in bytes.
	size int64
	// next is absolute offset of the first structure byte not parsed yet.
	next int64
	// layout is the record layout selected by header version.
	layout recordLayout
	// status is the current load stage.
	status Status
}

// New returns an archive in StatusFresh.
func New() *Archive {
	return &Archive{}
}

// Open opens BSA file by path and loads all structure data.
func Open(path string) (*Archive, error) {
	a := New()
	if err := a.Open(path); err != nil {
		return nil, err
	}

	if err := a.GrabAllStructureData(); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

// Open opens file by path and parses the header.
// On failure the archive stays fresh and the file is released.
func (a *Archive) Open(path string) error {
	if err := a.checkOpenable(); err != nil {
		return err
	}

	f, size, err := openFileWithSize(path)
	if err != nil {
		return err
	}

	if err := a.openSource(f, size); err != nil {
		_ = f.Close()
		return err
	}

	a.file = f
	a.path = path
	return nil
}

// OpenReaderAt parses the header from an existing ReaderAt with known size.
// The archive does not take ownership of ra.
func (a *Archive) OpenReaderAt(ra io.ReaderAt, size int64) error {
	if err := a.checkOpenable(); err != nil {
		return err
	}
	if ra == nil {
		return ErrNilReader
	}

	return a.openSource(ra, size)
}

// checkOpenable rejects Open calls outside StatusFresh.
func (a *Archive) checkOpenable() error {
	switch a.status {
	case StatusFresh:
		return nil
	case StatusClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: status %s", ErrAlreadyOpen, a.status)
	}
}

// openSource parses header and moves Fresh -> Open.
func (a *Archive) openSource(ra io.ReaderAt, size int64) error {
	next, err := a.status.transition(StatusOpen)
	if err != nil {
		return err
	}

	br, release := newTableReader(ra, 0, size)
	defer release()

	header, err := parseHeader(br)
	if err != nil {
		return err
	}

	a.ra = ra
	a.size = size
	a.header = header
	a.layout = recordLayoutFor(header.Version)
	a.next = br.offset()
	a.status = next
	return nil
}

// GrabDirectoryData parses all directory records. Requires StatusOpen.
func (a *Archive) GrabDirectoryData() error {
	next, err := a.status.transition(StatusDirectoryData)
	if err != nil {
		return err
	}

	count := a.header.DirectoryCount
	need := int64(count) * int64(a.layout.directoryRecordLen())
	if a.next+need > a.size {
		return a.fail(fmt.Errorf("%w: %d directory records need %d bytes at offset %d, file has %d", ErrTruncated, count, need, a.next, a.size))
	}

	br, release := newTableReader(a.ra, a.next, a.size)
	defer release()

	records := make([]DirectoryRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		rec, err := parseDirectoryRecord(br, a.layout)
		if err != nil {
			return a.fail(fmt.Errorf("directory record %d: %w", i, err))
		}
		records = append(records, rec)
	}

	if uint32(len(records)) != count { //nolint:gosec // bounded by count
		return a.fail(fmt.Errorf("%w: parsed %d directory records, header declares %d", ErrRecordCountMismatch, len(records), count))
	}

	a.records = records
	a.next = br.offset()
	a.status = next
	return nil
}

// GrabDirectoryBlocks parses directory blocks and file records. Requires StatusDirectoryData.
func (a *Archive) GrabDirectoryBlocks() error {
	next, err := a.status.transition(StatusDirectoryBlocks)
	if err != nil {
		return err
	}

	br, release := newTableReader(a.ra, a.next, a.size)
	defer release()

	blocks := make([]DirectoryBlock, 0, len(a.records))
	var total uint64
	for i := range a.records {
		block, err := parseDirectoryBlock(br, a.records[i].Count, a.header.HasDirectoryNames())
		if err != nil {
			return a.fail(fmt.Errorf("directory block %d: %w", i, err))
		}

		if uint32(len(block.Files)) != a.records[i].Count { //nolint:gosec // bounded by record count
			return a.fail(fmt.Errorf("%w: directory %q has %d files, record declares %d", ErrRecordCountMismatch, block.Name, len(block.Files), a.records[i].Count))
		}

		total += uint64(len(block.Files))
		blocks = append(blocks, block)
	}

	if len(blocks) != len(a.records) {
		return a.fail(fmt.Errorf("%w: parsed %d directory blocks for %d records", ErrRecordCountMismatch, len(blocks), len(a.records)))
	}
	if total != uint64(a.header.FileCount) {
		return a.fail(fmt.Errorf("%w: directories hold %d files, header declares %d", ErrRecordCountMismatch, total, a.header.FileCount))
	}

	a.blocks = blocks
	a.next = br.offset()
	a.status = next
	return nil
}

// GrabFileNames reads the flat file name table and assigns names. Requires StatusDirectoryBlocks.
// Archives without the file names flag carry no table and keep empty names.
func (a *Archive) GrabFileNames() error {
	next, err := a.status.transition(StatusFileNames)
	if err != nil {
		return err
	}

	if !a.header.HasFileNames() {
		a.status = next
		return nil
	}

	tableLen := int64(a.header.TotalFileNameLength)
	if a.next+tableLen > a.size {
		return a.fail(fmt.Errorf("%w: file name table needs %d bytes at offset %d, file has %d", ErrTruncated, tableLen, a.next, a.size))
	}

	table := make([]byte, tableLen)
	n, err := a.ra.ReadAt(table, a.next)
	if n != len(table) {
		if err == nil || err == io.EOF {
			err = ErrTruncated
		}
		return a.fail(fmt.Errorf("read file name table: %w", err))
	}

	if err := assignFileNames(table, a.blocks, a.header.FileCount); err != nil {
		return a.fail(err)
	}

	a.next += tableLen
	a.status = next
	return nil
}

// GrabAllStructureData runs the remaining load stages in order.
// It is a no-op once all structure data is loaded.
func (a *Archive) GrabAllStructureData() error {
	stages := []struct {
		from Status
		run  func() error
	}{
		{StatusOpen, a.GrabDirectoryData},
		{StatusDirectoryData, a.GrabDirectoryBlocks},
		{StatusDirectoryBlocks, a.GrabFileNames},
	}

	if a.status == StatusFileNames {
		return nil
	}
	if !a.status.atLeast(StatusOpen) {
		return fmt.Errorf("%w: cannot load structure data in status %s", ErrInvalidState, a.status)
	}

	for _, stage := range stages {
		if a.status != stage.from {
			continue
		}
		if err := stage.run(); err != nil {
			return err
		}
	}

	return nil
}

// Close releases the source and moves the archive to StatusClosed.
func (a *Archive) Close() error {
	if a.status == StatusClosed {
		return nil
	}

	a.status, _ = a.status.transition(StatusClosed)
	a.records = nil
	a.blocks = nil
	a.ra = nil

	if a.file != nil {
		f := a.file
		a.file = nil
		return f.Close()
	}

	return nil
}

// fail moves archive to StatusFailed and drops partial structure data.
func (a *Archive) fail(err error) error {
	a.status, _ = a.status.transition(StatusFailed)
	a.records = nil
	a.blocks = nil
	return err
}

// Status returns the current load stage.
func (a *Archive) Status() Status {
	return a.status
}

// Path returns source path for archives opened from disk.
func (a *Archive) Path() string {
	return a.path
}

// Size returns total source size in bytes.
func (a *Archive) Size() int64 {
	return a.size
}

// Header returns the parsed header; zero before Open.
func (a *Archive) Header() Header {
	return a.header
}

// DirectoryRecords returns a copy of parsed directory records.
func (a *Archive) DirectoryRecords() []DirectoryRecord {
	out := make([]DirectoryRecord, len(a.records))
	copy(out, a.records)
	return out
}

// DirectoryBlocks returns a copy of parsed directory blocks.
func (a *Archive) DirectoryBlocks() []DirectoryBlock {
	out := make([]DirectoryBlock, len(a.blocks))
	for i := range a.blocks {
		out[i].Name = a.blocks[i].Name
		out[i].Files = make([]FileRecord, len(a.blocks[i].Files))
		copy(out[i].Files, a.blocks[i].Files)
	}

	return out
}

// source returns the payload reader or an error when the archive cannot serve reads.
func (a *Archive) source() (io.ReaderAt, error) {
	switch {
	case a.status == StatusClosed:
		return nil, ErrClosed
	case a.ra == nil || !a.status.atLeast(StatusOpen):
		return nil, fmt.Errorf("%w: status %s", ErrInvalidState, a.status)
	default:
		return a.ra, nil
	}
}
