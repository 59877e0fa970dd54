// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"bytes"
	"fmt"
)

// recordLayout describes version-dependent padding of directory records.
type recordLayout struct {
	// padAfterCount is the number of skipped bytes after DirectoryRecord.Count.
	padAfterCount int
	// padAfterOffset is the number of skipped bytes after DirectoryRecord.Offset.
	padAfterOffset int
}

// recordLayoutFor selects the on-disk record layout for a format version.
// Unknown versions use the nearest known layout.
func recordLayoutFor(version uint32) recordLayout {
	if version >= VersionSkyrimSE {
		return recordLayout{padAfterCount: 4, padAfterOffset: 4}
	}

	return recordLayout{}
}

// directoryRecordLen returns on-disk directory record size.
func (l recordLayout) directoryRecordLen() int {
	return directoryRecordSize + l.padAfterCount + l.padAfterOffset
}

// parseDirectoryRecord reads one directory record.
func parseDirectoryRecord(br *binaryReader, layout recordLayout) (DirectoryRecord, error) {
	var rec DirectoryRecord
	var err error

	if rec.NameHash, err = br.readUint64("directory name hash"); err != nil {
		return DirectoryRecord{}, err
	}
	if rec.Count, err = br.readUint32("directory file count"); err != nil {
		return DirectoryRecord{}, err
	}
	if err = br.skip(layout.padAfterCount, "directory record padding"); err != nil {
		return DirectoryRecord{}, err
	}
	if rec.Offset, err = br.readUint32("directory offset"); err != nil {
		return DirectoryRecord{}, err
	}
	if err = br.skip(layout.padAfterOffset, "directory record padding"); err != nil {
		return DirectoryRecord{}, err
	}

	return rec, nil
}

// parseFileRecord reads one 16-byte file record.
func parseFileRecord(br *binaryReader) (FileRecord, error) {
	var rec FileRecord
	var err error

	if rec.NameHash, err = br.readUint64("file name hash"); err != nil {
		return FileRecord{}, err
	}
	if rec.BlockSize, err = br.readUint32("file block size"); err != nil {
		return FileRecord{}, err
	}
	if rec.Offset, err = br.readUint32("file offset"); err != nil {
		return FileRecord{}, err
	}

	return rec, nil
}

// parseDirectoryBlock reads one directory block holding fileCount file records.
func parseDirectoryBlock(br *binaryReader, fileCount uint32, withName bool) (DirectoryBlock, error) {
	var block DirectoryBlock
	if withName {
		name, _, err := br.readBString("directory name")
		if err != nil {
			return DirectoryBlock{}, err
		}
		block.Name = name
	}

	block.Files = make([]FileRecord, 0, min(fileCount, 4096))
	for i := uint32(0); i < fileCount; i++ {
		rec, err := parseFileRecord(br)
		if err != nil {
			return DirectoryBlock{}, fmt.Errorf("directory %q file record %d: %w", block.Name, i, err)
		}
		block.Files = append(block.Files, rec)
	}

	return block, nil
}

// assignFileNames walks the NUL-terminated file name table in directory-then-file order.
// The table must hold exactly fileCount names within its declared length.
func assignFileNames(table []byte, blocks []DirectoryBlock, fileCount uint32) error {
	var consumed uint32
	rest := table

	for d := range blocks {
		for f := range blocks[d].Files {
			if len(rest) == 0 {
				return fmt.Errorf("%w: table exhausted after %d of %d names", ErrFileNameTable, consumed, fileCount)
			}

			idx := bytes.IndexByte(rest, 0)
			if idx < 0 {
				return fmt.Errorf("%w: name %d is not terminated within declared length", ErrFileNameTable, consumed)
			}

			blocks[d].Files[f].Name = string(rest[:idx])
			rest = rest[idx+1:]
			consumed++
		}
	}

	if consumed != fileCount {
		return fmt.Errorf("%w: consumed %d names, header declares %d", ErrFileNameTable, consumed, fileCount)
	}

	return nil
}
