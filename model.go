// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	headerSize          = 36        // fixed BSA header size in bytes
	fileRecordSize      = 16        // nameHash + blockSize + offset
	directoryRecordSize = 16        // v103/v104 record size without padding
	compressToggleBit   = 1 << 30   // bit in FileRecord.BlockSize inverting compression
	sizeFieldLen        = 4         // decompressed-size field before compressed payloads
	maxDecompressedSize = 1 << 31   // sanity limit for decompressed payload buffers
	maxCompressionRatio = 1032      // max decoded/compressed ratio of deflate and LZ4
	magic               = "BSA\x00" // archive magic
)

// Known archive format versions.
const (
	// VersionOblivion is the layout used by Oblivion archives.
	VersionOblivion uint32 = 103
	// VersionSkyrim is the layout used by Fallout 3, New Vegas, and Skyrim archives.
	VersionSkyrim uint32 = 104
	// VersionSkyrimSE is the layout used by Skyrim Special Edition archives.
	VersionSkyrimSE uint32 = 105
)

// ArchiveFlag is one bit of Header.ArchiveFlags.
type ArchiveFlag uint32

// Archive flag bits.
const (
	// FlagDirectoryNames marks archives whose directory blocks carry names.
	FlagDirectoryNames ArchiveFlag = 1 << 0
	// FlagFileNames marks archives with a flat file name table.
	FlagFileNames ArchiveFlag = 1 << 1
	// FlagCompressed marks archives whose files are compressed by default.
	FlagCompressed ArchiveFlag = 1 << 2
	// FlagXbox marks Xbox archives.
	FlagXbox ArchiveFlag = 1 << 6
	// FlagEmbeddedFileNames marks archives whose data blocks start with the file name.
	FlagEmbeddedFileNames ArchiveFlag = 1 << 7
	// FlagXMemCodec marks archives compressed with the XMem codec. Ignored for v103.
	FlagXMemCodec ArchiveFlag = 1 << 9
)

// ContentType is one bit of Header.FileFlags describing archive contents.
type ContentType uint32

// Content type bits.
const (
	ContentMeshes   ContentType = 0x1
	ContentTextures ContentType = 0x2
	ContentMenus    ContentType = 0x4
	ContentSounds   ContentType = 0x8
	ContentVoices   ContentType = 0x10
	ContentShaders  ContentType = 0x20
	ContentTrees    ContentType = 0x40
	ContentFonts    ContentType = 0x80
	ContentMisc     ContentType = 0x100
)

// contentTypeNames lists content types in bit order.
var contentTypeNames = []struct {
	t    ContentType
	name string
}{
	{ContentMeshes, "meshes"},
	{ContentTextures, "textures"},
	{ContentMenus, "menus"},
	{ContentSounds, "sounds"},
	{ContentVoices, "voices"},
	{ContentShaders, "shaders"},
	{ContentTrees, "trees"},
	{ContentFonts, "fonts"},
	{ContentMisc, "misc"},
}

// String returns lower-case name of a single content type bit.
func (c ContentType) String() string {
	for _, n := range contentTypeNames {
		if n.t == c {
			return n.name
		}
	}

	return "unknown"
}

// Header is the fixed 36-byte archive header.
type Header struct {
	// Magic is the 4-byte file signature, always "BSA\x00" once parsed.
	Magic [4]byte `json:"-" yaml:"-"`
	// Version is the archive format version (103, 104, 105).
	Version uint32 `json:"version" yaml:"version"`
	// Offset is the stored header size; must be 36.
	Offset uint32 `json:"offset" yaml:"offset"`
	// ArchiveFlags is the archive flag bitfield.
	ArchiveFlags uint32 `json:"archive_flags" yaml:"archive_flags"`
	// DirectoryCount is the number of directory records.
	DirectoryCount uint32 `json:"directory_count" yaml:"directory_count"`
	// FileCount is the total number of file records.
	FileCount uint32 `json:"file_count" yaml:"file_count"`
	// TotalDirectoryNameLength is the sum of directory name lengths including length bytes.
	TotalDirectoryNameLength uint32 `json:"total_directory_name_length" yaml:"total_directory_name_length"`
	// TotalFileNameLength is the byte size of the flat file name table.
	TotalFileNameLength uint32 `json:"total_file_name_length" yaml:"total_file_name_length"`
	// FileFlags is the content type bitfield.
	FileFlags uint32 `json:"file_flags" yaml:"file_flags"`
}

// DirectoryRecord is the fixed-size metadata entry of one directory.
type DirectoryRecord struct {
	// NameHash is the stored directory path hash.
	NameHash uint64 `json:"name_hash" yaml:"name_hash"`
	// Count is the number of files in the directory.
	Count uint32 `json:"count" yaml:"count"`
	// Offset is the absolute byte offset of the directory block.
	Offset uint32 `json:"offset" yaml:"offset"`
}

// DirectoryBlock holds a directory name and its file records.
type DirectoryBlock struct {
	// Name is the backslash-separated directory path.
	Name string `json:"name" yaml:"name"`
	// Files are file records in stored order.
	Files []FileRecord `json:"files" yaml:"files"`
}

// FileRecord is the fixed-size metadata entry of one file.
type FileRecord struct {
	// NameHash is the stored hash of the bare file name.
	NameHash uint64 `json:"name_hash" yaml:"name_hash"`
	// BlockSize is the stored data block size including the compression toggle bit.
	BlockSize uint32 `json:"block_size" yaml:"block_size"`
	// Offset is the absolute byte offset of the data block.
	Offset uint32 `json:"offset" yaml:"offset"`
	// Name is the bare file name resolved from the file name table.
	Name string `json:"name" yaml:"name"`
}

// IsCompressionToggled reports whether the record inverts the archive default compression.
func (f FileRecord) IsCompressionToggled() bool {
	return f.BlockSize&compressToggleBit != 0
}

// RealBlockSize returns the data block size without the toggle bit.
func (f FileRecord) RealBlockSize() uint32 {
	return f.BlockSize &^ compressToggleBit
}

// IndexPair addresses one file by directory and file index.
type IndexPair struct {
	Directory int `json:"directory" yaml:"directory"`
	File      int `json:"file" yaml:"file"`
}

// FileInfo describes one file for listing and extraction callbacks.
type FileInfo struct {
	// Path is the archive path ("dir\name").
	Path string `json:"path" yaml:"path"`
	// Index locates the record inside the archive.
	Index IndexPair `json:"index" yaml:"index"`
	// NameHash is the stored file name hash.
	NameHash uint64 `json:"name_hash" yaml:"name_hash"`
	// Offset is the absolute byte offset of the data block.
	Offset uint32 `json:"offset" yaml:"offset"`
	// BlockSize is the stored data block size without the toggle bit.
	BlockSize uint32 `json:"block_size" yaml:"block_size"`
	// Compressed reports the effective compression state.
	Compressed bool `json:"compressed,omitempty" yaml:"compressed,omitempty"`
	// Toggled reports whether the record carries the compression toggle bit.
	Toggled bool `json:"toggled,omitempty" yaml:"toggled,omitempty"`
}

// DirectoryInfo describes one directory for listing.
type DirectoryInfo struct {
	// Name is the backslash-separated directory path.
	Name string `json:"name" yaml:"name"`
	// Index is position in the directory table.
	Index int `json:"index" yaml:"index"`
	// NameHash is the stored directory hash.
	NameHash uint64 `json:"name_hash" yaml:"name_hash"`
	// Count is the number of files.
	Count uint32 `json:"count" yaml:"count"`
	// Offset is the absolute byte offset of the directory block.
	Offset uint32 `json:"offset" yaml:"offset"`
}

// ExtractOptions configures directory and archive extraction.
type ExtractOptions struct {
	// OnFileDone is called after one file is fully written to disk.
	OnFileDone func(file FileInfo, written int64, outputPath string) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Rules select files by archive path; empty means all files.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
}

// ExtractFileMode controls output file replacement during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeOverwrite replaces existing files.
	ExtractFileModeOverwrite ExtractFileMode = "overwrite"
	// ExtractFileModeCreateOnly fails when the output file already exists.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeOverwrite
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}
