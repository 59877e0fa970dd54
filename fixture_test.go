package bsa

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// fixtureFile is one file of a hand-built archive.
type fixtureFile struct {
	name string
	data []byte
	// toggled sets the compression toggle bit in the file record.
	toggled bool
	// hash overrides calculated name hash when non-zero.
	hash uint64
}

// fixtureDir is one directory of a hand-built archive.
type fixtureDir struct {
	name  string
	files []fixtureFile
	// hash overrides calculated directory hash when non-zero.
	hash uint64
}

// fixtureOptions controls header values of a hand-built archive.
type fixtureOptions struct {
	version   uint32
	flags     ArchiveFlag
	fileFlags ContentType
}

// testDirs is the 2-directory, 3-file layout with virtual parents "some" and "something".
func testDirs() []fixtureDir {
	return []fixtureDir{
		{name: `some\thing`, files: []fixtureFile{
			{name: "test.txt", data: []byte("This is a test.\n")},
		}},
		{name: `something\else`, files: []fixtureFile{
			{name: "foo.txt", data: []byte("foobar\n")},
			{name: "bar.txt", data: []byte("foo was here.\n")},
		}},
	}
}

// defaultFlags are directory and file name flags set by most fixtures.
const defaultFlags = FlagDirectoryNames | FlagFileNames

// buildBSA serializes directories into a BSA image.
func buildBSA(t testing.TB, opts fixtureOptions, dirs []fixtureDir) []byte {
	t.Helper()

	header := Header{
		Version:      opts.version,
		Offset:       headerSize,
		ArchiveFlags: uint32(opts.flags),
		FileFlags:    uint32(opts.fileFlags),
	}
	copy(header.Magic[:], magic)

	recordLen := recordLayoutFor(opts.version).directoryRecordLen()
	var blocksLen, namesLen int
	for _, d := range dirs {
		header.DirectoryCount++
		header.FileCount += uint32(len(d.files))
		if opts.flags&FlagDirectoryNames != 0 {
			blocksLen += len(d.name) + 2
			header.TotalDirectoryNameLength += uint32(len(d.name) + 1)
		}
		blocksLen += len(d.files) * fileRecordSize
		for _, f := range d.files {
			namesLen += len(f.name) + 1
		}
	}
	if opts.flags&FlagFileNames != 0 {
		header.TotalFileNameLength = uint32(namesLen)
	} else {
		namesLen = 0
	}

	dataStart := headerSize + int(header.DirectoryCount)*recordLen + blocksLen + namesLen

	// Payload blocks and their offsets in directory-then-file order.
	var data bytes.Buffer
	type placed struct {
		offset uint32
		size   uint32
	}
	placement := make([][]placed, len(dirs))
	for di, d := range dirs {
		for _, f := range d.files {
			start := data.Len()
			if opts.flags&FlagEmbeddedFileNames != 0 {
				full := d.name + `\` + f.name
				data.WriteByte(byte(len(full)))
				data.WriteString(full)
			}

			compressed := (opts.flags&FlagCompressed != 0) != f.toggled
			if compressed {
				writeU32(&data, uint32(len(f.data)))
				data.Write(compressPayload(t, opts.version, f.data))
			} else {
				data.Write(f.data)
			}

			size := uint32(data.Len() - start)
			if f.toggled {
				size |= compressToggleBit
			}
			placement[di] = append(placement[di], placed{offset: uint32(dataStart + start), size: size})
		}
	}

	var out bytes.Buffer
	out.WriteString(magic)
	for _, v := range []uint32{
		header.Version, header.Offset, header.ArchiveFlags, header.DirectoryCount, header.FileCount,
		header.TotalDirectoryNameLength, header.TotalFileNameLength, header.FileFlags,
	} {
		writeU32(&out, v)
	}

	blockOffset := headerSize + int(header.DirectoryCount)*recordLen
	for _, d := range dirs {
		hash := d.hash
		if hash == 0 {
			hash = CalculateDirectoryHash(d.name)
		}
		writeU64(&out, hash)
		writeU32(&out, uint32(len(d.files)))
		if opts.version >= VersionSkyrimSE {
			writeU32(&out, 0)
		}
		writeU32(&out, uint32(blockOffset)+header.TotalFileNameLength)
		if opts.version >= VersionSkyrimSE {
			writeU32(&out, 0)
		}
		if opts.flags&FlagDirectoryNames != 0 {
			blockOffset += len(d.name) + 2
		}
		blockOffset += len(d.files) * fileRecordSize
	}

	for di, d := range dirs {
		if opts.flags&FlagDirectoryNames != 0 {
			out.WriteByte(byte(len(d.name) + 1))
			out.WriteString(d.name)
			out.WriteByte(0)
		}
		for fi, f := range d.files {
			hash := f.hash
			if hash == 0 {
				hash = CalculateHash(f.name)
			}
			writeU64(&out, hash)
			writeU32(&out, placement[di][fi].size)
			writeU32(&out, placement[di][fi].offset)
		}
	}

	if opts.flags&FlagFileNames != 0 {
		for _, d := range dirs {
			for _, f := range d.files {
				out.WriteString(f.name)
				out.WriteByte(0)
			}
		}
	}

	if out.Len() != dataStart {
		t.Fatalf("fixture layout: data starts at %d, want %d", out.Len(), dataStart)
	}
	out.Write(data.Bytes())

	return out.Bytes()
}

// compressPayload compresses data with the codec of version.
func compressPayload(t testing.TB, version uint32, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if version >= VersionSkyrimSE {
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			t.Fatalf("lz4 write: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("lz4 close: %v", err)
		}
		return buf.Bytes()
	}

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

// writeFixture writes raw archive bytes into a temp file and returns its path.
func writeFixture(t testing.TB, raw []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.bsa")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return path
}

// openFixture builds, writes, and fully loads an archive.
func openFixture(t *testing.T, opts fixtureOptions, dirs []fixtureDir) *Archive {
	t.Helper()

	a, err := Open(writeFixture(t, buildBSA(t, opts, dirs)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	return a
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
