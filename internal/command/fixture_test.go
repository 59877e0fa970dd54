package command

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/woozymasta/bsa"
)

type sampleFile struct {
	dir  string
	name string
	data string
}

// sampleFiles is the 2-directory, 3-file layout used by command tests.
var sampleFiles = []sampleFile{
	{dir: `some\thing`, name: "test.txt", data: "This is a test.\n"},
	{dir: `something\else`, name: "foo.txt", data: "foobar\n"},
	{dir: `something\else`, name: "bar.txt", data: "foo was here.\n"},
}

// writeSampleBSA writes an uncompressed v104 archive and returns its path.
// Files of one directory must be adjacent in files.
func writeSampleBSA(t *testing.T, files []sampleFile) string {
	t.Helper()

	type dir struct {
		name  string
		files []sampleFile
	}
	var dirs []dir
	for _, f := range files {
		if len(dirs) == 0 || dirs[len(dirs)-1].name != f.dir {
			dirs = append(dirs, dir{name: f.dir})
		}
		dirs[len(dirs)-1].files = append(dirs[len(dirs)-1].files, f)
	}

	var dirNamesLen, fileNamesLen, blocksLen int
	for _, d := range dirs {
		dirNamesLen += len(d.name) + 1
		blocksLen += len(d.name) + 2 + 16*len(d.files)
		for _, f := range d.files {
			fileNamesLen += len(f.name) + 1
		}
	}

	dataOffset := 36 + 16*len(dirs) + blocksLen + fileNamesLen

	var out bytes.Buffer
	put := func(v any) {
		require.NoError(t, binary.Write(&out, binary.LittleEndian, v))
	}

	out.WriteString("BSA\x00")
	put([]uint32{
		bsa.VersionSkyrim, 36, uint32(bsa.FlagDirectoryNames | bsa.FlagFileNames),
		uint32(len(dirs)), uint32(len(files)), uint32(dirNamesLen), uint32(fileNamesLen), 0,
	})

	for _, d := range dirs {
		put(bsa.CalculateDirectoryHash(d.name))
		put(uint32(len(d.files)))
		put(uint32(0))
	}

	offset := dataOffset
	for _, d := range dirs {
		out.WriteByte(byte(len(d.name) + 1))
		out.WriteString(d.name)
		out.WriteByte(0)
		for _, f := range d.files {
			put(bsa.CalculateHash(f.name))
			put(uint32(len(f.data)))
			put(uint32(offset))
			offset += len(f.data)
		}
	}

	for _, f := range files {
		out.WriteString(f.name)
		out.WriteByte(0)
	}
	require.Equal(t, dataOffset, out.Len())

	for _, f := range files {
		out.WriteString(f.data)
	}

	path := filepath.Join(t.TempDir(), "sample.bsa")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o600))
	return path
}
