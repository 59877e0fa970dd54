package bsa

import (
	"errors"
	"reflect"
	"testing"
)

func TestLookup_Directories(t *testing.T) {
	t.Parallel()

	a := openFixture(t, fixtureOptions{version: VersionSkyrim, flags: defaultFlags}, testDirs())

	testCases := []struct {
		name         string
		stored       bool
		intermediate bool
	}{
		{name: "", stored: false, intermediate: true},
		{name: "some", stored: false, intermediate: true},
		{name: "something", stored: false, intermediate: true},
		{name: `some\thing`, stored: true, intermediate: false},
		{name: "some/thing", stored: true, intermediate: false},
		{name: `SOMETHING\Else`, stored: true, intermediate: false},
		{name: "som", stored: false, intermediate: false},
		{name: `some\thing\deeper`, stored: false, intermediate: false},
		{name: "other", stored: false, intermediate: false},
	}

	for _, tc := range testCases {
		if got := a.HasDirectory(tc.name); got != tc.stored {
			t.Errorf("HasDirectory(%q)=%v, want %v", tc.name, got, tc.stored)
		}
		if got := a.HasIntermediateDirectory(tc.name); got != tc.intermediate {
			t.Errorf("HasIntermediateDirectory(%q)=%v, want %v", tc.name, got, tc.intermediate)
		}
	}
}

func TestLookup_Files(t *testing.T) {
	t.Parallel()

	a := openFixture(t, fixtureOptions{version: VersionSkyrimSE, flags: defaultFlags}, testDirs())

	pair, ok, err := a.IndexPairForFile(`something\else\bar.txt`)
	if err != nil || !ok {
		t.Fatalf("IndexPairForFile: ok=%v err=%v", ok, err)
	}
	if pair != (IndexPair{Directory: 1, File: 1}) {
		t.Fatalf("pair=%+v", pair)
	}

	if !a.HasFile("Something/Else/FOO.txt") {
		t.Fatal("HasFile must ignore case and accept forward slashes")
	}

	for _, path := range []string{`some\test.txt`, `something\else\baz.txt`, "", `something\else\`} {
		if _, ok, err := a.IndexPairForFile(path); err != nil || ok {
			t.Errorf("IndexPairForFile(%q): ok=%v err=%v", path, ok, err)
		}
	}

	if idx, ok := a.IndexOfFile(1, "FOO.TXT"); !ok || idx != 0 {
		t.Fatalf("IndexOfFile=%d,%v", idx, ok)
	}
	if _, ok := a.IndexOfFile(9, "foo.txt"); ok {
		t.Fatal("IndexOfFile with bad directory index")
	}
}

func TestVirtualSubDirectories(t *testing.T) {
	t.Parallel()

	dirs := []fixtureDir{
		{name: `meshes\armor\iron`, files: []fixtureFile{{name: "a.nif", data: []byte("a")}}},
		{name: `meshes\Armor\steel`, files: []fixtureFile{{name: "b.nif", data: []byte("b")}}},
		{name: `meshes\clutter`, files: []fixtureFile{{name: "c.nif", data: []byte("c")}}},
		{name: `textures`, files: []fixtureFile{{name: "d.dds", data: []byte("d")}}},
	}
	a := openFixture(t, fixtureOptions{version: VersionSkyrim, flags: defaultFlags}, dirs)

	testCases := []struct {
		name string
		want []string
	}{
		{name: "", want: []string{"meshes", "textures"}},
		{name: "meshes", want: []string{"armor", "clutter"}},
		{name: `MESHES\armor`, want: []string{"iron", "steel"}},
		{name: `meshes\clutter`, want: nil},
		{name: "missing", want: nil},
	}

	for _, tc := range testCases {
		if got := a.VirtualSubDirectories(tc.name); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("VirtualSubDirectories(%q)=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLookup_CompressionState(t *testing.T) {
	t.Parallel()

	dirs := []fixtureDir{{name: "data", files: []fixtureFile{
		{name: "plain.txt", data: []byte("plain text payload")},
		{name: "toggled.txt", data: []byte("toggled text payload"), toggled: true},
	}}}

	testCases := []struct {
		name  string
		opts  fixtureOptions
		wantC [2]bool
	}{
		{name: "v104 default raw", opts: fixtureOptions{version: VersionSkyrim, flags: defaultFlags}, wantC: [2]bool{false, true}},
		{name: "v104 default zlib", opts: fixtureOptions{version: VersionSkyrim, flags: defaultFlags | FlagCompressed}, wantC: [2]bool{true, false}},
		{name: "v105 default lz4", opts: fixtureOptions{version: VersionSkyrimSE, flags: defaultFlags | FlagCompressed}, wantC: [2]bool{true, false}},
		{name: "v103 default raw", opts: fixtureOptions{version: VersionOblivion, flags: defaultFlags}, wantC: [2]bool{false, true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a := openFixture(t, tc.opts, dirs)
			for i, f := range dirs[0].files {
				compressed, err := a.IsFileCompressed(0, i)
				if err != nil {
					t.Fatalf("IsFileCompressed: %v", err)
				}
				if compressed != tc.wantC[i] {
					t.Fatalf("%s compressed=%v, want %v", f.name, compressed, tc.wantC[i])
				}

				size, err := a.ExtractedFileSize(0, i)
				if err != nil {
					t.Fatalf("ExtractedFileSize: %v", err)
				}
				if int(size) != len(f.data) {
					t.Fatalf("%s size=%d, want %d", f.name, size, len(f.data))
				}

				data, err := a.ReadFile(0, i)
				if err != nil {
					t.Fatalf("ReadFile: %v", err)
				}
				if string(data) != string(f.data) {
					t.Fatalf("%s = %q", f.name, data)
				}
			}

			info, err := a.FileInfo(0, 1)
			if err != nil {
				t.Fatalf("FileInfo: %v", err)
			}
			if !info.Toggled || info.BlockSize&compressToggleBit != 0 {
				t.Fatalf("toggle not reported or leaked into size: %+v", info)
			}
		})
	}
}

func TestReadFile_EmbeddedNames(t *testing.T) {
	t.Parallel()

	for _, flags := range []ArchiveFlag{
		defaultFlags | FlagEmbeddedFileNames,
		defaultFlags | FlagEmbeddedFileNames | FlagCompressed,
	} {
		opts := fixtureOptions{version: VersionSkyrim, flags: flags}
		a := openFixture(t, opts, testDirs())

		data, err := a.ReadFileByName(`some\thing\test.txt`)
		if err != nil {
			t.Fatalf("flags %#x: ReadFileByName: %v", flags, err)
		}
		if string(data) != "This is a test.\n" {
			t.Fatalf("flags %#x: data=%q", flags, data)
		}

		size, err := a.ExtractedFileSize(0, 0)
		if err != nil || size != uint32(len(data)) {
			t.Fatalf("flags %#x: ExtractedFileSize=%d,%v", flags, size, err)
		}

		// Corrupt the last character of the embedded "some\thing\test.txt".
		raw := buildBSA(t, opts, testDirs())
		info, _ := a.FileInfo(0, 0)
		raw[int(info.Offset)+len(`some\thing\test.txt`)] = 'x'

		broken, err := Open(writeFixture(t, raw))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := broken.ReadFile(0, 0); !errors.Is(err, ErrEmbeddedName) {
			t.Fatalf("flags %#x: expected ErrEmbeddedName, got %v", flags, err)
		}
		_ = broken.Close()
	}
}

func TestReadFile_XMemUnsupported(t *testing.T) {
	t.Parallel()

	a := openFixture(t, fixtureOptions{version: VersionSkyrim, flags: defaultFlags | FlagCompressed | FlagXbox | FlagXMemCodec}, testDirs())
	if _, err := a.ReadFile(0, 0); !errors.Is(err, ErrUnsupportedCodec) {
		t.Fatalf("expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestReadFile_AfterClose(t *testing.T) {
	t.Parallel()

	a := openFixture(t, fixtureOptions{version: VersionSkyrim, flags: defaultFlags}, testDirs())
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := a.ReadFile(0, 0); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if a.HasDirectory(`some\thing`) {
		t.Fatal("closed archive still answers lookups")
	}
}

func TestFilesAndDirectories(t *testing.T) {
	t.Parallel()

	a := openFixture(t, fixtureOptions{version: VersionSkyrim, flags: defaultFlags}, testDirs())

	files := a.Files()
	wantPaths := []string{`some\thing\test.txt`, `something\else\foo.txt`, `something\else\bar.txt`}
	if len(files) != len(wantPaths) {
		t.Fatalf("files=%d", len(files))
	}
	for i, want := range wantPaths {
		if files[i].Path != want {
			t.Fatalf("files[%d].Path=%q, want %q", i, files[i].Path, want)
		}
	}

	dirs := a.Directories()
	if len(dirs) != 2 || dirs[1].Name != `something\else` || dirs[1].Count != 2 {
		t.Fatalf("dirs=%+v", dirs)
	}
	if dirs[0].NameHash != CalculateDirectoryHash(`some\thing`) {
		t.Fatalf("directory hash %#x", dirs[0].NameHash)
	}

	if _, err := a.DirectoryInfo(-1); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
