package bsa

import (
	"bytes"
	"fmt"
	"testing"
)

const (
	benchDefaultFiles    = 128
	benchLargeIndexFiles = 52536
)

var (
	// benchListSink prevents compiler elimination in list benchmark loops.
	benchListSink int
)

func BenchmarkOpenParse(b *testing.B) {
	path := createBenchBSA(b, benchDefaultFiles, defaultFlags)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := Open(path)
		if err != nil {
			b.Fatal(err)
		}
		_ = a.Files()
		_ = a.Close()
	}
}

func BenchmarkOpenParseLargeIndex(b *testing.B) {
	path := createBenchBSA(b, benchLargeIndexFiles, defaultFlags)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := Open(path)
		if err != nil {
			b.Fatal(err)
		}

		if len(a.Files()) == 0 {
			b.Fatal("empty files")
		}

		_ = a.Close()
	}
}

func BenchmarkListLargeIndex(b *testing.B) {
	path := createBenchBSA(b, benchLargeIndexFiles, defaultFlags)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		files, err := ListFiles(path)
		if err != nil {
			b.Fatal(err)
		}
		benchListSink += len(files)
	}
}

func BenchmarkLookupLargeIndex(b *testing.B) {
	path := createBenchBSA(b, benchLargeIndexFiles, defaultFlags)
	a, err := Open(path)
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	target := benchmarkLargePath(benchLargeIndexFiles - 1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !a.HasFile(target) {
			b.Fatal("missing file")
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	benchmarkExtract(b, defaultFlags)
}

func BenchmarkExtractZlib(b *testing.B) {
	benchmarkExtract(b, defaultFlags|FlagCompressed)
}

func BenchmarkCalculateHash(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = CalculateHash("entry_00042_6b43a9b5.dds")
	}
}

func benchmarkExtract(b *testing.B, flags ArchiveFlag) {
	b.Helper()

	path := createBenchBSA(b, benchDefaultFiles, flags)
	a, err := Open(path)
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := b.TempDir()
		if _, err := a.ExtractAll(out, ExtractOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

// createBenchBSA builds a deterministic v104 archive grouped by directory.
func createBenchBSA(b *testing.B, numFiles int, flags ArchiveFlag) string {
	b.Helper()

	payload := bytes.Repeat([]byte("x"), 96)
	byDir := make(map[string]int)
	var dirs []fixtureDir
	for i := 0; i < numFiles; i++ {
		dir, name := splitFilePath(benchmarkLargePath(i))
		idx, ok := byDir[dir]
		if !ok {
			idx = len(dirs)
			byDir[dir] = idx
			dirs = append(dirs, fixtureDir{name: dir})
		}
		dirs[idx].files = append(dirs[idx].files, fixtureFile{name: name, data: payload})
	}

	return writeFixture(b, buildBSA(b, fixtureOptions{version: VersionSkyrim, flags: flags}, dirs))
}

// benchmarkLargePath returns deterministic long-ish paths for index-heavy benchmarks.
func benchmarkLargePath(i int) string {
	exts := [...]string{"nif", "dds", "hkx", "wav", "xwm", "pex", "psc", "txt", "lod", "btr", "tri"}
	ext := exts[i%len(exts)]

	return fmt.Sprintf(`grp_%03d\pack_%03d\entry_%05d_%08x.%s`, i%173, (i/173)%211, i, i*2654435761, ext)
}
