// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

/*
Package bsa provides read, lookup, hash, and extract operations for
Bethesda BSA archives (versions 103, 104, and 105). Archives are read
through io.ReaderAt; payloads are decoded one file at a time.

Format summary:
  - fixed 36-byte header ("BSA\x00", version, flags, counts);
  - directory records (hash, file count, offset), padded on v105;
  - directory blocks (name, file records);
  - flat NUL-terminated file name table;
  - file data blocks, optionally prefixed with an embedded name;
  - compressed payloads start with a decompressed-size field and use
    zlib (v103/v104) or LZ4 frames (v105).

The format stores only leaf directory paths. Intermediate levels such as
"meshes" for "meshes\armor" are synthesized by HasIntermediateDirectory,
VirtualSubDirectories, and on disk during extraction.

# Reading

Open a BSA and read files:

	a, err := bsa.Open("Skyrim - Misc.bsa")
	if err != nil {
	    return err
	}
	defer a.Close()
	for _, f := range a.Files() {
	    data, _ := a.ReadFile(f.Index.Directory, f.Index.File)
	    // use data
	}

Structure data can be loaded stage by stage for metadata-only scans:

	a := bsa.New()
	defer a.Close()
	if err := a.Open("archive.bsa"); err != nil {
	    return err
	}
	if err := a.GrabDirectoryData(); err != nil {
	    return err
	}
	if err := a.GrabDirectoryBlocks(); err != nil {
	    return err
	}
	_ = a.Directories()

Lookups are case-insensitive and accept both separators:

	pair, ok, err := a.IndexPairForFile(`textures\sky\stars.dds`)

# Extracting

Extract everything (sequential, stops at first error):

	n, err := a.ExtractAll("out/", bsa.ExtractOptions{})

Extract a subset with path rules from github.com/woozymasta/pathrules:

	n, err := a.ExtractAll("out/", bsa.ExtractOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "meshes/**"},
	        {Action: pathrules.ActionExclude, Pattern: "*.hkx"},
	    },
	})

Each file is written to a temporary file and renamed into place.

# Hashes

CalculateHash and CalculateDirectoryHash reproduce the archive name hash.
The algorithm is reverse-engineered; CheckHashes reports mismatches as
advisory findings.
*/
package bsa
