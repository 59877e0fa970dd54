// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import "strings"

// hashMultiplier is the rolling hash multiplier used for the high half.
const hashMultiplier = 0x1003f

// extensionTags are OR-ed into the low half for well-known extensions.
var extensionTags = map[string]uint32{
	".kf":  0x80,
	".nif": 0x8000,
	".dds": 0x8080,
	".wav": 0x80000000,
}

// CalculateHash returns the 64-bit BSA name hash of a file name.
//
// The algorithm is reverse-engineered and is known not to match every hash
// stored by official tools, so treat a mismatch as advisory. The hash is
// case-insensitive and total: an empty name hashes to zero.
func CalculateHash(name string) uint64 {
	name = asciiLower(name)

	stem, ext := name, ""
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		stem, ext = name[:idx], name[idx:]
	}

	n := len(stem)
	var low uint32
	if n > 0 {
		low = uint32(stem[n-1]) | uint32(n)<<16 | uint32(stem[0])<<24 //nolint:gosec // length wraps like the reference hash
		if n > 2 {
			low |= uint32(stem[n-2]) << 8
		}
	}
	low |= extensionTags[ext]

	var inner uint32
	for i := 1; i < n-2; i++ {
		inner = inner*hashMultiplier + uint32(stem[i])
	}

	var extHash uint32
	for i := 0; i < len(ext); i++ {
		extHash = extHash*hashMultiplier + uint32(ext[i])
	}

	high := inner + extHash
	return uint64(high)<<32 | uint64(low)
}

// CalculateDirectoryHash returns the BSA hash of a directory path.
// Forward slashes are treated as backslashes.
func CalculateDirectoryHash(path string) uint64 {
	return CalculateHash(strings.ReplaceAll(path, "/", `\`))
}

// asciiLower lower-cases ASCII letters and keeps other bytes unchanged.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}

	return s
}
