// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package bsa

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts an archive path to canonical backslash-separated form.
// It trims spaces, accepts both "/" and "\", drops empty and "." segments.
// Case is preserved; lookups compare case-insensitively.
func NormalizePath(raw string) string {
	parts := splitPath(raw)
	return strings.Join(parts, `\`)
}

// splitPath splits an archive path into non-empty components.
func splitPath(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "/", `\`)

	parts := strings.Split(raw, `\`)
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}

	return out
}

// splitFilePath splits archive file path into directory and bare file name.
func splitFilePath(raw string) (string, string) {
	normalized := NormalizePath(raw)
	idx := strings.LastIndexByte(normalized, '\\')
	if idx < 0 {
		return "", normalized
	}

	return normalized[:idx], normalized[idx+1:]
}

// joinArchivePath joins directory and file name with a backslash.
func joinArchivePath(dir string, name string) string {
	dir = NormalizePath(dir)
	if dir == "" {
		return name
	}

	return dir + `\` + name
}

// hasComponentPrefix reports whether prefix components are a strict prefix of parts.
func hasComponentPrefix(parts []string, prefix []string) bool {
	if len(prefix) >= len(parts) {
		return false
	}

	for i := range prefix {
		if !strings.EqualFold(parts[i], prefix[i]) {
			return false
		}
	}

	return true
}

// archivePathToRelative converts archive path to a slash-separated relative path
// and rejects absolute or traversal inputs.
func archivePathToRelative(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if hasWindowsAbsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// resolveOutputPath joins destination root with archive path and checks containment.
func resolveOutputPath(rootAbs string, entryPath string) (string, error) {
	rel, err := archivePathToRelative(entryPath)
	if err != nil {
		return "", err
	}

	out := filepath.Join(rootAbs, filepath.FromSlash(rel))
	within, err := filepath.Rel(rootAbs, out)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", ErrExtractPathOutsideRoot
	}

	return out, nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive-root prefix like C:/.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 2 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
