// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bsa

package command

import (
	"errors"

	"github.com/woozymasta/bsa"
)

// ErrInvalidParameter reports wrong command line arguments.
var ErrInvalidParameter = errors.New("invalid parameter")

// Process exit codes.
const (
	ExitOK               = 0
	ExitInvalidParameter = 1
	ExitFileError        = 2
	ExitDataError        = 3
)

// invalidParameterErrors are caused by user input rather than archive content.
var invalidParameterErrors = []error{
	ErrInvalidParameter,
	bsa.ErrEntryNotFound,
	bsa.ErrInvalidFilterRules,
}

// dataErrors are structural or payload errors of the archive itself.
var dataErrors = []error{
	bsa.ErrInvalidHeader,
	bsa.ErrTruncated,
	bsa.ErrRecordCountMismatch,
	bsa.ErrFileNameTable,
	bsa.ErrEmbeddedName,
	bsa.ErrDecompress,
	bsa.ErrUnsupportedCodec,
	bsa.ErrSizeMismatch,
	bsa.ErrInvalidState,
	bsa.ErrNotLoaded,
}

// ExitCode maps a command error to a process exit code.
// Remaining errors (missing archive, permissions, existing or unsafe
// output paths) are file errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	for _, target := range invalidParameterErrors {
		if errors.Is(err, target) {
			return ExitInvalidParameter
		}
	}

	for _, target := range dataErrors {
		if errors.Is(err, target) {
			return ExitDataError
		}
	}

	return ExitFileError
}
