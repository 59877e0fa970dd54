package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/woozymasta/bsa/internal/command"
)

func runApp(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	out := &bytes.Buffer{}
	logOut := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(logOut)

	err := newApp(out, log).Run(append([]string{"bsa"}, args...))
	code := command.ExitOK
	if err != nil {
		var exitErr cli.ExitCoder
		require.True(t, errors.As(err, &exitErr), "unexpected error type: %v", err)
		code = exitErr.ExitCode()
	}

	return out.String(), logOut.String(), code
}

func TestAppCommands(t *testing.T) {
	out, _, code := runApp(t, "commands")
	require.Equal(t, command.ExitOK, code)
	for _, op := range command.Operations() {
		require.Contains(t, out, op.String()+"\n")
	}
}

func TestAppExitCodes(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.bsa")
	require.NoError(t, os.WriteFile(bad, []byte("BSA\x00not really an archive header here!"), 0o600))

	_, logs, code := runApp(t, "info")
	require.Equal(t, command.ExitInvalidParameter, code)
	require.Contains(t, logs, "invalid parameter")

	_, _, code = runApp(t, "info", filepath.Join(dir, "missing.bsa"))
	require.Equal(t, command.ExitFileError, code)

	_, logs, code = runApp(t, "list", bad)
	require.Equal(t, command.ExitDataError, code)
	require.Contains(t, logs, "level=error")

	_, _, code = runApp(t, "--log-level", "loud", "commands")
	require.Equal(t, command.ExitInvalidParameter, code)
}

func TestAppLogLevelFromEnv(t *testing.T) {
	t.Setenv("BSA_LOG_LEVEL", "debug")

	out := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	require.NoError(t, newApp(out, log).Run([]string{"bsa", "commands"}))
	require.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestOperationFlags(t *testing.T) {
	names := func(flags []cli.Flag) []string {
		var out []string
		for _, f := range flags {
			out = append(out, f.Names()[0])
		}
		return out
	}

	require.Equal(t, []string{"long"}, names(operationFlags(command.OpList)))
	require.Equal(t, []string{"overwrite", "include", "exclude"}, names(operationFlags(command.OpExtractAll)))
	require.Equal(t, []string{"overwrite"}, names(operationFlags(command.OpExtractFile)))
	require.Empty(t, operationFlags(command.OpInfo))
}
