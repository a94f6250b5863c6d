package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalPIDFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")

	t.Run("empty path", func(t *testing.T) {
		err := SignalPIDFile("", syscall.SIGTERM)
		assert.ErrorContains(t, err, "PID file path is empty")
	})

	t.Run("missing file", func(t *testing.T) {
		err := SignalPIDFile(filepath.Join(t.TempDir(), "none.pid"), syscall.SIGTERM)
		assert.ErrorContains(t, err, "failed to read PID file")
	})

	t.Run("signal zero to self", func(t *testing.T) {
		require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644))
		assert.NoError(t, SignalPIDFile(pidFile, syscall.Signal(0)))
	})
}

func TestReadPID(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")

	require.NoError(t, os.WriteFile(pidFile, []byte("invalid"), 0644))
	_, err := ReadPID(pidFile)
	assert.ErrorContains(t, err, "invalid PID format")

	require.NoError(t, os.WriteFile(pidFile, []byte("0"), 0644))
	_, err = ReadPID(pidFile)
	assert.ErrorContains(t, err, "invalid PID value")

	require.NoError(t, os.WriteFile(pidFile, []byte(" 4242\n"), 0644))
	pid, err := ReadPID(pidFile)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)
}
