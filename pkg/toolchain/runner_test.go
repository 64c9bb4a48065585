package toolchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteMissingBinaryIsToolchainUnavailable(t *testing.T) {
	r := NewExecRunner(0)
	_, err := r.execute(context.Background(), t.TempDir(), "definitely-not-a-real-binary-xyz")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolchainUnavailable))
}

func TestExecuteCapturesCombinedOutputOnFailure(t *testing.T) {
	r := NewExecRunner(0)
	// sh is available everywhere we run; a failing script exercises the
	// non-zero-exit path without needing a JDK on the test machine.
	res, err := r.execute(context.Background(), t.TempDir(), "sh", "-c", "echo compile error detail >&2; exit 1")

	assert.NoError(t, err, "non-zero exit is a failed Result, not an error")
	assert.False(t, res.Ok)
	assert.Contains(t, res.Output, "compile error detail")
}

func TestExecuteSuccess(t *testing.T) {
	r := NewExecRunner(0)
	res, err := r.execute(context.Background(), t.TempDir(), "sh", "-c", "echo done")

	assert.NoError(t, err)
	assert.True(t, res.Ok)
	assert.Contains(t, res.Output, "done")
}
