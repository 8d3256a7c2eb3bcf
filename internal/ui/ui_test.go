package ui

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestUIQuietSuppressesOutput(t *testing.T) {
	u := NewUI(false, true)

	out := captureOutput(t, func() {
		u.Header("Warehouse Diagnostics")
		u.Success("done")
		u.Warning("careful")
		u.Info("note")
		u.Printf("formatted %d\n", 1)
		u.Println("line")
	})

	assert.Empty(t, out, "quiet mode must suppress all UI output")
}

func TestUIHeader(t *testing.T) {
	u := NewUI(false, false)

	out := captureOutput(t, func() {
		u.Header("Warehouse Diagnostics")
	})

	assert.Contains(t, out, "Warehouse Diagnostics")
	assert.Contains(t, out, "+--")
}

func TestUIVerbosePrintf(t *testing.T) {
	quietOut := captureOutput(t, func() {
		NewUI(false, false).VerbosePrintf("detail %s\n", "x")
	})
	assert.Empty(t, quietOut, "verbose output hidden without --verbose")

	verboseOut := captureOutput(t, func() {
		NewUI(true, false).VerbosePrintf("detail %s\n", "x")
	})
	assert.Equal(t, "detail x\n", verboseOut)
}
