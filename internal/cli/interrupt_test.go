package cli

import (
	"bytes"
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptHandlerCancelsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	h := NewInterruptHandler(&buf)
	ctx := h.HandleInterrupts(context.Background())
	require.False(t, h.WasInterrupted())

	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled after interrupt")
	}

	assert.True(t, h.WasInterrupted())
	assert.Contains(t, buf.String(), "interrupted")
}
