package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIoctl_PrintsPackedCode(t *testing.T) {
	out, err := executeCommand("ioctl", "uar0")
	require.NoError(t, err)
	assert.Equal(t, "0x75617230\n", out)
}

func TestIoctl_JSONPayload(t *testing.T) {
	out, err := executeCommand("--format", "json", "ioctl", "uag0")
	require.NoError(t, err)

	var envelope struct {
		Status string      `json:"status"`
		Data   ioctlResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, "ok", envelope.Status)
	assert.Equal(t, "uag0", envelope.Data.Tags)
	assert.Equal(t, "0x75616730", envelope.Data.Code)
}

func TestIoctl_RejectsBadTags(t *testing.T) {
	_, err := executeCommand("ioctl", "uart0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "exactly 4 characters")

	_, err = executeCommand("ioctl", "ua\xc3\xa9")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not ASCII")
}
