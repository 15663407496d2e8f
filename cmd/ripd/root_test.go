package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `[RIP_Demon_Parameters]
router_id = 1
input_ports = 10000
outputs = 20000-1-2
timeout_value = 18
periodic_value = 3
`

// TestValidateCommandAcceptsGoodConfig exercises the CLI surface end to
// end: a temp config file, a fresh command tree, and the same validation
// path runDaemon would take, without ever binding a socket.
func TestValidateCommandAcceptsGoodConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ripd.ini")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", path})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "router_id=1")
	require.Contains(t, out.String(), "neighbors=1")
}

// TestValidateCommandRejectsBadConfig confirms a malformed config surfaces
// as a command error rather than a panic or silent success.
func TestValidateCommandRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ripd.ini")
	bad := `[RIP_Demon_Parameters]
router_id = 70000
input_ports = 10000
outputs = 20000-1-2
timeout_value = 18
periodic_value = 3
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", path})

	err := cmd.Execute()
	require.Error(t, err)
}

// TestRootCommandWithoutArgsPrintsHelp preserves the bare-invocation
// contract: no arguments means help, not a daemon start attempt.
func TestRootCommandWithoutArgsPrintsHelp(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "RIP-derived distance-vector routing daemon")
}
