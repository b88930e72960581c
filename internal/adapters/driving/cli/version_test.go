package cli

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	old := version
	version = v
	t.Cleanup(func() { version = old })
}

func TestVersionCmd_Text(t *testing.T) {
	withVersion(t, "1.4.0")
	resetFlags(versionCmd)

	out, err := executeCommand("version")

	require.NoError(t, err)
	assert.Contains(t, out, "ragindex version 1.4.0\n")
	assert.Contains(t, out, "go:       "+runtime.Version())
	assert.Contains(t, out, "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionCmd_JSON(t *testing.T) {
	withVersion(t, "dev")
	resetFlags(versionCmd)

	out, err := executeCommand("version", "--json")
	require.NoError(t, err)

	var info buildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.LessOrEqual(t, len(info.Commit), 12)
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	resetFlags(versionCmd)

	_, err := executeCommand("version", "extra")

	assert.Error(t, err)
}

func TestVersionCmd_SkipsServices(t *testing.T) {
	assert.Equal(t, scopeNone, versionCmd.Annotations[annotationServices])
}
