package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logState = `{"name":"minecraft:log","states":{"direction":{"type":"int","value":0},"deprecated":{"type":"byte","value":1}}}`

func TestUpgradeText(t *testing.T) {
	out, _, err := execute(t, "upgrade", schemasDir, "--from", "1.10", "--state", logState)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"minecraft:oak_log","states":{"pillar_axis":{"type":"string","value":"y"}}}`+"\n", out)
}

func TestUpgradeFromStdin(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader(`{"name":"minecraft:old_stone"}`))

	out, _, err := executeCommand(t, cmd, "upgrade", schemasDir, "--from", "1.0", "--state", "-")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"minecraft:stone","states":{"stone_type":{"type":"string","value":"stone"}}}`+"\n", out)
}

func TestUpgradeAtLatestIsUnchanged(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "upgrade", schemasDir, "--from", "1.18.10.4", "--state", logState)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			From    string          `json:"from"`
			To      string          `json:"to"`
			Changed bool            `json:"changed"`
			State   json.RawMessage `json:"state"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.18.10.4", resp.Data.From)
	assert.Equal(t, "1.18.10.4", resp.Data.To)
	assert.False(t, resp.Data.Changed)
	assert.Contains(t, string(resp.Data.State), `"name":"minecraft:log"`)
}

func TestUpgradeJSONReportsChange(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "upgrade", schemasDir, "--from", "1.10", "--state", logState)
	require.NoError(t, err)

	var resp struct {
		Data UpgradeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "1.10.0.0", resp.Data.From)
	assert.True(t, resp.Data.Changed)
}

func TestUpgradeVerboseShowsSteps(t *testing.T) {
	_, errOut, err := execute(t, "-v", "upgrade", schemasDir, "--from", "1.10", "--state", logState)
	require.NoError(t, err)
	assert.Contains(t, errOut, "1.12.0.4: ")
	assert.Contains(t, errOut, "1.16.0.57: ")
	assert.Contains(t, errOut, `1.18.10.4: {"name":"minecraft:oak_log"`)
}

func TestUpgradeOutputIsLastStep(t *testing.T) {
	state := `{"name":"minecraft:sign","states":{"text":{"type":"string","value":"cafe\u0301"}}}`
	want := "{\"name\":\"minecraft:sign\",\"states\":{\"text\":{\"type\":\"string\",\"value\":\"cafe\u0301\"}}}"

	out, errOut, err := execute(t, "-v", "upgrade", schemasDir, "--from", "1.10", "--state", state)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
	assert.Contains(t, errOut, "1.18.10.4: "+want)
}

func TestUpgradeInvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		wants string
	}{
		{"bad version", []string{"--from", "1.x", "--state", logState}, "invalid version"},
		{"bad json", []string{"--from", "1.0", "--state", "{"}, "invalid --state"},
		{"missing name", []string{"--from", "1.0", "--state", `{"states":{}}`}, "name is required"},
		{"bad value", []string{"--from", "1.0", "--state", `{"name":"a","states":{"p":{"type":"byte","value":999}}}`}, "invalid --state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"upgrade", schemasDir}, tt.args...)
			out, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E010]")
			assert.Contains(t, out, tt.wants)
		})
	}
}

func TestUpgradeRequiresFlags(t *testing.T) {
	_, _, err := execute(t, "upgrade", schemasDir, "--from", "1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state")
}
