package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeText(t *testing.T) {
	out, _, err := execute(t, "describe", schemasDir)
	require.NoError(t, err)

	sections := strings.Split(out, "\n\n")
	require.Len(t, sections, 3)

	assert.Contains(t, sections[0], "mapping_schema_0001_1.12.0.json\nMax version: 1.12.0.4\nRenames:\n")
	assert.Contains(t, sections[0], "- minecraft:old_stone => minecraft:stone\n- minecraft:grass => minecraft:grass_block\n")
	assert.Contains(t, sections[0], "- minecraft:stone has variant added: byte(0)\n")

	assert.Contains(t, sections[1], "Max version: 1.16.0.57\n")
	assert.Contains(t, sections[1], "- minecraft:log has deprecated removed\n")
	assert.Contains(t, sections[1], "- minecraft:stone has variant renamed to stone_type\n")

	assert.Contains(t, sections[2], "- minecraft:log => minecraft:oak_log\n")
	assert.Contains(t, sections[2], "- minecraft:oak_log has direction renamed to pillar_axis\n")
	assert.Contains(t, sections[2], `- minecraft:oak_log has pillar_axis value changed from int(0) to string("y")`+"\n"+
		`- minecraft:stone has stone_type value changed from byte(0) to string("stone")`+"\n"+
		`- minecraft:stone has stone_type value changed from byte(1) to string("granite")`)

	assert.NotContains(t, out, "(schema.Schema)")
}

func TestDescribeRaw(t *testing.T) {
	out, _, err := execute(t, "describe", "--raw", schemasDir)
	require.NoError(t, err)
	assert.Contains(t, out, "(schema.Schema)")
	assert.Contains(t, out, "RenamedIDs:")
	assert.Contains(t, out, `"minecraft:oak_log"`)
}

func TestDescribeJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "describe", schemasDir)
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   []SchemaDescription `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, 3, resp.Data[2].Priority)
	assert.Equal(t, "1.18.10.4", resp.Data[2].MaxVersion)
	assert.True(t, strings.HasPrefix(resp.Data[2].Description, "Max version: 1.18.10.4\n"))
	assert.Empty(t, resp.Data[2].Raw)
}

func TestDescribeNonExistentDirectory(t *testing.T) {
	_, _, err := execute(t, "describe", "/nonexistent/schemas")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
