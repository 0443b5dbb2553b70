package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidSchemas(t *testing.T) {
	out, _, err := execute(t, "validate", schemasDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 3 schema file(s) valid (1.12.0.4 .. 1.18.10.4)")
}

func TestValidateValidSchemasJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "validate", schemasDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Count)
	assert.Equal(t, "1.18.10.4", resp.Data.Latest)
	require.Len(t, resp.Data.Schemas, 3)
	assert.Equal(t, 1, resp.Data.Schemas[0].Priority)
	assert.Equal(t, "1.16.0.57", resp.Data.Schemas[1].MaxVersion)
}

func TestValidateVerboseListsFiles(t *testing.T) {
	_, errOut, err := execute(t, "-v", "validate", schemasDir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "0002 ")
	assert.Contains(t, errOut, "mapping_schema_0002_1.16.0.yaml")
}

func TestValidateEmptyDirectory(t *testing.T) {
	out, _, err := execute(t, "validate", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No schema files")
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, _, err := execute(t, "validate", "/nonexistent/schemas")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
	}{
		{
			name:     "malformed",
			file:     "mapping_schema_0001.json",
			content:  `{"maxVersionMajor": 1,`,
			wantCode: ErrCodeMalformed,
		},
		{
			name:     "missing field",
			file:     "mapping_schema_0001.json",
			content:  `{"maxVersionMajor": 1, "maxVersionMinor": 0, "maxVersionPatch": 0}`,
			wantCode: ErrCodeSchemaField,
		},
		{
			name: "unknown value type",
			file: "mapping_schema_0001.json",
			content: `{"maxVersionMajor": 1, "maxVersionMinor": 0, "maxVersionPatch": 0, "maxVersionRevision": 0,
				"addedProperties": {"minecraft:a": {"p": {"type": "float", "value": 1}}}}`,
			wantCode: ErrCodeUnknownValueType,
		},
		{
			name: "type mismatch",
			file: "mapping_schema_0001.json",
			content: `{"maxVersionMajor": 1, "maxVersionMinor": 0, "maxVersionPatch": 0, "maxVersionRevision": 0,
				"addedProperties": {"minecraft:a": {"p": {"type": "byte", "value": "x"}}}}`,
			wantCode: ErrCodeTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0644))

			out, _, err := execute(t, "--format", "json", "validate", dir)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestValidateDuplicatePriority(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`{"maxVersionMajor": 1, "maxVersionMinor": 0, "maxVersionPatch": 0, "maxVersionRevision": 0}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mapping_schema_0001_a.json"), doc, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mapping_schema_0001_b.json"), doc, 0644))

	out, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]")
}

func TestMapLoaderCodeDefaults(t *testing.T) {
	assert.Equal(t, ErrCodeGeneric, MapLoaderCode("SOMETHING_NEW"))
}
