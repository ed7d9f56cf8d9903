package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImportSchema_YAML(t *testing.T) {
	schema, err := LoadImportSchema("testdata/plan.yaml")
	require.NoError(t, err)

	require.Len(t, schema.Shifts, 3)
	assert.Equal(t, "Early", schema.Shifts[0].Name)
	require.Len(t, schema.Shifts[0].Pauses, 1)
	assert.Equal(t, "10:30", schema.Shifts[0].Pauses[0].End)
	require.NotNil(t, schema.Shifts[2].Working)
	assert.False(t, *schema.Shifts[2].Working)

	require.Len(t, schema.Machines, 2)
	assert.Len(t, schema.Machines[0].Setups, 2)

	require.Len(t, schema.Requests, 3)
	assert.Equal(t, NumberText("0.5"), schema.Requests[0].ProductionTimePerUnit)
	assert.Equal(t, NumberText("1.25"), schema.Requests[1].ProductionTimePerUnit, "quoted numbers are accepted")
	assert.Nil(t, schema.Requests[2].RequestedStart)

	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_JSON(t *testing.T) {
	schema, err := LoadImportSchema("testdata/plan.json")
	require.NoError(t, err)
	require.Len(t, schema.Requests, 1)
	assert.Equal(t, NumberText("7.5"), schema.Requests[0].ProductionTimePerUnit)
	assert.Equal(t, 15, schema.Requests[0].SetupMin)
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_MissingFile(t *testing.T) {
	_, err := LoadImportSchema("testdata/nope.json")
	assert.Error(t, err)
}

func TestDecodeImportSchema_Malformed(t *testing.T) {
	_, err := DecodeImportSchema(strings.NewReader(`{"shifts": [`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")

	_, err = DecodeImportSchema(strings.NewReader(`{"requests": [{"production_time_per_unit": true}]}`), FormatJSON)
	assert.Error(t, err)

	_, err = DecodeImportSchema(strings.NewReader("requests:\n  - production_time_per_unit: [1]\n"), FormatYAML)
	assert.Error(t, err)
}

func TestDecodeImportSchema_EmptyYAML(t *testing.T) {
	schema, err := DecodeImportSchema(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, schema.Requests)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("plan.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("PLAN.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("plan.json"))
	assert.Equal(t, FormatJSON, FormatForPath("plan"))
}
