package openai

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type cityAnswer struct {
	City    string `json:"city" jsonschema:"description=City name"`
	Country string `json:"country"`
}

func TestJSONSchemaFormat(t *testing.T) {
	rf := JSONSchemaFormat("answer", cityAnswer{})
	require.NotNil(t, rf.JSONSchema)
	assert.Equal(t, "json_schema", rf.Type)
	assert.True(t, rf.JSONSchema.Strict)

	data, err := json.Marshal(rf)
	require.NoError(t, err)

	schema := gjson.GetBytes(data, "json_schema.schema")
	assert.Equal(t, "object", schema.Get("type").String())
	assert.False(t, schema.Get("additionalProperties").Bool())
	assert.True(t, schema.Get("additionalProperties").Exists())
	assert.False(t, schema.Get("$ref").Exists())
	assert.Equal(t, "City name", schema.Get("properties.city.description").String())
	assert.ElementsMatch(t, []any{"city", "country"}, schema.Get("required").Value())
}

func TestFunctionTool(t *testing.T) {
	tool := FunctionTool("lookup_city", "Find a city", cityAnswer{})
	assert.Equal(t, "function", tool.Type)
	assert.Equal(t, "lookup_city", tool.Function.Name)

	data, err := json.Marshal(tool)
	require.NoError(t, err)
	assert.Equal(t, "string", gjson.GetBytes(data, "function.parameters.properties.country.type").String())
}
