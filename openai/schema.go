package openai

import (
	"github.com/invopop/jsonschema"
)

// Structured outputs accept a subset of JSON schema; these reflector flags
// keep generated schemas inside it.
var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// JSONSchemaFormat builds a strict json_schema response format from the Go
// type of v.
//
//	type Answer struct {
//	    City    string `json:"city"`
//	    Country string `json:"country"`
//	}
//	q.ResponseFormat = openai.JSONSchemaFormat("answer", Answer{})
func JSONSchemaFormat(name string, v any) *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchemaSpec{
			Name:   name,
			Schema: reflector.Reflect(v),
			Strict: true,
		},
	}
}

// FunctionTool builds a function tool whose parameters are reflected from
// the Go type of params.
func FunctionTool(name, description string, params any) Tool {
	return Tool{
		Type: "function",
		Function: FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  reflector.Reflect(params),
		},
	}
}
