package exopredict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const predictResponseSchema = `{
	"type": "object",
	"required": ["probability_of_planet"],
	"properties": {
		"probability_of_planet": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

const featuresResponseSchema = `{
	"type": "object",
	"required": ["features"],
	"properties": {
		"features": {"type": "array", "items": {"type": "string", "minLength": 1}},
		"count": {"type": "integer", "minimum": 0}
	}
}`

type responseSchemas struct {
	predict  *jsonschema.Schema
	features *jsonschema.Schema
}

func compileResponseSchemas() (*responseSchemas, error) {
	predict, err := compileSchema("predict_response.json", predictResponseSchema)
	if err != nil {
		return nil, err
	}

	features, err := compileSchema("features_response.json", featuresResponseSchema)
	if err != nil {
		return nil, err
	}

	return &responseSchemas{predict: predict, features: features}, nil
}

func compileSchema(name, raw string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
	}
	return compiler.Compile(name)
}

// validateBody checks a raw JSON body against schema before it is unmarshalled
// into a typed response.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	if schema == nil {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}

	return nil
}
