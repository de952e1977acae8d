// Package validate checks YAML documents against their JSON schemas before
// they are unmarshaled into typed structs.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	sigsyaml "sigs.k8s.io/yaml"
)

//go:embed schemas/config-schema.json
var configSchema []byte

// ValidateAgainstSchema validates JSON data against the given schema. The
// name registers the schema with the compiler and ref optionally points at a
// sub-schema (for example "#/definitions/foo").
func ValidateAgainstSchema(name string, schema []byte, data []byte, ref string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return fmt.Errorf("loading schema %s: %w", name, err)
	}

	compiled, err := compiler.Compile(name + ref)
	if err != nil {
		return fmt.Errorf("compiling schema %s: %w", name, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateConfigJSON validates a JSON configuration document against the
// embedded config schema.
func ValidateConfigJSON(data []byte) error {
	return ValidateAgainstSchema("config-schema.json", configSchema, data, "")
}

// ValidateConfigYAML converts a YAML configuration document to JSON and
// validates it against the embedded config schema.
func ValidateConfigYAML(data []byte) error {
	jsonData, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("converting config to JSON: %w", err)
	}
	return ValidateConfigJSON(jsonData)
}
