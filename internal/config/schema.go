package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "routenet://network.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func networkSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// CheckSchema validates the raw document shape against the embedded schema.
// Structural problems are reported as a ValidationError.
func CheckSchema(data []byte) error {
	schema, err := networkSchema()
	if err != nil {
		return err
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	// Round trip through JSON so the validator sees JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var value interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return schemaIssues(err)
	}
	return nil
}

func schemaIssues(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate schema: %w", err)
	}
	var issues []Issue
	for _, leaf := range leafCauses(verr) {
		field := strings.TrimPrefix(strings.ReplaceAll(leaf.InstanceLocation, "/", "."), ".")
		if field == "" {
			field = "config"
		}
		issues = append(issues, Issue{Field: field, Message: leaf.Message})
	}
	return &ValidationError{Issues: issues}
}

func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}
