// Package schema validates outline records against the published JSON
// Schema for the output format.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed outline.schema.json
var outlineSchema []byte

const resourceName = "outline.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Source returns the raw schema document.
func Source() []byte {
	return outlineSchema
}

func load() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(resourceName, bytes.NewReader(outlineSchema)); err != nil {
			compileErr = fmt.Errorf("load outline schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(resourceName)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile outline schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks that data is a well-formed outline record.
func Validate(data []byte) error {
	s, err := load()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode outline record: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("outline record does not match schema: %w", err)
	}
	return nil
}
