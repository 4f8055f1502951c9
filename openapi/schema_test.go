// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openapi

import (
	"encoding/json"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaBuildersChain(t *testing.T) {
	s := Object().
		Property("id", String().WithFormat("uuid")).
		Property("quantity", Integer().WithRange(1, 100)).
		Optional("note", String())

	assert.Equal(t, "object", s.Type)
	assert.ElementsMatch(t, []string{"id", "quantity"}, s.Required)
	assert.Contains(t, s.Properties, "note")
	assert.Equal(t, "uuid", s.Properties["id"].Format)
	assert.Equal(t, float64(1), *s.Properties["quantity"].Minimum)
}

type widgetExample struct {
	ID       string   `json:"id"`
	Quantity int      `json:"quantity"`
	Tags     []string `json:"tags,omitempty"`
	Internal string   `json:"-"`
	hidden   bool
}

func TestFromExampleInfersStructSchema(t *testing.T) {
	example := widgetExample{ID: "w-1", Quantity: 3, Tags: []string{"a", "b"}}
	s := FromExample(example)

	require.Equal(t, "object", s.Type)
	require.Contains(t, s.Properties, "id")
	require.Contains(t, s.Properties, "quantity")
	require.Contains(t, s.Properties, "tags")
	assert.NotContains(t, s.Properties, "Internal")
	assert.NotContains(t, s.Properties, "hidden")

	assert.Equal(t, "string", s.Properties["id"].Type)
	assert.Equal(t, "integer", s.Properties["quantity"].Type)
	assert.Equal(t, "array", s.Properties["tags"].Type)
	assert.Equal(t, "string", s.Properties["tags"].Items.Type)

	// "id" and "quantity" have no omitempty tag, so they're required;
	// "tags" does, so it isn't.
	assert.Contains(t, s.Required, "id")
	assert.Contains(t, s.Required, "quantity")
	assert.NotContains(t, s.Required, "tags")
}

func TestFromExampleNilPointerIsNullable(t *testing.T) {
	var p *widgetExample
	s := FromExample(p)
	assert.True(t, s.Nullable)
}

// TestGeneratedSchemaValidatesWithJSONSchema round-trips a FromExample
// schema through github.com/santhosh-tekuri/jsonschema/v6 to confirm the
// shape it emits is valid JSON Schema a third-party validator accepts.
func TestGeneratedSchemaValidatesWithJSONSchema(t *testing.T) {
	s := FromExample(widgetExample{})

	// Schema is yaml-tagged, not json-tagged, so schemaAsJSONSchema first
	// maps it onto JSON Schema's keyword names before the JSON round trip.
	raw, err := json.Marshal(schemaAsJSONSchema(s))
	require.NoError(t, err)

	var schemaDoc any
	require.NoError(t, json.Unmarshal(raw, &schemaDoc))

	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("widget.json", schemaDoc))
	compiled, err := compiler.Compile("widget.json")
	require.NoError(t, err)

	valid := map[string]any{"id": "w-1", "quantity": float64(2)}
	assert.NoError(t, compiled.Validate(valid))

	invalid := map[string]any{"quantity": float64(2)}
	assert.Error(t, compiled.Validate(invalid))
}

// schemaAsJSONSchema converts a Schema into the map shape JSON Schema
// expects, since Schema's own tags are yaml, not json.
func schemaAsJSONSchema(s *Schema) map[string]any {
	m := map[string]any{}
	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Format != "" {
		m["format"] = s.Format
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if s.Minimum != nil {
		m["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		m["maximum"] = *s.Maximum
	}
	if s.Items != nil {
		m["items"] = schemaAsJSONSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = schemaAsJSONSchema(prop)
		}
		m["properties"] = props
	}
	return m
}
