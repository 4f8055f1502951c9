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
	"fmt"
	"reflect"
	"strings"
)

// String returns a new string-typed Schema.
func String() *Schema { return &Schema{Type: "string"} }

// Number returns a new number-typed (float) Schema.
func Number() *Schema { return &Schema{Type: "number"} }

// Integer returns a new integer-typed Schema.
func Integer() *Schema { return &Schema{Type: "integer"} }

// Bool returns a new boolean-typed Schema.
func Bool() *Schema { return &Schema{Type: "boolean"} }

// Array returns a new array-typed Schema whose elements match items.
func Array(items *Schema) *Schema { return &Schema{Type: "array", Items: items} }

// Object returns a new empty object-typed Schema; add fields with
// Property or Optional.
func Object() *Schema { return &Schema{Type: "object"} }

// Describe sets the schema's description and returns it for chaining.
func (s *Schema) Describe(description string) *Schema {
	s.Description = description
	return s
}

// WithFormat sets a format hint (e.g. "date-time", "uuid", "int64").
func (s *Schema) WithFormat(format string) *Schema {
	s.Format = format
	return s
}

// WithExample attaches an example value.
func (s *Schema) WithExample(example any) *Schema {
	s.Example = example
	return s
}

// WithEnum restricts the schema to one of the given values.
func (s *Schema) WithEnum(values ...any) *Schema {
	s.Enum = values
	return s
}

// WithRange sets numeric bounds on a number or integer schema.
func (s *Schema) WithRange(min, max float64) *Schema {
	s.Minimum = &min
	s.Maximum = &max
	return s
}

// Property adds a required property to an object schema.
func (s *Schema) Property(name string, schema *Schema) *Schema {
	s.addProperty(name, schema)
	s.Required = append(s.Required, name)
	return s
}

// Optional adds a non-required property to an object schema.
func (s *Schema) Optional(name string, schema *Schema) *Schema {
	s.addProperty(name, schema)
	return s
}

func (s *Schema) addProperty(name string, schema *Schema) {
	if s.Properties == nil {
		s.Properties = make(map[string]*Schema, 4)
	}
	s.Properties[name] = schema
}

// FromExample infers a Schema from a Go value by reflection: structs
// become object schemas keyed by field name (honoring a `json` struct
// tag's name and "omitempty", the way the wire codec this schema
// describes would encode them), slices/arrays become array schemas,
// maps become open objects, and the remaining kinds map to the closest
// JSON Schema primitive. Unexported fields are skipped; a nil pointer
// becomes a schema with only Nullable set.
func FromExample(v any) *Schema {
	return schemaFromValue(reflect.ValueOf(v))
}

func schemaFromValue(v reflect.Value) *Schema {
	if !v.IsValid() {
		return &Schema{}
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &Schema{Nullable: true}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return &Schema{Type: "string", Example: v.String()}
	case reflect.Bool:
		return &Schema{Type: "boolean", Example: v.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer", Example: v.Interface()}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number", Example: v.Interface()}
	case reflect.Slice, reflect.Array:
		items := &Schema{}
		if v.Len() > 0 {
			items = schemaFromValue(v.Index(0))
		} else if v.Type().Elem().Kind() != reflect.Interface {
			items = schemaFromValue(reflect.Zero(v.Type().Elem()))
		}
		return &Schema{Type: "array", Items: items}
	case reflect.Map:
		obj := &Schema{Type: "object"}
		for _, key := range v.MapKeys() {
			obj.addProperty(toString(key), schemaFromValue(v.MapIndex(key)))
		}
		return obj
	case reflect.Struct:
		return schemaFromStruct(v)
	default:
		return &Schema{}
	}
}

func schemaFromStruct(v reflect.Value) *Schema {
	obj := &Schema{Type: "object"}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name, omitempty, skip := jsonFieldName(field)
		if skip {
			continue
		}
		fieldSchema := schemaFromValue(v.Field(i))
		if omitempty {
			obj.addProperty(name, fieldSchema)
		} else {
			obj.Property(name, fieldSchema)
		}
	}
	return obj
}

func jsonFieldName(field reflect.StructField) (name string, omitempty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = field.Name
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

func toString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}
