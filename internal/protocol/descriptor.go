// Package protocol implements the script output protocol: each line a script
// writes to stdout is a JSON command descriptor, either a bare command id
// ("files.save") or an object ({"command": "files.open", "args": {...}}).
package protocol

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed descriptor.schema.json
var descriptorSchemaJSON string

var (
	descriptorSchema     *jsonschema.Schema
	descriptorSchemaOnce sync.Once
	descriptorSchemaErr  error
)

// DescriptorSchema returns the compiled JSON Schema for command descriptors.
func DescriptorSchema() (*jsonschema.Schema, error) {
	descriptorSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("descriptor.schema.json", strings.NewReader(descriptorSchemaJSON)); err != nil {
			descriptorSchemaErr = fmt.Errorf("failed to add descriptor schema resource: %w", err)
			return
		}
		descriptorSchema, descriptorSchemaErr = compiler.Compile("descriptor.schema.json")
	})
	return descriptorSchema, descriptorSchemaErr
}

// Descriptor is a parsed command request. Args is nil for a bare command and
// otherwise holds the script's args value byte for byte.
type Descriptor struct {
	Command string
	Args    json.RawMessage
}

// MalformedCommandError reports a line that is not a valid descriptor.
type MalformedCommandError struct {
	Line string
	Err  error
}

func (e *MalformedCommandError) Error() string {
	return fmt.Sprintf("malformed command %q: %v", e.Line, e.Err)
}

func (e *MalformedCommandError) Unwrap() error { return e.Err }

// ParseDescriptor parses and validates one descriptor.
func ParseDescriptor(raw []byte) (Descriptor, error) {
	d, err := parseDescriptor(raw)
	if err != nil {
		return Descriptor{}, &MalformedCommandError{Line: string(raw), Err: err}
	}
	return d, nil
}

func parseDescriptor(raw []byte) (Descriptor, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Descriptor{}, err
	}
	schema, err := DescriptorSchema()
	if err != nil {
		return Descriptor{}, err
	}
	if err := schema.Validate(v); err != nil {
		return Descriptor{}, errors.New(validationMessage(err))
	}

	if id, ok := v.(string); ok {
		return Descriptor{Command: id}, nil
	}
	var obj struct {
		Command string          `json:"command"`
		Args    json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Command: obj.Command, Args: obj.Args}, nil
}

// validationMessage flattens a schema validation error to its deepest cause.
func validationMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[len(ve.Causes)-1]
	}
	if ve.InstanceLocation == "" {
		return "not a command descriptor: " + ve.Message
	}
	return fmt.Sprintf("not a command descriptor: %s: %s", ve.InstanceLocation, ve.Message)
}

// ParseBatch parses the whole-output variant: a JSON array of descriptors.
// Every element is validated before any is returned.
func ParseBatch(data []byte) ([]Descriptor, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &MalformedCommandError{Line: strings.TrimSpace(string(data)), Err: fmt.Errorf("expected a JSON array of commands: %w", err)}
	}
	if items == nil {
		return nil, &MalformedCommandError{Line: strings.TrimSpace(string(data)), Err: errors.New("expected a JSON array of commands, got null")}
	}
	out := make([]Descriptor, 0, len(items))
	for _, item := range items {
		d, err := ParseDescriptor(item)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// MarshalJSON writes the bare form when there are no args.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if d.Args == nil {
		return json.Marshal(d.Command)
	}
	return json.Marshal(struct {
		Command string          `json:"command"`
		Args    json.RawMessage `json:"args"`
	}{d.Command, d.Args})
}
