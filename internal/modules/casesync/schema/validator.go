package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError is one leaf failure reported by the validator.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationError reports a payload that does not conform to its schema. Key
// names the entity when the payload got far enough to carry one.
type ValidationError struct {
	Schema string
	Key    string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	subject := "payload"
	if e.Key != "" {
		subject = fmt.Sprintf("payload for %q", e.Key)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.String())
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s does not match schema %s", subject, e.Schema)
	}
	return fmt.Sprintf("%s does not match schema %s: %s", subject, e.Schema, strings.Join(parts, "; "))
}

// Validator checks raw JSON payloads against one compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

func (v *Validator) Name() string { return v.name }

// Validate returns nil or a *ValidationError. Malformed JSON is reported as a
// validation failure at the document root.
func (v *Validator) Validate(payload []byte) error {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	err := dec.Decode(&doc)
	if err == nil && dec.More() {
		err = errors.New("trailing data after document")
	}
	if err != nil {
		return &ValidationError{
			Schema: v.name,
			Errors: []FieldError{{Path: "", Message: "invalid json: " + err.Error()}},
		}
	}
	err = v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Schema: v.name, Errors: []FieldError{{Message: err.Error()}}}
	}
	out := &ValidationError{Schema: v.name}
	collectLeaves(ve, &out.Errors)
	return out
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]FieldError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, FieldError{Path: ve.InstanceLocation, Message: ve.Message})
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}

func compile(docs []Document) (map[string]*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, d := range docs {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("schema with empty name")
		}
		if err := c.AddResource(resourceURL(d.Name), bytes.NewReader(d.Raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", d.Name, err)
		}
	}
	out := make(map[string]*Validator, len(docs))
	for _, d := range docs {
		s, err := c.Compile(resourceURL(d.Name))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", d.Name, err)
		}
		out[d.Name] = &Validator{name: d.Name, schema: s}
	}
	return out, nil
}
