package models

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrCorruptTaskList is returned when a stored task list cannot be decoded.
var ErrCorruptTaskList = errors.New("corrupt task list")

const schemaURL = "mytodos://tasklist.schema.json"

//go:embed tasklist.schema.json
var taskListSchema string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(taskListSchema)); err != nil {
		return nil, fmt.Errorf("failed to add task list schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile task list schema: %w", err)
	}
	return schema, nil
})

// EncodeTaskList serializes a task list as a JSON array.
func EncodeTaskList(list TaskList) ([]byte, error) {
	if list == nil {
		list = TaskList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task list: %w", err)
	}
	return data, nil
}

// DecodeTaskList parses a JSON task list, checking it against the task list
// schema, id uniqueness, and title rules. Every failure wraps ErrCorruptTaskList.
func DecodeTaskList(data []byte) (TaskList, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTaskList, err)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptTaskList, schemaErrorMessage(err))
	}

	var list TaskList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTaskList, err)
	}

	if err := list.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTaskList, err)
	}

	return list, nil
}

// schemaErrorMessage returns the first leaf cause of a schema validation error.
func schemaErrorMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
