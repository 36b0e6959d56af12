package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxBodyBytes caps request bodies read by the decoders.
const maxBodyBytes = 1 << 20

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	submissionSchema = mustCompileSchema("schemas/prompt.json")
	updateSchema     = mustCompileSchema("schemas/prompt_update.json")
)

func mustCompileSchema(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("read %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("load %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile %s: %v", name, err))
	}
	return schema
}

// DecodePrompt reads a submission body, checking field types before decoding.
func DecodePrompt(r io.Reader) (PromptInput, error) {
	var in PromptInput
	err := decodeChecked(r, submissionSchema, &in)
	return in, err
}

// DecodeUpdate reads a moderation update body.
func DecodeUpdate(r io.Reader) (PromptUpdate, error) {
	var u PromptUpdate
	err := decodeChecked(r, updateSchema, &u)
	return u, err
}

func decodeChecked(r io.Reader, schema *jsonschema.Schema, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return invalid("invalid request body")
	}
	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return invalid("invalid request body")
	}
	return nil
}

// schemaError reduces a schema failure to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return invalid("invalid request body")
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "body"
	}
	return invalid("invalid request body at %s: %s", loc, ve.Message)
}
