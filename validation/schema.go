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

package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apierrors "rivaas.dev/envelope/errors"
	"rivaas.dev/envelope/fielderr"
)

// schemaKeywords are the keywords a registered schema may use. Assertions
// are limited to those with a rule equivalent.
var schemaKeywords = map[string]bool{
	"$schema": true, "$id": true, "$ref": true, "$defs": true, "$comment": true,
	"definitions": true, "title": true, "description": true, "default": true, "examples": true,
	"type": true, "properties": true, "items": true, "additionalProperties": true,
	"required": true, "minLength": true, "maxLength": true, "minItems": true, "maxItems": true,
	"maximum": true, "format": true,
}

// schemaRules maps assertion keywords to rule identifiers.
var schemaRules = map[string]string{
	"required":  "required",
	"minLength": "length",
	"maxLength": "length",
	"minItems":  "size",
	"maxItems":  "size",
	"maximum":   "max",
	"format":    "email",
}

var printer = message.NewPrinter(language.English)

// RegisterSchema compiles schema and stores it under id.
// It fails if the schema uses a keyword outside the supported set or a
// format other than email.
//
// Example:
//
//	err := validator.RegisterSchema("form", `{
//	    "type": "object",
//	    "properties": {"name": {"type": "string", "maxLength": 10}},
//	    "required": ["name"]
//	}`)
func (v *Validator) RegisterSchema(id, schema string) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		return fmt.Errorf("invalid schema JSON: %w", err)
	}

	var errs []error
	checkSchemaKeywords(doc, "#", &errs)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("schema %q: %w", id, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()

	url := id + ".json"
	if err := compiler.AddResource(url, doc); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemasMu.Lock()
	defer v.schemasMu.Unlock()
	v.schemas[id] = compiled

	return nil
}

func checkSchemaKeywords(doc any, at string, errs *[]error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return
	}

	for _, k := range slices.Sorted(maps.Keys(m)) {
		val := m[k]
		if !schemaKeywords[k] {
			*errs = append(*errs, fmt.Errorf("%s: unsupported keyword %q", at, k))
			continue
		}
		switch k {
		case "properties", "$defs", "definitions":
			if sub, ok := val.(map[string]any); ok {
				for _, name := range slices.Sorted(maps.Keys(sub)) {
					checkSchemaKeywords(sub[name], at+"/"+k+"/"+name, errs)
				}
			}
		case "items", "additionalProperties":
			checkSchemaKeywords(val, at+"/"+k, errs)
		case "format":
			if val != "email" {
				*errs = append(*errs, fmt.Errorf("%s: unsupported format %v", at, val))
			}
		}
	}
}

// ValidateJSON validates a raw JSON document against the schema registered
// under id.
//
// Rule violations are returned as *errors.BodyError. Malformed JSON and
// violations without a rule equivalent (type mismatches, unexpected
// properties) are answered with 400 as system failures.
func (v *Validator) ValidateJSON(ctx context.Context, id string, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.schemasMu.RLock()
	schema, ok := v.schemas[id]
	v.schemasMu.RUnlock()
	if !ok {
		return fmt.Errorf("validation: schema %q is not registered", id)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return apierrors.WithStatus(fmt.Errorf("malformed JSON: %w", err), http.StatusBadRequest)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	var (
		violations []fielderr.Violation
		unmapped   []string
	)
	v.collectSchemaErrors(doc, verr, &violations, &unmapped)
	if len(unmapped) > 0 {
		return apierrors.WithStatus(
			fmt.Errorf("request body does not match schema: %s", strings.Join(unmapped, "; ")),
			http.StatusBadRequest,
		)
	}

	return v.bodyError(violations)
}

// collectSchemaErrors flattens the leaves of the error tree.
func (v *Validator) collectSchemaErrors(doc any, verr *jsonschema.ValidationError, out *[]fielderr.Violation, unmapped *[]string) {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			v.collectSchemaErrors(doc, cause, out, unmapped)
		}
		return
	}

	keyword := ""
	if kp := verr.ErrorKind.KeywordPath(); len(kp) > 0 {
		keyword = kp[len(kp)-1]
	}
	text := verr.ErrorKind.LocalizedString(printer)
	field := instancePath(doc, verr.InstanceLocation)

	rule, ok := schemaRules[keyword]
	if f, isFormat := verr.ErrorKind.(*kind.Format); isFormat && f.Want != "email" {
		ok = false
	}
	if !ok {
		*unmapped = append(*unmapped, field+": "+text)
		return
	}

	if req, isRequired := verr.ErrorKind.(*kind.Required); isRequired {
		for _, name := range req.Missing {
			loc := append(slices.Clone(verr.InstanceLocation), name)
			*out = append(*out, fielderr.Violation{
				Field:   instancePath(doc, loc),
				Rule:    rule,
				Message: v.message(rule, "", reflect.Invalid),
			})
		}
		return
	}

	msg := text
	if custom, ok := v.cfg.messages[rule]; ok {
		msg = custom
	}
	*out = append(*out, fielderr.Violation{Field: field, Rule: rule, Message: msg})
}

// instancePath renders a JSON pointer into doc as a field identifier:
// ["nest", "list", "1"] becomes "nest.list[1]" and ["0", "name"] "[0].name".
// A token is an index only where doc holds an array; an object property
// named "2024" stays a property.
func instancePath(doc any, loc []string) string {
	var b strings.Builder
	node := doc
	for i, tok := range loc {
		if arr, isArray := node.([]any); isArray {
			b.WriteString("[" + tok + "]")
			node = nil
			if n, err := strconv.Atoi(tok); err == nil && n >= 0 && n < len(arr) {
				node = arr[n]
			}
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
		obj, _ := node.(map[string]any)
		node = obj[tok]
	}

	return b.String()
}
