// Package domain describes the five resource kinds served by the API: their
// tables, columns, payload validation and per-field normalization.
//
// Each kind contributes one Definition. The transport and the semantics
// engine are generic; everything kind-specific funnels through here.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/investcrm/internal/resource"
)

// ErrValidation marks a payload that failed type, format or constraint
// checks. The transport maps it to 422 and never touches the store.
var ErrValidation = errors.New("validation failed")

// invalidf builds a field-level validation error.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Definition binds one resource kind to its table and payload rules.
type Definition struct {
	// Collection is the URL path segment, e.g. "users".
	Collection string
	// Table is the backing table name.
	Table string
	// Columns lists the non-id columns in schema order.
	Columns []string
	// RefColumns lists foreign-key-like columns withheld from bulk writes.
	RefColumns []string

	// DecodeFull parses a full-replace payload: every required field must
	// be present and non-null, optional fields default to null.
	DecodeFull func(body []byte) (resource.Fields, error)
	// DecodePatch parses a partial-update payload: only present keys are
	// returned, and at least one of them must be non-null.
	DecodePatch func(body []byte) (resource.Fields, error)
}

// Definitions returns every resource kind in registration order.
func Definitions() []Definition {
	return []Definition{
		Users(),
		Addresses(),
		Decisions(),
		Supports(),
		Projects(),
	}
}

// payload is a strictly-parsed JSON object. It keeps raw messages per key
// so decoding can distinguish absent keys from explicit nulls (PATCH
// semantics ignore the former and write the latter).
type payload struct {
	raw map[string]json.RawMessage
}

// parsePayload decodes body as a JSON object and rejects unknown keys.
func parsePayload(body []byte, columns []string) (*payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed JSON body: %w", err)
	}

	allowed := make(map[string]bool, len(columns))
	for _, c := range columns {
		allowed[c] = true
	}
	for key := range raw {
		if !allowed[key] {
			return nil, invalidf("unknown field %q", key)
		}
	}
	return &payload{raw: raw}, nil
}

func isNull(msg json.RawMessage) bool {
	return string(bytes.TrimSpace(msg)) == "null"
}

// str returns the string value for key. The pointer is nil for an explicit
// null; set is false when the key is absent. Strings are whitespace-trimmed.
func (p *payload) str(key string) (v *string, set bool, err error) {
	msg, ok := p.raw[key]
	if !ok {
		return nil, false, nil
	}
	if isNull(msg) {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return nil, true, invalidf("%s must be a string", key)
	}
	s = strings.TrimSpace(s)
	return &s, true, nil
}

// integer returns the int64 value for key, with the same tri-state shape
// as str. Fractional numbers are rejected.
func (p *payload) integer(key string) (v *int64, set bool, err error) {
	msg, ok := p.raw[key]
	if !ok {
		return nil, false, nil
	}
	if isNull(msg) {
		return nil, true, nil
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err != nil {
		return nil, true, invalidf("%s must be an integer", key)
	}
	i, err := n.Int64()
	if err != nil {
		return nil, true, invalidf("%s must be an integer", key)
	}
	return &i, true, nil
}

// number returns the float64 value for key, tri-state as above.
func (p *payload) number(key string) (v *float64, set bool, err error) {
	msg, ok := p.raw[key]
	if !ok {
		return nil, false, nil
	}
	if isNull(msg) {
		return nil, true, nil
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err != nil {
		return nil, true, invalidf("%s must be a number", key)
	}
	f, err := n.Float64()
	if err != nil {
		return nil, true, invalidf("%s must be a number", key)
	}
	return &f, true, nil
}

// fieldSet accumulates decoded fields in column order and tracks whether
// any present field carries a non-null value (the patch contract).
type fieldSet struct {
	fields  resource.Fields
	nonNull bool
}

func (fs *fieldSet) add(column string, value any) {
	fs.fields = append(fs.fields, resource.Field{Column: column, Value: value})
	if value != nil {
		fs.nonNull = true
	}
}

func (fs *fieldSet) addString(column string, v *string) {
	if v == nil {
		fs.add(column, nil)
		return
	}
	fs.add(column, *v)
}

func (fs *fieldSet) addInt(column string, v *int64) {
	if v == nil {
		fs.add(column, nil)
		return
	}
	fs.add(column, *v)
}

func (fs *fieldSet) addFloat(column string, v *float64) {
	if v == nil {
		fs.add(column, nil)
		return
	}
	fs.add(column, *v)
}

// finishPatch enforces the partial-update contract: at least one supplied
// field, and not all of them null. This runs before any store access.
func (fs *fieldSet) finishPatch() (resource.Fields, error) {
	if len(fs.fields) == 0 || !fs.nonNull {
		return nil, invalidf("at least one field must be set")
	}
	return fs.fields, nil
}
