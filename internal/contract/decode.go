package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// DecodeError reports a parameter bag that is not valid JSON for its schema
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "invalid parameters: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode unmarshals the raw parameters of a mode into a fresh parameter
// bag. Unknown fields are rejected. The result still needs Validate.
func Decode(f Family, m Mode, raw json.RawMessage) (any, error) {
	params, err := NewParams(f, m)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := checkFieldNames(raw, params); err != nil {
		return nil, &DecodeError{Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(params); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if dec.More() {
		return nil, &DecodeError{Err: fmt.Errorf("unexpected data after parameters")}
	}
	return params, nil
}

// checkFieldNames rejects keys that only match a field case-insensitively.
// encoding/json would accept "CityId" for CityID.
func checkFieldNames(raw json.RawMessage, params any) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		// not an object; the decoder reports the type error
		return nil
	}
	names := fieldNames(reflect.TypeOf(params).Elem())
	for k := range keys {
		if _, ok := names[k]; !ok {
			return fmt.Errorf("json: unknown field %q", k)
		}
	}
	return nil
}

func fieldNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			for n := range fieldNames(f.Type) {
				names[n] = struct{}{}
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}
	return names
}
