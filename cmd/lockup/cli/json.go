// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"reflect"
)

// JSONOutput adds a --json flag to an embedding params struct. Run
// handlers try EmitJSON first and fall through to text when it reports
// nothing was written:
//
//	if done, err := params.EmitJSON(stdout, status); done {
//	    return err
//	}
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result to w as indented JSON when --json was given.
// The bool reports whether the caller is done with output.
func (j *JSONOutput) EmitJSON(w io.Writer, result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return true, encoder.Encode(emptyIfNil(result))
}

// emptyIfNil turns a nil slice into an empty one of the same type so
// lists encode as [] rather than null.
func emptyIfNil(result any) any {
	value := reflect.ValueOf(result)
	if value.Kind() != reflect.Slice || !value.IsNil() {
		return result
	}
	return reflect.MakeSlice(value.Type(), 0, 0).Interface()
}
