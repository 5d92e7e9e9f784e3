// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer

	output := JSONOutput{}
	done, err := output.EmitJSON(&buffer, map[string]int{"nonce": 1})
	if done || err != nil || buffer.Len() != 0 {
		t.Errorf("without --json: done=%v err=%v wrote %q", done, err, buffer.String())
	}

	output.OutputJSON = true
	done, err = output.EmitJSON(&buffer, map[string]int{"nonce": 1})
	if !done || err != nil {
		t.Fatalf("with --json: done=%v err=%v", done, err)
	}
	if buffer.String() != "{\n  \"nonce\": 1\n}\n" {
		t.Errorf("output = %q", buffer.String())
	}

	buffer.Reset()
	var releases []string
	if _, err := output.EmitJSON(&buffer, releases); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("nil slice = %q, want []", buffer.String())
	}
}
