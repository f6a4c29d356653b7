// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/creachadair/jfeed/ast"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"
)

// The fixture is written as JWCC for readability; it is standardized into
// plain JSON before being fed to the parser.
const testFixture = `
// A sample server configuration.
{
  "listen": ":8080",
  "debug": false,
  "limits": {
    "maxConns": 512,       // concurrent connections
    "timeout": 3.5,        // seconds
  },
  "origins": ["localhost", "example.com, really"],
  "fallback": null,
}
`

func mustStandardize(t *testing.T, input string) []byte {
	t.Helper()
	std, err := hujson.Standardize([]byte(input))
	if err != nil {
		t.Fatalf("Standardize fixture: %v", err)
	}
	return std
}

func TestParse(t *testing.T) {
	v, err := ast.Parse(mustStandardize(t, testFixture))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	obj, ok := v.(*ast.Object)
	if !ok {
		t.Fatalf("Root: got %T, want *ast.Object", v)
	}

	if m := obj.Find("listen"); m == nil {
		t.Error(`Missing "listen" member`)
	} else if got, want := m.Value, ast.String(":8080"); got != ast.Value(want) {
		t.Errorf("Listen: got %#v, want %#v", got, want)
	}

	if m := obj.Find("debug"); m == nil {
		t.Error(`Missing "debug" member`)
	} else if got := m.Value; got != ast.Value(ast.Bool(false)) {
		t.Errorf("Debug: got %#v, want false", got)
	}

	if m := obj.Find("limits"); m == nil {
		t.Error(`Missing "limits" member`)
	} else {
		lim := m.Value.(*ast.Object)
		if got := lim.Find("maxConns").Value.(ast.Integer).Int64(); got != 512 {
			t.Errorf("MaxConns: got %d, want 512", got)
		}
		if got := lim.Find("timeout").Value.(ast.Number).Float64(); got != 3.5 {
			t.Errorf("Timeout: got %v, want 3.5", got)
		}
	}

	if m := obj.Find("origins"); m == nil {
		t.Error(`Missing "origins" member`)
	} else {
		var got []string
		for _, v := range m.Value.(*ast.Array).Values {
			got = append(got, string(v.(ast.String)))
		}
		want := []string{"localhost", "example.com, really"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Origins: (-want, +got)\n%s", diff)
		}
	}

	if m := obj.Find("fallback"); m == nil {
		t.Error(`Missing "fallback" member`)
	} else if _, ok := m.Value.(ast.Null); !ok {
		t.Errorf("Fallback: got %T, want ast.Null", m.Value)
	}

	if m := obj.Find("nonesuch"); m != nil {
		t.Errorf("Find nonesuch: got %+v, want nil", m)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`-15`,
		`3.25e-5`,
		`"a \"quoted\" string"`,
		`""`,
		`{}`,
		`[]`,
		`[1,2.5,"three",null,{"a":[true]}]`,
		`{"x":{"y":{"z":[]}}}`,
	}
	for _, test := range tests {
		v, err := ast.Parse([]byte(test))
		if err != nil {
			t.Errorf("Input: %#q\nParse failed: %v", test, err)
			continue
		}
		if got := v.JSON(); got != test {
			t.Errorf("Input: %#q\nJSON: got %#q", test, got)
		}
	}
}

func TestParseReader(t *testing.T) {
	const input = `{"a": [1, {"b": "c"}], "d": true}`

	want, err := ast.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Reading one byte at a time forces a suspension at every boundary; the
	// resulting tree must not differ.
	got, err := ast.ParseReader(iotest.OneByteReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if diff := cmp.Diff(want.JSON(), got.JSON()); diff != "" {
		t.Errorf("Tree: (-want, +got)\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		`{"a":}`,
		`[1, 2`,
		`hogwash`,
		`{"dup" 1}`,
	}
	for _, test := range tests {
		if v, err := ast.Parse([]byte(test)); err == nil {
			t.Errorf("Input: %#q\nParse: got %+v, want error", test, v)
		}
	}
}

func TestNumericRange(t *testing.T) {
	v, err := ast.Parse([]byte(`[9223372036854775807, 9223372036854775808]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	vs := v.(*ast.Array).Values

	if got := vs[0].(ast.Integer).Int64(); got != 9223372036854775807 {
		t.Errorf("Int64: got %d, want max int64", got)
	}
	// One past max int64 does not fit, and the accessor panics.
	mtest.MustPanic(t, func() { vs[1].(ast.Integer).Int64() })
}

func TestDuplicateKeys(t *testing.T) {
	v, err := ast.Parse([]byte(`{"k": 1, "k": 2}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	obj := v.(*ast.Object)
	if n := len(obj.Members); n != 2 {
		t.Fatalf("Members: got %d, want 2", n)
	}
	// Find reports the first member with the key.
	if got := obj.Find("k").Value.(ast.Integer).Int64(); got != 1 {
		t.Errorf("Find k: got %d, want 1", got)
	}
}
