package symbols

import "testing"

func TestLookupType(t *testing.T) {
	cases := []struct {
		name string
		want *TypeSymbol
	}{
		{"Boolean", Boolean},
		{"Integer", Integer},
		{"String", String},
		{"Void", nil},
		{"?", nil},
		{"string", nil},
	}
	for _, tc := range cases {
		got, ok := LookupType(tc.name)
		if tc.want == nil {
			if ok {
				t.Fatalf("LookupType(%q) unexpectedly resolved to %s", tc.name, got)
			}
			continue
		}
		if !ok || got != tc.want {
			t.Fatalf("LookupType(%q) = %v, %v", tc.name, got, ok)
		}
	}
}

func TestBuiltinSignatures(t *testing.T) {
	want := map[string]string{
		"N":      "N(lineNumber: Integer) -> Integer",
		"print":  "print(text: String) -> Void",
		"random": "random(maximum: Integer) -> Integer",
		"read":   "read() -> String",
		"U":      "U(codePoint: Integer) -> String",
	}
	if len(Builtins()) != len(want) {
		t.Fatalf("expected %d builtins, got %d", len(want), len(Builtins()))
	}
	for name, sig := range want {
		fn, ok := LookupBuiltin(name)
		if !ok {
			t.Fatalf("builtin %s missing", name)
		}
		if fn.String() != sig {
			t.Fatalf("builtin %s signature = %q, want %q", name, fn.String(), sig)
		}
	}
	if _, ok := LookupBuiltin("printf"); ok {
		t.Fatalf("unexpected builtin printf")
	}
}
