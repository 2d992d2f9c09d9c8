// internal/util/util_test.go
package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "exact length", in: "hello", max: 5, want: "hello"},
		{name: "truncated", in: "hello world", max: 5, want: "hello…"},
		{name: "multibyte runes", in: "héllo wörld", max: 7, want: "héllo w…"},
	}

	for _, tc := range tests {
		if got := TruncateRunes(tc.in, tc.max); got != tc.want {
			t.Fatalf("%s: TruncateRunes(%q, %d) = %q, want %q", tc.name, tc.in, tc.max, got, tc.want)
		}
	}
}
