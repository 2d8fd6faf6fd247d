package pagination

import (
	"encoding/base64"
	"testing"
)

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 50, Max: 200}
	tests := []struct {
		in   int32
		want int
	}{
		{in: 0, want: 50},
		{in: -3, want: 50},
		{in: 10, want: 10},
		{in: 500, want: 200},
	}
	for _, tt := range tests {
		if got := ClampPageSize(tt.in, cfg); got != tt.want {
			t.Fatalf("ClampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("zero config page size = %d, want 1", got)
	}
}

func TestNormalizeOrderBy(t *testing.T) {
	cfg := OrderByConfig{Default: "id", Allowed: []string{"id"}}
	for _, in := range []string{"", "id", " ID ", "id asc", "id  ASC"} {
		got, err := NormalizeOrderBy(in, cfg)
		if err != nil || got != "id" {
			t.Fatalf("NormalizeOrderBy(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"stake", "id desc"} {
		if _, err := NormalizeOrderBy(in, cfg); err == nil {
			t.Fatalf("NormalizeOrderBy(%q) expected error", in)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor(42)
	id, err := DecodeCursor(token)
	if err != nil || id != 42 {
		t.Fatalf("DecodeCursor = %d, %v", id, err)
	}
	if id, err := DecodeCursor(" "); err != nil || id != 0 {
		t.Fatalf("empty token = %d, %v", id, err)
	}
	for _, bad := range []string{"abc", "!!", raw("before:3"), raw("after:x")} {
		if _, err := DecodeCursor(bad); err == nil {
			t.Fatalf("DecodeCursor(%q) expected error", bad)
		}
	}
}

func raw(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value))
}
