package branding

import "testing"

func TestComponentName(t *testing.T) {
	tests := []struct {
		component string
		want      string
	}{
		{"MCP", "Stakes.Space MCP"},
		{"  Ledger ", "Stakes.Space Ledger"},
		{"", "Stakes.Space"},
	}
	for _, tc := range tests {
		if got := ComponentName(tc.component); got != tc.want {
			t.Errorf("ComponentName(%q) = %q, want %q", tc.component, got, tc.want)
		}
	}
	if Version == "" {
		t.Fatal("expected a default version")
	}
}
