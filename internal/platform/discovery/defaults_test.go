package discovery

import "testing"

func TestAddr(t *testing.T) {
	tests := []struct {
		service    string
		protocol   Protocol
		wantDial   string
		wantListen string
	}{
		{ServiceLedger, GRPC, "ledger:8082", ":8082"},
		{ServiceLedger, HTTP, "ledger:9092", ":9092"},
		{" mcp ", HTTP, "mcp:8085", ":8085"},
		{ServiceMCP, GRPC, "", ""},
		{"web", HTTP, "", ""},
		{ServiceLedger, Protocol(9), "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.service+"/"+tc.protocol.String(), func(t *testing.T) {
			if got := Addr(tc.service, tc.protocol); got != tc.wantDial {
				t.Errorf("Addr = %q, want %q", got, tc.wantDial)
			}
			if got := ListenAddr(tc.service, tc.protocol); got != tc.wantListen {
				t.Errorf("ListenAddr = %q, want %q", got, tc.wantListen)
			}
		})
	}
}

func TestOrDefault(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{" custom:9000 ", "custom:9000"},
		{"", "ledger:8082"},
		{"   ", "ledger:8082"},
	}
	for _, tc := range tests {
		if got := OrDefault(tc.value, ServiceLedger, GRPC); got != tc.want {
			t.Errorf("OrDefault(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
