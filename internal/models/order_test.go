package models

import (
	"encoding/json"
	"testing"
)

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{"", StatusPlaced, false}, // absent defaults to placed
		{"已下单", StatusPlaced, false},
		{"已完成", StatusCompleted, false},
		{"已结算", StatusSettled, false},
		{"shipped", "", true},
		{"placed", "", true},
	}
	for _, tc := range cases {
		got, err := ParseOrderStatus(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseOrderStatus(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseOrderStatus(%q) = (%q, %v), want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestOrderStatus_JSONRoundTrip(t *testing.T) {
	// The wire form is the storage form; nothing is translated on the way out.
	b, err := json.Marshal(Order{Status: StatusSettled})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var o Order
	if err := json.Unmarshal(b, &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.Status != StatusSettled {
		t.Fatalf("round trip changed status: %q", o.Status)
	}
}
