package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.April, 7)

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2025-04-07"` {
		t.Fatalf("marshal = %s, want \"2025-04-07\"", raw)
	}

	var parsed Date
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("round trip = %s, want %s", parsed, d)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"07-04-2025", "2025/04/07", "yesterday", "2025-13-01", ""} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) accepted invalid input", s)
		}
	}
}

func TestDateOfStripsTime(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	d := DateOf(time.Date(2025, time.April, 7, 22, 15, 3, 0, loc))
	if d.String() != "2025-04-07" {
		t.Errorf("DateOf = %s, want 2025-04-07", d)
	}
	if h, m, s := d.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("DateOf kept a time component: %02d:%02d:%02d", h, m, s)
	}
}
