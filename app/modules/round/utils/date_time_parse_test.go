package roundutil

import (
	"testing"
	"time"
)

func TestParseRoundDate(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	p := NewDateParser()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty is today", input: "", want: "2026-03-04"},
		{name: "iso date", input: "2026-04-18", want: "2026-04-18"},
		{name: "iso date with spaces", input: "  2026-04-18 ", want: "2026-04-18"},
		{name: "tomorrow", input: "tomorrow", want: "2026-03-05"},
		{name: "tomorrow mixed case", input: "Tomorrow 8am", want: "2026-03-05"},
		{name: "gibberish", input: "whenever suits", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseRoundDate(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRoundDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 30, 0, 0, time.FixedZone("AEDT", 11*3600))
	c := FixedClock(at)
	if !c.Now().Equal(at) {
		t.Fatalf("Now = %v", c.Now())
	}
	if c.NowUTC().Location() != time.UTC {
		t.Fatalf("NowUTC not in UTC")
	}
}
