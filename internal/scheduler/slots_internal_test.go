package scheduler

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"nope", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := parseClock(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseClock(%q) expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClock(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseClock(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAddMinutes(t *testing.T) {
	got, err := addMinutes("09:30", 45)
	if err != nil {
		t.Fatalf("addMinutes: %v", err)
	}
	if got != "10:15" {
		t.Fatalf("addMinutes = %q, want 10:15", got)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"10:00", "10:30", "10:15", "10:45", true},
		{"10:00", "10:30", "09:45", "10:15", true},
		{"10:00", "10:30", "10:00", "10:30", true},
		{"10:00", "10:30", "10:30", "11:00", false}, // back to back
		{"10:00", "10:30", "09:30", "10:00", false},
		{"10:00", "11:00", "10:15", "10:45", true}, // containment
	}
	for _, c := range cases {
		if got := overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
			t.Errorf("overlaps(%s-%s, %s-%s) = %v, want %v", c.aStart, c.aEnd, c.bStart, c.bEnd, got, c.want)
		}
	}
}
