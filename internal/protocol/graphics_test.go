package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestParseOverlayRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    OverlayPoint
		wantErr bool
	}{
		{"simple", "10 20 3", OverlayPoint{Y: 10, X: 20, Color: 3}, false},
		{"extra whitespace", "  1\t  2   7 ", OverlayPoint{Y: 1, X: 2, Color: 7}, false},
		{"extra tokens", "5 6 7 8 9", OverlayPoint{Y: 5, X: 6, Color: 7}, false},
		{"negative", "-1 0 2", OverlayPoint{Y: -1, X: 0, Color: 2}, false},
		{"too few", "1 2", OverlayPoint{}, true},
		{"empty", "", OverlayPoint{}, true},
		{"not a number", "1 x 2", OverlayPoint{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverlayRecord(tt.line)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("ParseOverlayRecord(%q) error = %v, want ErrMalformed", tt.line, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOverlayRecord(%q) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseOverlayRecord(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("1 1 1\r\n2 2 2\n\n3 3 3"))
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}

	want := []string{"1 1 1", "2 2 2", "", "3 3 3"}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %q", len(records), len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %q, want %q", i, records[i], want[i])
		}
	}
}

func TestReadRecords_Empty(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("ReadRecords(\"\") = %#v, want empty non-nil slice", records)
	}
}
