package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OverlayPoint is one decoded graphics record. Y and X are 1-based.
type OverlayPoint struct {
	Y     int
	X     int
	Color int
}

// ParseOverlayRecord splits a "Y X COLOR" line. Tokens past the third
// are ignored.
func ParseOverlayRecord(line string) (OverlayPoint, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return OverlayPoint{}, fmt.Errorf("%w: graphics record %q has %d fields, want 3", ErrMalformed, line, len(fields))
	}

	var vals [3]int
	for i := range vals {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return OverlayPoint{}, fmt.Errorf("%w: graphics record %q: %v", ErrMalformed, line, err)
		}
		vals[i] = v
	}
	return OverlayPoint{Y: vals[0], X: vals[1], Color: vals[2]}, nil
}

// ReadRecords returns every newline-delimited record in r, in order.
// Records are kept verbatim (trailing carriage returns removed).
func ReadRecords(r io.Reader) ([]string, error) {
	records := make([]string, 0)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		records = append(records, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return records, fmt.Errorf("failed to read graphics records: %w", err)
	}
	return records, nil
}
