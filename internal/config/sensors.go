package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muurk/framebridge/internal/protocol"
)

// SATANNOT record layout: fixed 80-byte records, no separators.
const (
	satannotRecord    = 80
	satannotNameLen   = 19
	satannotSensorOff = 29
	satannotSensorLen = 3

	// satannotMaxRecords caps how much of the file is scanned
	satannotMaxRecords = 200
)

// SensorTable maps sensor numbers to names.
type SensorTable map[int]string

// SensorName implements protocol.SensorNamer.
func (t SensorTable) SensorName(sensor int) string {
	return t[sensor]
}

// ReadSatannot parses a SATANNOT sensor annotation file. Spaces are removed
// from the name field; digits in the sensor field are weighted by position
// and any other byte is skipped. When a number repeats, the first record
// wins. A trailing partial record is ignored.
func ReadSatannot(r io.Reader) (SensorTable, error) {
	table := make(SensorTable)
	br := bufio.NewReader(r)
	rec := make([]byte, satannotRecord)

	for i := 0; i < satannotMaxRecords; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("read SATANNOT record %d: %w", i, err)
		}

		name := strings.ReplaceAll(string(rec[:satannotNameLen]), " ", "")
		sensor := 0
		weight := 100
		for _, c := range rec[satannotSensorOff : satannotSensorOff+satannotSensorLen] {
			if c >= '0' && c <= '9' {
				sensor += int(c-'0') * weight
			}
			weight /= 10
		}

		if _, seen := table[sensor]; !seen {
			table[sensor] = name
		}
	}
	return table, nil
}

// LoadSatannot reads a SATANNOT file from disk.
func LoadSatannot(path string) (SensorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sensor file: %w", err)
	}
	defer f.Close()
	return ReadSatannot(f)
}

// SensorNamer returns the name source used when decoding directories.
// Names set in the registry take precedence over the SATANNOT file.
func (r *Registry) SensorNamer() (protocol.SensorNamer, error) {
	if r.SensorFile == "" {
		return r, nil
	}
	table, err := LoadSatannot(r.SensorFile)
	if err != nil {
		return r, err
	}
	for sensor, name := range r.Sensors {
		table[sensor] = name
	}
	return table, nil
}
