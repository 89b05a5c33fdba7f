package bridge

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/logging"
)

// Record types found in a command response
const (
	RecordText    = "T" // command output
	RecordEcho    = "C" // echo of the command line
	RecordMessage = "M" // error message
	RecordSevere  = "S" // severe error
	RecordRefused = "R" // command rejected
	RecordView    = "V" // frame now displayed
	RecordStatus  = "U" // per-frame dirty status
	RecordHeader  = "H"
	RecordKey     = "K"
)

// textColumn is where the text of T, C, M, S and R records starts
const textColumn = 6

// FrameStatus is the dirty state the engine reports for one frame after a
// command.
type FrameStatus struct {
	Frame      int  `yaml:"frame"`
	Image      bool `yaml:"image"`
	Graphics   bool `yaml:"graphics"`
	ColorTable bool `yaml:"color_table"`
}

// Dirty reports whether anything in the frame changed
func (s FrameStatus) Dirty() bool {
	return s.Image || s.Graphics || s.ColorTable
}

// CommandResult is a parsed command response.
type CommandResult struct {
	Current int // frame shown after the command, -1 when not reported
	Text    []string
	Echo    []string
	Errors  []string
	Status  []FrameStatus
}

// ParseCommandResponse classifies the records of a command response. The
// first line echoes the session key and is skipped. Records of an unknown
// type are logged and skipped.
func ParseCommandResponse(lines []string) (*CommandResult, error) {
	res := &CommandResult{Current: -1}
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case RecordText:
			res.Text = append(res.Text, recordText(line))
		case RecordEcho:
			res.Echo = append(res.Echo, recordText(line))
		case RecordMessage, RecordSevere, RecordRefused:
			res.Errors = append(res.Errors, recordText(line))
		case RecordView:
			if len(fields) < 2 {
				return nil, NewMalformedError("command", 0, "short V record")
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, NewMalformedError("command", 0, err.Error())
			}
			res.Current = n
		case RecordStatus:
			st, err := parseStatus(fields)
			if err != nil {
				return nil, err
			}
			res.Status = append(res.Status, st)
		case RecordHeader, RecordKey:
		default:
			logging.Warn("Could not parse bridge response", zap.String("line", line))
		}
	}
	return res, nil
}

func recordText(line string) string {
	if len(line) <= textColumn {
		return ""
	}
	return line[textColumn:]
}

// parseStatus reads "U <frame> <flags>"; characters 1, 3 and 5 of flags
// are the image, graphics and color table digits.
func parseStatus(fields []string) (FrameStatus, error) {
	if len(fields) < 3 || len(fields[2]) < 6 {
		return FrameStatus{}, NewMalformedError("command", 0, "short U record")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return FrameStatus{}, NewMalformedError("command", 0, err.Error())
	}
	flags := fields[2]
	return FrameStatus{
		Frame:      n,
		Image:      flags[1] != '0',
		Graphics:   flags[3] != '0',
		ColorTable: flags[5] != '0',
	}, nil
}

// Run executes a command line and parses the response
func (t *HTTPTransport) Run(ctx context.Context, line string, frame int) (*CommandResult, error) {
	lines, err := t.Command(ctx, line, frame)
	if err != nil {
		return nil, err
	}
	res, err := ParseCommandResponse(lines)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		logging.Warn("Engine reported errors",
			zap.String("command", line),
			zap.Strings("errors", res.Errors),
		)
	}
	return res, nil
}
