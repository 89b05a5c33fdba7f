package bridge

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/framebridge/internal/protocol"
)

// ErrNotFetched is returned when frame data is read before any successful fetch
var ErrNotFetched = errors.New("frame data not fetched")

// Kind represents the category of error that occurred
type Kind int

const (
	// KindTransport indicates the engine could not be reached or refused the request
	KindTransport Kind = iota
	// KindMalformed indicates a stream ended early or held an unparseable record
	KindMalformed
	// KindRetryExhausted indicates the pixel read ran out of attempts
	KindRetryExhausted
	// KindNotFetched indicates data was read before a successful fetch
	KindNotFetched
)

// NetworkSubtype provides more specific transport error classification
type NetworkSubtype int

const (
	NetworkGeneral NetworkSubtype = iota
	NetworkTimeout
	NetworkConnectionRefused
	NetworkDNS
	NetworkHostUnreachable
	NetworkStatus
)

// String returns a human-readable name for the error kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "Transport Error"
	case KindMalformed:
		return "Malformed Stream"
	case KindRetryExhausted:
		return "Retry Exhausted"
	case KindNotFetched:
		return "Not Fetched"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error represents a failure talking to the engine or decoding its streams
type Error struct {
	Kind       Kind           // Category of error
	Op         string         // Operation that failed (e.g. "open_data", "pixels")
	Frame      int            // Frame number, 0 when not frame-specific
	StatusCode int            // HTTP status code (if applicable)
	Subtype    NetworkSubtype // More specific transport error type
	Err        error          // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Op)
	if e.Frame != 0 {
		fmt.Fprintf(&b, " frame %d", e.Frame)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err into an *Error. Protocol sentinels map to their kinds;
// anything else is treated as a transport failure. A nil err stays nil and
// an *Error passes through with Op and Frame filled in if unset.
func Wrap(op string, frame int, err error) error {
	if err == nil {
		return nil
	}

	var be *Error
	if errors.As(err, &be) {
		if be.Op == "" {
			be.Op = op
		}
		if be.Frame == 0 {
			be.Frame = frame
		}
		return be
	}

	switch {
	case errors.Is(err, ErrNotFetched):
		return &Error{Kind: KindNotFetched, Op: op, Frame: frame, Err: err}
	case errors.Is(err, protocol.ErrRetryExhausted):
		return &Error{Kind: KindRetryExhausted, Op: op, Frame: frame, Err: err}
	case errors.Is(err, protocol.ErrMalformed):
		return &Error{Kind: KindMalformed, Op: op, Frame: frame, Err: err}
	}
	return NewTransportError(op, frame, err)
}

// NewTransportError creates a transport error with automatic classification
func NewTransportError(op string, frame int, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Op:      op,
		Frame:   frame,
		Subtype: classifyNetwork(err),
		Err:     err,
	}
}

// NewStatusError creates a transport error for a non-200 engine response
func NewStatusError(op string, frame int, statusCode int) *Error {
	return &Error{
		Kind:       KindTransport,
		Op:         op,
		Frame:      frame,
		StatusCode: statusCode,
		Subtype:    NetworkStatus,
	}
}

// NewMalformedError creates a malformed-stream error
func NewMalformedError(op string, frame int, detail string) *Error {
	return &Error{
		Kind:  KindMalformed,
		Op:    op,
		Frame: frame,
		Err:   fmt.Errorf("%w: %s", protocol.ErrMalformed, detail),
	}
}

// classifyNetwork analyzes a transport error for a more specific subtype
func classifyNetwork(err error) NetworkSubtype {
	if err == nil {
		return NetworkGeneral
	}

	if os.IsTimeout(err) {
		return NetworkTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NetworkDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return NetworkConnectionRefused
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return NetworkHostUnreachable
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return classifyNetwork(urlErr.Err)
	}

	return NetworkGeneral
}

func kindOf(err error) (Kind, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTransport
}

// IsMalformed checks if an error is a malformed-stream error
func IsMalformed(err error) bool {
	if k, ok := kindOf(err); ok {
		return k == KindMalformed
	}
	return errors.Is(err, protocol.ErrMalformed)
}

// IsRetryExhausted checks if an error is a retry-exhaustion error
func IsRetryExhausted(err error) bool {
	if k, ok := kindOf(err); ok {
		return k == KindRetryExhausted
	}
	return errors.Is(err, protocol.ErrRetryExhausted)
}

// IsNotFetched checks if an error reports missing frame data
func IsNotFetched(err error) bool {
	if k, ok := kindOf(err); ok {
		return k == KindNotFetched
	}
	return errors.Is(err, ErrNotFetched)
}

// Hint returns user-friendly troubleshooting advice for an error
func Hint(err error) string {
	var be *Error
	if !errors.As(err, &be) {
		return "An unexpected error occurred. Please try again."
	}

	switch be.Kind {
	case KindTransport:
		switch be.Subtype {
		case NetworkConnectionRefused:
			return strings.Join([]string{
				"The engine refused the connection.",
				"Troubleshooting:",
				"  • Check that the bridge is running on the engine host",
				"  • Verify the port number (default is 8080)",
			}, "\n")
		case NetworkTimeout:
			return strings.Join([]string{
				"The engine did not respond in time.",
				"Troubleshooting:",
				"  • The engine may be busy loading a frame",
				"  • Try increasing fetch.http_timeout_seconds",
			}, "\n")
		case NetworkDNS:
			return strings.Join([]string{
				"Could not resolve the engine hostname.",
				"Troubleshooting:",
				"  • Use the IP address instead of hostname",
				"  • Run 'xframe scan' to find bridges on the local network",
			}, "\n")
		case NetworkStatus:
			return fmt.Sprintf("The bridge answered with HTTP %d. Check the session key.", be.StatusCode)
		default:
			return strings.Join([]string{
				"Could not reach the engine.",
				"Troubleshooting:",
				"  • Verify the host and port",
				"  • Check your network connection",
			}, "\n")
		}

	case KindMalformed:
		return strings.Join([]string{
			"The engine sent an incomplete or unreadable stream.",
			"Troubleshooting:",
			"  • Check that the frame exists ('xframe frames')",
			"  • Retry the request; the frame may have been rewritten mid-read",
		}, "\n")

	case KindRetryExhausted:
		return strings.Join([]string{
			"The pixel data stopped arriving before the frame was complete.",
			"Troubleshooting:",
			"  • Raise fetch.retry_attempts or fetch.retry_delay_ms",
			"  • Check the engine load",
		}, "\n")

	case KindNotFetched:
		return "No frame data has been fetched yet."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
