// Package logging provides structured logging for the frame bridge.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the bridge client, the CLI and the simulator.
//
// # Log Levels
//
//   - Debug: request URLs, per-stage fetch timings, raw byte dumps
//   - Info: simulator traffic, discovery events
//   - Warn: failed fetches, skipped overlay records, retry exhaustion
//   - Error: startup failures
//
// # Structured Logging
//
//	logging.Warn("Overlay record skipped",
//	    zap.Int("frame", 3),
//	    zap.String("record", line),
//	)
//
// Domain helpers:
//
//	logging.LogRequest("open_data", url)
//	logging.LogFetch(frame, "pixels", elapsed, err)
//	logging.LogServed(remoteAddr, "D", frame, size)
//	logging.LogRawBytes("directory header", buf)
//
// # Configuration
//
// Logging is silent unless a level is given, either directly or through
// FRAMEBRIDGE_LOG_LEVEL:
//
//	if err := logging.InitializeWithOptions(logging.Options{
//	    Level: "debug",
//	    File:  "/var/log/xframe.log",
//	}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Without File, output goes to stdout in console format. With File, output
// is JSON and the file is rotated by size.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and
// SetLogger are not, and should run before any goroutines start.
package logging
