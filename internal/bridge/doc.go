// Package bridge connects to the X engine's HTTP bridge.
//
// Info holds the host, port and session key and builds request URLs from
// them. HTTPTransport issues those requests and hands back the raw
// response streams; decoding them is left to the protocol and frame
// packages.
//
// # Usage
//
//	info := bridge.NewInfoWith("engine.example.org", "8080", key)
//	tr := bridge.NewHTTPTransport(info)
//
//	current, err := tr.CurrentFrame(ctx)
//	if err != nil {
//	    fmt.Println(bridge.Hint(err))
//	    return err
//	}
//
//	body, err := tr.OpenData(ctx, current)
//	if err != nil {
//	    return err
//	}
//	defer body.Close()
//
// # Errors
//
// Failures are returned as *Error values carrying a Kind. Use
// IsTransportError, IsMalformed, IsRetryExhausted and IsNotFetched to
// classify them and Hint for user-facing advice.
package bridge
