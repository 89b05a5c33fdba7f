// Package simulator implements an in-process X engine bridge.
//
// The simulator answers the same HTTP requests as the engine's bridge
// (types V, U, F, D, P, T and C, selected by the "type" query field) from
// frames held in memory, so the client packages can be exercised end to
// end without a running engine. It backs the xbridge-sim command and the
// integration tests.
//
// # Streams
//
//   - V: key line, then "V <current> F<count>"
//   - U: key line, then one "U <n>" line per frame
//   - F: a named file; "Frame<N>.0" is the directory of frame N
//   - D: height, width, three 256-word tables, then the pixel block
//   - P: overlay records "Y X COLOR", one per line
//   - T: command response records (see Engine.Command)
//   - C: GIF snapshot
//
// Requests with a different session key get 403. The pixel block can be
// trickled out in chunks to reproduce a slow engine.
//
// # Usage Example
//
//	cfg := simulator.DefaultConfig()
//	cfg.Port = 0
//	srv, err := simulator.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Listen(); err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Serve(ctx)
//	fmt.Println("listening on", srv.Addr())
package simulator
