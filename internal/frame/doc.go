// Package frame fetches, decodes and caches the frames of an X engine.
//
// A Client runs the fetch-decode cycle for one frame and keeps its decoded
// tables and pixels until told to refresh. A Frame wraps a Client with
// per-product caches and produces display-ready products: a top-first
// raster, a composited overlay and a palette. A Session keeps a bounded
// set of Frames for one connection and can refresh several concurrently.
//
// Cached products are only replaced when the caller asks for it, either
// with a refresh argument on an accessor or with DirtyFlags on Refresh.
// A failed fetch never leaves stale data behind: the next access goes back
// to the engine.
//
//	s, _ := frame.NewSession(info, transport, 16)
//	snap, err := s.Frame(3).Refresh(ctx, frame.DirtyFlags{Image: true})
package frame
