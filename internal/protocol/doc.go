// Package protocol implements the wire formats spoken by the X engine frame bridge.
//
// The engine exposes each frame buffer as a handful of byte streams. This
// package decodes them without knowing how the streams were opened.
//
// # Table and Pixel Stream
//
// A frame data request returns big-endian 32-bit words followed by raw bytes:
//
//	[height][width]
//	[stretch table: 256 words]
//	[color table:   256 words]
//	[graphics table: 256 words]
//	[height*width pixel bytes, bottom row first]
//
// The pixel bytes can trickle in slowly, so they are read with a bounded
// retry loop (see RetryPolicy and ReadFull).
//
// # Frame Directory Stream
//
// A frame directory is 64 header words, then a navigation block whose length
// depends on its first word:
//
//	nav[0] == "LALO"  ->  128 words, followed by an auxiliary block
//	otherwise         ->  640 words, no auxiliary block
//
// For LALO navigation the auxiliary block is nav[79]/4 + nav[65]*nav[66]
// words long. Its latitude grid starts at word nav[78]/4 and its longitude
// grid at word nav[79]/4.
//
// DecodeDirectory reads from any WordSource, so a live stream and an
// in-memory word slice go through exactly the same decoder:
//
//	dir, err := protocol.DecodeDirectory(protocol.NewStreamWords(body), names)
//	if err != nil {
//	    return err
//	}
//	if lalo, ok := dir.Nav.(*protocol.LaloNavigation); ok {
//	    fmt.Println(lalo.Rows, lalo.Cols, len(dir.LatitudeGrid()))
//	}
//
// # Graphics Stream
//
// Overlay graphics arrive as text, one "Y X COLOR" record per line.
// ReadRecords returns the raw lines and ParseOverlayRecord splits one of them.
//
// # Enhancement Tables
//
// NewEnhancementTable turns the stretch and color tables into a normalized
// RGB palette. Entries 1-17 come straight from the color table. Entries
// 18-255 are first remapped through the stretch table.
package protocol
