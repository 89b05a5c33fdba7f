// Package browse is the interactive frame browser behind "xframe browse".
//
// The browser is a bubbletea program with two screens. The discovery
// screen scans the network for bridges and connects to the one picked.
// The frames screen lists the engine's frames and previews the selected
// one (image, graphics overlay and directory summary) through the frame
// session, so moving back to a frame already seen costs no requests.
//
// Keys on the frames screen:
//
//	↑/↓   select frame
//	enter have the engine show the frame ("SF n"), then refresh dirty frames
//	r     refetch every product of the selected frame
//	esc   back to discovery (only when started from a scan)
//	q     quit
package browse
