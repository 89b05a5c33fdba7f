// Package discovery finds X engine bridges on the local network with mDNS.
//
// Bridges advertise the "_xbridge._tcp" service type with a "version" TXT
// record carrying the request protocol version. Scanner browses for them and
// Register publishes one (the simulator uses it).
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for "_xbridge._tcp" advertisements
//  3. Drops entries without an address or with another protocol version
//  4. Returns the endpoints seen before the timeout expires
//
// # Usage Example
//
//	endpoints, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range endpoints {
//	    fmt.Println(e)
//	    transport := bridge.NewHTTPTransport(e.Info(key))
//	    ...
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
