package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/logging"
)

const (
	// ServiceType is the mDNS service type engine bridges advertise
	ServiceType = "_xbridge._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 8080
)

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for bridge discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all bridges on the local network until the timeout
// expires or ctx is done.
func (s *Scanner) Scan(ctx context.Context) ([]*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu        sync.Mutex
		endpoints = make([]*Endpoint, 0)
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if e := s.parseServiceEntry(entry); e != nil {
				logging.Debug("Bridge discovered", zap.String("endpoint", e.String()))
				mu.Lock()
				endpoints = append(endpoints, e)
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Endpoint(nil), endpoints...), nil
}

// WaitFor waits for a bridge advertising the given instance name
func (s *Scanner) WaitFor(ctx context.Context, instance string) (*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Endpoint, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			e := s.parseServiceEntry(entry)
			if e != nil && e.Instance == instance {
				found <- e
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case e := <-found:
		return e, nil
	case <-ctx.Done():
		// The goroutine may have sent just before cancel
		select {
		case e := <-found:
			return e, nil
		default:
		}
		return nil, fmt.Errorf("bridge %s not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to an Endpoint.
// Returns nil if the entry has no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Endpoint {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	// A bridge speaking another protocol version is not usable
	if v, ok := metadata["version"]; ok && v != bridge.ProtocolVersion {
		logging.Debug("Skipping bridge with unsupported version",
			zap.String("instance", entry.Instance),
			zap.String("version", v),
		)
		return nil
	}

	return &Endpoint{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Advertiser publishes a bridge on the local network.
type Advertiser struct {
	server *zeroconf.Server
}

// Register advertises a bridge instance on port. The protocol version is
// always added to the TXT records.
func Register(instance string, port int, txt ...string) (*Advertiser, error) {
	txt = append([]string{"version=" + bridge.ProtocolVersion}, txt...)
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Advertising bridge",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertiser) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

// Scan is a convenience function to scan for bridges with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Endpoint, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan(ctx context.Context) ([]*Endpoint, error) {
	return Scan(ctx, 3*time.Second)
}
