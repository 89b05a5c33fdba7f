package simulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/discovery"
	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/metrics"
)

// Config holds the simulator configuration
type Config struct {
	Host   string
	Port   int // 0 picks a free port
	Key    string
	Frames int // synthetic frames to create, numbered from 1
	Height int
	Width  int

	// ChunkSize and ChunkDelay slow down the pixel block (see Handler)
	ChunkSize  int
	ChunkDelay time.Duration

	// Advertise publishes the simulator over mDNS as Instance
	Advertise bool
	Instance  string
}

// DefaultConfig returns a four-frame 480x640 simulator on port 8080
func DefaultConfig() *Config {
	return &Config{
		Host:     "0.0.0.0",
		Port:     8080,
		Frames:   4,
		Height:   480,
		Width:    640,
		Instance: "xbridge-sim",
	}
}

// Server runs the simulated engine over HTTP
type Server struct {
	config     *Config
	engine     *Engine
	handler    *Handler
	httpServer *http.Server
	listener   net.Listener
	advertiser *discovery.Advertiser
}

// New creates a Server with synthetic frames
func New(config *Config) (*Server, error) {
	if config.Height <= 0 || config.Width <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", config.Height, config.Width)
	}

	engine := NewEngine(config.Key)
	now := time.Now().UTC()
	for n := 1; n <= config.Frames; n++ {
		engine.AddFrame(SyntheticFrame(n, config.Height, config.Width, now))
	}

	handler := NewHandler(engine)
	handler.ChunkSize = config.ChunkSize
	handler.ChunkDelay = config.ChunkDelay

	metrics.RegisterMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler)

	return &Server{
		config:     config,
		engine:     engine,
		handler:    handler,
		httpServer: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}, nil
}

// Engine returns the simulated engine
func (s *Server) Engine() *Engine { return s.engine }

// Listen binds the listening socket
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve answers requests until ctx is done, then shuts down
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Starting X engine simulator",
		zap.String("addr", s.listener.Addr().String()),
		zap.Int("frames", s.config.Frames),
		zap.Int("height", s.config.Height),
		zap.Int("width", s.config.Width),
	)

	if s.config.Advertise {
		port := s.listener.Addr().(*net.TCPAddr).Port
		adv, err := discovery.Register(s.config.Instance, port, fmt.Sprintf("frames=%d", s.config.Frames))
		if err != nil {
			logging.Warn("mDNS advertising disabled", zap.Error(err))
		} else {
			s.advertiser = adv
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping simulator...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Start serves until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down simulator...")

	s.advertiser.Shutdown()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	}

	logging.Sync()
	return nil
}
