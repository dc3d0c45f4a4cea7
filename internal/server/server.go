package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	http3 "github.com/quic-go/quic-go/http3"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/goanalyzer/internal/logs"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP/1.1 listener.
const ShutdownTimeout = 5 * time.Second

// Config describes the listeners of a Server. HTTP/3 is enabled when
// HTTP3Addr is set; TLS must then be non-nil.
type Config struct {
	Addr      string
	HTTP3Addr string
	TLS       *tls.Config
	Logger    *slog.Logger
}

// Server serves the analyzer handler on TCP and, optionally, on QUIC.
type Server struct {
	cfg    Config
	logger *slog.Logger

	http1 *http.Server
	ln    net.Listener

	h3 *http3.Server
	pc net.PacketConn
}

// New creates a server. Call Listen before Serve.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logs.Discard()
	}
	s := &Server{cfg: cfg, logger: logger}
	handler := NewHandler(logger)

	if cfg.HTTP3Addr != "" {
		s.h3 = &http3.Server{Addr: cfg.HTTP3Addr, TLSConfig: cfg.TLS, Handler: handler}
		handler = s.advertiseHTTP3(handler)
	}
	s.http1 = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Listen binds the configured addresses. Ports of ":0" are resolved; use
// Addr and HTTP3Addr to read the bound addresses.
func (s *Server) Listen() error {
	if s.h3 != nil && s.cfg.TLS == nil {
		return errors.New("http3 listener requires a TLS config")
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen tcp %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln

	if s.h3 != nil {
		pc, err := net.ListenPacket("udp", s.cfg.HTTP3Addr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("listen udp %s: %w", s.cfg.HTTP3Addr, err)
		}
		s.pc = pc
	}
	return nil
}

// Addr returns the bound TCP address.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// HTTP3Addr returns the bound UDP address, or "" without HTTP/3.
func (s *Server) HTTP3Addr() string {
	if s.pc == nil {
		return ""
	}
	return s.pc.LocalAddr().String()
}

// Serve runs the listeners until ctx is cancelled or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		return errors.New("server is not listening")
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "proto", "http/1.1", "addr", s.Addr())
		if err := s.http1.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http/1.1: %w", err)
		}
		return nil
	})

	if s.h3 != nil {
		g.Go(func() error {
			s.logger.Info("listening", "proto", "h3", "addr", s.HTTP3Addr())
			err := s.h3.Serve(s.pc)
			if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("http3: %w", err)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		err := s.http1.Shutdown(shutdownCtx)
		if s.h3 != nil {
			err = errors.Join(err, s.h3.Close())
			_ = s.pc.Close()
		}
		return err
	})

	return g.Wait()
}

// Run listens on the configured addresses and serves until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	s := New(cfg)
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) advertiseHTTP3(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ProtoMajor < 3 {
			_ = s.h3.SetQUICHeaders(w.Header())
		}
		next.ServeHTTP(w, r)
	})
}

// HTTP3Client returns an http.Client using the HTTP/3 transport with the given TLS config.
func HTTP3Client(tlsCfg *tls.Config, timeout time.Duration) *http.Client {
	tr := &http3.Transport{TLSClientConfig: tlsCfg}
	return &http.Client{Transport: tr, Timeout: timeout}
}

// CloseHTTP3Client closes the client's QUIC transport if it has one.
func CloseHTTP3Client(c *http.Client) {
	if tr, ok := c.Transport.(*http3.Transport); ok {
		_ = tr.Close()
	}
}
