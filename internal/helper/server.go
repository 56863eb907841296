// Package helper implements the backtick helper process: a Unix domain
// socket server that lists editor windows in most-recently-used order and
// raises them on request.
package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
	"github.com/mj1618/backtick/internal/protocol"
)

// DefaultReadTimeout bounds how long a connection may take to send its request.
const DefaultReadTimeout = 5 * time.Second

// ErrAlreadyRunning is returned by Listen when another helper answers on the socket.
var ErrAlreadyRunning = errors.New("another helper is already running")

// Config holds helper settings.
type Config struct {
	SocketPath  string
	Editor      model.EditorFilter
	ReadTimeout time.Duration
	Version     string
}

// Server serves the helper protocol.
type Server struct {
	cfg      Config
	provider *platform.Provider
	logger   *zap.Logger

	listener net.Listener
	sockInfo os.FileInfo

	// mu guards order and serialises platform calls.
	mu    sync.Mutex
	order *model.Order

	wg           sync.WaitGroup
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// New creates a helper server. Call Listen, then Serve.
func New(cfg Config, provider *platform.Provider, logger *zap.Logger) *Server {
	if cfg.SocketPath == "" {
		cfg.SocketPath = protocol.DefaultSocketPath
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if len(cfg.Editor.OwnerNames) == 0 {
		cfg.Editor = model.DefaultEditorFilter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
		order:    model.NewOrder(),
		shutdown: make(chan struct{}),
	}
}

// Listen binds the socket. A stale socket left by a dead helper is
// replaced; a live one makes Listen fail with ErrAlreadyRunning.
func (s *Server) Listen() error {
	path := s.cfg.SocketPath
	if st, err := os.Lstat(path); err == nil {
		if st.Mode()&os.ModeSocket == 0 {
			return fmt.Errorf("socket path exists and is not a unix socket: %s", path)
		}
		if socketAnswers(path) {
			return fmt.Errorf("%w at %s", ErrAlreadyRunning, path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale socket: %w", err)
		}
		s.logger.Info("removed stale socket", zap.String("socket", path))
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat socket path: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}
	if ul, ok := ln.(*net.UnixListener); ok {
		ul.SetUnlinkOnClose(false)
	}
	s.sockInfo, _ = os.Lstat(path)
	s.listener = ln
	return nil
}

func socketAnswers(path string) bool {
	conn, err := net.DialTimeout("unix", path, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Serve accepts connections until ctx is cancelled or a shutdown command
// arrives, waits for in-flight requests, and removes the socket file.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("helper: Listen must be called before Serve")
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-s.shutdown:
		}
		s.listener.Close()
	}()

	s.logger.Info("helper started",
		zap.String("socket", s.cfg.SocketPath),
		zap.Int("pid", os.Getpid()))

	var serveErr error
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			serveErr = fmt.Errorf("accept: %w", err)
			s.listener.Close()
			break
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}

	s.wg.Wait()
	s.removeSocket()
	s.logger.Info("helper stopped")
	return serveErr
}

// removeSocket deletes the socket file unless another helper has since
// replaced it.
func (s *Server) removeSocket() {
	current, err := os.Lstat(s.cfg.SocketPath)
	if err != nil {
		return
	}
	if s.sockInfo != nil && !os.SameFile(s.sockInfo, current) {
		s.logger.Debug("socket replaced by another helper, leaving it")
		return
	}
	if err := os.Remove(s.cfg.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove socket", zap.Error(err))
	}
}

// Shutdown stops the accept loop. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()
	log := s.logger.With(zap.String("conn", uuid.NewString()))

	_ = conn.SetDeadline(time.Now().Add(s.cfg.ReadTimeout))

	buf := make([]byte, protocol.MaxMessageSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Debug("read request failed", zap.Error(err))
		return
	}
	if n == 0 {
		log.Debug("connection closed without a request")
		return
	}

	req, reply, shutdown := s.Handle(string(buf[:n]))

	if len(reply) >= protocol.MaxMessageSize {
		log.Warn("reply reaches the client read limit and will be reported as truncated",
			zap.String("command", req.Command),
			zap.Int("bytes", len(reply)))
	}
	if _, err := io.WriteString(conn, reply); err != nil {
		log.Warn("write reply failed", zap.String("command", req.Command), zap.Error(err))
	}

	log.Debug("handled request",
		zap.String("command", req.Command),
		zap.Int("request_bytes", n),
		zap.Int("reply_bytes", len(reply)),
		zap.Duration("elapsed", time.Since(start)))

	if shutdown {
		log.Info("shutdown requested")
		s.Shutdown()
	}
}
