// Package client talks to the backtick helper over its Unix domain socket.
//
// Every call opens its own connection, writes one request, half-closes the
// write side and reads the reply until the helper closes the connection or
// protocol.MaxMessageSize bytes arrive.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/protocol"
)

// DefaultTimeout bounds a round-trip when none is configured.
const DefaultTimeout = 5 * time.Second

// ErrHelperNotRunning is returned when nothing is listening on the socket.
var ErrHelperNotRunning = errors.New("helper is not running")

// Client sends commands to the helper.
type Client struct {
	socketPath string
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each round-trip. Zero disables the client-side bound,
// leaving only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a client for the helper listening at socketPath.
func New(socketPath string, opts ...Option) *Client {
	c := &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SocketPath returns the socket this client connects to.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Roundtrip sends req and returns the raw, uninterpreted reply.
func (c *Client) Roundtrip(ctx context.Context, req protocol.Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		if errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED) {
			return "", fmt.Errorf("%w at %s", ErrHelperNotRunning, c.socketPath)
		}
		return "", fmt.Errorf("connect to helper at %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := io.WriteString(conn, req.Encode()); err != nil {
		return "", c.ioError(ctx, "send "+req.Command, err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}

	buf := make([]byte, protocol.MaxMessageSize)
	n, err := io.ReadFull(conn, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", c.ioError(ctx, "read "+req.Command+" response", err)
	}

	c.logger.Debug("helper round-trip",
		zap.String("command", req.Command),
		zap.Int("request_bytes", len(req.Encode())),
		zap.Int("response_bytes", n),
		zap.Duration("elapsed", time.Since(start)))

	return string(buf[:n]), nil
}

func (c *Client) ioError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	// The connection deadline mirrors the context deadline and can fire
	// before the context itself reports expiry.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
			return fmt.Errorf("%s: %w", op, context.DeadlineExceeded)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Send encodes payload as JSON (nil for none), performs the round-trip and
// returns the body of an OK: reply. ERROR: replies surface as
// *protocol.HelperError; other replies as protocol.ErrUnexpectedResponse.
func (c *Client) Send(ctx context.Context, command string, payload interface{}) (string, error) {
	req, err := protocol.NewRequest(command, payload)
	if err != nil {
		return "", err
	}
	return c.SendRaw(ctx, req)
}

// SendRaw is Send for a request whose payload is already encoded.
func (c *Client) SendRaw(ctx context.Context, req protocol.Request) (string, error) {
	raw, err := c.Roundtrip(ctx, req)
	if err != nil {
		return "", err
	}
	body, err := protocol.ParseResponse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", req.Command, err)
	}
	return body, nil
}

// GetStatus asks the helper for its status.
func (c *Client) GetStatus(ctx context.Context) (model.Status, error) {
	var status model.Status
	body, err := c.Send(ctx, protocol.CmdGetStatus, nil)
	if err != nil {
		return status, err
	}
	if err := json.Unmarshal([]byte(body), &status); err != nil {
		return status, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}

// Ping reports whether a helper answers on the socket.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.GetStatus(ctx)
	return err == nil
}

// RequestPermission asks the helper to show the accessibility prompt.
func (c *Client) RequestPermission(ctx context.Context) error {
	_, err := c.Send(ctx, protocol.CmdRequestPermission, nil)
	return err
}

// GetWindows returns editor windows in most-recently-used order.
func (c *Client) GetWindows(ctx context.Context, req model.GetWindowsRequest) ([]model.WindowInfo, error) {
	body, err := c.Send(ctx, protocol.CmdGetWindows, req)
	if err != nil {
		return nil, err
	}
	return DecodeWindows(body)
}

// ActivateWindow asks the helper to raise window id.
func (c *Client) ActivateWindow(ctx context.Context, id int) error {
	_, err := c.Send(ctx, protocol.CmdActivateWindow, model.ActivateWindowRequest{ID: id})
	return err
}

// Shutdown asks the helper to exit.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.Send(ctx, protocol.CmdShutdown, nil)
	return err
}

var requiredWindowKeys = []string{"id", "title", "isCurrentlyActive"}

// DecodeWindows parses a getWindows body. Every element must carry id,
// title and isCurrentlyActive.
func DecodeWindows(body string) ([]model.WindowInfo, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decode windows: %w", err)
	}
	for i, entry := range raw {
		for _, key := range requiredWindowKeys {
			if _, ok := entry[key]; !ok {
				return nil, fmt.Errorf("decode windows: element %d is missing %q", i, key)
			}
		}
	}

	windows := make([]model.WindowInfo, 0, len(raw))
	if err := json.Unmarshal([]byte(body), &windows); err != nil {
		return nil, fmt.Errorf("decode windows: %w", err)
	}
	return windows, nil
}
