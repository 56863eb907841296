// Package protocol implements the text envelope spoken between backtick and
// its helper process over a Unix domain socket.
//
// A request is a single write of "COMMAND" or "COMMAND:PAYLOAD", where
// PAYLOAD is a JSON document. A response is a single message prefixed with
// "OK:" (the remainder is the payload) or "ERROR:" (the remainder is a
// human-readable message). Neither side frames messages; the helper closes
// the connection after replying, and both sides read at most
// MaxMessageSize bytes.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultSocketPath is where the helper listens unless configured otherwise.
const DefaultSocketPath = "/tmp/backtick-plus-plus-helper.sock"

// MaxMessageSize bounds a single request or response read.
const MaxMessageSize = 4096

// Command names understood by the helper.
const (
	CmdGetStatus         = "getStatus"
	CmdRequestPermission = "requestPermission"
	CmdGetWindows        = "getWindows"
	CmdActivateWindow    = "activateWindow"
	CmdShutdown          = "shutdown"
)

// Commands lists every command the helper understands.
var Commands = []string{
	CmdGetStatus,
	CmdRequestPermission,
	CmdGetWindows,
	CmdActivateWindow,
	CmdShutdown,
}

const (
	okPrefix    = "OK:"
	errorPrefix = "ERROR:"
)

var (
	// ErrUnexpectedResponse is returned for replies that are neither OK: nor ERROR:.
	ErrUnexpectedResponse = errors.New("unexpected response from helper")

	// ErrTruncatedResponse is returned when a reply fills the read buffer,
	// so there is no way to tell whether the helper sent more.
	ErrTruncatedResponse = errors.New("helper response may be truncated")

	// ErrEmptyCommand is returned when a request has no command name.
	ErrEmptyCommand = errors.New("empty command")
)

// HelperError is a failure reported by the helper with an ERROR: reply.
type HelperError struct {
	Message string
}

func (e *HelperError) Error() string {
	return "helper: " + e.Message
}

// Request is one command sent to the helper.
type Request struct {
	Command string
	Payload string
}

// NewRequest builds a request whose payload is v encoded as JSON.
// A nil v produces a request without payload.
func NewRequest(command string, v interface{}) (Request, error) {
	req := Request{Command: command}
	if v == nil {
		return req, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Request{}, fmt.Errorf("encode %s payload: %w", command, err)
	}
	req.Payload = string(data)
	return req, nil
}

// Encode returns the wire form of the request.
func (r Request) Encode() string {
	if r.Payload == "" {
		return r.Command
	}
	return r.Command + ":" + r.Payload
}

// ParseRequest splits a raw request on its first colon. Everything after
// that colon is the payload, which may itself contain colons.
func ParseRequest(raw string) (Request, error) {
	command, payload, _ := strings.Cut(raw, ":")
	if command == "" {
		return Request{}, ErrEmptyCommand
	}
	return Request{Command: command, Payload: payload}, nil
}

// OK formats a success reply.
func OK(body string) string {
	return okPrefix + body
}

// Error formats a failure reply.
func Error(message string) string {
	return errorPrefix + message
}

// ParseResponse interprets a raw reply. It returns the payload of an OK:
// reply, a *HelperError for an ERROR: reply, and ErrUnexpectedResponse for
// anything else. A reply that reaches MaxMessageSize is rejected with
// ErrTruncatedResponse, whatever its prefix.
func ParseResponse(raw string) (string, error) {
	if len(raw) >= MaxMessageSize {
		return "", fmt.Errorf("%w: received %d bytes", ErrTruncatedResponse, len(raw))
	}
	switch {
	case strings.HasPrefix(raw, okPrefix):
		return raw[len(okPrefix):], nil
	case strings.HasPrefix(raw, errorPrefix):
		return "", &HelperError{Message: raw[len(errorPrefix):]}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnexpectedResponse, abbreviate(raw, 64))
	}
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
