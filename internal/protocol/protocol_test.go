package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Encode(t *testing.T) {
	assert.Equal(t, "getStatus", Request{Command: CmdGetStatus}.Encode())
	assert.Equal(t, `activateWindow:{"id":7}`, Request{Command: CmdActivateWindow, Payload: `{"id":7}`}.Encode())
}

func TestNewRequest_EncodesPayloadAsJSON(t *testing.T) {
	req, err := NewRequest(CmdGetWindows, map[string]string{"newWindowPosition": "top"})
	require.NoError(t, err)
	assert.Equal(t, `getWindows:{"newWindowPosition":"top"}`, req.Encode())

	req, err = NewRequest(CmdShutdown, nil)
	require.NoError(t, err)
	assert.Equal(t, "shutdown", req.Encode())
}

func TestNewRequest_UnencodablePayload(t *testing.T) {
	_, err := NewRequest(CmdGetWindows, make(chan int))
	assert.Error(t, err)
}

func TestParseRequest_SplitsOnFirstColon(t *testing.T) {
	req, err := ParseRequest(`getWindows:{"title":"a:b"}`)
	require.NoError(t, err)
	assert.Equal(t, CmdGetWindows, req.Command)
	assert.Equal(t, `{"title":"a:b"}`, req.Payload)
}

func TestParseRequest_NoPayload(t *testing.T) {
	req, err := ParseRequest("getStatus")
	require.NoError(t, err)
	assert.Equal(t, CmdGetStatus, req.Command)
	assert.Empty(t, req.Payload)
}

func TestParseRequest_Empty(t *testing.T) {
	_, err := ParseRequest("")
	assert.ErrorIs(t, err, ErrEmptyCommand)

	_, err = ParseRequest(":payload")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestParseRequest_RoundTripsEncode(t *testing.T) {
	original := Request{Command: CmdActivateWindow, Payload: `{"id":1}`}
	parsed, err := ParseRequest(original.Encode())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseResponse_OK(t *testing.T) {
	body, err := ParseResponse(`OK:{"hasAccessibilityPermission":true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"hasAccessibilityPermission":true}`, body)

	body, err = ParseResponse("OK:")
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestParseResponse_Error(t *testing.T) {
	_, err := ParseResponse("ERROR:Unknown command")
	var helperErr *HelperError
	require.True(t, errors.As(err, &helperErr))
	assert.Equal(t, "Unknown command", helperErr.Message)
}

func TestParseResponse_UnexpectedPrefix(t *testing.T) {
	for _, raw := range []string{"", "ok:lowercase", "WARN:something", `{"id":1}`} {
		_, err := ParseResponse(raw)
		assert.ErrorIs(t, err, ErrUnexpectedResponse, "raw=%q", raw)
	}
}

func TestParseResponse_FullBufferIsTruncated(t *testing.T) {
	raw := OK(strings.Repeat("x", MaxMessageSize-len("OK:")))
	require.Len(t, raw, MaxMessageSize)

	_, err := ParseResponse(raw)
	assert.ErrorIs(t, err, ErrTruncatedResponse)

	_, err = ParseResponse(raw[:MaxMessageSize-1])
	assert.NoError(t, err)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "OK:", OK(""))
	assert.Equal(t, "ERROR:Failed to activate window", Error("Failed to activate window"))
}
