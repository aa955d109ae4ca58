package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Code: 110, Message: "Invalid quickkey"}
	assert.Equal(t, "api: server error 110: Invalid quickkey", err.Error())
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Err: fmt.Errorf("dialing: %w", cause)}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transport failure")
}

func TestTransportError_StatusOnly(t *testing.T) {
	err := &TransportError{Status: 503}
	assert.Equal(t, "api: unexpected HTTP status 503", err.Error())
}

func TestUploadFileError_KnownAndUnknownCodes(t *testing.T) {
	known := &UploadFileError{Code: "7"}
	assert.Contains(t, known.Error(), "storage limit exceeded")

	unknown := &UploadFileError{Code: "999"}
	assert.Contains(t, unknown.Error(), "unknown file error")
	assert.Contains(t, unknown.Error(), "999")
}
