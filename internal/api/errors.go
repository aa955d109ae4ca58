// Package api implements a client for the MediaFire REST API: the
// signed-request protocol built on a server-synchronized rotating secret,
// the two-phase asynchronous upload flow, and thin wrappers for the
// per-resource endpoints.
package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on.
// Use errors.Is(err, api.ErrAuthRequired) to check.
var (
	// ErrAuthRequired is returned when a signed call is attempted
	// without an active session. Only a fresh login clears it.
	ErrAuthRequired = errors.New("api: authentication required")

	// ErrUploadTimeout is returned when the upload poll budget is
	// exhausted before the server reports a terminal status.
	ErrUploadTimeout = errors.New("api: upload still processing after poll budget exhausted")

	// ErrNoUploadHandle is returned when an upload submit succeeds at the
	// envelope level but the response carries no key to poll with. The
	// upload cannot be confirmed, so this is fatal.
	ErrNoUploadHandle = errors.New("api: upload accepted but no upload handle received")
)

// APIError is a server-side rejection: the envelope parsed fine but
// result was "Error". Code and Message are the server's values verbatim.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: server error %d: %s", e.Code, e.Message)
}

// TransportError covers everything below the envelope: network failures,
// non-2xx HTTP statuses, and response bodies that do not parse.
type TransportError struct {
	Status int   // HTTP status, 0 when the request never completed
	Err    error // underlying cause, nil for bare status failures
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		if e.Status != 0 {
			return fmt.Sprintf("api: transport failure (HTTP %d): %v", e.Status, e.Err)
		}

		return fmt.Sprintf("api: transport failure: %v", e.Err)
	}

	return fmt.Sprintf("api: unexpected HTTP status %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UploadFileError is a file-level processing failure reported by the
// upload poll endpoint. It is terminal the moment it appears, regardless
// of what the status field says.
type UploadFileError struct {
	Code string
}

// fileErrorDescriptions maps poll fileerror codes to human-readable text.
// Codes not listed here are still fatal; they render as "unknown file error".
var fileErrorDescriptions = map[string]string{
	"1":  "file is larger than the maximum allowed size",
	"2":  "file size is invalid",
	"3":  "file hash does not match the declared hash",
	"4":  "hash or size mismatch with an existing file",
	"5":  "file name rejected",
	"6":  "destination folder does not exist",
	"7":  "account storage limit exceeded",
	"8":  "file was flagged and removed during processing",
	"9":  "file failed virus scan",
	"10": "file could not be assembled",
}

func (e *UploadFileError) Error() string {
	desc, ok := fileErrorDescriptions[e.Code]
	if !ok {
		desc = "unknown file error"
	}

	return fmt.Sprintf("api: upload failed with file error %s: %s", e.Code, desc)
}
