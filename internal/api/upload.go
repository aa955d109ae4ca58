package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/text/unicode/norm"
)

const (
	// uploadStatusComplete is the poll status that ends the loop: the server
	// has finished processing and assigned a permanent quickkey.
	uploadStatusComplete = "99"

	defaultPollInterval    = 2 * time.Second
	defaultMaxPollAttempts = 30
)

// errUploadPending marks a poll attempt that saw a non-terminal status.
// Internal: it only ever surfaces translated to ErrUploadTimeout.
var errUploadPending = errors.New("upload still processing")

// UploadOptions controls a single upload. The zero value targets the
// account root with the default poll schedule.
type UploadOptions struct {
	// FolderKey is the destination folder; empty means the account root.
	FolderKey string

	// PollInterval is the fixed delay between poll attempts.
	PollInterval time.Duration

	// MaxPollAttempts bounds the confirmation loop. Exhausting it yields
	// ErrUploadTimeout; the bytes may still land eventually server-side.
	MaxPollAttempts int
}

func (o UploadOptions) pollInterval() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}

	return defaultPollInterval
}

func (o UploadOptions) maxPollAttempts() int {
	if o.MaxPollAttempts > 0 {
		return o.MaxPollAttempts
	}

	return defaultMaxPollAttempts
}

// UploadResult is the outcome of a confirmed upload.
type UploadResult struct {
	QuickKey string // permanent identifier
	Filename string // server-reported name, empty if not echoed back
	Size     int64  // server-reported size, 0 if not echoed back
}

// ContentHash returns the content-addressed hash the upload protocol
// declares for a payload: lowercase hex SHA-256 over the full bytes.
func ContentHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// uploadState tracks an upload job through its lifecycle, for logging.
type uploadState int

const (
	uploadSubmitted uploadState = iota
	uploadPolling
	uploadComplete
	uploadFailed
	uploadTimedOut
)

func (s uploadState) String() string {
	switch s {
	case uploadSubmitted:
		return "submitted"
	case uploadPolling:
		return "polling"
	case uploadComplete:
		return "complete"
	case uploadFailed:
		return "failed"
	case uploadTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// submitResponse is the payload of upload/simple.php. The upload handle
// lives under doupload.key.
type submitResponse struct {
	DoUpload struct {
		Result string `json:"result"`
		Key    string `json:"key"`
	} `json:"doupload"`
}

// pollResponse is the payload of upload/poll_upload.php.
//
// Two fields have deployment-dependent names; the decode below applies an
// explicit fallback order, part of the wire contract:
//
//	permanent identifier: "quickkey", then "key"
//	server filename:      "filename", then "name"
type pollResponse struct {
	DoUpload struct {
		Result      string `json:"result"`
		Status      string `json:"status"`
		Description string `json:"description"`
		FileError   string `json:"fileerror"`
		QuickKey    string `json:"quickkey"`
		Key         string `json:"key"`
		Filename    string `json:"filename"`
		Name        string `json:"name"`
		Size        string `json:"size"`
	} `json:"doupload"`
}

// Upload submits a payload and polls until the server confirms it,
// driving the job through submitted → polling → a terminal state.
// Submit is never retried; only the confirmation poll repeats.
func (c *Client) Upload(ctx context.Context, payload []byte, filename string, opts UploadOptions) (*UploadResult, error) {
	logger := c.logger.With(slog.String("upload_id", uuid.NewString()))

	logger.Info("upload starting",
		slog.String("filename", filename),
		slog.Int("size", len(payload)),
	)

	handle, err := c.SubmitUpload(ctx, payload, filename, opts)
	if err != nil {
		logger.Error("upload submit failed",
			slog.String("state", uploadFailed.String()),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	logger.Debug("upload submitted",
		slog.String("state", uploadPolling.String()),
	)

	result, err := c.PollUpload(ctx, handle, opts)

	switch {
	case errors.Is(err, ErrUploadTimeout):
		logger.Warn("upload confirmation timed out",
			slog.String("state", uploadTimedOut.String()),
			slog.Int("attempts", opts.maxPollAttempts()),
		)

		return nil, err

	case err != nil:
		logger.Error("upload failed",
			slog.String("state", uploadFailed.String()),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	logger.Info("upload complete",
		slog.String("state", uploadComplete.String()),
		slog.String("quickkey", result.QuickKey),
	)

	return result, nil
}

// SubmitUpload sends the raw payload to the upload endpoint and returns
// the opaque handle used to poll for completion.
//
// This endpoint's wire format differs from every other call: the body is
// the payload bytes themselves, and the filename, declared size, and
// content hash travel as request headers. The query string is still
// canonicalized and signed exactly like a standard call, and a rotation
// instruction on the response is honored the same way.
//
// The content hash is computed before any network activity; the filename
// is normalized to NFC so the declared name matches what Unicode-aware
// servers store.
func (c *Client) SubmitUpload(ctx context.Context, payload []byte, filename string, opts UploadOptions) (string, error) {
	name := norm.NFC.String(filename)
	hash := ContentHash(payload)

	uri := apiPrefix + "upload/simple.php"

	var handle string

	err := c.store.WithSigningMaterial(func(m SigningMaterial) (bool, error) {
		signed := []Param{
			{Key: "response_format", Value: "json"},
			{Key: "session_token", Value: m.Token},
		}
		if opts.FolderKey != "" {
			signed = append(signed, Param{Key: "folder_key", Value: opts.FolderKey})
		}

		query := Canonicalize(signed)
		reqURL := c.baseURL + uri + "?" + query + "&signature=" + RequestSignature(m.Secret, m.ServerTime, uri, query)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return false, &TransportError{Err: fmt.Errorf("creating upload request: %w", err)}
		}

		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("X-Filename", name)
		req.Header.Set("X-Filesize", strconv.Itoa(len(payload)))
		req.Header.Set("X-Filehash", hash)
		req.ContentLength = int64(len(payload))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return false, &TransportError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // best-effort drain

			return false, &TransportError{Status: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("reading upload response: %w", err)}
		}

		pl, ctrl, parseErr := parseEnvelope(body)
		if parseErr != nil {
			return false, &TransportError{Status: resp.StatusCode, Err: parseErr}
		}

		rotate := ctrl.NewKey == rotationFlag

		if ctrl.Result != resultSuccess {
			return rotate, &APIError{Code: ctrl.Error, Message: ctrl.Message}
		}

		var sr submitResponse
		if err := json.Unmarshal(pl, &sr); err != nil {
			return rotate, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decoding upload response: %w", err)}
		}

		// A success envelope without a handle leaves nothing to poll, so
		// the upload can never be confirmed.
		if sr.DoUpload.Key == "" {
			return rotate, ErrNoUploadHandle
		}

		handle = sr.DoUpload.Key

		return rotate, nil
	})
	if err != nil {
		return "", err
	}

	return handle, nil
}

// PollUpload polls the confirmation endpoint until the upload reaches a
// terminal state. Per attempt, in order of precedence:
//
//  1. a populated fileerror field is immediately fatal, whatever the
//     status says;
//  2. the complete status with a permanent identifier ends the loop;
//  3. anything else waits one fixed interval and polls again.
//
// Exhausting the attempt budget returns ErrUploadTimeout. Dispatcher
// errors (transport, server rejection) propagate without retry. The
// waits run outside the session's signing section, so unrelated calls
// proceed while an upload is being confirmed; canceling ctx abandons the
// loop mid-wait.
func (c *Client) PollUpload(ctx context.Context, handle string, opts UploadOptions) (*UploadResult, error) {
	var result *UploadResult

	attempt := 0
	schedule := retry.WithMaxRetries(uint64(opts.maxPollAttempts()-1), retry.NewConstant(opts.pollInterval()))

	err := retry.Do(ctx, schedule, func(ctx context.Context) error {
		attempt++

		payload, err := c.Call(ctx, "upload/poll_upload.php", []Param{{Key: "key", Value: handle}})
		if err != nil {
			return err
		}

		var pr pollResponse
		if err := json.Unmarshal(payload, &pr); err != nil {
			return &TransportError{Err: fmt.Errorf("decoding poll response: %w", err)}
		}

		d := pr.DoUpload

		if d.FileError != "" {
			return &UploadFileError{Code: d.FileError}
		}

		if d.Status == uploadStatusComplete {
			quickKey := d.QuickKey
			if quickKey == "" {
				quickKey = d.Key
			}

			if quickKey == "" {
				return fmt.Errorf("api: upload reported complete with no permanent identifier")
			}

			serverName := d.Filename
			if serverName == "" {
				serverName = d.Name
			}

			// Size is a decimal string when present; absence is fine.
			size, _ := strconv.ParseInt(d.Size, 10, 64) //nolint:errcheck // optional field

			result = &UploadResult{
				QuickKey: quickKey,
				Filename: serverName,
				Size:     size,
			}

			return nil
		}

		c.logger.Debug("upload not ready",
			slog.String("status", d.Status),
			slog.String("description", d.Description),
			slog.Int("attempt", attempt),
		)

		return retry.RetryableError(errUploadPending)
	})
	if err != nil {
		if errors.Is(err, errUploadPending) {
			return nil, ErrUploadTimeout
		}

		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("api: upload poll canceled: %w", ctxErr)
		}

		return nil, err
	}

	return result, nil
}
