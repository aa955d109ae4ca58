package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	// apiPrefix is prepended to every endpoint; the signed URI includes it.
	apiPrefix = "/api/1.5/"

	// tokenVersion is the protocol-version marker sent with login. Version 2
	// is what enables the rotating-secret signature scheme on the session.
	tokenVersion = "2"

	userAgent = "mediafire-go/0.1"

	resultSuccess = "Success"
	resultError   = "Error"

	// rotationFlag is the envelope value that instructs the client to
	// advance its secret. Anything else leaves the secret alone.
	rotationFlag = "yes"
)

// Client issues signed calls against the MediaFire API. It owns request
// canonicalization, signing, envelope parsing, error classification, and
// the secret-rotation protocol. All state lives in the SessionStore.
type Client struct {
	baseURL    string
	appID      string
	httpClient *http.Client
	store      *SessionStore
	logger     *slog.Logger
}

// NewClient creates an API client. baseURL is typically
// "https://www.mediafire.com". The store may be empty (pre-login) or
// carry an imported session.
func NewClient(baseURL, appID string, httpClient *http.Client, store *SessionStore, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if store == nil {
		store = NewSessionStore()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		appID:      appID,
		httpClient: httpClient,
		store:      store,
		logger:     logger,
	}
}

// Store returns the client's session store, for export/import and
// logged-in checks.
func (c *Client) Store() *SessionStore {
	return c.store
}

// envelope is the outer JSON wrapper every endpoint returns.
type envelope struct {
	Response json.RawMessage `json:"response"`
}

// control holds the fields the dispatcher itself consumes from the
// response object. Endpoint-specific fields stay in the raw payload.
type control struct {
	Action  string `json:"action"`
	Result  string `json:"result"`
	Message string `json:"message"`
	Error   int    `json:"error"`
	NewKey  string `json:"new_key"`
}

// parseEnvelope splits a response body into the raw response object and
// the control fields the dispatcher acts on.
func parseEnvelope(body []byte) (json.RawMessage, control, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, control{}, fmt.Errorf("decoding envelope: %w", err)
	}

	if len(env.Response) == 0 {
		return nil, control{}, fmt.Errorf("envelope has no response object")
	}

	var ctrl control
	if err := json.Unmarshal(env.Response, &ctrl); err != nil {
		return nil, control{}, fmt.Errorf("decoding response control fields: %w", err)
	}

	return env.Response, ctrl, nil
}

// Call issues a signed request to an endpoint (e.g. "file/get_info.php")
// and returns the raw response object on a success envelope.
//
// The whole exchange runs inside the session's signing section: the
// secret is snapshotted for the signature, the request is sent, and if
// the envelope carries a rotation instruction the secret is advanced
// exactly once — on success and error envelopes alike — before the call
// returns. Missing a rotation, or applying one twice, breaks every
// subsequent signature on this session with no recovery except re-login.
func (c *Client) Call(ctx context.Context, endpoint string, params []Param) (json.RawMessage, error) {
	uri := apiPrefix + endpoint

	var payload json.RawMessage

	err := c.store.WithSigningMaterial(func(m SigningMaterial) (bool, error) {
		signed := make([]Param, 0, len(params)+2)
		signed = append(signed,
			Param{Key: "response_format", Value: "json"},
			Param{Key: "session_token", Value: m.Token},
		)
		signed = append(signed, params...)

		query := Canonicalize(signed)
		form := query + "&signature=" + RequestSignature(m.Secret, m.ServerTime, uri, query)

		body, status, err := c.postForm(ctx, uri, form)
		if err != nil {
			return false, err
		}

		pl, ctrl, parseErr := parseEnvelope(body)
		if parseErr != nil {
			return false, &TransportError{Status: status, Err: parseErr}
		}

		rotate := ctrl.NewKey == rotationFlag

		if ctrl.Result != resultSuccess {
			c.logger.Debug("api call rejected",
				slog.String("endpoint", endpoint),
				slog.Int("code", ctrl.Error),
				slog.Bool("rotate", rotate),
			)

			return rotate, &APIError{Code: ctrl.Error, Message: ctrl.Message}
		}

		c.logger.Debug("api call succeeded",
			slog.String("endpoint", endpoint),
			slog.Bool("rotate", rotate),
		)

		payload = pl

		return rotate, nil
	})
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// postForm sends a url-encoded form body and returns the response body
// and HTTP status. Query strings are never logged — they carry the
// session token and signature.
func (c *Client) postForm(ctx context.Context, uri, form string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uri, strings.NewReader(form))
	if err != nil {
		return nil, 0, &TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // best-effort drain

		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	return body, resp.StatusCode, nil
}

// loginResponse is the payload of user/get_session_token.php.
type loginResponse struct {
	SessionToken string `json:"session_token"`
	SecretKey    string `json:"secret_key"`
	Time         string `json:"time"`
}

// Login creates a session. The login call uses its own signing scheme
// (SHA-1 over identity+password+appID) and does not touch the rotating
// secret. On a success envelope the whole session is replaced as a unit;
// on any failure the prior session — including its absence — is left
// untouched.
func (c *Client) Login(ctx context.Context, identity, password string) error {
	c.logger.Info("logging in", slog.String("identity", identity))

	uri := apiPrefix + "user/get_session_token.php"

	params := []Param{
		{Key: "application_id", Value: c.appID},
		{Key: "email", Value: identity},
		{Key: "password", Value: password},
		{Key: "response_format", Value: "json"},
		{Key: "signature", Value: LoginSignature(identity, password, c.appID)},
		{Key: "token_version", Value: tokenVersion},
	}

	body, status, err := c.postForm(ctx, uri, Canonicalize(params))
	if err != nil {
		return err
	}

	payload, ctrl, err := parseEnvelope(body)
	if err != nil {
		return &TransportError{Status: status, Err: err}
	}

	if ctrl.Result != resultSuccess {
		return &APIError{Code: ctrl.Error, Message: ctrl.Message}
	}

	var lr loginResponse
	if err := json.Unmarshal(payload, &lr); err != nil {
		return &TransportError{Status: status, Err: fmt.Errorf("decoding login response: %w", err)}
	}

	if lr.SessionToken == "" || lr.SecretKey == "" || lr.Time == "" {
		return &TransportError{Status: status, Err: fmt.Errorf("login response missing session fields")}
	}

	if _, err := parseSecret(lr.SecretKey); err != nil {
		return err
	}

	c.store.Replace(Session{
		Token:      lr.SessionToken,
		Secret:     lr.SecretKey,
		ServerTime: lr.Time,
		Identity:   identity,
	})

	c.logger.Info("login successful", slog.String("identity", identity))

	return nil
}

// Logout destroys the local session. Idempotent; the server-side token
// simply expires on its own.
func (c *Client) Logout() {
	c.store.Clear()
	c.logger.Info("logged out")
}
