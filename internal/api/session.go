package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// maxSecret is the largest value the session secret can hold. The LCG
// modulus is 2^31-1, so valid secrets live in [0, 2^31-2].
const maxSecret = lcgModulus - 1

// Session is the authenticated state handed out by a successful login.
// Secret is kept as the decimal string the server sent — it is parsed for
// arithmetic but never re-serialized except by rotation, so an exported
// session round-trips byte for byte.
type Session struct {
	Token      string `json:"session_token"`
	Secret     string `json:"secret_key"`
	ServerTime string `json:"time"`
	Identity   string `json:"identity"`
}

// SigningMaterial is the snapshot of session state a signed call needs.
// It is only ever handed out inside the store's signing section.
type SigningMaterial struct {
	Token      string
	Secret     uint64
	ServerTime string
}

// SessionStore owns the single active session. The whole session is
// replaced atomically by login and cleared by logout; the secret alone is
// mutated in place by rotation, and only through WithSigningMaterial.
//
// The zero value is ready to use and holds no session.
type SessionStore struct {
	mu      sync.Mutex
	session *Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Active reports whether a session is present.
func (s *SessionStore) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session != nil
}

// Current returns a copy of the active session, or false when logged out.
func (s *SessionStore) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return Session{}, false
	}

	return *s.session, true
}

// Replace installs a new session, replacing any prior one as a unit.
// Called by login on a successful envelope; never called on failure, so a
// failed login leaves prior state untouched.
func (s *SessionStore) Replace(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = &sess
}

// Clear destroys the session. Idempotent.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
}

// Export serializes the active session verbatim. The secret string is
// written exactly as stored — no re-parsing that could change a
// representation the server expects back.
func (s *SessionStore) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, ErrAuthRequired
	}

	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("api: encoding session: %w", err)
	}

	return data, nil
}

// Import restores a previously exported session. The secret is validated
// as a decimal integer in range but stored as the original string.
func (s *SessionStore) Import(data []byte) error {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("api: decoding session: %w", err)
	}

	if sess.Token == "" || sess.Secret == "" || sess.ServerTime == "" {
		return fmt.Errorf("api: imported session is missing required fields")
	}

	if _, err := parseSecret(sess.Secret); err != nil {
		return err
	}

	s.Replace(sess)

	return nil
}

// WithSigningMaterial is the single sanctioned read-modify-write path for
// the secret. It runs fn with a snapshot of the signing material while
// holding the store's lock, and when fn reports a rotation instruction it
// advances the secret exactly once before releasing.
//
// The lock spans the whole signed exchange — snapshot, transmit, and the
// rotation decision — because the server advances its own secret as part
// of answering the call: a second call signed with the pre-rotation
// secret while the first is in flight would be rejected. Callers must do
// everything that does not need the secret (payload hashing, query
// assembly for unsigned fields, response reshaping) outside this section,
// and must never sleep inside fn.
//
// fn's rotate result is honored even when fn also returns an error:
// error envelopes can carry the rotation flag, and skipping the step
// would desynchronize the generator permanently.
func (s *SessionStore) WithSigningMaterial(fn func(m SigningMaterial) (rotate bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrAuthRequired
	}

	secret, err := parseSecret(s.session.Secret)
	if err != nil {
		return err
	}

	rotate, err := fn(SigningMaterial{
		Token:      s.session.Token,
		Secret:     secret,
		ServerTime: s.session.ServerTime,
	})

	// The lock was held throughout, so the session cannot have been
	// replaced underneath us; the nil check guards logout-from-fn misuse.
	if rotate && s.session != nil {
		s.session.Secret = strconv.FormatUint(RotateSecret(secret), 10)
	}

	return err
}

func parseSecret(raw string) (uint64, error) {
	secret, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("api: session secret %q is not a decimal integer: %w", raw, err)
	}

	if secret > maxSecret {
		return 0, fmt.Errorf("api: session secret %d out of range [0, %d]", secret, maxSecret)
	}

	return secret, nil
}
