package api

import (
	"crypto/md5" //nolint:gosec // request signatures are an API wire requirement, not a security boundary
	"crypto/sha1" //nolint:gosec // login signature algorithm is fixed by the API
	"encoding/hex"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// LCG parameters for secret key rotation. The server runs the identical
// generator; both sides advance in lockstep, one step per rotation
// instruction. These are the classic MINSTD constants.
const (
	lcgMultiplier uint64 = 16807
	lcgModulus    uint64 = 1<<31 - 1
)

// Param is a single request parameter. Requests carry an ordered list
// rather than a map so that duplicate keys keep their relative order
// through canonicalization.
type Param struct {
	Key   string
	Value string
}

// LoginSignature computes the signature for the session-token call:
// lowercase hex SHA-1 over identity, password, and application ID
// concatenated with no separators. The login call is the only one
// signed this way; every other call uses RequestSignature.
func LoginSignature(identity, password, appID string) string {
	sum := sha1.Sum([]byte(identity + password + appID)) //nolint:gosec // fixed by the API
	return hex.EncodeToString(sum[:])
}

// RotateSecret advances the session secret one LCG step:
// (secret * 16807) mod (2^31 - 1). The intermediate product reaches
// about 2^45, so the arithmetic stays in uint64 end to end — any
// truncation here would silently desynchronize the client from the
// server with no recovery short of a new login.
func RotateSecret(secret uint64) uint64 {
	return secret * lcgMultiplier % lcgModulus
}

// RequestSignature computes the per-call signature: lowercase hex MD5 of
// (secret mod 256) + serverTime + uri + "?" + canonicalQuery. The server
// recomputes the same digest from its own copy of the secret.
func RequestSignature(secret uint64, serverTime, uri, canonicalQuery string) string {
	base := strconv.FormatUint(secret%256, 10) + serverTime + uri + "?" + canonicalQuery
	sum := md5.Sum([]byte(base)) //nolint:gosec // fixed by the API
	return hex.EncodeToString(sum[:])
}

// Canonicalize produces the query string that is both signed and
// transmitted. Parameters are sorted by key with plain byte-wise
// comparison (never locale-aware collation); duplicate keys keep their
// original relative order. Keys and values are URL-escaped after
// sorting so escaping cannot perturb the sort. The same string must be
// used for signing and for the request body — signing a variant form is
// a guaranteed signature mismatch.
func Canonicalize(params []Param) string {
	sorted := make([]Param, len(params))
	copy(sorted, params)

	slices.SortStableFunc(sorted, func(a, b Param) int {
		return strings.Compare(a.Key, b.Key)
	})

	var b strings.Builder
	for i, p := range sorted {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}

	return b.String()
}
