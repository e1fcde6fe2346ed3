package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var (
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrTokenMismatch     = errors.New("token mismatch")
)

// SignatureVerifier authenticates callbacks that sign the raw request body
// with a per-source secret (HMAC-SHA256, hex encoded).
type SignatureVerifier struct {
	Secret string
}

func (v SignatureVerifier) Verify(body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// TokenVerifier authenticates callbacks carrying a shared token as a query
// parameter. Comparison is constant time.
type TokenVerifier struct {
	Secret string
}

func (v TokenVerifier) Verify(token string) error {
	if token == "" || subtle.ConstantTimeCompare([]byte(v.Secret), []byte(token)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}
