package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature verification failures.
var (
	ErrSignatureMalformed = errors.New("malformed signature header")
	ErrSignatureExpired   = errors.New("signature timestamp outside tolerance")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// HMACSignatureService implements ports.SignatureService.
//
// The header value has the form "t=<unix seconds>,v1=<hex>", where the MAC is
// HMAC-SHA256 over "<unix seconds>.<body>".
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 notification signer.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// SignNotification returns the signature header value for body.
func (s *HMACSignatureService) SignNotification(secret string, timestamp int64, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, mac(secret, timestamp, body))
}

// VerifyNotification checks a header produced by SignNotification. Any v1
// entry may match. A zero tolerance skips the timestamp check.
func (s *HMACSignatureService) VerifyNotification(secret, header string, body []byte, now time.Time, tolerance time.Duration) error {
	var (
		ts   int64
		sigs []string
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrSignatureMalformed
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrSignatureMalformed
			}
			ts = n
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return ErrSignatureMalformed
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return ErrSignatureExpired
		}
	}

	expected := []byte(mac(secret, ts, body))
	for _, sig := range sigs {
		if hmac.Equal(expected, []byte(sig)) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

func mac(secret string, timestamp int64, body []byte) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(strconv.FormatInt(timestamp, 10)))
	m.Write([]byte{'.'})
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}
