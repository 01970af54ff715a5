package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Action identifies which attendance operation a signed link authorizes.
type Action string

const (
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
)

// LinkWindow bounds how long an issued link remains redeemable.
const LinkWindow = 10 * time.Minute

// SignedLinkService issues and verifies HMAC-signed, time-boxed attendance
// links. Tokens are never stored; they expire implicitly once the window
// elapses.
type SignedLinkService struct {
	secret  []byte
	baseURL string
	now     func() time.Time
}

// NewSignedLinkService creates a link service signing with the given shared
// secret. Links are rooted at baseURL.
func NewSignedLinkService(secret, baseURL string) *SignedLinkService {
	return &SignedLinkService{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// IssueURL returns a signed link authorizing the given action for the given
// subject, valid for LinkWindow from now.
func (s *SignedLinkService) IssueURL(action Action, subjectID string) string {
	issuedAt := s.now().UnixMilli()
	sig := s.sign(action, subjectID, issuedAt)
	return fmt.Sprintf("%s/%s?subject=%s&issuedAt=%d&signature=%s",
		s.baseURL, action, url.QueryEscape(subjectID), issuedAt, sig)
}

// Verify checks a presented token. It fails closed when the secret is
// unconfigured, rejects future-dated or expired timestamps, and compares
// signatures in constant time. It never panics on malformed input.
func (s *SignedLinkService) Verify(action Action, subjectID string, issuedAtMs int64, signature string) bool {
	if len(s.secret) == 0 {
		return false
	}

	// Negative age means a forged or clock-skewed future timestamp.
	age := s.now().UnixMilli() - issuedAtMs
	if age < 0 || age > LinkWindow.Milliseconds() {
		return false
	}

	expected := s.sign(action, subjectID, issuedAtMs)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func (s *SignedLinkService) sign(action Action, subjectID string, issuedAtMs int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%s:%d", action, subjectID, issuedAtMs)
	return hex.EncodeToString(mac.Sum(nil))
}
