package auth

import (
	"net/url"
	"strconv"
	"testing"
	"time"
)

func issueAndParse(t *testing.T, svc *SignedLinkService, action Action, subjectID string) (string, int64, string) {
	t.Helper()
	link := svc.IssueURL(action, subjectID)
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("issued link does not parse: %v", err)
	}
	q := u.Query()
	issuedAt, err := strconv.ParseInt(q.Get("issuedAt"), 10, 64)
	if err != nil {
		t.Fatalf("issuedAt is not an integer: %v", err)
	}
	return q.Get("subject"), issuedAt, q.Get("signature")
}

func TestVerifyRoundTrip(t *testing.T) {
	svc := NewSignedLinkService("test-secret", "http://attendly.test")

	subject, issuedAt, sig := issueAndParse(t, svc, ActionCheckIn, "U123")
	if subject != "U123" {
		t.Fatalf("subject = %q, want U123", subject)
	}
	if !svc.Verify(ActionCheckIn, subject, issuedAt, sig) {
		t.Fatal("freshly issued link failed verification")
	}
}

func TestVerifyWindow(t *testing.T) {
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	svc := NewSignedLinkService("test-secret", "http://attendly.test")
	svc.now = func() time.Time { return base }

	subject, issuedAt, sig := issueAndParse(t, svc, ActionCheckIn, "U123")

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"immediately", base, true},
		{"just inside window", base.Add(LinkWindow), true},
		{"eleven minutes", base.Add(11 * time.Minute), false},
		{"before issuance", base.Add(-time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc.now = func() time.Time { return tc.at }
			if got := svc.Verify(ActionCheckIn, subject, issuedAt, sig); got != tc.want {
				t.Fatalf("Verify at %v = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	svc := NewSignedLinkService("test-secret", "http://attendly.test")
	subject, issuedAt, sig := issueAndParse(t, svc, ActionCheckIn, "U123")

	// Flip a single hex character of the signature.
	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	if svc.Verify(ActionCheckIn, subject, issuedAt, string(flipped)) {
		t.Fatal("bit-flipped signature verified")
	}

	if svc.Verify(ActionCheckIn, "U999", issuedAt, sig) {
		t.Fatal("signature verified for a different subject")
	}

	if svc.Verify(ActionCheckOut, subject, issuedAt, sig) {
		t.Fatal("check-in signature verified for checkout")
	}

	if svc.Verify(ActionCheckIn, subject, issuedAt+1, sig) {
		t.Fatal("signature verified for a mutated timestamp")
	}
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	issuer := NewSignedLinkService("test-secret", "http://attendly.test")
	subject, issuedAt, sig := issueAndParse(t, issuer, ActionCheckIn, "U123")

	unconfigured := NewSignedLinkService("", "http://attendly.test")
	if unconfigured.Verify(ActionCheckIn, subject, issuedAt, sig) {
		t.Fatal("verification succeeded with no signing secret configured")
	}
}
