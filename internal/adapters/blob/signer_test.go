package blob

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestIssueUploadURLRoundTrip(t *testing.T) {
	signer := NewURLSigner("https://blobs.example/uploads/", "signing-secret")
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return frozen }

	signed, err := signer.IssueUploadURL(context.Background(), "menu/photo-1.jpg", 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.HasPrefix(signed, "https://blobs.example/uploads/") {
		t.Fatalf("unexpected base: %s", signed)
	}

	parsed, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	expires, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	if err != nil {
		t.Fatalf("expires: %v", err)
	}
	if want := frozen.Add(15 * time.Minute).Unix(); expires != want {
		t.Fatalf("expires = %d, want %d", expires, want)
	}
	if !signer.Verify("menu/photo-1.jpg", expires, parsed.Query().Get("sig")) {
		t.Fatal("signature must verify for the original blob name")
	}
	if signer.Verify("menu/other.jpg", expires, parsed.Query().Get("sig")) {
		t.Fatal("signature must not transfer to another blob name")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer := NewURLSigner("https://blobs.example", "signing-secret")
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return frozen }

	expires := frozen.Add(time.Minute).Unix()
	sig := signer.sign("a.jpg", expires)

	signer.now = func() time.Time { return frozen.Add(2 * time.Minute) }
	if signer.Verify("a.jpg", expires, sig) {
		t.Fatal("expired signature must not verify")
	}
}

func TestIssueUploadURLRejectsNonPositiveTTL(t *testing.T) {
	signer := NewURLSigner("https://blobs.example", "signing-secret")
	if _, err := signer.IssueUploadURL(context.Background(), "a.jpg", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
