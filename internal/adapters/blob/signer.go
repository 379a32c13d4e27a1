package blob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// URLSigner issues pre-signed upload URLs for a blob store fronted by an
// HTTP gateway. The signature covers the blob name and the expiry so neither
// can be swapped without invalidating the URL.
type URLSigner struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

func NewURLSigner(baseURL, secret string) *URLSigner {
	return &URLSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}
}

func (s *URLSigner) IssueUploadURL(_ context.Context, blobName string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive")
	}
	expires := s.now().UTC().Add(ttl).Unix()
	sig := s.sign(blobName, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", sig)
	return s.baseURL + "/" + url.PathEscape(blobName) + "?" + q.Encode(), nil
}

// Verify reports whether sig authorizes an upload of blobName until expires.
// The gateway side calls this on incoming PUTs.
func (s *URLSigner) Verify(blobName string, expires int64, sig string) bool {
	if s.now().UTC().Unix() > expires {
		return false
	}
	expected := s.sign(blobName, expires)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *URLSigner) sign(blobName string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", blobName, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
