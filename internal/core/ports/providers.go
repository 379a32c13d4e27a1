package ports

import (
	"context"
	"time"
)

// UploadURLIssuer hands out time-limited upload URLs for menu item photos.
type UploadURLIssuer interface {
	IssueUploadURL(ctx context.Context, blobName string, ttl time.Duration) (string, error)
}

type CheckoutLineItem struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

type CheckoutSession struct {
	ID     string
	URL    string
	Status string
}

// CheckoutProvider creates and inspects payment sessions. The secret is the
// restaurant's decrypted provider key, passed per call; providers must never
// hold it as process-wide state.
type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, secret string, items []CheckoutLineItem, successURL, cancelURL string, metadata map[string]string) (CheckoutSession, error)
	RetrieveSession(ctx context.Context, secret, sessionID string) (CheckoutSession, error)
}
