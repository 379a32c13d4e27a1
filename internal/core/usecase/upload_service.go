package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
)

const uploadURLTTL = 15 * time.Minute

var blobNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

// UploadService issues time-limited upload URLs for menu item photos.
type UploadService struct {
	issuer ports.UploadURLIssuer
}

func NewUploadService(issuer ports.UploadURLIssuer) *UploadService {
	return &UploadService{issuer: issuer}
}

func (s *UploadService) IssueUploadURL(ctx context.Context, blobName string) (string, error) {
	if blobName == "" || !blobNamePattern.MatchString(blobName) {
		return "", domain.Invalid("file name is not valid")
	}
	return s.issuer.IssueUploadURL(ctx, blobName, uploadURLTTL)
}
