// Package upload stores customer-submitted images (payment-proof screenshots,
// product photos) and returns their public URLs.
package upload

import (
	"context"

	"github.com/go-faster/errors"
)

// Uploader stores an image and returns its publicly accessible URL.
//
// Callers for which the image is auxiliary (payment-proof submission) must
// treat a failed upload as "no URL available" rather than a fatal error.
type Uploader interface {
	Upload(ctx context.Context, data []byte, hint string) (string, error)
}

// ErrDisabled is returned by Disabled for every upload attempt.
var ErrDisabled = errors.New("uploads are not configured")

// Disabled is an Uploader for deployments without object storage configured.
// Every upload fails; flows that tolerate missing proof URLs keep working.
type Disabled struct{}

func (Disabled) Upload(context.Context, []byte, string) (string, error) {
	return "", ErrDisabled
}
