// Package ocr recognizes text in uploaded lab report images.
package ocr

import (
	"context"
	"errors"
)

// ErrNoText means the provider ran but found nothing readable in the image.
var ErrNoText = errors.New("ocr: no text detected")

// Service recognizes text in an image. A failed recognition is a real error
// to the caller, unlike the soft-failing feed and translation services: the
// upload flow cannot proceed without text.
type Service interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}
