package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	"google.golang.org/api/option"
)

// VisionClient binds Service to Google Cloud Vision document text detection.
type VisionClient struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionClient builds a Vision-backed OCR service. With an empty
// credentialsFile the default application-credentials chain applies.
func NewVisionClient(ctx context.Context, credentialsFile string) (*VisionClient, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionClient{client: c}, nil
}

// Close releases the underlying gRPC connection.
func (v *VisionClient) Close() error {
	return v.client.Close()
}

// RecognizeText implements Service. Lab reports are dense tabular documents,
// so document text detection is used rather than plain text detection.
func (v *VisionClient) RecognizeText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("ocr: empty image")
	}

	img, err := vision.NewImageFromReader(bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("vision NewImageFromReader: %w", err)
	}

	doc, err := v.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return "", fmt.Errorf("vision DetectDocumentText: %w", err)
	}
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return "", ErrNoText
	}
	return doc.Text, nil
}
