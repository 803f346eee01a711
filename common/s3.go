package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// ImageStoreConfig configures the S3 bucket that keeps uploaded lab report
// photos. Region and Profile are optional and fall back to the standard AWS
// config/credential chain. PublicBaseURL, when set, is used to build the
// stored image URL (e.g. a CloudFront distribution); otherwise the virtual
// hosted S3 URL is used.
type ImageStoreConfig struct {
	Bucket       string
	Region       string
	Profile      string
	UsePathStyle bool
	// Prefix is prepended to every object key; normalized with a trailing slash
	Prefix        string
	PublicBaseURL string
}

// ImageStore uploads lab report images to S3 and hands back the URL that is
// persisted on the lab result.
type ImageStore struct {
	client *s3.Client
	cfg    ImageStoreConfig
}

// NewImageStore creates the store using the default AWS configuration chain
// with optional overrides.
func NewImageStore(ctx context.Context, cfg ImageStoreConfig) (*ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("image store: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &ImageStore{client: client, cfg: cfg}, nil
}

// SaveLabImage uploads the raw image bytes under a per-user, per-upload key
// and returns the URL to store on the lab result.
func (s *ImageStore) SaveLabImage(ctx context.Context, userID string, image []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%slab-reports/%s/%s%s",
		s.cfg.Prefix, userID, uuid.NewString(), extensionFor(contentType))

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(image),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload lab image: %w", err)
	}
	return s.urlFor(key), nil
}

// Get fetches a previously stored image by key. Caller must Close the body.
func (s *ImageStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// Exists returns true if the object exists; false on 404/NotFound.
func (s *ImageStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// DeleteOlderThan removes stored images for a user older than the cutoff.
// Used by retention cleanup when a user deletes their account.
func (s *ImageStore) DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) error {
	prefix := fmt.Sprintf("%slab-reports/%s/", s.cfg.Prefix, userID)
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.cfg.Bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return err
		}
		for _, obj := range out.Contents {
			if obj.LastModified != nil && obj.LastModified.After(cutoff) {
				continue
			}
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.cfg.Bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return err
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return nil
		}
		token = out.NextContinuationToken
	}
}

func (s *ImageStore) urlFor(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key)
	}
	region := s.cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, region, key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".jpg"
	}
}
