package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service signs time-limited read URLs for user photos.
type S3Service struct {
	Presigner *s3.PresignClient
	Bucket    string
}

// NewS3Service builds the presigning client from the ambient AWS config.
func NewS3Service(ctx context.Context) (*S3Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		bucket = "molo-user-photos"
	}

	return &S3Service{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    bucket,
	}, nil
}

// SignedPhotoURL generates a presigned GET URL for a photo key, valid for an
// hour.
func (s *S3Service) SignedPhotoURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	request, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to presign photo URL: %w", err)
	}
	return request.URL, nil
}
