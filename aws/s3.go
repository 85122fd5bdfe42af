// Package aws defines functions used to interact with S3 compatible object
// storage (AWS, Cloudflare R2, MinIO)
package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type Options struct {
	// Endpoint overrides the AWS endpoint, e.g. a MinIO server
	Endpoint string
	// R2AccountID selects the Cloudflare R2 endpoint when Endpoint is empty
	R2AccountID     string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type S3Client struct {
	C      *s3.Client
	Bucket *string
}

func (o Options) endpoint() string {
	if o.Endpoint != "" {
		return o.Endpoint
	}

	if o.R2AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", o.R2AccountID)
	}

	return ""
}

// NewS3 builds a client and makes sure the bucket is reachable
func NewS3(ctx context.Context, o Options) (*S3Client, error) {
	if o.Bucket == "" {
		return nil, errors.New("bucket can't be empty")
	}

	region := o.Region
	if region == "" {
		region = "auto"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKeyID,
			o.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config, %w", err)
	}

	bucket := aws.String(o.Bucket)
	endpoint := o.endpoint()

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if endpoint != "" {
			so.BaseEndpoint = aws.String(endpoint)
			so.UsePathStyle = true
		}
	})

	hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = client.HeadBucket(hctx, &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", o.Bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Client{
		C:      client,
		Bucket: bucket,
	}, nil
}

// PutObject uploads body under key
func (c *S3Client) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := c.C.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      c.Bucket,
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s, %w", key, err)
	}

	return nil
}
