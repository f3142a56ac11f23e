// Package blob uploads generated report files to S3-compatible object storage.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// XLSXContentType is the MIME type of generated workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PutObjectAPI is the S3 subset used by Uploader.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes objects to one bucket.
type Uploader struct {
	s3     PutObjectAPI
	bucket string
}

// NewUploader wraps an existing S3 client.
func NewUploader(api PutObjectAPI, bucket string) *Uploader {
	return &Uploader{s3: api, bucket: bucket}
}

// NewS3Uploader builds an Uploader from the default AWS credential chain.
// endpoint may be empty for AWS S3; a custom endpoint switches to path-style addressing.
func NewS3Uploader(ctx context.Context, bucket, region, endpoint string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("blob: bucket name is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}

	var opts []func(*s3.Options)
	if endpoint != "" {
		endpoint = normaliseEndpoint(endpoint)
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewUploader(s3.NewFromConfig(awsCfg, opts...), bucket), nil
}

// Upload stores data under key and returns its s3:// location.
func (u *Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("blob: put %s: %w", key, err)
	}
	return "s3://" + u.bucket + "/" + key, nil
}

// ReportKey is the object key of a report workbook: reports/YYYY/MM/DD/<id>.xlsx.
func ReportKey(id uuid.UUID, generatedAt time.Time) string {
	return path.Join("reports", generatedAt.UTC().Format("2006/01/02"), id.String()+".xlsx")
}

func normaliseEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" {
		return endpoint
	}
	return "https://" + endpoint
}
