package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// reportContentType is the MIME type the report is uploaded with.
const reportContentType = "text/tab-separated-values"

// AWSStorage provides S3-backed input and report storage.
type AWSStorage struct {
	s3Client *s3.Client
	region   string
}

// NewAWSStorage creates a new AWS storage instance.
func NewAWSStorage(ctx context.Context, region, profile string) (*AWSStorage, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &AWSStorage{
		s3Client: s3.NewFromConfig(cfg),
		region:   region,
	}, nil
}

// GetObjectStream opens an S3 object for streaming. The caller must close the body;
// hit files can be large, so nothing is buffered in memory here.
func (s *AWSStorage) GetObjectStream(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting object s3://%s/%s: %w", bucket, key, err)
	}
	return result.Body, nil
}

// SaveReportToS3 uploads the rendered report to S3.
func (s *AWSStorage) SaveReportToS3(ctx context.Context, bucket, key, body string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(body),
		ContentType: aws.String(reportContentType),
	})
	if err != nil {
		return fmt.Errorf("putting report to s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
