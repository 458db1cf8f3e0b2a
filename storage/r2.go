package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds Cloudflare R2 credentials.
type R2Config struct {
	Bucket          string
	AccountID       string
	PublicURL       string // e.g. https://pub-<hash>.r2.dev
	AccessKeyID     string
	SecretAccessKey string
}

func (c R2Config) Valid() bool {
	return c.Bucket != "" && c.AccountID != "" && c.PublicURL != ""
}

type R2Client struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	publicBase string
}

func NewR2Client(ctx context.Context, cfg R2Config) (*R2Client, error) {
	if !cfg.Valid() {
		return nil, fmt.Errorf("%w: missing R2_BUCKET, R2_ACCOUNT_ID or R2_PUBLIC_URL", ErrNotConfigured)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Client{
		client:     client,
		uploader:   manager.NewUploader(client),
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicURL,
	}, nil
}

func (c *R2Client) Put(ctx context.Context, localPath, folder string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", localPath, err)
	}
	return c.PutBuffer(ctx, data, ObjectKey(folder, localPath), ContentType(localPath))
}

func (c *R2Client) PutBuffer(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("r2 upload %s: %w", key, err)
	}
	return publicURL(c.publicBase, key), nil
}

func (c *R2Client) Delete(ctx context.Context, urlOrKey string) error {
	key, err := keyFromURL(c.publicBase, urlOrKey)
	if err != nil {
		return fmt.Errorf("invalid object url: %w", err)
	}
	_, err = c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("r2 delete %s: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*R2Client)(nil)
