package storage

import (
	"context"
	"fmt"
	"os"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver
)

// BlobClient writes to any gocloud.dev bucket URL: file://, gs:// or s3://.
type BlobClient struct {
	bucket     *blob.Bucket
	publicBase string
}

func NewBlobClient(ctx context.Context, bucketURL, publicBase string) (*BlobClient, error) {
	if bucketURL == "" {
		return nil, fmt.Errorf("%w: BLOB_URL is empty", ErrNotConfigured)
	}
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}
	return &BlobClient{bucket: bucket, publicBase: publicBase}, nil
}

func (c *BlobClient) Put(ctx context.Context, localPath, folder string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", localPath, err)
	}
	return c.PutBuffer(ctx, data, ObjectKey(folder, localPath), ContentType(localPath))
}

func (c *BlobClient) PutBuffer(ctx context.Context, data []byte, key, contentType string) (string, error) {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := c.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return publicURL(c.publicBase, key), nil
}

func (c *BlobClient) Delete(ctx context.Context, urlOrKey string) error {
	key, err := keyFromURL(c.publicBase, urlOrKey)
	if err != nil {
		return fmt.Errorf("invalid object url: %w", err)
	}
	if err := c.bucket.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (c *BlobClient) Close() error {
	if c.bucket != nil {
		return c.bucket.Close()
	}
	return nil
}

var _ ObjectStorage = (*BlobClient)(nil)
