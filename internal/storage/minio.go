// Package storage uploads author photos and book covers to a MinIO bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// api is the slice of the MinIO client the uploader needs; tests substitute it.
type api interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type Client struct {
	api       api
	bucket    string
	publicURL string
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
	UseSSL    bool
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return newClientWithAPI(ctx, mc, cfg)
}

func newClientWithAPI(ctx context.Context, a api, cfg Config) (*Client, error) {
	c := &Client{
		api:       a,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", c.bucket, err)
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", c.bucket, err)
		}
	}
	return c, nil
}

// Upload stores the file under a uuid-prefixed key and returns the URL the
// stored record will carry. Collisions between same-named files are impossible.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := uuid.NewString() + path.Ext(filename)
	_, err := c.api.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return c.publicURL + "/" + c.bucket + "/" + key, nil
}

// Delete removes a previously uploaded object by its URL.
func (c *Client) Delete(ctx context.Context, fileURL string) error {
	key := path.Base(fileURL)
	if key == "" || key == "." || key == "/" {
		return fmt.Errorf("invalid object url %q", fileURL)
	}
	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
