package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps MinIO and stores patient signature images in a single bucket,
// one object per patient.
type Client struct {
	mc      *minio.Client
	bucket  string
	enabled bool
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint        string `mapstructure:"endpoint"` // e.g. "minio:9000" or "localhost:9000"
	AccessKeyID     string `mapstructure:"accesskeyid"`
	SecretAccessKey string `mapstructure:"secretaccesskey"`
	UseSSL          bool   `mapstructure:"usessl"`
	Bucket          string `mapstructure:"bucket"`
}

// ErrDisabled is returned when storage is not configured.
var ErrDisabled = fmt.Errorf("storage service not configured")

// NewClient creates a storage client. If config has empty Endpoint, the
// client is disabled (all ops return ErrDisabled).
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{enabled: false}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "signatures"
	}
	return &Client{mc: mc, bucket: bucket, enabled: true}, nil
}

// SignatureKey returns the object key for a patient's signature image.
func SignatureKey(patientID string) string {
	return "patients/" + patientID + "/signature"
}

// EnsureBucket creates the signatures bucket if it does not exist (idempotent).
func (c *Client) EnsureBucket(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
}

// PutSignature uploads a patient's signature image.
func (c *Client) PutSignature(ctx context.Context, patientID string, reader io.Reader, size int64, contentType string) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return "", err
	}
	key := SignatureKey(patientID)
	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

// SignatureURL returns a presigned GET URL for a patient's signature image.
func (c *Client) SignatureURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// DeleteSignature removes a patient's signature image.
func (c *Client) DeleteSignature(ctx context.Context, key string) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

// Enabled reports whether the storage client is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}
