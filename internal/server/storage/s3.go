package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/streamhive/streamhive/internal/filex"
	sc "github.com/streamhive/streamhive/internal/server/config"
)

// Seams for testing the AWS SDK interactions.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// opTimeout bounds a single remote storage call; the workflow treats any
// non-success outcome, including timeout, as an upload failure.
const opTimeout = 30 * time.Second

// S3Gateway stores assets in an S3-compatible bucket (MinIO in development).
type S3Gateway struct {
	config *sc.Config
}

func NewS3Gateway(cfg *sc.Config) *S3Gateway {
	return &S3Gateway{config: cfg}
}

func (g *S3Gateway) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(g.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			g.config.S3RootUser,     // MINIO_ROOT_USER
			g.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(g.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// storageKey spreads assets by date so the bucket stays listable.
func storageKey(localPath string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Ext(localPath))
}

// Upload copies the file at localPath into the bucket and returns its key and
// public URL. The local file is removed whether or not the upload succeeds.
func (g *S3Gateway) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	defer func() { _ = filex.RemoveIfExists(localPath) }()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("opening local file: %w", err)
	}
	defer file.Close()

	client, err := g.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuring storage client: %w", err)
	}

	key := storageKey(localPath)
	in := &s3.PutObjectInput{
		Bucket: aws.String(g.config.S3Bucket),
		Key:    aws.String(key),
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	in.Body = file

	if _, err := putObject(client, ctx, in); err != nil {
		return nil, fmt.Errorf("storing object %s: %w", key, err)
	}

	return &UploadResult{RemoteID: key, URL: g.objectURL(key)}, nil
}

// Delete removes the object with the given key. S3 treats deletion of a
// missing key as success, which gives the idempotency compensation needs.
func (g *S3Gateway) Delete(ctx context.Context, remoteID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := g.getClient(ctx)
	if err != nil {
		return fmt.Errorf("configuring storage client: %w", err)
	}

	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.config.S3Bucket),
		Key:    aws.String(remoteID),
	}); err != nil {
		return fmt.Errorf("deleting object %s: %w", remoteID, err)
	}

	return nil
}

func (g *S3Gateway) objectURL(key string) string {
	base := strings.TrimRight(g.config.S3BaseEndpoint, "/")
	return fmt.Sprintf("%s/%s/%s", base, g.config.S3Bucket, key)
}
