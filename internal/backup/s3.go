// Package backup archives snapshot copies to S3-compatible object storage
// and lists them next to the local snapshot.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"github.com/dmitrijs2005/sampleledger/internal/snapshot"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	listObjects = func(c *s3.Client, ctx context.Context, in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
		return c.ListObjectsV2(ctx, in)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// DefaultPrefix is the key prefix archives are written under.
const DefaultPrefix = "backups"

// ContentType of archive objects.
const ContentType = "application/json"

var (
	ErrDisabled = errors.New("backup storage is not configured")

	// ErrOutsidePrefix rejects keys that are not archives of this ledger.
	ErrOutsidePrefix = errors.New("key is outside the backup prefix")
)

// Config locates the bucket. Endpoint is optional and points the client
// at MinIO or another S3-compatible server.
type Config struct {
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Prefix     string
	PresignTTL time.Duration
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

// Location tells where a listed backup lives.
type Location string

const (
	LocationLocal Location = "local"
	LocationS3    Location = "s3"
)

type Info struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Location Location  `json:"location"`
}

// archive is the stored document.
type archive struct {
	CreatedAt time.Time       `json:"createdAt"`
	Records   json.RawMessage `json:"records"`
	Trash     json.RawMessage `json:"trash"`
}

// S3Archiver writes whole-table archives to a bucket.
type S3Archiver struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	prefix  string
	ttl     time.Duration
	codec   snapshot.Codec
	now     func() time.Time
	newID   func() string
	logger  logging.Logger
}

// NewS3Archiver builds the SDK client from cfg. Static credentials are used
// when AccessKey is set; otherwise the default AWS chain applies.
func NewS3Archiver(ctx context.Context, cfg Config, logger logging.Logger) (*S3Archiver, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if logger == nil {
		logger = logging.Nop()
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Archiver{
		client:  client,
		presign: newS3PresignClient(client),
		bucket:  cfg.Bucket,
		prefix:  prefix,
		ttl:     ttl,
		codec:   snapshot.DefaultCodec(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		logger:  logger.With("module", "backup"),
	}, nil
}

// Key returns the object key for an archive created at t.
func (a *S3Archiver) Key(t time.Time, id string) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s.json", a.prefix, t.Year(), t.Month(), t.Day(), id)
}

// Archive uploads records and trash as one JSON document and returns its key.
func (a *S3Archiver) Archive(ctx context.Context, records []ledger.Record, trash []ledger.TrashEntry) (string, error) {
	rb, err := a.codec.MarshalRecords(records)
	if err != nil {
		return "", err
	}
	tb, err := a.codec.MarshalTrash(trash)
	if err != nil {
		return "", err
	}

	now := a.now()
	body, err := json.Marshal(archive{CreatedAt: now.UTC(), Records: rb, Trash: tb})
	if err != nil {
		return "", err
	}

	key := a.Key(now, a.newID())
	err = putObject(a.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	a.logger.Info(ctx, "archive stored", "key", key, "records", len(records), "trash", len(trash))
	return key, nil
}

// List returns up to limit archives, newest first. limit <= 0 means all.
func (a *S3Archiver) List(ctx context.Context, limit int) ([]Info, error) {
	var out []Info
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(a.prefix + "/"),
	}
	for {
		page, err := listObjects(a.client, ctx, in)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", a.bucket, err)
		}
		for _, o := range page.Contents {
			out = append(out, Info{
				Key:      aws.ToString(o.Key),
				Size:     aws.ToInt64(o.Size),
				Modified: aws.ToTime(o.LastModified),
				Location: LocationS3,
			})
		}
		if !aws.ToBool(page.IsTruncated) || page.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = page.NextContinuationToken
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Modified.After(out[j].Modified) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PresignGet returns a time-limited download URL for key.
func (a *S3Archiver) PresignGet(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, a.prefix+"/") {
		return "", fmt.Errorf("%w: %q not under %s/", ErrOutsidePrefix, key, a.prefix)
	}
	req, err := presignGetObject(a.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
