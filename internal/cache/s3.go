package cache

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	oerrors "github.com/graphforge/forge/internal/errors"
)

// completeMarker is uploaded last; an entry without it does not exist.
const completeMarker = ".complete"

// S3Config configures an S3Store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// Prefix is prepended to every object key.
	Prefix string
}

// S3Store keeps entries in an S3-compatible bucket under <prefix>/<hex>/.
type S3Store struct {
	client   *minio.Client
	bucket   string
	region   string
	prefix   string
	initOnce sync.Once
	initErr  error
}

// NewS3Store creates an S3Store. No request is made until first use.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, oerrors.NewValidationError("remote cache endpoint is required", "remote.endpoint", "")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, oerrors.NewValidationError("remote cache access key and secret key are required", "remote", "")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, oerrors.NewValidationError("remote cache bucket is required", "remote.bucket", "")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Store) objectKey(hash string, parts ...string) string {
	elems := []string{key(hash)}
	if s.prefix != "" {
		elems = append([]string{s.prefix}, elems...)
	}
	return path.Join(append(elems, parts...)...)
}

// Exists implements Store.
func (s *S3Store) Exists(ctx context.Context, hash string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.objectKey(hash, completeMarker), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return false, nil
	}
	return false, fmt.Errorf("checking remote cache entry: %w: %w", oerrors.ErrConnectivity, err)
}

// Store implements Store. Files are uploaded first and the completion marker
// last, so a partially uploaded entry is never reported as existing.
func (s *S3Store) Store(ctx context.Context, hash string, paths []string) error {
	if ok, err := s.Exists(ctx, hash); err != nil || ok {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w: %w", oerrors.ErrConnectivity, err)
	}

	for _, root := range paths {
		base := filepath.Base(root)
		err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			objectKey := s.objectKey(hash, base, filepath.ToSlash(rel))
			_, err = s.client.FPutObject(ctx, s.bucket, objectKey, p, minio.PutObjectOptions{
				ContentType: "application/octet-stream",
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("uploading %s: %w", root, err)
		}
	}

	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(hash, completeMarker), bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("committing remote cache entry: %w", err)
	}
	return nil
}
