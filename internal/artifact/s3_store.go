package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures the report archive bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3ConfigFromEnv reads the archive configuration from REPORT_S3_*
// environment variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Endpoint:  os.Getenv("REPORT_S3_ENDPOINT"),
		Region:    os.Getenv("REPORT_S3_REGION"),
		AccessKey: os.Getenv("REPORT_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("REPORT_S3_SECRET_KEY"),
		Bucket:    os.Getenv("REPORT_S3_BUCKET"),
		UseSSL:    strings.EqualFold(os.Getenv("REPORT_S3_USE_SSL"), "true"),
	}
}

// S3Store archives rendered reports under <report>/<date>/<audience>.html.
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

// NewS3Store builds a store from config. The bucket is created lazily
// on first use.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("artifact: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("artifact: s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("artifact: s3 bucket is required")
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
		return nil, fmt.Errorf("artifact: init s3 client: %w", err)
	}

	return &S3Store{client: client, bucketName: bucket, region: region}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("artifact: store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put archives one rendered report. reportType names the report family
// (e.g. "kpr"), date is the report date, audience the rendered view.
func (s *S3Store) Put(ctx context.Context, reportType, date, audience string, html []byte) error {
	if s == nil {
		return fmt.Errorf("artifact: store is nil")
	}
	key, err := objectKey(reportType, date, audience)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("artifact: ensure bucket: %w", err)
	}
	if html == nil {
		html = []byte{}
	}

	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(html), int64(len(html)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	return err
}

// Get retrieves an archived report. Returns ErrNotFound when the key
// or bucket does not exist.
func (s *S3Store) Get(ctx context.Context, reportType, date, audience string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("artifact: store is nil")
	}
	key, err := objectKey(reportType, date, audience)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("artifact: ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// List returns the archived object keys for a report family, sorted.
func (s *S3Store) List(ctx context.Context, reportType string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("artifact: store is nil")
	}
	reportType = strings.TrimSpace(reportType)
	if reportType == "" {
		return nil, fmt.Errorf("artifact: report type is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("artifact: ensure bucket: %w", err)
	}

	prefix := strings.TrimSuffix(reportType, "/") + "/"
	keys := make([]string, 0, 32)
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(keys)
	return keys, nil
}

// ShareURL returns a presigned link to an archived report, valid for
// one hour.
func (s *S3Store) ShareURL(ctx context.Context, reportType, date, audience string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("artifact: store is nil")
	}
	key, err := objectKey(reportType, date, audience)
	if err != nil {
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func objectKey(reportType, date, audience string) (string, error) {
	reportType = strings.TrimSpace(reportType)
	date = strings.TrimSpace(date)
	audience = strings.TrimSpace(audience)
	if reportType == "" {
		return "", fmt.Errorf("artifact: report type is required")
	}
	if date == "" {
		return "", fmt.Errorf("artifact: date is required")
	}
	if audience == "" {
		audience = "technical"
	}
	return reportType + "/" + date + "/" + audience + ".html", nil
}
