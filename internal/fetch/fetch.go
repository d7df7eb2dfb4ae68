// Package fetch downloads remote documents for extraction, from http(s)
// URLs or s3://bucket/key object paths.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

// Config configures remote document sources.
type Config struct {
	Timeout  time.Duration
	MaxBytes int64

	// S3Region and S3Endpoint configure the s3:// scheme. The endpoint
	// override enables MinIO-compatible stores.
	S3Region   string
	S3Endpoint string
}

// Result is a fetched document: bytes plus whatever name and content type
// the source declared. Both are untrusted inputs to format classification.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

type Fetcher struct {
	cfg    Config
	httpc  *http.Client
	logger *slog.Logger

	s3Once sync.Once
	s3c    *s3.Client
	s3Err  error
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 32 << 20
	}
	return &Fetcher{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Fetch downloads one document. The scheme decides the transport; anything
// but http, https, or s3 is rejected as invalid input.
func (f *Fetcher) Fetch(ctx context.Context, raw string) (Result, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Result{}, fmt.Errorf("parse url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, u)
	case "s3":
		return f.fetchS3(ctx, u)
	default:
		return Result{}, common.NewAppError("BAD_URL",
			fmt.Sprintf("unsupported url scheme %q", u.Scheme), nil)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, u *url.URL) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.httpc.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, common.NewAppError("FETCH_FAILED",
			fmt.Sprintf("download %s: status %d", u, resp.StatusCode), nil)
	}

	data, err := f.readBounded(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", u, err)
	}

	f.logger.Debug("fetched document over http", "url", u.String(), "bytes", len(data))
	return Result{
		Data:        data,
		Filename:    path.Base(u.Path),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, u *url.URL) (Result, error) {
	client, err := f.s3Client(ctx)
	if err != nil {
		return Result{}, err
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return Result{}, common.NewAppError("BAD_URL", "s3 url needs bucket and key", nil)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Result{}, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := f.readBounded(out.Body)
	if err != nil {
		return Result{}, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}

	f.logger.Debug("fetched document from s3", "bucket", bucket, "key", key, "bytes", len(data))
	return Result{
		Data:        data,
		Filename:    path.Base(key),
		ContentType: contentType,
	}, nil
}

// s3Client builds the S3 client on first use, so the http(s)-only
// deployment never needs AWS credentials.
func (f *Fetcher) s3Client(ctx context.Context) (*s3.Client, error) {
	f.s3Once.Do(func() {
		optFns := []func(*awsconfig.LoadOptions) error{}
		if f.cfg.S3Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(f.cfg.S3Region))
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			f.s3Err = fmt.Errorf("load aws config: %w", err)
			return
		}

		s3Opts := []func(*s3.Options){}
		if f.cfg.S3Endpoint != "" {
			s3Opts = append(s3Opts, func(o *s3.Options) {
				o.BaseEndpoint = aws.String(f.cfg.S3Endpoint)
				o.UsePathStyle = true // required for MinIO
			})
		}
		f.s3c = s3.NewFromConfig(cfg, s3Opts...)
	})
	return f.s3c, f.s3Err
}

func (f *Fetcher) readBounded(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("document exceeds %d byte limit", f.cfg.MaxBytes)
	}
	return data, nil
}
