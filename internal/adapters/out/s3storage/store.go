// Package s3storage stores proof-of-delivery files in an S3-compatible bucket
// (AWS S3 or MinIO).
package s3storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	keyPrefix     = "proofs"
	defaultRegion = "us-east-1"

	// MaxProofSize bounds the bytes read from an upload body.
	MaxProofSize = 10 << 20
)

var (
	ErrBucketIsRequired   = errors.New("s3 bucket is required")
	ErrFilenameIsRequired = errors.New("proof filename is required")
	ErrProofIsTooLarge    = fmt.Errorf("proof exceeds %d bytes", MaxProofSize)
)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. a MinIO URL
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
	PathStyle       bool

	// HTTPClient replaces the SDK transport. Tests use it to fake S3.
	HTTPClient s3.HTTPClient
}

// Store uploads proofs under proofs/<uuid>/<filename>. The object key is the
// proof's external id.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL *url.URL
}

var _ ports.ProofStorage = (*Store)(nil)

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketIsRequired
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})

	baseURL, err := objectBaseURL(cfg)
	if err != nil {
		return nil, err
	}

	return &Store{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// objectBaseURL is the URL objects are reachable under, without the key.
func objectBaseURL(cfg Config) (*url.URL, error) {
	if cfg.Endpoint == "" {
		return &url.URL{Scheme: "https", Host: fmt.Sprintf("%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)}, nil
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse s3 endpoint: %w", err)
	}
	base := &url.URL{Scheme: endpoint.Scheme, Host: endpoint.Host, Path: strings.TrimRight(endpoint.Path, "/")}
	if cfg.PathStyle {
		base.Path += "/" + cfg.Bucket
	} else {
		base.Host = cfg.Bucket + "." + base.Host
	}
	return base, nil
}

// Upload reads body fully (up to MaxProofSize) and stores it. Only the base
// name of filename is kept.
func (s *Store) Upload(ctx context.Context, body io.Reader, filename, contentType string) (order.Proof, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return order.Proof{}, ErrFilenameIsRequired
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxProofSize+1))
	if err != nil {
		return order.Proof{}, fmt.Errorf("read proof: %w", err)
	}
	if len(data) > MaxProofSize {
		return order.Proof{}, ErrProofIsTooLarge
	}

	key := path.Join(keyPrefix, kernel.NewUUID().String(), name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err = s.client.PutObject(ctx, input); err != nil {
		return order.Proof{}, fmt.Errorf("upload proof %s: %w", key, err)
	}

	objectURL := *s.baseURL
	objectURL.Path += "/" + key

	return order.Proof{URL: objectURL.String(), ExternalID: key}, nil
}
