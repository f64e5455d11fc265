package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/pkg/circuit"
)

// AssetKind distinguishes stored media classes for key prefixing.
type AssetKind string

const (
	AssetVideo AssetKind = "videos"
	AssetImage AssetKind = "images"
)

// S3Store persists media files in an S3-compatible object store and serves
// them back through a public base URL.
type S3Store struct {
	uploader *manager.Uploader
	client   *s3.Client
	breaker  *circuit.Breaker
	bucket   string
	baseURL  string
}

// NewS3Store configures an uploader targeting the provided object store.
func NewS3Store(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		uploader: uploader,
		client:   client,
		breaker:  circuit.NewBreaker(circuit.DefaultConfig()),
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the local file under a fresh key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, localPath string, kind AssetKind) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 store open %s: %w", localPath, err)
	}
	defer f.Close()

	key := ObjectKey(kind, localPath)

	err = s.breaker.Execute(func() error {
		_, uploadErr := s.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   f,
			ACL:    s3types.ObjectCannedACLPublicRead,
		})
		return uploadErr
	})
	if err != nil {
		return "", fmt.Errorf("s3 store upload %s: %w", key, err)
	}

	return s.PublicURL(key), nil
}

// Delete removes the object the public URL refers to. Callers treat failures
// as best-effort; the method only reports them.
func (s *S3Store) Delete(ctx context.Context, publicURL string) error {
	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return err
	}

	err = s.breaker.Execute(func() error {
		_, delErr := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return delErr
	})
	if err != nil {
		return fmt.Errorf("s3 store delete %s: %w", key, err)
	}
	return nil
}

// PublicURL renders the externally reachable URL for a stored key.
func (s *S3Store) PublicURL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

func (s *S3Store) keyFromURL(publicURL string) (string, error) {
	if s.baseURL != "" && strings.HasPrefix(publicURL, s.baseURL+"/") {
		return strings.TrimPrefix(publicURL, s.baseURL+"/"), nil
	}
	key := strings.TrimLeft(publicURL, "/")
	if key == "" {
		return "", fmt.Errorf("s3 store: cannot derive key from %q", publicURL)
	}
	return key, nil
}

// ObjectKey builds a collision-free object key preserving the original file
// extension.
func ObjectKey(kind AssetKind, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
}
