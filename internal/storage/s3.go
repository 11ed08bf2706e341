package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"parkapi/models"
	"parkapi/pkg/keys"
	"parkapi/pkg/lastvalues"
)

// S3Service reads cache snapshots from S3-compatible storage.
type S3Service struct {
	client *minio.Client
}

// NewS3Service connects to a MinIO endpoint with static credentials.
func NewS3Service(endpoint, accessKey, secretKey string, useSSL bool) (*S3Service, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing one or more of endpoint, access key, secret key")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Println("Successfully connected to MinIO endpoint:", endpoint)
	return &S3Service{client: minioClient}, nil
}

// EnsureBucket fails when the cache bucket does not exist. The cache is
// written by the scraper, so it is never created here.
func (s *S3Service) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", bucketName)
	}
	return nil
}

// GetSnapshot loads and decodes the snapshot stored under objectKey.
// A missing object yields lastvalues.ErrNotFound.
func (s *S3Service) GetSnapshot(ctx context.Context, bucketName, objectKey string) (*models.Snapshot, error) {
	object, err := s.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, &lastvalues.IOError{Path: bucketName + "/" + objectKey, Err: err}
	}
	defer object.Close()

	// GetObject is lazy; a missing key only shows up on the first read.
	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, lastvalues.ErrNotFound
		}
		return nil, &lastvalues.IOError{Path: bucketName + "/" + objectKey, Err: err}
	}

	snap, err := models.ParseSnapshot(data)
	if err != nil {
		city, _ := keys.CityFromObject(objectKey)
		return nil, &lastvalues.DataFormatError{City: city, Err: err}
	}
	return snap, nil
}

// SnapshotGetter is the part of S3Service used by S3Source.
type SnapshotGetter interface {
	GetSnapshot(ctx context.Context, bucketName, objectKey string) (*models.Snapshot, error)
}

// S3Source serves lookups from <bucket>/<city>.json.
type S3Source struct {
	store  SnapshotGetter
	bucket string
}

func NewS3Source(store SnapshotGetter, bucket string) *S3Source {
	return &S3Source{store: store, bucket: bucket}
}

func (s *S3Source) Load(ctx context.Context, city string) (*models.Snapshot, error) {
	return s.store.GetSnapshot(ctx, s.bucket, keys.CacheObject(city))
}
