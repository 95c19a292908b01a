package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"vamo/fellowship-app/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// metadata keys stored on each S3 object (S3 lowercases user metadata)
const (
	metaFilename   = "filename"
	metaMimeType   = "mimetype"
	metaFrom       = "from"
	metaSubject    = "subject"
	metaReceivedAt = "receivedat"
)

// s3Storage implements the ObjectStorage interface using an S3-compatible backend.
type s3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient // Special client for generating presigned URLs
	bucketName    string
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(cfg config.S3Config) (ObjectStorage, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws", // Usually "aws" even for compatible storage
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Force path-style addressing required by most S3-compatible services (like MinIO)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true // IMPORTANT for S3-compatible like MinIO!
	})

	presignClient := s3.NewPresignClient(s3Client)

	log.Printf("S3 Storage Service initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3Storage{
		client:        s3Client,
		presignClient: presignClient,
		bucketName:    cfg.BucketName,
	}, nil
}

func metadataToMap(meta ObjectMetadata) map[string]string {
	m := map[string]string{
		metaFilename: meta.Filename,
		metaMimeType: meta.MimeType,
	}
	if meta.From != "" {
		m[metaFrom] = meta.From
	}
	if meta.Subject != "" {
		m[metaSubject] = meta.Subject
	}
	if meta.ReceivedAt != "" {
		m[metaReceivedAt] = meta.ReceivedAt
	}
	return m
}

func metadataFromMap(m map[string]string) ObjectMetadata {
	return ObjectMetadata{
		Filename:   m[metaFilename],
		MimeType:   m[metaMimeType],
		From:       m[metaFrom],
		Subject:    m[metaSubject],
		ReceivedAt: m[metaReceivedAt],
	}
}

// wrapBackendErr classifies an S3 error into the storage error taxonomy.
func wrapBackendErr(op, key string, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return ErrObjectNotFound
	}
	log.Printf("ERROR: S3 %s failed for key '%s': %v", op, key, err)
	return fmt.Errorf("%w: %s %s: %v", ErrStorageUnavailable, op, key, err)
}

// Put writes an object together with its metadata.
func (s *s3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, meta ObjectMetadata) error {
	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		Metadata:      metadataToMap(meta),
	})
	if err != nil {
		return wrapBackendErr("put", key, err)
	}

	log.Printf("INFO: Stored object '%s' in bucket '%s' (%d bytes)", key, s.bucketName, size)
	return nil
}

// Get opens an object for reading.
func (s *s3Storage) Get(ctx context.Context, key string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapBackendErr("get", key, err)
	}

	meta := metadataFromMap(out.Metadata)
	if meta.MimeType == "" && out.ContentType != nil {
		meta.MimeType = *out.ContentType
	}

	return &Object{
		Body:     out.Body,
		Size:     aws.ToInt64(out.ContentLength),
		Metadata: meta,
	}, nil
}

// List walks the bucket under prefix and fetches per-object metadata with a
// HEAD call, the same way the keys were written: one blob per key, metadata
// alongside it, no separate index.
func (s *s3Storage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapBackendErr("list", prefix, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			info := ObjectInfo{
				Key:        key,
				Size:       aws.ToInt64(obj.Size),
				UploadedAt: aws.ToTime(obj.LastModified),
			}

			head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(s.bucketName),
				Key:    aws.String(key),
			})
			if err != nil {
				// Racing delete between list and head; skip rather than fail the listing.
				log.Printf("WARN: HEAD failed for key '%s' during listing: %v", key, err)
				continue
			}
			info.Metadata = metadataFromMap(head.Metadata)
			infos = append(infos, info)
		}
	}

	return infos, nil
}

// Delete removes an object from the S3 bucket. S3 treats deleting a missing
// key as success, which matches the fire-and-forget contract.
func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapBackendErr("delete", key, err)
	}

	log.Printf("INFO: Deleted object '%s' from bucket '%s'", key, s.bucketName)
	return nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Printf("ERROR: Failed to generate presigned GET URL for key '%s': %v", key, err)
		return "", err
	}

	return req.URL, nil
}
