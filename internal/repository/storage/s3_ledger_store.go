package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/dafibh/finanzas/finanzas-backend/internal/config"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
)

const objectSuffix = ".json"

// ObjectClient is the subset of the S3 API the ledger store needs
type ObjectClient interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3LedgerStore implements domain.LedgerStore with one object per ledger path:
// "accounts/abc" is stored as {prefix}/accounts/abc.json
type S3LedgerStore struct {
	client ObjectClient
	bucket string
	prefix string
}

// NewS3Client builds an S3 client from configuration
func NewS3Client(ctx context.Context, s3cfg cfg.S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}

	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if s3cfg.Endpoint != "" {
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		}), nil
	}
	return s3.NewFromConfig(awsCfg), nil
}

// NewS3LedgerStore creates a store over client
func NewS3LedgerStore(client ObjectClient, bucket, prefix string) *S3LedgerStore {
	return &S3LedgerStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3LedgerStore) objectKey(path string) string {
	return kvtree.Join(s.prefix, path) + objectSuffix
}

func (s *S3LedgerStore) childPrefix(path string) string {
	return kvtree.Join(s.prefix, path) + "/"
}

// pathOf maps an object key back to a ledger path
func (s *S3LedgerStore) pathOf(key string) string {
	key = strings.TrimSuffix(key, objectSuffix)
	if s.prefix != "" {
		key = strings.TrimPrefix(key, s.prefix+"/")
	}
	return key
}

// Get returns the object at path, assembling child objects for collection paths
func (s *S3LedgerStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return nil, false, err
	}

	var entries []kvtree.Entry
	exact, found, err := s.read(ctx, s.objectKey(path))
	if err != nil {
		return nil, false, err
	}
	if found {
		entries = append(entries, kvtree.Entry{Path: path, Value: exact})
	}

	keys, err := s.list(ctx, s.childPrefix(path))
	if err != nil {
		return nil, false, err
	}
	for _, key := range keys {
		data, ok, err := s.read(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if ok {
			entries = append(entries, kvtree.Entry{Path: s.pathOf(key), Value: data})
		}
	}

	return kvtree.Assemble(path, entries)
}

// Set replaces path and its subtree
func (s *S3LedgerStore) Set(ctx context.Context, path string, value []byte) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}
	if err := s.deleteChildren(ctx, path); err != nil {
		return err
	}
	return s.write(ctx, s.objectKey(path), value)
}

// Append writes value under a new child key of path
func (s *S3LedgerStore) Append(ctx context.Context, path string, value []byte) (string, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return "", err
	}
	key := kvtree.NewKey()
	if err := s.write(ctx, s.objectKey(kvtree.Join(path, key)), value); err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes path and its subtree
func (s *S3LedgerStore) Delete(ctx context.Context, path string) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}
	if err := s.deleteChildren(ctx, path); err != nil {
		return err
	}
	return s.remove(ctx, s.objectKey(path))
}

func (s *S3LedgerStore) deleteChildren(ctx context.Context, path string) error {
	keys, err := s.list(ctx, s.childPrefix(path))
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3LedgerStore) read(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get object %s: %v", domain.ErrLedgerUnavailable, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read object %s: %v", domain.ErrLedgerUnavailable, key, err)
	}
	return data, true, nil
}

func (s *S3LedgerStore) write(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(value),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(value))),
	})
	if err != nil {
		return fmt.Errorf("%w: put object %s: %v", domain.ErrLedgerUnavailable, key, err)
	}
	return nil
}

func (s *S3LedgerStore) remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete object %s: %v", domain.ErrLedgerUnavailable, key, err)
	}
	return nil
}

func (s *S3LedgerStore) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", domain.ErrLedgerUnavailable, prefix, err)
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); strings.HasSuffix(key, objectSuffix) {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}
