package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
)

// S3ObjectStore implements ObjectStore on top of an S3 bucket.
type S3ObjectStore struct {
	client *s3.Client
	bucket string
}

// NewS3ObjectStore creates an S3-backed object store.
func NewS3ObjectStore(client *s3.Client, bucket string) *S3ObjectStore {
	return &S3ObjectStore{client: client, bucket: bucket}
}

func (s *S3ObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify("get", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		// Body read failures are network-class.
		return nil, domain.Transient(fmt.Errorf("get %s: read body: %w", key, err))
	}
	return body, nil
}

func (s *S3ObjectStore) PutObject(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return classify("put", key, err)
	}
	return nil
}

func (s *S3ObjectStore) ListObjects(ctx context.Context, prefix string, continuationToken *string) (*ListPage, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:            aws.String(s.bucket),
		Prefix:            aws.String(prefix),
		ContinuationToken: continuationToken,
	})
	if err != nil {
		return nil, classify("list", prefix, err)
	}

	page := &ListPage{Keys: make([]string, 0, len(out.Contents))}
	for _, obj := range out.Contents {
		if obj.Key != nil {
			page.Keys = append(page.Keys, *obj.Key)
		}
	}
	if aws.ToBool(out.IsTruncated) {
		page.NextContinuationToken = out.NextContinuationToken
	}
	return page, nil
}

func (s *S3ObjectStore) DeleteObject(ctx context.Context, key string) error {
	// S3 DeleteObject is idempotent: deleting a missing key succeeds.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify("delete", key, err)
	}
	return nil
}

// transientCodes are S3/STS error codes worth retrying.
var transientCodes = map[string]bool{
	"SlowDown":             true,
	"503 SlowDown":         true,
	"RequestTimeout":       true,
	"RequestLimitExceeded": true,
	"Throttling":           true,
	"ThrottlingException":  true,
	"ServiceUnavailable":   true,
	"InternalError":        true,
}

// classify normalizes an SDK error into the domain taxonomy. Missing
// keys map to domain.ErrNotFound; throttling, 5xx and transport-level
// failures are marked transient; everything else (access denied,
// malformed requests) is terminal.
func classify(op, key string, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%s %s: %w", op, key, domain.ErrNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if transientCodes[apiErr.ErrorCode()] {
			return domain.Transient(fmt.Errorf("%s %s: %w", op, key, err))
		}
		var respErr *smithyhttp.ResponseError
		if errors.As(err, &respErr) {
			status := respErr.HTTPStatusCode()
			if status >= 500 || status == 429 {
				return domain.Transient(fmt.Errorf("%s %s: %w", op, key, err))
			}
		}
		return fmt.Errorf("%s %s: %w", op, key, err)
	}

	// No API error in the chain means the request never got a
	// response (DNS, connection reset, timeout). Retry those.
	return domain.Transient(fmt.Errorf("%s %s: %w", op, key, err))
}
