package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/community-api/configs"
)

// StoredObject is one entry of the storage provider's object index.
type StoredObject struct {
	Key          string
	LastModified time.Time
}

type ObjectPage struct {
	Objects    []StoredObject
	NextCursor string
}

// ObjectStore is the external object-storage provider.
type ObjectStore interface {
	Upload(ctx context.Context, key string, file []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// ListPage returns one page of the object index starting at cursor. An
	// empty NextCursor marks the last page.
	ListPage(ctx context.Context, cursor string, limit int) (ObjectPage, error)
}

type R2Service struct {
	client *s3.Client
	bucket string
}

func NewR2Service(c cfg.Config) (*R2Service, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.R2.AccessKey, c.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	endpoint := c.R2.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2.AccountID)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Service{client: client, bucket: c.R2.BucketName}, nil
}

func (r *R2Service) Upload(ctx context.Context, key string, file []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	_, err := r.client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// Delete removes key. Deleting a missing key succeeds.
func (r *R2Service) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *R2Service) ListPage(ctx context.Context, cursor string, limit int) (ObjectPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(r.bucket),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}

	out, err := r.client.ListObjectsV2(ctx, input)
	if err != nil {
		return ObjectPage{}, fmt.Errorf("list objects: %w", err)
	}

	page := ObjectPage{Objects: make([]StoredObject, 0, len(out.Contents))}
	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, StoredObject{
			Key:          aws.ToString(obj.Key),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	if aws.ToBool(out.IsTruncated) {
		page.NextCursor = aws.ToString(out.NextContinuationToken)
	}

	return page, nil
}
