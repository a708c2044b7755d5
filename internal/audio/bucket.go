package audio

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/vlatan/storytime/internal/integrations/r2"
	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/internal/utils"
)

// BucketStore keeps the audio files in an R2 bucket
type BucketStore struct {
	r2s    r2.Service
	bucket string
}

func NewBucketStore(r2s r2.Service, bucket string) *BucketStore {
	return &BucketStore{r2s: r2s, bucket: bucket}
}

// Save puts the audio object to the bucket
func (s *BucketStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {

	if err := utils.ValidateFileName(name); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.r2s.PutObject(ctx, s.bucket, name, r, contentType, nil); err != nil {
		return "", err
	}

	return URL(name), nil
}

// Open streams the audio object from the bucket
func (s *BucketStore) Open(ctx context.Context, name string) (*Object, error) {

	if err := utils.ValidateFileName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}

	out, err := s.r2s.GetObject(ctx, s.bucket, name)
	if err != nil {
		return nil, err
	}

	return &Object{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
	}, nil
}
