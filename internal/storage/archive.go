// Package storage archives exported recipe pages in S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const defaultURLExpiry = 7 * 24 * time.Hour

// S3Archive stores rendered recipe pages under exports/ and hands out
// presigned links to them.
type S3Archive struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

func NewS3Archive(client *s3.Client, bucket string, expiry time.Duration) *S3Archive {
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	return &S3Archive{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		expiry:  expiry,
	}
}

// Store uploads page and returns a presigned GET URL for it.
func (a *S3Archive) Store(ctx context.Context, title string, page []byte) (string, error) {
	key := fmt.Sprintf("exports/%s.html", uuid.New().String())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(a.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(page),
		ContentType:  aws.String("text/html; charset=utf-8"),
		CacheControl: aws.String("private, max-age=3600"),
		Metadata:     map[string]string{"title": asciiOnly(title)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// asciiOnly keeps metadata headers within what S3 accepts.
func asciiOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 0x20 && c < 0x7f {
			out = append(out, c)
		}
	}
	return string(out)
}
