package storage

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// MediaStorage hosts song and moment assets in an S3 bucket and hands back
// public URLs.
type MediaStorage struct {
	Session *session.Session
	S3      *s3.S3
	Bucket  string
	Region  string
}

// NewMediaStorage creates a storage adapter for the given bucket.
func NewMediaStorage(bucket, region, accessKeyID, secretAccessKey string) (*MediaStorage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKeyID, secretAccessKey, ""),
	})
	if err != nil {
		return nil, err
	}
	return &MediaStorage{
		Session: sess,
		S3:      s3.New(sess),
		Bucket:  bucket,
		Region:  region,
	}, nil
}

// Put uploads the payload under key and returns its public URL.
func (s *MediaStorage) Put(data []byte, key, contentType string) (string, error) {
	uploader := s3manager.NewUploaderWithClient(s.S3)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}

// Delete removes the object behind a public URL previously returned by Put.
func (s *MediaStorage) Delete(publicURL string) error {
	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return err
	}
	_, err = s.S3.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *MediaStorage) keyFromURL(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid media URL %q: %w", publicURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("media URL %q has no object key", publicURL)
	}
	return key, nil
}
