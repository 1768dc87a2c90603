// Package storage holds the avatar object store. Profile images are the only
// binary payload in the system; everything else lives in the relational store.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/veltaro/facility-booking/internal/config"
)

type AvatarStore struct {
	client *s3.Client
	cfg    config.StorageConfig
}

func NewAvatarStore(cfg config.StorageConfig) *AvatarStore {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: true,
		Credentials:  awscreds.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &AvatarStore{
		client: s3.New(opts),
		cfg:    cfg,
	}
}

func (s *AvatarStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// URL builds the public location for a stored key.
func (s *AvatarStore) URL(key string) string {
	if s.cfg.CustomDomain != "" {
		return fmt.Sprintf("%s/%s", s.cfg.CustomDomain, key)
	}
	return fmt.Sprintf("%s/%s/%s", s.cfg.Endpoint, s.cfg.Bucket, key)
}
