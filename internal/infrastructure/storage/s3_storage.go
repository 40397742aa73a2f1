// Package storage grava os snapshots do estoque num bucket S3 (ou compatível).
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/amancio-obras/estoque-obras/internal/application/report"
)

var _ report.ObjectStorage = (*S3Storage)(nil)

// PutObjectAPI subconjunto do cliente S3 usado aqui.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage implementa report.ObjectStorage.
type S3Storage struct {
	client PutObjectAPI
	bucket string
}

// Options parâmetros de conexão. Credenciais vêm da cadeia padrão da AWS (env, perfil, IAM).
type Options struct {
	Bucket   string
	Region   string
	Endpoint string
}

// NewS3Storage carrega a configuração AWS e cria o cliente.
func NewS3Storage(ctx context.Context, opts Options) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage/s3: S3_BUCKET não configurado")
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}
	var clientOpts []func(*s3.Options)
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}
	return NewS3StorageWithClient(s3.NewFromConfig(cfg, clientOpts...), opts.Bucket), nil
}

// NewS3StorageWithClient usa um cliente já construído.
func NewS3StorageWithClient(client PutObjectAPI, bucket string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket}
}

// Put grava body em key e devolve a URI s3://bucket/key.
func (s *S3Storage) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage/s3: put %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
