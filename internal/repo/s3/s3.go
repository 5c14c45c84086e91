package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/niposch/wake-on-lan-web/internal/config"
	"go.uber.org/zap"
)

// UploadFileRequest carries a device icon image.
type UploadFileRequest struct {
	Name        string
	ContentType string
	File        []byte
}

type Storage struct {
	cli    *minio.Client
	bucket string
	scheme string
	host   string
}

func New(conf config.MinioConfig) *Storage {
	cli, err := minio.New(
		conf.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
			Secure: conf.UseSSL,
		},
	)
	if err != nil {
		zap.L().Fatal("failed to connect to minio", zap.Error(err))
	}

	ctx := context.Background()
	exists, err := cli.BucketExists(ctx, conf.Bucket)
	if err != nil {
		zap.L().Fatal("failed to check bucket", zap.Error(err))
	}

	if !exists {
		if err = cli.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			zap.L().Fatal("failed to create bucket", zap.Error(err))
		}
	}

	scheme := "http"
	if conf.UseSSL {
		scheme = "https"
	}

	return &Storage{
		cli:    cli,
		bucket: conf.Bucket,
		scheme: scheme,
		host:   conf.Endpoint,
	}
}

func (s *Storage) UploadFile(ctx context.Context, req *UploadFileRequest) (string, error) {
	key := fmt.Sprintf("%s-%s", uuid.NewString(), req.Name)

	_, err := s.cli.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(req.File),
		int64(len(req.File)),
		minio.PutObjectOptions{ContentType: req.ContentType},
	)
	if err != nil {
		zap.L().Error("failed to upload file", zap.String("key", key), zap.Error(err))
		return "", err
	}

	return fmt.Sprintf("%s://%s/%s/%s", s.scheme, s.host, s.bucket, key), nil
}
