package photos

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sanfx/clinc-app/shared"
	"go.uber.org/zap"
)

// MinioStore keeps photos in an S3 compatible bucket. References are object names.
type MinioStore struct {
	client *minio.Client
	bucket string
	logg   *zap.SugaredLogger
}

func NewMinioStore(config shared.MinioConfig, logg *zap.SugaredLogger) (*MinioStore, error) {
	if config.Endpoint == "" || config.Bucket == "" {
		return nil, fmt.Errorf("NewMinioStore: endpoint and bucket are required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("NewMinioStore: %v", err)
	}

	return &MinioStore{client: client, bucket: config.Bucket, logg: logg}, nil
}

func (ms *MinioStore) Save(ctx context.Context, fileName string, content io.Reader) (string, error) {
	object := filepath.Base(fileName)

	_, err := ms.client.PutObject(ctx, ms.bucket, object, content, -1, minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(object)),
	})
	if err != nil {
		return "", fmt.Errorf("PutObject(%q): %v", object, err)
	}

	ms.logg.Debugf("Object %v uploaded to %v", object, ms.bucket)
	return object, nil
}

func (ms *MinioStore) Remove(ctx context.Context, ref string) error {
	err := ms.client.RemoveObject(ctx, ms.bucket, ref, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("RemoveObject(%q): %v", ref, err)
	}

	return nil
}
