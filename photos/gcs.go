package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/sanfx/clinc-app/shared"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GStorage keeps photos as objects in a Google Cloud Storage bucket.
// References are object names.
type GStorage struct {
	storageClient *storage.Client
	bucket        string
	prefix        string
	logg          *zap.SugaredLogger
}

func NewGStorage(ctx context.Context, config shared.GCSConfig, logg *zap.SugaredLogger) (*GStorage, error) {
	var client *storage.Client
	var err error

	if config.Bucket == "" {
		return nil, fmt.Errorf("NewGStorage: bucket is required")
	}

	if config.ApplicationCredentials != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(config.ApplicationCredentials))
	} else {
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("NewGStorage: %v", err)
	}

	return &GStorage{storageClient: client, bucket: config.Bucket, prefix: config.Prefix, logg: logg}, nil
}

// Save uploads an object.
func (gs *GStorage) Save(ctx context.Context, fileName string, content io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	object := path.Join(gs.prefix, path.Base(fileName))
	wc := gs.storageClient.Bucket(gs.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(wc, content); err != nil {
		wc.Close()
		return "", fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %v", err)
	}

	gs.logg.Debugf("Blob %v uploaded", object)
	return object, nil
}

// Remove deletes an object.
func (gs *GStorage) Remove(ctx context.Context, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	err := gs.storageClient.Bucket(gs.bucket).Object(ref).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("Object(%q).Delete: %v", ref, err)
	}

	gs.logg.Debugf("Blob %v deleted", ref)
	return nil
}

func (gs *GStorage) Close() error {
	return gs.storageClient.Close()
}
