package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sanfx/clinc-app/shared"
	"go.uber.org/zap"
)

const (
	LOCAL_BACKEND = "local"
	GCS_BACKEND   = "gcs"
	MINIO_BACKEND = "minio"

	DEFAULT_DIR = "images"
)

var ErrOutsideStore = errors.New("photo is outside the photo store")

// Store keeps patient photos. Save returns the reference that is recorded on the
// patient; Remove takes that reference back and treats a missing photo as removed.
type Store interface {
	Save(ctx context.Context, fileName string, content io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// New returns the Store selected by config.Backend.
func New(ctx context.Context, config shared.PhotosConfig, logg *zap.SugaredLogger) (Store, error) {
	switch config.Backend {
	case LOCAL_BACKEND, "":
		dir := config.Dir
		if dir == "" {
			dir = DEFAULT_DIR
		}
		return NewLocalStore(dir, logg)
	case GCS_BACKEND:
		return NewGStorage(ctx, config.GCS, logg)
	case MINIO_BACKEND:
		return NewMinioStore(config.Minio, logg)
	default:
		return nil, fmt.Errorf("unsupported photo backend %q", config.Backend)
	}
}

// FileName names a patient photo after the patient, e.g. "Asha_5550100_X12_ab.png".
func FileName(name, phoneNumber, nationalID, originalName string) string {
	fileName := fmt.Sprintf("%s_%s_%s%s", name, phoneNumber, nationalID, filepath.Ext(originalName))

	// Keep the photo inside the store's directory
	return strings.NewReplacer("/", "-", `\`, "-").Replace(fileName)
}
