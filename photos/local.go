package photos

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sanfx/clinc-app/utils"
	"go.uber.org/zap"
)

// LocalStore keeps photos as files under a directory. References are file paths.
type LocalStore struct {
	dir  string
	logg *zap.SugaredLogger
}

func NewLocalStore(dir string, logg *zap.SugaredLogger) (*LocalStore, error) {
	if err := utils.CreateDirIfNotExist(dir); err != nil {
		return nil, fmt.Errorf("NewLocalStore: %v", err)
	}

	return &LocalStore{dir: dir, logg: logg}, nil
}

func (ls *LocalStore) Save(ctx context.Context, fileName string, content io.Reader) (string, error) {
	filePath := filepath.Join(ls.dir, filepath.Base(fileName))

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("os.OpenFile: %v", err)
	}

	if _, err = io.Copy(f, content); err != nil {
		f.Close()
		return "", fmt.Errorf("io.Copy: %v", err)
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("f.Close: %v", err)
	}

	ls.logg.Debugf("Photo saved to %v", filePath)
	return filePath, nil
}

// Remove deletes a photo saved by this store. References outside the store's directory
// are refused.
func (ls *LocalStore) Remove(ctx context.Context, ref string) error {
	inside, err := ls.contains(ref)
	if err != nil {
		return err
	}
	if !inside {
		return fmt.Errorf("%w: %q", ErrOutsideStore, ref)
	}

	exists, err := utils.FileExist(ref)
	if err != nil {
		return fmt.Errorf("utils.FileExist: %v", err)
	}
	if !exists {
		ls.logg.Debugf("Photo %v already removed", ref)
		return nil
	}

	if err := os.Remove(ref); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove: %v", err)
	}

	return nil
}

func (ls *LocalStore) contains(ref string) (bool, error) {
	dir, err := filepath.Abs(ls.dir)
	if err != nil {
		return false, fmt.Errorf("filepath.Abs: %v", err)
	}

	target, err := filepath.Abs(ref)
	if err != nil {
		return false, fmt.Errorf("filepath.Abs: %v", err)
	}

	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false, nil
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}
