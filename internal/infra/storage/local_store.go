// Package storage implements image persistence on the local filesystem.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"yumbook/config"
	domainerrors "yumbook/internal/domain/errors"
	"yumbook/internal/domain/service"

	"github.com/pkg/errors"
)

// allowedExtensions is the upload allow-list. Anything else is rejected
// before a byte is written.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// localStore writes images under a single root directory. All paths are
// confined to the root to prevent traversal outside it.
type localStore struct {
	rootDir string
	baseURL string
}

// NewLocalStore is the constructor for localStore. The root directory is
// resolved to an absolute path and created if missing.
func NewLocalStore(cfg *config.Config) (service.ImageStore, error) {
	rootDir, err := filepath.Abs(cfg.Storage.RootDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve storage root")
	}

	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage root")
	}

	baseURL := cfg.Storage.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &localStore{
		rootDir: rootDir,
		baseURL: baseURL,
	}, nil
}

// Save validates the extension and content, then writes the file under
// dir. The partial file is removed if the write fails midway.
func (s *localStore) Save(ctx context.Context, dir, filename string, content io.Reader) (string, error) {
	if err := ValidateExtension(filename); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", errors.WithStack(ctx.Err())
	default:
	}

	relPath := filepath.Join(dir, filepath.Base(filename))
	absPath, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create image directory")
	}

	out, err := os.Create(absPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to create image file")
	}

	written, err := io.Copy(out, content)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(absPath)

		return "", errors.Wrap(err, "failed to write image file")
	}
	if written == 0 {
		_ = os.Remove(absPath)

		return "", domainerrors.ErrEmptyUpload.WrapMessage("image save rejected")
	}

	return relPath, nil
}

// Remove deletes a stored file. A missing file is treated as already removed.
func (s *localStore) Remove(_ context.Context, path string) error {
	absPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove image file")
	}

	return nil
}

// PublicURL maps a stored path to the URL it is served under.
func (s *localStore) PublicURL(path string) string {
	return s.baseURL + filepath.ToSlash(path)
}

// resolve joins path onto the root and rejects anything escaping it.
func (s *localStore) resolve(path string) (string, error) {
	absPath := filepath.Join(s.rootDir, path)
	if !strings.HasPrefix(absPath, s.rootDir+string(filepath.Separator)) {
		return "", errors.Errorf("path %q escapes storage root", path)
	}

	return absPath, nil
}

// ValidateExtension checks a filename against the upload allow-list.
func ValidateExtension(filename string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return domainerrors.ErrUnsupportedImageType.WrapMessage("no file extension found")
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return domainerrors.ErrUnsupportedImageType.WrapMessage("extension " + ext + " not allowed")
	}

	return nil
}
