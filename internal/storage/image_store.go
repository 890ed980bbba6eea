package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Denn4ik2010/online-shop/shared/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore keeps uploaded product images on local disk and serves them
// under urlPrefix.
type ImageStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	log       *zap.SugaredLogger
}

func NewImageStore(dir, urlPrefix string, maxBytes int64, log *zap.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &ImageStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxBytes:  maxBytes,
		log:       log.Sugar(),
	}, nil
}

func (s *ImageStore) Dir() string { return s.dir }

// Save sniffs the upload, writes it under a random name and returns its url.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", models.ErrInvalidImage, fh.Filename, s.maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: %s is empty", models.ErrInvalidImage, fh.Filename)
	}
	ext, ok := imageExtensions[http.DetectContentType(head[:n])]
	if !ok {
		return "", fmt.Errorf("%w: %s is not jpeg, png or webp", models.ErrInvalidImage, fh.Filename)
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	// The size header comes from the client, so cap the copy as well.
	_, err = io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(head[:n]), src), s.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.remove(name)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if info, statErr := os.Stat(filepath.Join(s.dir, name)); statErr == nil && info.Size() > s.maxBytes {
		s.remove(name)
		return "", fmt.Errorf("%w: %s exceeds %d bytes", models.ErrInvalidImage, fh.Filename, s.maxBytes)
	}

	return s.urlPrefix + "/" + name, nil
}

// Remove deletes the files behind urls. Unknown urls are ignored.
func (s *ImageStore) Remove(urls ...string) {
	for _, u := range urls {
		if !strings.HasPrefix(u, s.urlPrefix+"/") {
			continue
		}
		s.remove(path.Base(u))
	}
}

func (s *ImageStore) remove(name string) {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		s.log.Warnw("failed to remove image", "file", name, "error", err)
	}
}
