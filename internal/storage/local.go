// Package storage keeps user uploads on the local filesystem.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/emotune/emotune/internal/frame"
)

const jpegQuality = 90

// LocalStore writes profile pictures under Dir and serves them from
// BaseURL + "/uploads/".
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory mounted at /uploads
func (s *LocalStore) Dir() string {
	return s.dir
}

// ProfilePictureName maps an email to a stable file name
func ProfilePictureName(email string) string {
	return strings.ReplaceAll(email, "@", "_at_") + ".jpg"
}

// SaveProfilePicture decodes the upload, re-encodes it as JPEG and returns
// its public URL. A later upload for the same email replaces the file.
func (s *LocalStore) SaveProfilePicture(ctx context.Context, email string, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := frame.Decode(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.Image, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encode profile picture: %w", err)
	}

	name := ProfilePictureName(email)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write profile picture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close profile picture: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store profile picture: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}
