// Package images stores uploaded product images on local disk.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("file too large")
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes}
}

// Allowed reports whether filename has an image extension on the allow-list.
func Allowed(filename string) bool {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[dot+1:])]
}

// SecureFilename reduces name to a flat ASCII filename that cannot escape
// the upload directory. It may return an empty string.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Save validates and writes an upload and returns the stored file name, which
// is the sanitized original name prefixed with a random UUID.
func (s *Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", ErrFileTypeNotAllowed
	}

	secure := SecureFilename(filename)
	if !Allowed(secure) {
		secure = "image" + strings.ToLower(filepath.Ext(filename))
	}
	stored := fmt.Sprintf("%s_%s", uuid.NewString(), secure)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.dir, stored)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write upload: %w", err)
	}

	logging.Info(ctx).
		Str("original", filename).
		Str("stored", stored).
		Int64("bytes", written).
		Msg("image stored")

	return stored, nil
}

// Remove deletes a stored image. Missing files are ignored.
func (s *Store) Remove(stored string) error {
	if stored == "" || stored != filepath.Base(stored) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, stored)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
