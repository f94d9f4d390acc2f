package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var (
	ErrNotAnImage   = errors.New("file is not a supported image")
	ErrFileTooLarge = errors.New("file is too large")
	ErrInvalidName  = errors.New("invalid media name")
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store keeps uploaded files on local disk under root and serves them below
// baseURL. Names are slash separated paths relative to root.
type Store struct {
	root    string
	baseURL string
}

func NewStore(root, baseURL string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &Store{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

// SaveImage stores the upload under dir with a random name and returns that
// name. The content is sniffed; the client's declared type is ignored.
func (s *Store) SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("fh.Open -> %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("mimetype.DetectReader -> %w", err)
	}
	if !imageTypes[mtype.String()] {
		return "", ErrNotAnImage
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("src.Seek -> %w", err)
	}

	name := path.Join(dir, uuid.NewString()+mtype.Extension())
	full, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll -> %w", err)
	}

	if err = writeFile(full, io.LimitReader(src, MaxImageSize+1)); err != nil {
		return "", err
	}

	return name, nil
}

// writeFile copies r into a new file at full. On any failure, including the
// final close, the partial file is removed.
func writeFile(full string, r io.Reader) error {
	dst, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("os.Create -> %w", err)
	}

	if _, err = io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(full)
		return fmt.Errorf("io.Copy -> %w", err)
	}

	if err = dst.Close(); err != nil {
		_ = os.Remove(full)
		return fmt.Errorf("dst.Close -> %w", err)
	}

	return nil
}

// Delete removes a stored file. Removing a missing file is not an error.
func (s *Store) Delete(name string) error {
	full, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err = os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}

// URL is the public address of name, or "" for an empty name.
func (s *Store) URL(name string) string {
	if name == "" {
		return ""
	}

	return s.baseURL + "/" + name
}

// resolve maps name onto the filesystem, refusing anything that would escape
// root.
func (s *Store) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || clean != "/"+name {
		return "", ErrInvalidName
	}

	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
