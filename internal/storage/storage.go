package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the media bucket: uploaded logos and re-hosted generated images
// live on disk and are served under /media with stable public URLs.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a generated name and returns its public URL. The
// extension is kept so Content-Type sniffing on serve stays cheap.
func (s *Store) Save(data []byte, filename string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	name := uuid.NewString() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.baseURL + "/media/" + name, nil
}
