package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ProofStore persists payment-proof images on local disk, keyed
// {userID}/{timestamp}.{ext}, and returns the public URL they are served at.
type ProofStore struct {
	dir     string
	baseURL string
}

func NewProofStore(dir, baseURL string) *ProofStore {
	return &ProofStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Dir is the root the HTTP layer serves as /uploads.
func (s *ProofStore) Dir() string { return s.dir }

func (s *ProofStore) Save(userID uuid.UUID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	rel := filepath.Join(userID.String(), fmt.Sprintf("%d%s", time.Now().UnixMilli(), ext))
	full := filepath.Join(s.dir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return s.baseURL + "/uploads/" + filepath.ToSlash(rel), nil
}
