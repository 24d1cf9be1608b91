package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded images and returns the relative reference to save
// on the owning record.
type Store interface {
	Save(ctx context.Context, folder, filename string, data []byte) (string, error)
}

type localStore struct {
	root string
}

func NewLocalStore(root string) Store {
	return &localStore{root: root}
}

func (s *localStore) Save(_ context.Context, folder, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	ref := path.Join(folder, fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext))

	dst := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return ref, nil
}
