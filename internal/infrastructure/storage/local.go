// Package storage guarda los comprobantes de proveedores en disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.AttachmentStore = (*LocalStore)(nil)

// LocalStore escribe bajo root y publica las claves bajo baseURL.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore crea el directorio raíz si no existe.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root directorio servido como estático.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", domain.Invalid("archivo", "Nombre de archivo inválido.")
	}
	return filepath.Join(s.root, clean), nil
}

// Put escribe el archivo (creando subdirectorios) y retorna su URL pública.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", domain.Transport("storage mkdir", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", domain.Transport("storage write", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", domain.Transport("storage rename", err)
	}
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(key), "/"), nil
}

// Delete borra el archivo; uno inexistente no es error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.Transport("storage delete", err)
	}
	return nil
}
