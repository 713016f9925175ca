package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.AttachmentStore = (*AttachmentStore)(nil)

// AttachmentStore adjuntos en memoria.
type AttachmentStore struct {
	g       guard
	baseURL string
}

func (a *AttachmentStore) Put(_ context.Context, key string, data []byte) (string, error) {
	defer a.g.lock()()
	a.g.s.files[key] = append([]byte(nil), data...)
	return strings.TrimRight(a.baseURL, "/") + "/" + key, nil
}

func (a *AttachmentStore) Delete(_ context.Context, key string) error {
	defer a.g.lock()()
	delete(a.g.s.files, key)
	return nil
}

// Has indica si existe un adjunto con esa clave.
func (a *AttachmentStore) Has(key string) bool {
	defer a.g.lock()()
	_, ok := a.g.s.files[key]
	return ok
}
