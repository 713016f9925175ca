package audit

import (
	"context"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// HistoryUseCase consulta del historial de actividades.
type HistoryUseCase struct {
	repo  repository.ActivityRepository
	limit int
}

// NewHistoryUseCase construye el caso de uso. limit acota la página traída del almacén.
func NewHistoryUseCase(repo repository.ActivityRepository, limit int) *HistoryUseCase {
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	return &HistoryUseCase{repo: repo, limit: limit}
}

// List retorna el historial más reciente primero, filtrado por módulo, tipo y texto.
func (uc *HistoryUseCase) List(ctx context.Context, f dto.ActivityFilter) ([]dto.ActivityEntryResponse, error) {
	entries, err := uc.repo.List(ctx, uc.limit)
	if err != nil {
		return nil, err
	}
	text := strings.ToLower(strings.TrimSpace(f.Text))
	out := make([]dto.ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		if f.Module != "" && e.Module != f.Module {
			continue
		}
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(e.Description), text) {
			continue
		}
		out = append(out, toEntryResponse(e))
	}
	return out, nil
}

func toEntryResponse(e *entity.ActivityEntry) dto.ActivityEntryResponse {
	return dto.ActivityEntryResponse{
		ID:          e.ID,
		Kind:        e.Kind,
		Module:      e.Module,
		Description: e.Description,
		Actor:       e.Actor,
		CreatedAt:   e.CreatedAt,
	}
}
