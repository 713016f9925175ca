// Package customers mantiene la agenda de clientes.
package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// ActivityRecorder registra actividad en el historial.
type ActivityRecorder interface {
	Record(ctx context.Context, kind, module, description string, who session.Identity)
}

// CustomerUseCase alta, listado y baja de clientes.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	recorder ActivityRecorder
	limit    int
	now      func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, recorder ActivityRecorder, limit int) *CustomerUseCase {
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	return &CustomerUseCase{repo: repo, recorder: recorder, limit: limit, now: time.Now}
}

// Register da de alta un cliente. Nombre, CUIT y condición de IVA son obligatorios;
// no se controla que el CUIT sea único.
func (uc *CustomerUseCase) Register(ctx context.Context, who session.Identity, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	cuit := strings.TrimSpace(in.CUIT)
	vat := strings.TrimSpace(in.VATStatus)
	switch {
	case name == "":
		return nil, domain.Invalid("name", domain.MissingFieldsReason)
	case cuit == "":
		return nil, domain.Invalid("cuit", domain.MissingFieldsReason)
	case vat == "":
		return nil, domain.Invalid("vat_status", domain.MissingFieldsReason)
	}
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		CUIT:      cuit,
		VATStatus: vat,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, entity.ActivityAlta, entity.ModuleClientes,
		fmt.Sprintf("Nuevo cliente creado: %s (%s)", name, cuit), who)
	resp := toResponse(c)
	return &resp, nil
}

// List clientes por nombre, filtrados por nombre o CUIT sin distinguir mayúsculas.
func (uc *CustomerUseCase) List(ctx context.Context, f dto.CustomerFilter) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx, uc.limit)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.CUIT), search) {
			continue
		}
		out = append(out, toResponse(c))
	}
	return out, nil
}

// Delete elimina el cliente. Las facturas emitidas a su nombre no cambian.
func (uc *CustomerUseCase) Delete(ctx context.Context, who session.Identity, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(ctx, entity.ActivityBaja, entity.ModuleClientes,
		fmt.Sprintf("Cliente eliminado: %s", c.Name), who)
	return nil
}

func toResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		CUIT:      c.CUIT,
		VATStatus: c.VATStatus,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}
