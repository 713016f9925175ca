// Package suppliers carga y consulta facturas de proveedores con su comprobante.
package suppliers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

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

// AttachmentPrefix carpeta lógica de los comprobantes.
const AttachmentPrefix = "facturas_proveedores"

// SupplierBillUseCase alta, listado y baja de facturas de proveedores.
type SupplierBillUseCase struct {
	repo     repository.SupplierBillRepository
	store    repository.AttachmentStore
	recorder ActivityRecorder
	log      zerolog.Logger
	limit    int
	now      func() time.Time
}

// NewSupplierBillUseCase construye el caso de uso.
func NewSupplierBillUseCase(repo repository.SupplierBillRepository, store repository.AttachmentStore, recorder ActivityRecorder, limit int, log zerolog.Logger) *SupplierBillUseCase {
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	return &SupplierBillUseCase{repo: repo, store: store, recorder: recorder, log: log, limit: limit, now: time.Now}
}

// Register carga una factura de proveedor. Rechaza duplicados por (proveedor, CUIT).
// El archivo, si viene, se guarda con nombre único "<unixmillis>_<nombre>".
func (uc *SupplierBillUseCase) Register(ctx context.Context, who session.Identity, in dto.RegisterSupplierBillRequest) (*dto.SupplierBillResponse, error) {
	supplier := strings.TrimSpace(in.Supplier)
	cuit := strings.TrimSpace(in.CUIT)
	concept := strings.TrimSpace(in.Concept)
	switch {
	case supplier == "":
		return nil, domain.Invalid("supplier", domain.MissingFieldsReason)
	case cuit == "":
		return nil, domain.Invalid("cuit", domain.MissingFieldsReason)
	case concept == "":
		return nil, domain.Invalid("concept", domain.MissingFieldsReason)
	case in.Amount.IsZero():
		return nil, domain.Invalid("amount", domain.MissingFieldsReason)
	case in.Amount.IsNegative():
		return nil, domain.Invalid("amount", "El monto debe ser mayor a cero.")
	}

	existing, err := uc.repo.FindBySupplierAndCUIT(ctx, supplier, cuit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.DuplicateSupplierBillError{Supplier: supplier, CUIT: cuit}
	}

	now := uc.now().UTC()
	bill := &entity.SupplierBill{
		ID:             uuid.New().String(),
		Supplier:       supplier,
		CUIT:           cuit,
		Concept:        concept,
		Amount:         in.Amount,
		AttachmentName: entity.NoAttachmentName,
		UploadedAt:     now,
	}
	if len(in.File) > 0 && in.FileName != "" {
		name := filepath.Base(in.FileName)
		key := fmt.Sprintf("%s/%d_%s", AttachmentPrefix, now.UnixMilli(), name)
		url, err := uc.store.Put(ctx, key, in.File)
		if err != nil {
			return nil, err
		}
		bill.AttachmentKey = key
		bill.AttachmentURL = url
		bill.AttachmentName = name
	}
	if err := uc.repo.Create(ctx, bill); err != nil {
		if bill.AttachmentKey != "" {
			if derr := uc.store.Delete(ctx, bill.AttachmentKey); derr != nil {
				uc.log.Warn().Err(derr).Str("key", bill.AttachmentKey).Msg("no se pudo borrar el adjunto huérfano")
			}
		}
		return nil, err
	}
	uc.recorder.Record(ctx, entity.ActivityAlta, entity.ModuleProveedores,
		fmt.Sprintf("Factura de proveedor cargada: %s (CUIT %s), %s por $%s", supplier, cuit, concept, in.Amount.String()), who)
	resp := toResponse(bill)
	return &resp, nil
}

// List facturas de proveedores más recientes primero, filtradas por proveedor, CUIT o concepto.
func (uc *SupplierBillUseCase) List(ctx context.Context, f dto.SupplierBillFilter) ([]dto.SupplierBillResponse, error) {
	bills, err := uc.repo.List(ctx, uc.limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bills, func(i, j int) bool { return bills[i].UploadedAt.After(bills[j].UploadedAt) })
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]dto.SupplierBillResponse, 0, len(bills))
	for _, b := range bills {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Supplier), search) &&
			!strings.Contains(strings.ToLower(b.CUIT), search) &&
			!strings.Contains(strings.ToLower(b.Concept), search) {
			continue
		}
		out = append(out, toResponse(b))
	}
	return out, nil
}

// Delete elimina la factura y su comprobante.
func (uc *SupplierBillUseCase) Delete(ctx context.Context, who session.Identity, id string) error {
	bill, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bill == nil {
		return domain.ErrNotFound
	}
	if bill.AttachmentKey != "" {
		if err := uc.store.Delete(ctx, bill.AttachmentKey); err != nil {
			return err
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(ctx, entity.ActivityBaja, entity.ModuleProveedores,
		fmt.Sprintf("Factura de proveedor eliminada: %s (CUIT %s), Monto $%s", bill.Supplier, bill.CUIT, bill.Amount.String()), who)
	return nil
}

func toResponse(b *entity.SupplierBill) dto.SupplierBillResponse {
	return dto.SupplierBillResponse{
		ID:             b.ID,
		Supplier:       b.Supplier,
		CUIT:           b.CUIT,
		Concept:        b.Concept,
		Amount:         b.Amount,
		AttachmentURL:  b.AttachmentURL,
		AttachmentName: b.AttachmentName,
		UploadedAt:     b.UploadedAt,
	}
}
