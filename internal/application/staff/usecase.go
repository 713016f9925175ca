// Package staff expone la carga horaria del personal.
package staff

import (
	"context"
	"fmt"
	"time"

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

// StaffPDFGenerator renderiza el panel de carga horaria.
type StaffPDFGenerator interface {
	GenerateStaffPDF(ctx context.Context, report *dto.StaffReportDTO) ([]byte, error)
}

var periodLabels = map[string]string{
	entity.HoursDay:   "día",
	entity.HoursWeek:  "semana",
	entity.HoursMonth: "mes",
	entity.HoursYear:  "año",
}

// StaffUseCase panel, exportación y carga de horas.
type StaffUseCase struct {
	users    repository.UserRepository
	recorder ActivityRecorder
	pdf      StaffPDFGenerator
	now      func() time.Time
}

// NewStaffUseCase construye el caso de uso.
func NewStaffUseCase(users repository.UserRepository, recorder ActivityRecorder, pdf StaffPDFGenerator) *StaffUseCase {
	return &StaffUseCase{users: users, recorder: recorder, pdf: pdf, now: time.Now}
}

// Report horas de cada usuario en el período ("" = semana) y registra la consulta.
func (uc *StaffUseCase) Report(ctx context.Context, who session.Identity, period string) (*dto.StaffReportDTO, error) {
	rep, err := uc.build(ctx, period)
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, entity.ActivityConsulta, entity.ModulePersonal,
		"Visualización de panel de carga horaria", who)
	return rep, nil
}

// Export genera el PDF del panel y registra la descarga.
func (uc *StaffUseCase) Export(ctx context.Context, who session.Identity, period string) ([]byte, string, error) {
	rep, err := uc.build(ctx, period)
	if err != nil {
		return nil, "", err
	}
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	b, err := uc.pdf.GenerateStaffPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	uc.recorder.Record(ctx, entity.ActivityDescarga, entity.ModulePersonal,
		"Exportación de carga horaria", who)
	return b, fmt.Sprintf("carga_horaria_%s_%s.pdf", rep.Period, uc.now().Format("20060102")), nil
}

// SetHours reemplaza los acumulados del usuario.
func (uc *StaffUseCase) SetHours(ctx context.Context, who session.Identity, id string, in dto.SetHoursRequest) (*dto.StaffMemberDTO, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	hours := entity.WorkHours{Day: in.Day, Week: in.Week, Month: in.Month, Year: in.Year}
	if err := uc.users.SetHours(ctx, id, hours); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, entity.ActivityAjuste, entity.ModulePersonal,
		fmt.Sprintf("Carga horaria actualizada: %s (%.1f h semana)", displayName(u), in.Week), who)
	u.Hours = hours
	m := toMember(u, entity.HoursWeek)
	return &m, nil
}

func (uc *StaffUseCase) build(ctx context.Context, period string) (*dto.StaffReportDTO, error) {
	if period == "" {
		period = entity.HoursWeek
	}
	if _, ok := periodLabels[period]; !ok {
		return nil, domain.Invalid("period", "Período inválido.")
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	rep := &dto.StaffReportDTO{Period: period, Members: make([]dto.StaffMemberDTO, 0, len(users))}
	for _, u := range users {
		m := toMember(u, period)
		rep.Members = append(rep.Members, m)
		rep.Total += m.Hours
	}
	return rep, nil
}

// PeriodLabel nombre legible del período.
func PeriodLabel(period string) string {
	if l, ok := periodLabels[period]; ok {
		return l
	}
	return period
}

func toMember(u *entity.User, period string) dto.StaffMemberDTO {
	return dto.StaffMemberDTO{
		ID:    u.ID,
		Name:  displayName(u),
		Email: u.Email,
		Role:  entity.NormalizeRole(u.Role),
		Hours: u.Hours.For(period),
	}
}

func displayName(u *entity.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
