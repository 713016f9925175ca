package dto

// StaffRequest query de GET /api/staff y /api/staff/export.
type StaffRequest struct {
	Period string `query:"period" validate:"omitempty,oneof=dia semana mes anio"`
}

// StaffMemberDTO horas de un usuario en el período pedido.
type StaffMemberDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
	Hours float64 `json:"hours"`
}

// StaffReportDTO panel de carga horaria.
type StaffReportDTO struct {
	Period  string           `json:"period"`
	Members []StaffMemberDTO `json:"members"`
	Total   float64          `json:"total"`
}

// SetHoursRequest body de PUT /api/staff/:id/hours. Reemplaza los cuatro acumulados.
type SetHoursRequest struct {
	Day   float64 `json:"day" validate:"gte=0,lte=24"`
	Week  float64 `json:"week" validate:"gte=0,lte=168"`
	Month float64 `json:"month" validate:"gte=0,lte=744"`
	Year  float64 `json:"year" validate:"gte=0,lte=8784"`
}
