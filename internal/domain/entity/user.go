package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmpleado = "empleado"
)

// User representa un usuario del back-office.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, empleado
	Hours        WorkHours
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeRole devuelve el rol efectivo: cualquier valor distinto de admin es empleado.
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleEmpleado
}

// Períodos de la carga horaria.
const (
	HoursDay   = "dia"
	HoursWeek  = "semana"
	HoursMonth = "mes"
	HoursYear  = "anio"
)

// WorkHours horas trabajadas acumuladas por período.
type WorkHours struct {
	Day   float64
	Week  float64
	Month float64
	Year  float64
}

// For devuelve las horas del período; uno desconocido devuelve 0.
func (h WorkHours) For(period string) float64 {
	switch period {
	case HoursDay:
		return h.Day
	case HoursWeek:
		return h.Week
	case HoursMonth:
		return h.Month
	case HoursYear:
		return h.Year
	}
	return 0
}
