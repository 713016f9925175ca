package entity

import "time"

// Tipos de actividad del historial. Enumeración abierta: se aceptan otros valores.
const (
	ActivityAlta     = "alta"
	ActivityBaja     = "baja"
	ActivityAjuste   = "ajuste"
	ActivityConsulta = "consulta"
	ActivityDescarga = "descarga"
	ActivityLogin    = "login"
)

// Módulos que emiten actividad.
const (
	ModuleFacturacion = "facturacion"
	ModuleStock       = "stock"
	ModuleProveedores = "proveedores"
	ModuleReportes    = "reportes"
	ModuleAuth        = "auth"
	ModuleClientes    = "clientes"
	ModulePersonal    = "personal"
)

// UnknownActor se registra cuando el flujo no recibió la identidad del usuario.
const UnknownActor = "desconocido"

// ActivityEntry registro inmutable del historial de actividades.
type ActivityEntry struct {
	ID          string
	Kind        string
	Module      string
	Description string
	Actor       string
	CreatedAt   time.Time
}
