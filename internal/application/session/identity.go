// Package session modela la identidad del usuario autenticado que se pasa
// explícitamente a cada caso de uso.
package session

import "github.com/jhoicas/backoffice-api/internal/domain/entity"

// Identity usuario que ejecuta la operación. El valor cero representa un usuario desconocido.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Anonymous identidad usada por procesos sin sesión (CLI, tareas internas).
var Anonymous = Identity{}

// Actor identificador que se registra en el historial.
func (i Identity) Actor() string {
	switch {
	case i.Email != "":
		return i.Email
	case i.UserID != "":
		return i.UserID
	default:
		return entity.UnknownActor
	}
}

// IsAdmin indica si la identidad tiene rol admin.
func (i Identity) IsAdmin() bool { return i.Role == entity.RoleAdmin }

// Key clave estable para estado por usuario (borradores de ajuste).
func (i Identity) Key() string {
	if i.UserID != "" {
		return i.UserID
	}
	return entity.UnknownActor
}
