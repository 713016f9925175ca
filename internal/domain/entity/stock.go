package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DefaultUnit unidad usada cuando el alta no especifica una.
const DefaultUnit = "unidad"

// StockItem representa un producto del inventario con su cantidad disponible.
// Name es único sin distinguir mayúsculas (solo se verifica al crear, no en el almacén).
type StockItem struct {
	ID             string
	Name           string
	NameKey        string // NameKey(Name); clave de búsqueda por nombre
	Quantity       int    // nunca negativa
	Unit           string
	ProductionDate *time.Time
	ExpiryDate     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NameKey normaliza un nombre para comparaciones: recorta espacios y aplica case folding.
// Un Caser no se comparte entre goroutines, por eso se crea en cada llamada.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ExpiresWithin indica si el ítem vence dentro de la ventana indicada a partir de now.
func (s *StockItem) ExpiresWithin(now time.Time, window time.Duration) bool {
	if s.ExpiryDate == nil {
		return false
	}
	return s.ExpiryDate.Sub(now) <= window
}

// Clone devuelve una copia independiente (fechas incluidas).
func (s *StockItem) Clone() *StockItem {
	if s == nil {
		return nil
	}
	c := *s
	if s.ProductionDate != nil {
		t := *s.ProductionDate
		c.ProductionDate = &t
	}
	if s.ExpiryDate != nil {
		t := *s.ExpiryDate
		c.ExpiryDate = &t
	}
	return &c
}
