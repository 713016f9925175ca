package entity

import "time"

// Customer cliente registrado en la agenda. Las facturas guardan el nombre como texto
// y no referencian este registro.
type Customer struct {
	ID        string
	Name      string
	CUIT      string
	VATStatus string // condición frente al IVA, texto libre
	Active    bool
	CreatedAt time.Time
}
