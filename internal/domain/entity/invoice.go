package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa una factura de venta de un único concepto.
// StockItemID se captura al emitir; Concept queda desnormalizado para conservar
// el nombre histórico aunque el ítem se renombre o elimine.
type Invoice struct {
	ID          string
	Client      string
	Date        time.Time
	StockItemID string
	Concept     string
	Quantity    int
	Amount      decimal.Decimal
	Detail      string
	CreatedBy   string
	CreatedAt   time.Time
}
