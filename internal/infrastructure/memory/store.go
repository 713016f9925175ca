// Package memory implementa los repositorios sobre mapas en memoria.
// Se usa en tests y en el modo demo (DB_DRIVER=memory).
package memory

import (
	"sync"

	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

var _ billing.BillingTxRunner = (*Store)(nil)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu       sync.Mutex
	stock    map[string]*entity.StockItem
	invoices map[string]*entity.Invoice
	bills    map[string]*entity.SupplierBill
	activity []*entity.ActivityEntry
	users     map[string]*entity.User
	customers map[string]*entity.Customer
	files     map[string][]byte
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		stock:    make(map[string]*entity.StockItem),
		invoices: make(map[string]*entity.Invoice),
		bills:    make(map[string]*entity.SupplierBill),
		users:     make(map[string]*entity.User),
		customers: make(map[string]*entity.Customer),
		files:     make(map[string][]byte),
	}
}

// guard bloquea el store salvo que el repo ya opere dentro de una transacción (que tiene el lock).
type guard struct {
	s    *Store
	inTx bool
}

func (g guard) lock() func() {
	if g.inTx {
		return func() {}
	}
	g.s.mu.Lock()
	return g.s.mu.Unlock
}

// Stock retorna el repositorio de stock.
func (s *Store) Stock() *StockRepo { return &StockRepo{g: guard{s: s}} }

// Invoices retorna el repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{g: guard{s: s}} }

// SupplierBills retorna el repositorio de facturas de proveedores.
func (s *Store) SupplierBills() *SupplierBillRepo { return &SupplierBillRepo{g: guard{s: s}} }

// Activity retorna el repositorio del historial.
func (s *Store) Activity() *ActivityRepo { return &ActivityRepo{g: guard{s: s}} }

// Users retorna el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{g: guard{s: s}} }

// Customers retorna la agenda de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{g: guard{s: s}} }

// Attachments retorna el almacén de adjuntos en memoria.
func (s *Store) Attachments(baseURL string) *AttachmentStore {
	return &AttachmentStore{g: guard{s: s}, baseURL: baseURL}
}
