package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnknownProduct    = errors.New("producto inexistente")
	ErrNegativeStock     = errors.New("el stock no puede quedar negativo")
	ErrTransport         = errors.New("almacén de datos no disponible")
)

// ValidationError entrada faltante o mal formada. Se corrige desde el formulario.
// Reason es el mensaje que ve el usuario.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// MissingFieldsReason mensaje estándar para campos obligatorios vacíos.
const MissingFieldsReason = "Todos los campos obligatorios deben estar completos."

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateNameError ya existe un registro con el mismo nombre normalizado.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("ya existe un producto llamado %q", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicate }

// DuplicateSupplierBillError ya hay una factura cargada para el proveedor con ese CUIT.
type DuplicateSupplierBillError struct {
	Supplier string
	CUIT     string
}

func (e *DuplicateSupplierBillError) Error() string {
	return fmt.Sprintf("ya existe una factura para %q (CUIT %s)", e.Supplier, e.CUIT)
}

func (e *DuplicateSupplierBillError) Is(target error) bool { return target == ErrDuplicate }

// UnknownProductError el concepto de la factura no coincide con ningún ítem de stock.
type UnknownProductError struct {
	Concept string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("no existe un producto en stock llamado %q", e.Concept)
}

func (e *UnknownProductError) Is(target error) bool { return target == ErrUnknownProduct }

// InsufficientStockError lleva la cantidad disponible antes de la operación.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", e.Product, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NegativeStockError el ajuste dejaría la cantidad por debajo de cero.
type NegativeStockError struct {
	Product   string
	Current   int
	Requested int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("no puede descontar %d unidades de %q (hay %d)", e.Requested, e.Product, e.Current)
}

func (e *NegativeStockError) Is(target error) bool { return target == ErrNegativeStock }

// TransportError fallo del almacén subyacente (red, driver, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Transport envuelve un error de infraestructura. Devuelve nil si err es nil.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// IsClassified indica si err ya pertenece a una familia de dominio (negocio o transporte).
// Los adaptadores envuelven como TransportError solo lo que no esté clasificado.
func IsClassified(err error) bool {
	for _, target := range []error{
		ErrTransport, ErrInvalidInput, ErrNotFound, ErrDuplicate,
		ErrUnknownProduct, ErrInsufficientStock, ErrNegativeStock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Message convierte cualquier error de flujo en el mensaje de estado que ve el usuario.
func Message(err error) string {
	var (
		ve  *ValidationError
		dup *DuplicateNameError
		dsb *DuplicateSupplierBillError
		unk *UnknownProductError
		ins *InsufficientStockError
		neg *NegativeStockError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Reason
	case errors.As(err, &dup):
		return fmt.Sprintf("Ya existe un producto llamado %q.", dup.Name)
	case errors.As(err, &dsb):
		return "Ya existe una factura cargada para este proveedor con ese CUIT."
	case errors.As(err, &unk):
		return fmt.Sprintf("No existe un producto en stock llamado %q.", unk.Concept)
	case errors.As(err, &ins):
		return fmt.Sprintf("Stock insuficiente para %q. Solo hay %d unidades disponibles.", ins.Product, ins.Available)
	case errors.As(err, &neg):
		return fmt.Sprintf("No puede descontar más unidades de las que hay en %q.", neg.Product)
	case errors.Is(err, ErrInvalidInput):
		return "Datos inválidos."
	case errors.Is(err, ErrDuplicate):
		return "El registro ya existe."
	case errors.Is(err, ErrNotFound):
		return "El registro ya no existe."
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUserNotFound):
		return "Credenciales inválidas."
	case errors.Is(err, ErrForbidden):
		return "Acceso denegado."
	case errors.Is(err, ErrTransport):
		return "No se pudo contactar el almacén de datos. Intente nuevamente."
	default:
		return "Error inesperado al procesar la operación."
	}
}
