// Package validator valida los DTO de entrada con etiquetas validate.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// FieldError detalle de un campo inválido.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

var validate = validator.New()

func init() {
	// nombre json en lugar del nombre Go
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Fields retorna la lista de campos inválidos; vacía si data es válido.
func Fields(data any) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Tag: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// Struct valida data y convierte el primer fallo en un domain.ValidationError.
func Struct(data any) error {
	fields := Fields(data)
	if len(fields) == 0 {
		return nil
	}
	f := fields[0]
	return domain.Invalid(f.Field, reason(f))
}

func reason(f FieldError) string {
	switch f.Tag {
	case "required":
		return domain.MissingFieldsReason
	case "email":
		return "El email no es válido."
	case "min":
		return "El campo " + f.Field + " debe tener al menos " + f.Param + " caracteres."
	case "max":
		return "El campo " + f.Field + " supera el largo permitido."
	case "oneof":
		return "Valor no permitido para " + f.Field + " (" + f.Param + ")."
	case "datetime":
		return "Fecha inválida en " + f.Field + ", use el formato AAAA-MM-DD."
	default:
		return "Valor inválido en " + f.Field + "."
	}
}
