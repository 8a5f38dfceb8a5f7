package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/inventario-envios/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Reportar los campos con su nombre JSON.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate aplica las etiquetas `validate` del DTO y devuelve un *domain.ValidationError
// con el primer campo rechazado.
func Validate(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.Invalid(fieldPath(fe), ruleMessage(fe))
	}
	return domain.Invalid("", err.Error())
}

// fieldPath quita el nombre del struct raíz: "CreateShipmentRequest.address.city" -> "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual que " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "len":
		return "debe tener longitud " + fe.Param()
	case "max":
		return "excede el máximo " + fe.Param()
	case "email":
		return "no es un email válido"
	}
	return "no cumple la regla " + fe.Tag()
}
