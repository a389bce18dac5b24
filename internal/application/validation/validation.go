// Package validation ejecuta las etiquetas `validate` de los DTO con go-playground/validator
// y traduce los fallos a domain.ErrValidation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/activos-ti-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Reportar los campos con su nombre en el cable (json o query), no con el del struct.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	// maxbytes limita la longitud en bytes (max cuenta runas); bcrypt no admite más de 72 bytes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	return v
}

// Error fallo de validación por campo. errors.Is(err, domain.ErrValidation) es true.
type Error struct {
	Fields map[string]string // campo → regla incumplida
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", domain.ErrValidation.Error(), strings.Join(parts, ", "))
}

// Unwrap permite errors.Is(err, domain.ErrValidation).
func (e *Error) Unwrap() error { return domain.ErrValidation }

// Struct valida s según sus etiquetas. Devuelve *Error o nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	return translate(err, "")
}

// Var valida un valor suelto con una etiqueta; name es el campo que se reporta.
func Var(name string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	return translate(err, name)
}

func translate(err error, name string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		field := fe.Field()
		if name != "" {
			field = name
		}
		fields[field] = rule
	}
	return &Error{Fields: fields}
}

// Field construye un error de validación de un solo campo.
func Field(name, rule string) error {
	return &Error{Fields: map[string]string{name: rule}}
}
