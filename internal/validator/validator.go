// Package validator validación de payloads en la frontera HTTP/CLI.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/mydata-invoicing/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// get devuelve la instancia compartida; validator.Validate es seguro para uso concurrente
// y cachea la metadata de cada struct.
func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Reportar el nombre JSON del campo en lugar del nombre Go.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateRequest valida req según sus tags `validate`. El error envuelve
// domain.ErrInvalidInput y lista los campos inválidos en orden estable.
func ValidateRequest(req any) error {
	err := get().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: campos inválidos: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
}
