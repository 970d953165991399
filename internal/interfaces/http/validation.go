package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
)

var validate = newValidator()

// newValidator reporta los campos con su nombre JSON (o de query) en lugar del nombre Go.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name = f.Tag.Get("query")
		}
		return name
	})
	return v
}

// bindJSON parsea el cuerpo en in y lo valida. Devuelve nil si todo es correcto.
func bindJSON(c *fiber.Ctx, in any) *dto.ErrorResponse {
	if err := c.BodyParser(in); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	if err := validate.Struct(in); err != nil {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)}
	}
	return nil
}

// parseID lee el parámetro de ruta como entero positivo.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, false
	}
	return int64(id), true
}

// parsePage lee ?skip&limit con los valores por defecto de dto.NewPageRequest.
func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.NewPageRequest()
	if err := c.QueryParser(&page); err != nil {
		return page, err
	}
	if err := validate.Struct(page); err != nil {
		return page, errors.New(validationMessage(err))
	}
	return page, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
