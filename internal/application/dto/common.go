package dto

// Valores por defecto de paginación.
const (
	DefaultSkip  = 0
	DefaultLimit = 10
)

// PageRequest paginación para listados (?skip=0&limit=10).
type PageRequest struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=1"`
}

// NewPageRequest devuelve la página por defecto (skip=0, limit=10).
func NewPageRequest() PageRequest {
	return PageRequest{Skip: DefaultSkip, Limit: DefaultLimit}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
