package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookRequest entrada para crear un libro.
// CategoryID es puntero para distinguir "no enviado" (400) de "no existe" (404).
type CreateBookRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Author      string           `json:"author" validate:"required,min=1,max=200"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,min=1"`
}

// UpdateBookRequest entrada para actualizar un libro (parcial).
type UpdateBookRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Author      *string          `json:"author" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,min=1"`
}

// BookResponse salida de un libro.
type BookResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BookListResponse lista paginada de libros.
type BookListResponse struct {
	Items []BookResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// BookDetailResponse libro con la ruta de su categoría.
type BookDetailResponse struct {
	Book         BookResponse `json:"book"`
	CategoryPath []string     `json:"category_path"`
}
