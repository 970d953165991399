package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,min=1"`
}

// UpdateCategoryRequest entrada para actualizar una categoría (parcial).
// DetachParent=true convierte la categoría en raíz; es incompatible con ParentID.
type UpdateCategoryRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	ParentID     *int64  `json:"parent_id" validate:"omitempty,min=1"`
	DetachParent bool    `json:"detach_parent"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListResponse lista de categorías (sin paginación).
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// CategoryPathsResponse rutas descendentes de una categoría.
type CategoryPathsResponse struct {
	CategoryID int64    `json:"category_id"`
	Paths      []string `json:"paths"`
}

// CategoryRootPathResponse ruta raíz → categoría.
type CategoryRootPathResponse struct {
	CategoryID int64  `json:"category_id"`
	Path       string `json:"path"`
}

// CategoryDescendantsResponse ids del subárbol (incluye la propia categoría).
type CategoryDescendantsResponse struct {
	CategoryID int64   `json:"category_id"`
	IDs        []int64 `json:"ids"`
}
