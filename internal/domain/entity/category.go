package entity

import "time"

// Category representa un nodo de la taxonomía de libros (bosque: varias raíces posibles).
type Category struct {
	ID        int64
	Name      string // único en todo el catálogo (comparación exacta)
	ParentID  *int64 // nil si es raíz
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
