package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// BranchEntry libro de la rama con la ruta raíz → categoría del libro.
type BranchEntry struct {
	Book         *entity.Book
	CategoryPath string
}

// Branch datos de una rama del árbol listos para renderizar.
type Branch struct {
	Category    *entity.Category
	RootPath    string
	Entries     []BranchEntry
	Truncated   bool // hay más libros que el máximo permitido
	GeneratedAt time.Time
}

// BranchPDFGenerator puerto de salida que renderiza una rama del catálogo como PDF.
type BranchPDFGenerator interface {
	GenerateBranchPDF(ctx context.Context, branch *Branch) ([]byte, error)
}
