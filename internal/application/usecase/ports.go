package usecase

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn dentro de una transacción. Si fn retorna error se hace
// rollback; si no, commit. Los repos recibidos operan sobre la misma transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		bookRepo repository.BookRepository,
	) error) error
}

// PathMode define qué devuelve BookUseCase.GetByID en category_path.
type PathMode string

const (
	// PathModeSubtree: rutas descendentes desde la categoría del libro hasta cada hoja.
	PathModeSubtree PathMode = "subtree"
	// PathModeRoot: una única ruta raíz → categoría del libro.
	PathModeRoot PathMode = "root"
)
