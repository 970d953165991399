package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// BookRepository define el puerto de persistencia para Book (DIP).
type BookRepository interface {
	// Create inserta el libro y asigna book.ID con el id generado.
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id int64) (*entity.Book, error)
	GetByName(ctx context.Context, name string) (*entity.Book, error)
	// List pagina todos los libros en orden natural (id ascendente).
	List(ctx context.Context, limit, offset int) ([]*entity.Book, error)
	// ListByCategories pagina los libros cuya categoría está en categoryIDs.
	ListByCategories(ctx context.Context, categoryIDs []int64, limit, offset int) ([]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id int64) (int64, error)
	// DeleteByCategory elimina los libros de una categoría (borrado de categoría).
	DeleteByCategory(ctx context.Context, categoryID int64) (int64, error)
}
