package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetByID y GetByName devuelven (nil, nil) cuando no existe el registro.
type CategoryRepository interface {
	// Create inserta la categoría y asigna category.ID con el id generado.
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	// List devuelve todas las categorías en el orden natural del store (id ascendente).
	List(ctx context.Context) ([]*entity.Category, error)
	// ListByParent devuelve los hijos directos en orden natural del store.
	ListByParent(ctx context.Context, parentID int64) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// Delete elimina por id y devuelve las filas afectadas.
	Delete(ctx context.Context, id int64) (int64, error)
	// ClearParent pone parent_id = NULL en toda categoría con parent_id = parentID.
	ClearParent(ctx context.Context, parentID int64) (int64, error)
}
