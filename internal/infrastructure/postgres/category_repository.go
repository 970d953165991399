package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name, parent_id, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	db Querier
}

// NewCategoryRepository construye el adaptador; db puede ser el pool o una tx.
func NewCategoryRepository(db Querier) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create persiste una nueva categoría y asigna el id generado.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRow(ctx, query, c.Name, c.ParentID, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return mapCategoryWriteErr("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por id.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return r.getOne(ctx, "get category", query, id)
}

// GetByName obtiene una categoría por nombre exacto.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1`
	return r.getOne(ctx, "get category by name", query, name)
}

// List devuelve todas las categorías por id ascendente.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY id`
	return r.list(ctx, "list categories", query)
}

// ListByParent devuelve los hijos directos por id ascendente.
func (r *CategoryRepo) ListByParent(ctx context.Context, parentID int64) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = $1 ORDER BY id`
	return r.list(ctx, "list child categories", query, parentID)
}

// Update actualiza nombre y padre.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET name = $2, parent_id = $3, updated_at = $4
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, c.ID, c.Name, c.ParentID, c.UpdatedAt); err != nil {
		return mapCategoryWriteErr("update category", err)
	}
	return nil
}

// Delete elimina la categoría y devuelve las filas afectadas.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ClearParent convierte en raíces a los hijos directos de parentID.
func (r *CategoryRepo) ClearParent(ctx context.Context, parentID int64) (int64, error) {
	query := `UPDATE categories SET parent_id = NULL, updated_at = now() WHERE parent_id = $1`
	cmd, err := r.db.Exec(ctx, query, parentID)
	if err != nil {
		return 0, fmt.Errorf("clear parent: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *CategoryRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func (r *CategoryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func mapCategoryWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: nombre de categoría en uso", domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: categoría padre", domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
