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

var _ repository.BookRepository = (*BookRepo)(nil)

const bookColumns = `id, name, author, description, price, category_id, created_at, updated_at`

// BookRepo implementación del puerto BookRepository sobre PostgreSQL.
type BookRepo struct {
	db Querier
}

// NewBookRepository construye el adaptador; db puede ser el pool o una tx.
func NewBookRepository(db Querier) *BookRepo {
	return &BookRepo{db: db}
}

// Create persiste un nuevo libro y asigna el id generado.
func (r *BookRepo) Create(ctx context.Context, b *entity.Book) error {
	query := `
		INSERT INTO books (name, author, description, price, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		b.Name, b.Author, b.Description, b.Price, b.CategoryID, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return mapBookWriteErr("insert book", err)
	}
	return nil
}

// GetByID obtiene un libro por id.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (*entity.Book, error) {
	return r.getOne(ctx, "get book", `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

// GetByName obtiene un libro por nombre exacto.
func (r *BookRepo) GetByName(ctx context.Context, name string) (*entity.Book, error) {
	return r.getOne(ctx, "get book by name", `SELECT `+bookColumns+` FROM books WHERE name = $1`, name)
}

// List pagina todos los libros por id ascendente.
func (r *BookRepo) List(ctx context.Context, limit, offset int) ([]*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY id LIMIT $1 OFFSET $2`
	return r.list(ctx, "list books", query, limit, offset)
}

// ListByCategories pagina los libros de cualquiera de las categorías dadas.
func (r *BookRepo) ListByCategories(ctx context.Context, categoryIDs []int64, limit, offset int) ([]*entity.Book, error) {
	if len(categoryIDs) == 0 {
		return []*entity.Book{}, nil
	}
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE category_id = ANY($1)
		ORDER BY id LIMIT $2 OFFSET $3`
	return r.list(ctx, "list books by categories", query, categoryIDs, limit, offset)
}

// Update actualiza todos los campos editables.
func (r *BookRepo) Update(ctx context.Context, b *entity.Book) error {
	query := `
		UPDATE books SET name = $2, author = $3, description = $4, price = $5,
			category_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.Name, b.Author, b.Description, b.Price, b.CategoryID, b.UpdatedAt,
	)
	if err != nil {
		return mapBookWriteErr("update book", err)
	}
	return nil
}

// Delete elimina un libro y devuelve las filas afectadas.
func (r *BookRepo) Delete(ctx context.Context, id int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteByCategory elimina los libros de una categoría.
func (r *BookRepo) DeleteByCategory(ctx context.Context, categoryID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM books WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete books by category: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *BookRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Book, error) {
	var b entity.Book
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.Name, &b.Author, &b.Description, &b.Price, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

func (r *BookRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := []*entity.Book{}
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Author, &b.Description, &b.Price, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func mapBookWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: nombre de libro en uso", domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: categoría del libro", domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
