package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
)

// BookUseCase consultas y mutaciones de libros.
type BookUseCase struct {
	books      repository.BookRepository
	categories repository.CategoryRepository
	resolver   *taxonomy.Resolver
	pathMode   PathMode
}

// NewBookUseCase construye el caso de uso. Un pathMode vacío equivale a PathModeSubtree.
func NewBookUseCase(
	books repository.BookRepository,
	categories repository.CategoryRepository,
	resolver *taxonomy.Resolver,
	pathMode PathMode,
) *BookUseCase {
	if pathMode == "" {
		pathMode = PathModeSubtree
	}
	return &BookUseCase{books: books, categories: categories, resolver: resolver, pathMode: pathMode}
}

// List pagina todos los libros en orden natural.
func (uc *BookUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.BookListResponse, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	list, err := uc.books.List(ctx, page.Limit, page.Skip)
	if err != nil {
		return nil, err
	}
	return toBookList(list, page), nil
}

// ListByCategory pagina los libros de la categoría y de todo su subárbol.
func (uc *BookUseCase) ListByCategory(ctx context.Context, categoryID int64, page dto.PageRequest) (*dto.BookListResponse, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	ids, err := uc.resolver.SubtreeIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	list, err := uc.books.ListByCategories(ctx, ids, page.Limit, page.Skip)
	if err != nil {
		return nil, err
	}
	return toBookList(list, page), nil
}

// GetByID devuelve el libro junto con la ruta de su categoría (según pathMode).
func (uc *BookUseCase) GetByID(ctx context.Context, id int64) (*dto.BookDetailResponse, error) {
	book, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	var path []string
	switch uc.pathMode {
	case PathModeRoot:
		p, err := uc.resolver.RootPath(ctx, book.CategoryID)
		if err != nil {
			return nil, err
		}
		path = []string{p}
	default:
		path, err = uc.resolver.CategoryPaths(ctx, book.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	return &dto.BookDetailResponse{Book: *toBookResponse(book), CategoryPath: path}, nil
}

// Create crea un libro. Orden de validación: nombre repetido (ErrDuplicate),
// categoría ausente (ErrInvalidInput), categoría inexistente (ErrNotFound).
func (uc *BookUseCase) Create(ctx context.Context, in dto.CreateBookRequest) (*dto.BookResponse, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	if in.CategoryID == nil {
		return nil, fmt.Errorf("%w: category_id es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.ensureCategory(ctx, *in.CategoryID); err != nil {
		return nil, err
	}
	price, err := normalizePrice(in.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	book := &entity.Book{
		Name:        name,
		Author:      strings.TrimSpace(in.Author),
		Description: in.Description,
		Price:       price,
		CategoryID:  *in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return toBookResponse(book), nil
}

// Update aplica cambios parciales; valida todo antes de escribir.
func (uc *BookUseCase) Update(ctx context.Context, id int64, in dto.UpdateBookRequest) (*dto.BookResponse, error) {
	book, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		if name != book.Name {
			if err := uc.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		book.Name = name
	}
	if in.CategoryID != nil {
		if err := uc.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		book.CategoryID = *in.CategoryID
	}
	if in.Author != nil {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	if in.Price != nil {
		price, err := normalizePrice(in.Price)
		if err != nil {
			return nil, err
		}
		book.Price = price
	}

	book.UpdatedAt = time.Now()
	if err := uc.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return toBookResponse(book), nil
}

// Delete elimina un libro; ErrNotFound si no existía.
func (uc *BookUseCase) Delete(ctx context.Context, id int64) error {
	n, err := uc.books.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: libro %d", domain.ErrNotFound, id)
	}
	return nil
}

func (uc *BookUseCase) mustGet(ctx context.Context, id int64) (*entity.Book, error) {
	book, err := uc.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("%w: libro %d", domain.ErrNotFound, id)
	}
	return book, nil
}

func (uc *BookUseCase) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := uc.books.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe un libro llamado %q", domain.ErrDuplicate, name)
	}
	return nil
}

func (uc *BookUseCase) ensureCategory(ctx context.Context, categoryID int64) error {
	cat, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, categoryID)
	}
	return nil
}

func checkPage(page dto.PageRequest) error {
	if page.Skip < 0 || page.Limit < 1 {
		return fmt.Errorf("%w: skip >= 0 y limit >= 1", domain.ErrInvalidInput)
	}
	return nil
}

// normalizePrice: nil → 0; negativo → ErrInvalidInput; redondeo a 2 decimales.
func normalizePrice(p *decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, nil
	}
	if p.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	return p.Round(2), nil
}

func toBookResponse(b *entity.Book) *dto.BookResponse {
	return &dto.BookResponse{
		ID:          b.ID,
		Name:        b.Name,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price,
		CategoryID:  b.CategoryID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookList(list []*entity.Book, page dto.PageRequest) *dto.BookListResponse {
	items := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBookResponse(b))
	}
	return &dto.BookListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}
}
