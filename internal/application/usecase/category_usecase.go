package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
)

// CategoryUseCase casos de uso del árbol de categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	resolver *taxonomy.Resolver
	tx       CatalogTxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, resolver *taxonomy.Resolver, tx CatalogTxRunner) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, resolver: resolver, tx: tx}
}

// DeleteCategoryResult resumen del borrado en cascada.
type DeleteCategoryResult struct {
	PromotedChildren int64
	DeletedBooks     int64
}

// List devuelve todas las categorías en orden natural.
func (uc *CategoryUseCase) List(ctx context.Context) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryList(list), nil
}

// GetByID obtiene una categoría; domain.ErrNotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	cat, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Children devuelve los hijos directos de parentID. Un padre inexistente produce lista vacía.
func (uc *CategoryUseCase) Children(ctx context.Context, parentID int64) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return toCategoryList(list), nil
}

// DescendantIDs devuelve el id de la categoría y los de todo su subárbol.
func (uc *CategoryUseCase) DescendantIDs(ctx context.Context, id int64) (*dto.CategoryDescendantsResponse, error) {
	ids, err := uc.resolver.SubtreeIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryDescendantsResponse{CategoryID: id, IDs: ids}, nil
}

// Paths devuelve las rutas descendentes de la categoría hasta cada hoja.
func (uc *CategoryUseCase) Paths(ctx context.Context, id int64) (*dto.CategoryPathsResponse, error) {
	paths, err := uc.resolver.CategoryPaths(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryPathsResponse{CategoryID: id, Paths: paths}, nil
}

// RootPath devuelve la ruta raíz → categoría.
func (uc *CategoryUseCase) RootPath(ctx context.Context, id int64) (*dto.CategoryRootPathResponse, error) {
	path, err := uc.resolver.RootPath(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryRootPathResponse{CategoryID: id, Path: path}, nil
}

// Create crea una categoría. Nombre repetido → ErrDuplicate; padre inexistente → ErrNotFound.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := uc.mustGetParent(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	cat := &entity.Category{
		Name:      name,
		ParentID:  in.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Update aplica cambios parciales. Todas las validaciones ocurren antes de escribir:
// o se aplica todo o nada.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DetachParent && in.ParentID != nil {
		return nil, fmt.Errorf("%w: parent_id y detach_parent son excluyentes", domain.ErrInvalidInput)
	}

	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		if name != cat.Name {
			if err := uc.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		cat.Name = name
	}

	if in.ParentID != nil {
		parentID := *in.ParentID
		if parentID == id {
			return nil, fmt.Errorf("%w: una categoría no puede ser su propio padre", domain.ErrInvalidInput)
		}
		if _, err := uc.mustGetParent(ctx, parentID); err != nil {
			return nil, err
		}
		cycle, err := uc.resolver.WouldCreateCycle(ctx, id, parentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, fmt.Errorf("%w: %d es descendiente de %d", domain.ErrInvalidInput, parentID, id)
		}
		cat.ParentID = &parentID
	}
	if in.DetachParent {
		cat.ParentID = nil
	}

	cat.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Delete elimina la categoría en una sola transacción: sus hijos directos pasan a ser
// raíces y sus libros se eliminan. Si algún paso falla no se aplica nada.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) (*DeleteCategoryResult, error) {
	if _, err := uc.mustGet(ctx, id); err != nil {
		return nil, err
	}

	var res DeleteCategoryResult
	err := uc.tx.RunCatalog(ctx, func(cats repository.CategoryRepository, books repository.BookRepository) error {
		promoted, err := cats.ClearParent(ctx, id)
		if err != nil {
			return fmt.Errorf("liberar hijos: %w", err)
		}
		deleted, err := books.DeleteByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("eliminar libros: %w", err)
		}
		n, err := cats.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("eliminar categoría: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, id)
		}
		res = DeleteCategoryResult{PromotedChildren: promoted, DeletedBooks: deleted}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (uc *CategoryUseCase) mustGet(ctx context.Context, id int64) (*entity.Category, error) {
	cat, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: categoría %d", domain.ErrNotFound, id)
	}
	return cat, nil
}

func (uc *CategoryUseCase) mustGetParent(ctx context.Context, id int64) (*entity.Category, error) {
	parent, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: categoría padre %d", domain.ErrNotFound, id)
	}
	return parent, nil
}

// ensureNameFree falla con ErrDuplicate si otra categoría (distinta de selfID) ya usa el nombre.
func (uc *CategoryUseCase) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, name)
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCategoryList(list []*entity.Category) *dto.CategoryListResponse {
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items}
}
