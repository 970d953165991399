package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
	"github.com/jhoicas/Catalogo-api/internal/testutil"
)

func newBookUC(s *testutil.Store, mode usecase.PathMode) *usecase.BookUseCase {
	return usecase.NewBookUseCase(s.Books(), s.Categories(), taxonomy.NewResolver(s.Categories(), 0), mode)
}

func seedBooks(t *testing.T, s *testutil.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "El Hobbit", Author: "Tolkien", CategoryID: 2}))
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "El Silmarillion", Author: "Tolkien", CategoryID: 3}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestBookListByCategory_IncluyeSubarbol(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	seedBooks(t, s)
	uc := newBookUC(s, usecase.PathModeSubtree)
	ctx := context.Background()

	out, err := uc.ListByCategory(ctx, 2, dto.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(1), out.Items[0].ID)
	assert.Equal(t, int64(2), out.Items[1].ID)

	out, err = uc.ListByCategory(ctx, 3, dto.PageRequest{Skip: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "El Silmarillion", out.Items[0].Name)
}

func TestBookListByCategory_CategoriaNoExiste(t *testing.T) {
	s := testutil.NewStore()
	uc := newBookUC(s, usecase.PathModeSubtree)

	_, err := uc.ListByCategory(context.Background(), 9, dto.NewPageRequest())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBookList_Paginacion(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	seedBooks(t, s)
	uc := newBookUC(s, usecase.PathModeSubtree)
	ctx := context.Background()

	out, err := uc.List(ctx, dto.PageRequest{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].ID)
	assert.Equal(t, dto.PageResponse{Skip: 1, Limit: 1, Count: 1}, out.Page)

	out, err = uc.List(ctx, dto.PageRequest{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	_, err = uc.List(ctx, dto.PageRequest{Skip: -1, Limit: 5})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID
// ──────────────────────────────────────────────────────────────────────────────

func TestBookGetByID_RutaSubarbol(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	seedBooks(t, s)
	uc := newBookUC(s, usecase.PathModeSubtree)

	out, err := uc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "El Hobbit", out.Book.Name)
	assert.Equal(t, []string{"Fantasy / Epic Fantasy"}, out.CategoryPath)
}

func TestBookGetByID_RutaRaiz(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	seedBooks(t, s)
	uc := newBookUC(s, usecase.PathModeRoot)

	out, err := uc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction / Fantasy"}, out.CategoryPath)
}

func TestBookGetByID_NoExiste(t *testing.T) {
	uc := newBookUC(testutil.NewStore(), usecase.PathModeSubtree)

	_, err := uc.GetByID(context.Background(), 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestBookCreate(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newBookUC(s, usecase.PathModeSubtree)

	price := decimal.RequireFromString("19.999")
	out, err := uc.Create(context.Background(), dto.CreateBookRequest{
		Name: "Dune", Author: " Herbert ", CategoryID: ptr(int64(1)), Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Herbert", out.Author)
	assert.True(t, decimal.RequireFromString("20.00").Equal(out.Price))
}

func TestBookCreate_DuplicadoFallaLaSegundaVez(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newBookUC(s, usecase.PathModeSubtree)
	ctx := context.Background()
	in := dto.CreateBookRequest{Name: "Dup", Author: "A", CategoryID: ptr(int64(1))}

	_, err := uc.Create(ctx, in)
	require.NoError(t, err)
	_, err = uc.Create(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, 1, s.BookCount())
}

func TestBookCreate_Errores(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	cases := []struct {
		name string
		in   dto.CreateBookRequest
		want error
	}{
		{"duplicado antes que categoría ausente", dto.CreateBookRequest{Name: "Existente", Author: "A"}, domain.ErrDuplicate},
		{"sin categoría", dto.CreateBookRequest{Name: "Nuevo", Author: "A"}, domain.ErrInvalidInput},
		{"categoría inexistente", dto.CreateBookRequest{Name: "Nuevo", Author: "A", CategoryID: ptr(int64(99))}, domain.ErrNotFound},
		{"precio negativo", dto.CreateBookRequest{Name: "Nuevo", Author: "A", CategoryID: ptr(int64(1)), Price: &neg}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testutil.NewStore()
			seedChain(s)
			require.NoError(t, s.Books().Create(context.Background(), &entity.Book{Name: "Existente", CategoryID: 1}))
			uc := newBookUC(s, usecase.PathModeSubtree)

			_, err := uc.Create(context.Background(), tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, 1, s.BookCount())
		})
	}
}

func TestBookUpdate(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	seedBooks(t, s)
	uc := newBookUC(s, usecase.PathModeSubtree)
	ctx := context.Background()

	out, err := uc.Update(ctx, 1, dto.UpdateBookRequest{CategoryID: ptr(int64(1)), Description: ptr("Ida y vuelta")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.CategoryID)
	assert.Equal(t, "Ida y vuelta", out.Description)
	assert.Equal(t, "El Hobbit", out.Name)

	_, err = uc.Update(ctx, 1, dto.UpdateBookRequest{Name: ptr("El Silmarillion")})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Update(ctx, 1, dto.UpdateBookRequest{CategoryID: ptr(int64(77))})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Update(ctx, 50, dto.UpdateBookRequest{Name: ptr("X")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBookDelete(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	seedBooks(t, s)
	uc := newBookUC(s, usecase.PathModeSubtree)
	ctx := context.Background()

	require.NoError(t, uc.Delete(ctx, 1))
	assert.Equal(t, 1, s.BookCount())

	err := uc.Delete(ctx, 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
