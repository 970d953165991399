package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
	"github.com/jhoicas/Catalogo-api/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func newCategoryUC(s *testutil.Store) *usecase.CategoryUseCase {
	return usecase.NewCategoryUseCase(s.Categories(), taxonomy.NewResolver(s.Categories(), 0), s.TxRunner())
}

// seedChain siembra Fiction(1) → Fantasy(2) → Epic Fantasy(3).
func seedChain(s *testutil.Store) {
	s.PutCategory(entity.Category{ID: 1, Name: "Fiction"})
	s.PutCategory(entity.Category{ID: 2, Name: "Fantasy", ParentID: ptr(int64(1))})
	s.PutCategory(entity.Category{ID: 3, Name: "Epic Fantasy", ParentID: ptr(int64(2))})
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate_Raiz(t *testing.T) {
	s := testutil.NewStore()
	uc := newCategoryUC(s)

	out, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "  Poesía "})
	require.NoError(t, err)
	assert.Equal(t, "Poesía", out.Name)
	assert.Nil(t, out.ParentID)
	assert.NotZero(t, out.ID)
}

func TestCategoryCreate_ConPadre(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newCategoryUC(s)

	out, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Urban Fantasy", ParentID: ptr(int64(2))})
	require.NoError(t, err)
	require.NotNil(t, out.ParentID)
	assert.Equal(t, int64(2), *out.ParentID)
}

func TestCategoryCreate_NombreDuplicado(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newCategoryUC(s)

	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Fantasy"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, 3, s.CategoryCount())
}

func TestCategoryCreate_NombreNormalizadoNFC(t *testing.T) {
	s := testutil.NewStore()
	uc := newCategoryUC(s)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Poes\u00eda"}) // í precompuesta
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Poesi\u0301a"}) // i + acento combinante
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestCategoryCreate_PadreNoExiste(t *testing.T) {
	s := testutil.NewStore()
	uc := newCategoryUC(s)

	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "X", ParentID: ptr(int64(99))})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 0, s.CategoryCount())
}

func TestCategoryCreate_NombreVacio(t *testing.T) {
	uc := newCategoryUC(testutil.NewStore())

	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "   "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryReads(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newCategoryUC(s)
	ctx := context.Background()

	all, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, int64(1), all.Items[0].ID)

	children, err := uc.Children(ctx, 1)
	require.NoError(t, err)
	require.Len(t, children.Items, 1)
	assert.Equal(t, "Fantasy", children.Items[0].Name)

	none, err := uc.Children(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	desc, err := uc.DescendantIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, desc.IDs)

	paths, err := uc.Paths(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiction / Fantasy / Epic Fantasy"}, paths.Paths)

	root, err := uc.RootPath(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Fiction / Fantasy / Epic Fantasy", root.Path)

	_, err = uc.GetByID(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryUpdate_Renombrar(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newCategoryUC(s)

	out, err := uc.Update(context.Background(), 2, dto.UpdateCategoryRequest{Name: ptr("High Fantasy")})
	require.NoError(t, err)
	assert.Equal(t, "High Fantasy", out.Name)
	assert.Equal(t, int64(1), *out.ParentID, "el padre no cambia")
}

func TestCategoryUpdate_MismoNombreNoEsConflicto(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newCategoryUC(s)

	_, err := uc.Update(context.Background(), 2, dto.UpdateCategoryRequest{Name: ptr("Fantasy")})
	assert.NoError(t, err)
}

func TestCategoryUpdate_Errores(t *testing.T) {
	cases := []struct {
		name string
		id   int64
		in   dto.UpdateCategoryRequest
		want error
	}{
		{"no existe", 99, dto.UpdateCategoryRequest{Name: ptr("Y")}, domain.ErrNotFound},
		{"nombre de otra", 2, dto.UpdateCategoryRequest{Name: ptr("Fiction")}, domain.ErrDuplicate},
		{"su propio padre", 2, dto.UpdateCategoryRequest{ParentID: ptr(int64(2))}, domain.ErrInvalidInput},
		{"padre inexistente", 2, dto.UpdateCategoryRequest{ParentID: ptr(int64(99))}, domain.ErrNotFound},
		{"padre descendiente", 1, dto.UpdateCategoryRequest{ParentID: ptr(int64(3))}, domain.ErrInvalidInput},
		{"detach y parent", 3, dto.UpdateCategoryRequest{ParentID: ptr(int64(1)), DetachParent: true}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testutil.NewStore()
			seedChain(s)
			uc := newCategoryUC(s)

			_, err := uc.Update(context.Background(), tc.id, tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestCategoryUpdate_SinAplicacionParcial(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	uc := newCategoryUC(s)
	ctx := context.Background()

	// El nombre es válido pero el padre genera ciclo: no debe persistirse nada.
	_, err := uc.Update(ctx, 1, dto.UpdateCategoryRequest{Name: ptr("Ficción"), ParentID: ptr(int64(3))})
	require.Error(t, err)

	cat, err := uc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Fiction", cat.Name)
	assert.Nil(t, cat.ParentID)
}

func TestCategoryUpdate_ReparentYDetach(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	s.PutCategory(entity.Category{ID: 4, Name: "Non-fiction"})
	uc := newCategoryUC(s)
	ctx := context.Background()

	out, err := uc.Update(ctx, 2, dto.UpdateCategoryRequest{ParentID: ptr(int64(4))})
	require.NoError(t, err)
	assert.Equal(t, int64(4), *out.ParentID)

	root, err := uc.RootPath(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Non-fiction / Fantasy / Epic Fantasy", root.Path)

	out, err = uc.Update(ctx, 2, dto.UpdateCategoryRequest{DetachParent: true})
	require.NoError(t, err)
	assert.Nil(t, out.ParentID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryDelete_PromueveHijosYBorraLibros(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	ctx := context.Background()
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "A", CategoryID: 2}))
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "B", CategoryID: 3}))
	uc := newCategoryUC(s)

	res, err := uc.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.PromotedChildren)
	assert.Equal(t, int64(1), res.DeletedBooks)

	epic, err := uc.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, epic.ParentID)

	fiction, err := uc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, fiction.ParentID)

	_, err = uc.GetByID(ctx, 2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 1, s.BookCount())
}

func TestCategoryDelete_NoExiste(t *testing.T) {
	uc := newCategoryUC(testutil.NewStore())

	_, err := uc.Delete(context.Background(), 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCategoryDelete_FalloRevierteTodo(t *testing.T) {
	s := testutil.NewStore()
	seedChain(s)
	ctx := context.Background()
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "A", CategoryID: 2}))
	s.FailOn("category.delete", errors.New("conexión perdida"))
	uc := newCategoryUC(s)

	_, err := uc.Delete(ctx, 2)
	require.Error(t, err)

	s.FailOn("category.delete", nil)
	epic, err := uc.GetByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, epic.ParentID, "el hijo conserva su padre tras el rollback")
	assert.Equal(t, int64(2), *epic.ParentID)
	assert.Equal(t, 1, s.BookCount())
}
