package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/auth"
	"github.com/jhoicas/Catalogo-api/internal/application/catalog"
	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
	apphttp "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-api/internal/testutil"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type stubPDF struct{}

func (stubPDF) GenerateBranchPDF(context.Context, *catalog.Branch) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

func ptr(v int64) *int64 { return &v }

// buildApp arma la API completa sobre el store en memoria.
//
//	1 Fiction
//	└── 2 Fantasy
//	    └── 3 Epic Fantasy
func buildApp(t *testing.T, authEnabled bool) (*fiber.App, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	s.PutCategory(entity.Category{ID: 1, Name: "Fiction"})
	s.PutCategory(entity.Category{ID: 2, Name: "Fantasy", ParentID: ptr(1)})
	s.PutCategory(entity.Category{ID: 3, Name: "Epic Fantasy", ParentID: ptr(2)})
	ctx := context.Background()
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "El Hobbit", Author: "Tolkien", CategoryID: 2}))
	require.NoError(t, s.Books().Create(ctx, &entity.Book{Name: "El Silmarillion", Author: "Tolkien", CategoryID: 3}))

	resolver := taxonomy.NewResolver(s.Categories(), 0)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC:  usecase.NewCategoryUseCase(s.Categories(), resolver, s.TxRunner()),
		BookUC:      usecase.NewBookUseCase(s.Books(), s.Categories(), resolver, usecase.PathModeSubtree),
		CatalogPDF:  catalog.NewPDFUseCase(s.Categories(), s.Books(), resolver, stubPDF{}, 100),
		AuthUC:      auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		Log:         logger.Nop(),
		JWTSecret:   testJWTSecret,
		AuthEnabled: authEnabled,
	})
	return app, s
}

func do(t *testing.T, app *fiber.App, method, path string, body any, authHeader string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategories_Lecturas(t *testing.T) {
	app, _ := buildApp(t, false)

	resp := do(t, app, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.CategoryListResponse](t, resp)
	assert.Len(t, list.Items, 3)

	resp = do(t, app, http.MethodGet, "/api/categories/1/paths", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	paths := decode[dto.CategoryPathsResponse](t, resp)
	assert.Equal(t, []string{"Fiction / Fantasy / Epic Fantasy"}, paths.Paths)

	resp = do(t, app, http.MethodGet, "/api/categories/3/path", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	root := decode[dto.CategoryRootPathResponse](t, resp)
	assert.Equal(t, "Fiction / Fantasy / Epic Fantasy", root.Path)

	resp = do(t, app, http.MethodGet, "/api/categories/2/descendants", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	desc := decode[dto.CategoryDescendantsResponse](t, resp)
	assert.Equal(t, []int64{2, 3}, desc.IDs)

	resp = do(t, app, http.MethodGet, "/api/categories/1/children", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	children := decode[dto.CategoryListResponse](t, resp)
	require.Len(t, children.Items, 1)
	assert.Equal(t, "Fantasy", children.Items[0].Name)
}

func TestCategories_ErroresDeEntrada(t *testing.T) {
	app, _ := buildApp(t, false)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"id no numérico", http.MethodGet, "/api/categories/abc", nil, http.StatusBadRequest, "INVALID_ID"},
		{"no existe", http.MethodGet, "/api/categories/99", nil, http.StatusNotFound, "NOT_FOUND"},
		{"paths no existe", http.MethodGet, "/api/categories/99/paths", nil, http.StatusNotFound, "NOT_FOUND"},
		{"nombre vacío", http.MethodPost, "/api/categories", map[string]any{"name": ""}, http.StatusBadRequest, "VALIDATION"},
		{"duplicado", http.MethodPost, "/api/categories", map[string]any{"name": "Fantasy"}, http.StatusConflict, "DUPLICATE"},
		{"padre inexistente", http.MethodPost, "/api/categories", map[string]any{"name": "X", "parent_id": 99}, http.StatusNotFound, "NOT_FOUND"},
		{"su propio padre", http.MethodPatch, "/api/categories/2", map[string]any{"parent_id": 2}, http.StatusBadRequest, "VALIDATION"},
		{"ciclo", http.MethodPatch, "/api/categories/1", map[string]any{"parent_id": 3}, http.StatusBadRequest, "VALIDATION"},
		{"paginación inválida", http.MethodGet, "/api/categories/1/books?limit=0", nil, http.StatusBadRequest, "INVALID_PAGINATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, app, tc.method, tc.path, tc.body, "")
			assert.Equal(t, tc.status, resp.StatusCode)
			errResp := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, errResp.Code)
		})
	}
}

func TestCategories_CrearYEliminar(t *testing.T) {
	app, s := buildApp(t, false)

	resp := do(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Urban Fantasy", "parent_id": 2}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CategoryResponse](t, resp)
	assert.Equal(t, int64(2), *created.ParentID)

	resp = do(t, app, http.MethodDelete, "/api/categories/2", nil, "")
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/categories/3", nil, "")
	epic := decode[dto.CategoryResponse](t, resp)
	assert.Nil(t, epic.ParentID, "el hijo de la categoría eliminada pasa a ser raíz")
	assert.Equal(t, 1, s.BookCount())

	resp = do(t, app, http.MethodDelete, "/api/categories/2", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategories_CatalogPDF(t *testing.T) {
	app, _ := buildApp(t, false)

	resp := do(t, app, http.MethodGet, "/api/categories/1/catalog.pdf", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "catalogo_categoria_1.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Libros
// ──────────────────────────────────────────────────────────────────────────────

func TestBooks_ListadoPorCategoriaIncluyeSubarbol(t *testing.T) {
	app, _ := buildApp(t, false)

	for _, path := range []string{"/api/books/category/2", "/api/categories/2/books"} {
		resp := do(t, app, http.MethodGet, path+"?skip=0&limit=10", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		list := decode[dto.BookListResponse](t, resp)
		assert.Len(t, list.Items, 2, path)
	}
}

func TestBooks_PaginacionPorDefecto(t *testing.T) {
	app, _ := buildApp(t, false)

	resp := do(t, app, http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.BookListResponse](t, resp)
	assert.Equal(t, dto.PageResponse{Skip: 0, Limit: 10, Count: 2}, list.Page)

	resp = do(t, app, http.MethodGet, "/api/books?skip=-1", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/books?limit=abc", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBooks_DetalleConRuta(t *testing.T) {
	app, _ := buildApp(t, false)

	resp := do(t, app, http.MethodGet, "/api/books/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[dto.BookDetailResponse](t, resp)
	assert.Equal(t, "El Hobbit", detail.Book.Name)
	assert.Equal(t, []string{"Fantasy / Epic Fantasy"}, detail.CategoryPath)
}

func TestBooks_CrearDuplicadoFallaLaSegundaVez(t *testing.T) {
	app, _ := buildApp(t, false)
	body := map[string]any{"name": "Dup", "author": "Anon", "category_id": 1, "price": "12.50"}

	resp := do(t, app, http.MethodPost, "/api/books", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.BookResponse](t, resp)
	assert.Equal(t, "12.5", created.Price.String())

	resp = do(t, app, http.MethodPost, "/api/books", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestBooks_CrearSinCategoria(t *testing.T) {
	app, _ := buildApp(t, false)

	resp := do(t, app, http.MethodPost, "/api/books", map[string]any{"name": "Nuevo", "author": "A"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestBooks_ActualizarYEliminar(t *testing.T) {
	app, _ := buildApp(t, false)

	resp := do(t, app, http.MethodPatch, "/api/books/1", map[string]any{"category_id": 3}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), decode[dto.BookResponse](t, resp).CategoryID)

	resp = do(t, app, http.MethodDelete, "/api/books/1", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/api/books/1", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestEscrituras_RequierenToken(t *testing.T) {
	app, _ := buildApp(t, true)

	resp := do(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Nueva"}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Nueva"}, tokenForRole(t, "editor"))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Las lecturas siguen siendo públicas.
	resp = do(t, app, http.MethodGet, "/api/categories", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEliminarCategoria_SoloAdmin(t *testing.T) {
	app, _ := buildApp(t, true)

	resp := do(t, app, http.MethodDelete, "/api/categories/3", nil, tokenForRole(t, "editor"))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/api/categories/3", nil, tokenForRole(t, "admin"))
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, s := buildApp(t, true)
	uc := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer})
	_, err := uc.SeedAdmin(context.Background(), dto.SeedAdminRequest{Email: "admin@catalogo.test", Password: "clave-segura"})
	require.NoError(t, err)

	resp := do(t, app, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@catalogo.test", "password": "clave-segura"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, out.Token)

	resp = do(t, app, http.MethodDelete, "/api/categories/3", nil, "Bearer "+out.Token)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@catalogo.test", "password": "otra"}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
