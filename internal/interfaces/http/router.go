package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/auth"
	"github.com/jhoicas/Catalogo-api/internal/application/catalog"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC  *usecase.CategoryUseCase
	BookUC      *usecase.BookUseCase
	CatalogPDF  *catalog.PDFUseCase
	AuthUC      *auth.AuthUseCase
	Log         *logger.Logger
	JWTSecret   string
	AuthEnabled bool // false: escrituras abiertas (desarrollo local)
}

// Router registra las rutas de la API. Lecturas públicas; escrituras con Bearer Token
// si AuthEnabled (editor o admin; borrar categorías solo admin).
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	editors := writeGuard(deps, entity.RoleAdmin, entity.RoleEditor)
	admins := writeGuard(deps, entity.RoleAdmin)

	// Auth (público)
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC, log)
		api.Post("/auth/login", authHandler.Login)
	}

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.BookUC, deps.CatalogPDF, log)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/children", categoryHandler.Children)
	categories.Get("/:id/descendants", categoryHandler.Descendants)
	categories.Get("/:id/paths", categoryHandler.Paths)
	categories.Get("/:id/path", categoryHandler.RootPath)
	categories.Get("/:id/books", categoryHandler.Books)
	categories.Get("/:id/catalog.pdf", categoryHandler.CatalogPDF)
	categories.Post("/", with(editors, categoryHandler.Create)...)
	categories.Patch("/:id", with(editors, categoryHandler.Update)...)
	categories.Delete("/:id", with(admins, categoryHandler.Delete)...)

	// Books
	books := api.Group("/books")
	bookHandler := NewBookHandler(deps.BookUC, log)
	books.Get("/", bookHandler.List)
	books.Get("/category/:id", bookHandler.ListByCategory)
	books.Get("/:id", bookHandler.GetByID)
	books.Post("/", with(editors, bookHandler.Create)...)
	books.Patch("/:id", with(editors, bookHandler.Update)...)
	books.Delete("/:id", with(editors, bookHandler.Delete)...)
}

// writeGuard devuelve AuthMiddleware + RequireRole(roles...) o nada si la auth está deshabilitada.
func writeGuard(deps RouterDeps, roles ...string) []fiber.Handler {
	if !deps.AuthEnabled {
		return nil
	}
	return []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(roles...)}
}

func with(guard []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guard)+1)
	out = append(out, guard...)
	return append(out, h)
}
