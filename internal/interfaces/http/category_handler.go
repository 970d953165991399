package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/catalog"
	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// CategoryHandler maneja las peticiones HTTP del árbol de categorías.
type CategoryHandler struct {
	uc     *usecase.CategoryUseCase
	bookUC *usecase.BookUseCase
	pdfUC  *catalog.PDFUseCase
	log    *logger.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, bookUC *usecase.BookUseCase, pdfUC *catalog.PDFUseCase, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{uc: uc, bookUC: bookUC, pdfUC: pdfUC, log: log}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Children godoc
// @Summary      Hijos directos de una categoría
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "ID de la categoría padre"
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories/{id}/children [get]
func (h *CategoryHandler) Children(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.Children(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Descendants godoc
// @Summary      IDs del subárbol (incluye la propia categoría)
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryDescendantsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/descendants [get]
func (h *CategoryHandler) Descendants(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.DescendantIDs(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Paths godoc
// @Summary      Rutas descendentes hasta cada hoja
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryPathsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/paths [get]
func (h *CategoryHandler) Paths(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.Paths(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RootPath godoc
// @Summary      Ruta raíz → categoría
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryRootPathResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/path [get]
func (h *CategoryHandler) RootPath(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.RootPath(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Books godoc
// @Summary      Libros de la rama (categoría y descendientes)
// @Tags         categories
// @Produce      json
// @Param        id     path      int  true   "ID de la categoría"
// @Param        skip   query     int  false  "Desplazamiento (default 0)"
// @Param        limit  query     int  false  "Tamaño de página (default 10)"
// @Success      200    {object}  dto.BookListResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/books [get]
func (h *CategoryHandler) Books(c *fiber.Ctx) error {
	return listBooksByCategory(c, h.bookUC, h.log)
}

// CatalogPDF godoc
// @Summary      Catálogo PDF de la rama
// @Tags         categories
// @Produce      application/pdf
// @Param        id   path      int  true  "ID de la categoría"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/catalog.pdf [get]
func (h *CategoryHandler) CatalogPDF(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	data, filename, err := h.pdfUC.DownloadBranchPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateCategoryRequest  true  "name, parent_id opcional"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if errResp := bindJSON(c, &in); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría (parcial)
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                        true  "ID de la categoría"
// @Param        body  body      dto.UpdateCategoryRequest  true  "name, parent_id o detach_parent"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [patch]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	var in dto.UpdateCategoryRequest
	if errResp := bindJSON(c, &in); errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Los hijos directos pasan a ser raíces y los libros de la categoría se eliminan.
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "ID de la categoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	res, err := h.uc.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().
		Int64("category_id", id).
		Int64("promoted_children", res.PromotedChildren).
		Int64("deleted_books", res.DeletedBooks).
		Int64("user_id", GetUserID(c)).
		Msg("categoría eliminada")
	return c.SendStatus(fiber.StatusNoContent)
}
