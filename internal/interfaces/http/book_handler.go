package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// BookHandler maneja las peticiones HTTP de libros.
type BookHandler struct {
	uc  *usecase.BookUseCase
	log *logger.Logger
}

// NewBookHandler construye el handler.
func NewBookHandler(uc *usecase.BookUseCase, log *logger.Logger) *BookHandler {
	return &BookHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar libros
// @Tags         books
// @Produce      json
// @Param        skip   query     int  false  "Desplazamiento (default 0)"
// @Param        limit  query     int  false  "Tamaño de página (default 10)"
// @Success      200    {object}  dto.BookListResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PAGINATION", err.Error())
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Libros de una categoría y sus descendientes
// @Tags         books
// @Produce      json
// @Param        id     path      int  true   "ID de la categoría"
// @Param        skip   query     int  false  "Desplazamiento (default 0)"
// @Param        limit  query     int  false  "Tamaño de página (default 10)"
// @Success      200    {object}  dto.BookListResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/books/category/{id} [get]
func (h *BookHandler) ListByCategory(c *fiber.Ctx) error {
	return listBooksByCategory(c, h.uc, h.log)
}

// GetByID godoc
// @Summary      Obtener libro con la ruta de su categoría
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "ID del libro"
// @Success      200  {object}  dto.BookDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
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

// Create godoc
// @Summary      Crear libro
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateBookRequest  true  "name, author, category_id, price opcional"
// @Success      201   {object}  dto.BookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookRequest
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
// @Summary      Actualizar libro (parcial)
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "ID del libro"
// @Param        body  body      dto.UpdateBookRequest  true  "campos a modificar"
// @Success      200   {object}  dto.BookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books/{id} [patch]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	var in dto.UpdateBookRequest
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
// @Summary      Eliminar libro
// @Tags         books
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del libro"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listBooksByCategory es compartido por /books/category/:id y /categories/:id/books.
func listBooksByCategory(c *fiber.Ctx, uc *usecase.BookUseCase, log *logger.Logger) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PAGINATION", err.Error())
	}
	out, err := uc.ListByCategory(c.UserContext(), id, page)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(out)
}
