package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/domain/taxonomy"
)

// PDFUseCase genera el catálogo imprimible de una rama del árbol de categorías.
type PDFUseCase struct {
	categoryRepo repository.CategoryRepository
	bookRepo     repository.BookRepository
	resolver     *taxonomy.Resolver
	generator    BranchPDFGenerator
	maxBooks     int
}

// NewPDFUseCase construye el caso de uso. maxBooks acota los libros incluidos en el documento.
func NewPDFUseCase(
	categoryRepo repository.CategoryRepository,
	bookRepo repository.BookRepository,
	resolver *taxonomy.Resolver,
	generator BranchPDFGenerator,
	maxBooks int,
) *PDFUseCase {
	return &PDFUseCase{
		categoryRepo: categoryRepo,
		bookRepo:     bookRepo,
		resolver:     resolver,
		generator:    generator,
		maxBooks:     maxBooks,
	}
}

// DownloadBranchPDF arma la rama de categoryID (categoría + subárbol + libros) y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la categoría no existe.
func (uc *PDFUseCase) DownloadBranchPDF(ctx context.Context, categoryID int64) (pdfBytes []byte, filename string, err error) {
	// ── 1. Categoría y ruta ───────────────────────────────────────────────────
	cat, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener categoría: %w", err)
	}
	if cat == nil {
		return nil, "", fmt.Errorf("%w: categoría %d", domain.ErrNotFound, categoryID)
	}
	rootPath, err := uc.resolver.RootPath(ctx, categoryID)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Libros del subárbol (se pide uno extra para detectar truncamiento) ─
	ids, err := uc.resolver.SubtreeIDs(ctx, categoryID)
	if err != nil {
		return nil, "", err
	}
	books, err := uc.bookRepo.ListByCategories(ctx, ids, uc.maxBooks+1, 0)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: listar libros: %w", err)
	}
	truncated := len(books) > uc.maxBooks
	if truncated {
		books = books[:uc.maxBooks]
	}

	// ── 3. Ruta por libro, una resolución por categoría distinta ──────────────
	paths := map[int64]string{categoryID: rootPath}
	branch := &Branch{
		Category:    cat,
		RootPath:    rootPath,
		Truncated:   truncated,
		GeneratedAt: time.Now(),
	}
	for _, b := range books {
		p, ok := paths[b.CategoryID]
		if !ok {
			p, err = uc.resolver.RootPath(ctx, b.CategoryID)
			if err != nil {
				return nil, "", err
			}
			paths[b.CategoryID] = p
		}
		branch.Entries = append(branch.Entries, BranchEntry{Book: b, CategoryPath: p})
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateBranchPDF(ctx, branch)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("catalogo_categoria_%d.pdf", categoryID)
	return pdfBytes, filename, nil
}
