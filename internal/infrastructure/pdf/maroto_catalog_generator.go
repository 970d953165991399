// Package pdf implementa el catálogo imprimible de una rama del árbol de categorías.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ruta de la rama       │  Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Libro | Autor | Categoría | Precio                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: N libros (+ aviso si se truncó)                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appcatalog "github.com/jhoicas/Catalogo-api/internal/application/catalog"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoCatalogGenerator implementa catalog.BranchPDFGenerator usando Maroto v2.
type MarotoCatalogGenerator struct {
	author string
}

// NewMarotoCatalogGenerator construye el generador; author se escribe en los metadatos del PDF.
func NewMarotoCatalogGenerator(author string) *MarotoCatalogGenerator {
	return &MarotoCatalogGenerator{author: author}
}

// GenerateBranchPDF genera el PDF y devuelve sus bytes.
func (g *MarotoCatalogGenerator) GenerateBranchPDF(_ context.Context, branch *appcatalog.Branch) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Catálogo: "+branch.RootPath, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(branch))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(branch.Entries)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(branch))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: ruta de la rama (izq) y fecha (der).
func headerRow(branch *appcatalog.Branch) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("CATÁLOGO DE LIBROS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(branch.RootPath, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+branch.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de libros.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Libro", 4, align.Left),
		h("Autor", 3, align.Left),
		h("Categoría", 3, align.Left),
		h("Precio", 2, align.Right),
	)
}

// tableRows: una fila por libro.
func tableRows(entries []appcatalog.BranchEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(e.Book.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(e.Book.Author, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(e.CategoryPath, props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New("$"+formatMoney(e.Book.Price), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// summaryRow: total de libros y aviso de truncamiento.
func summaryRow(branch *appcatalog.Branch) core.Row {
	msg := fmt.Sprintf("%d libros en la rama", len(branch.Entries))
	if branch.Truncated {
		msg += " (listado truncado; consulte la API para el detalle completo)"
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
