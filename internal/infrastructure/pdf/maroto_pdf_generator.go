// Package pdf genera el informe de stock en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  RESUMEN: artículos por estado │ valor total                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Categoría | Stock | Ubicación | Estado | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
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

	"github.com/jhoicas/templo-inventario/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 122, Green: 62, Blue: 20}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLow      = &props.Color{Red: 196, Green: 128, Blue: 0}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var statusLabels = map[string]string{
	"good":     "Bien",
	"low":      "Bajo",
	"critical": "Crítico",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportPDF implementa report.StockExporter usando Maroto v2.
type StockReportPDF struct {
	title string
}

// NewStockReportPDF construye el generador. title encabeza el documento.
func NewStockReportPDF(title string) *StockReportPDF {
	if strings.TrimSpace(title) == "" {
		title = "Inventario"
	}
	return &StockReportPDF{title: title}
}

func (g *StockReportPDF) Format() string      { return dto.FormatPDF }
func (g *StockReportPDF) ContentType() string { return "application/pdf" }

// Export genera el PDF y devuelve sus bytes.
func (g *StockReportPDF) Export(_ context.Context, report *dto.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report.TotalValue))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *StockReportPDF) headerRow(report *dto.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Informe de stock", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(report *dto.StockReport) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("Artículos: %d   |   Bien: %d   |   Bajo: %d   |   Crítico: %d",
				len(report.Rows), report.GoodCount, report.LowCount, report.CriticalCount,
			), props.Text{Size: 8, Top: 3}),
		),
		col.New(4).Add(
			text.New("Valor total: "+formatMoney(report.TotalValue), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Artículo", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Stock", 2, align.Right),
		h("Ubicación", 2, align.Left),
		h("Estado", 1, align.Center),
		h("Valor", 2, align.Right),
	)
}

// tableRows: una fila por artículo; el estado lleva color si no está bien.
func tableRows(rows []dto.StockRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		status := props.Text{Size: 8, Align: align.Center, Top: 1}
		switch r.Status {
		case "low":
			status.Color = colorLow
		case "critical":
			status.Color, status.Style = colorCritical, fontstyle.Bold
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(r.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(r.Category, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.Stock.String()+" "+r.Unit, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(nonEmpty(r.Location, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(nonEmpty(statusLabels[r.Status], r.Status), status)),
			col.New(2).Add(text.New(formatMoney(r.Value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(2).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 1234.5 → "$1.234,50"
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
	return sign + "$" + string(buf) + "," + frac
}
