// Package export serializa el informe de stock a hojas de cálculo (CSV y XLSX).
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
)

// Header columnas del informe, en este orden.
var Header = []string{"Item", "Category", "Stock", "Unit", "Location", "Value"}

// CSVExporter escribe el informe como CSV (RFC 4180), una fila por artículo.
type CSVExporter struct{}

// NewCSVExporter construye el exportador CSV.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (CSVExporter) Format() string      { return dto.FormatCSV }
func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Export devuelve el CSV. Value va siempre con dos decimales.
func (CSVExporter) Export(_ context.Context, report *dto.StockReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, r := range report.Rows {
		record := []string{r.Name, r.Category, r.Stock.String(), r.Unit, r.Location, r.Value.StringFixed(2)}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv: fila %s: %w", r.ItemID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}
