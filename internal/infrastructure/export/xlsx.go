package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
)

const sheetName = "Inventario"

// XLSXExporter escribe el informe como libro Excel con una hoja y una fila de total.
type XLSXExporter struct{}

// NewXLSXExporter construye el exportador XLSX.
func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (XLSXExporter) Format() string { return dto.FormatXLSX }
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Export(_ context.Context, report *dto.StockReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}

	row := 2
	for _, r := range report.Rows {
		excelRow := []interface{}{
			r.Name,
			r.Category,
			r.Stock.InexactFloat64(),
			r.Unit,
			r.Location,
			r.Value.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("xlsx: fila %s: %w", r.ItemID, err)
		}
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(5, row)
	totalValue, _ := excelize.CoordinatesToCellName(6, row)
	if err := f.SetCellValue(sheetName, totalLabel, "Total"); err != nil {
		return nil, fmt.Errorf("xlsx: total: %w", err)
	}
	if err := f.SetCellValue(sheetName, totalValue, report.TotalValue.InexactFloat64()); err != nil {
		return nil, fmt.Errorf("xlsx: total: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
