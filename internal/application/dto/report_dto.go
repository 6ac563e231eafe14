package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de exportación del informe de stock.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// StockRow fila del informe de stock. Value = Stock × CostPerUnit a 2 decimales.
type StockRow struct {
	ItemID      string          `json:"itemId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	Stock       decimal.Decimal `json:"stock"`
	CostPerUnit decimal.Decimal `json:"costPerUnit"`
	Value       decimal.Decimal `json:"value"`
}

// StockReport informe de stock completo, ordenado por nombre (collation española).
type StockReport struct {
	GeneratedAt   time.Time       `json:"generatedAt"`
	Rows          []StockRow      `json:"rows"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	GoodCount     int             `json:"goodCount"`
	LowCount      int             `json:"lowCount"`
	CriticalCount int             `json:"criticalCount"`
}

// ExportFile documento exportado listo para descargar.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
