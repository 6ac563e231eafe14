package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalItems      int             `json:"totalItems"`
	GoodCount       int             `json:"goodCount"`
	LowCount        int             `json:"lowCount"`
	CriticalCount   int             `json:"criticalCount"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	ActiveBatches   int             `json:"activeBatches"`
	ExpiringSoon    int             `json:"expiringSoon"`
	Expired         int             `json:"expired"`
	ExpiryWindow    int             `json:"expiryWindowDays"`
	PendingRequests int             `json:"pendingRequests"`
	// Valor de las mermas de los últimos 30 días.
	WastageValue30d decimal.Decimal `json:"wastageValue30d"`
}

// WastageReportRequest parámetros de GET /api/reports/wastage.
type WastageReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto hace 30 días
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// WastageRowDTO mermas agregadas por artículo.
type WastageRowDTO struct {
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"` // positiva: cantidad perdida
	Value    decimal.Decimal `json:"value"`
	Events   int             `json:"events"`
}

// WastageReportDTO respuesta del informe de mermas.
type WastageReportDTO struct {
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Rows       []WastageRowDTO `json:"rows"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
