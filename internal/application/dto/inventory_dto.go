package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name          string          `json:"name" validate:"required,max=120"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit" validate:"required"`
	Location      string          `json:"location"`
	MinStockLevel decimal.Decimal `json:"minStockLevel" validate:"gte=0"`
	MaxStockLevel decimal.Decimal `json:"maxStockLevel" validate:"gte=0"`
}

// Validate comprueba los campos antes de tocar el ledger.
func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return invalid("name es obligatorio")
	}
	if strings.TrimSpace(r.Unit) == "" {
		return invalid("unit es obligatorio")
	}
	return validateLevels(r.MinStockLevel, r.MaxStockLevel)
}

// UpdateItemRequest body para PUT /api/items/:id. Campos nil no cambian.
// Stock y costo no se editan: salen de los movimientos.
type UpdateItemRequest struct {
	Name          *string          `json:"name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	Location      *string          `json:"location,omitempty"`
	MinStockLevel *decimal.Decimal `json:"minStockLevel,omitempty"`
	MaxStockLevel *decimal.Decimal `json:"maxStockLevel,omitempty"`
}

// Apply valida y aplica los cambios sobre item.
func (r UpdateItemRequest) Apply(item *entity.InventoryItem) error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return invalid("name no puede quedar vacío")
		}
		item.Name = name
	}
	if r.Category != nil {
		item.Category = strings.TrimSpace(*r.Category)
	}
	if r.Unit != nil {
		if strings.TrimSpace(*r.Unit) == "" {
			return invalid("unit no puede quedar vacío")
		}
		item.Unit = strings.TrimSpace(*r.Unit)
	}
	if r.Location != nil {
		item.Location = strings.TrimSpace(*r.Location)
	}
	if r.MinStockLevel != nil {
		item.MinStockLevel = *r.MinStockLevel
	}
	if r.MaxStockLevel != nil {
		item.MaxStockLevel = *r.MaxStockLevel
	}
	return validateLevels(item.MinStockLevel, item.MaxStockLevel)
}

func validateLevels(minLevel, maxLevel decimal.Decimal) error {
	if minLevel.IsNegative() || maxLevel.IsNegative() {
		return invalid("los niveles de stock no pueden ser negativos")
	}
	if !maxLevel.IsZero() && maxLevel.LessThan(minLevel) {
		return invalid("maxStockLevel debe ser >= minStockLevel")
	}
	return nil
}

// AddStockRequest body para POST /api/stock/add: recepción de un lote nuevo.
type AddStockRequest struct {
	ItemID       string          `json:"itemId" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	CostPerUnit  decimal.Decimal `json:"costPerUnit" validate:"gte=0"`
	PurchaseDate string          `json:"purchaseDate,omitempty"` // YYYY-MM-DD; hoy si vacío
	ExpiryDate   string          `json:"expiryDate,omitempty"`   // YYYY-MM-DD; opcional
	BatchNumber  string          `json:"batchNumber,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	RequestID    string          `json:"requestId,omitempty"` // solicitud aprobada que se cumple
}

// Validate comprueba los campos y devuelve las fechas interpretadas en loc.
func (r *AddStockRequest) Validate(loc *time.Location) (purchase, expiry *time.Time, err error) {
	if strings.TrimSpace(r.ItemID) == "" {
		return nil, nil, invalid("itemId es obligatorio")
	}
	if !r.Quantity.IsPositive() {
		return nil, nil, invalid("quantity debe ser mayor que cero")
	}
	if r.CostPerUnit.IsNegative() {
		return nil, nil, invalid("costPerUnit no puede ser negativo")
	}
	if purchase, err = ParseDate(r.PurchaseDate, loc); err != nil {
		return nil, nil, err
	}
	if expiry, err = ParseDate(r.ExpiryDate, loc); err != nil {
		return nil, nil, err
	}
	if purchase != nil && expiry != nil && expiry.Before(*purchase) {
		return nil, nil, invalid("expiryDate anterior a purchaseDate")
	}
	return purchase, expiry, nil
}

// IssueStockRequest body para POST /api/stock/issue. Sin BatchID se aplica FIFO.
type IssueStockRequest struct {
	ItemID   string          `json:"itemId" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	BatchID  string          `json:"batchId,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

func (r *IssueStockRequest) Validate() error {
	if strings.TrimSpace(r.ItemID) == "" {
		return invalid("itemId es obligatorio")
	}
	if !r.Quantity.IsPositive() {
		return invalid("quantity debe ser mayor que cero")
	}
	return nil
}

// WastageRequest body para POST /api/stock/wastage. El motivo es obligatorio.
type WastageRequest struct {
	ItemID   string          `json:"itemId" validate:"required"`
	BatchID  string          `json:"batchId,omitempty"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Reason   string          `json:"reason" validate:"required"`
}

func (r *WastageRequest) Validate() error {
	if strings.TrimSpace(r.ItemID) == "" {
		return invalid("itemId es obligatorio")
	}
	if !r.Quantity.IsPositive() {
		return invalid("quantity debe ser mayor que cero")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return invalid("reason es obligatorio en una merma")
	}
	return nil
}

// AdjustStockRequest body para POST /api/stock/adjust: corrección de conteo sobre un lote.
type AdjustStockRequest struct {
	ItemID  string          `json:"itemId" validate:"required"`
	BatchID string          `json:"batchId" validate:"required"`
	Delta   decimal.Decimal `json:"delta" validate:"ne=0"`
	Reason  string          `json:"reason" validate:"required"`
}

func (r *AdjustStockRequest) Validate() error {
	if strings.TrimSpace(r.ItemID) == "" || strings.TrimSpace(r.BatchID) == "" {
		return invalid("itemId y batchId son obligatorios")
	}
	if r.Delta.IsZero() {
		return invalid("delta no puede ser cero")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return invalid("reason es obligatorio en un ajuste")
	}
	return nil
}

// ReworkRequest body para POST /api/stock/rework: corrige un movimiento anterior.
type ReworkRequest struct {
	OriginalMovementID string          `json:"originalMovementId" validate:"required"`
	Delta              decimal.Decimal `json:"delta" validate:"ne=0"`
	Reason             string          `json:"reason" validate:"required"`
}

func (r *ReworkRequest) Validate() error {
	if strings.TrimSpace(r.OriginalMovementID) == "" {
		return invalid("originalMovementId es obligatorio")
	}
	if r.Delta.IsZero() {
		return invalid("delta no puede ser cero")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return invalid("reason es obligatorio en una corrección")
	}
	return nil
}

// LedgerResult salida de una operación de stock: el movimiento escrito y el estado resultante.
type LedgerResult struct {
	Movement entity.StockMovement `json:"movement"`
	Batch    *entity.StockBatch   `json:"batch,omitempty"`
	Item     entity.InventoryItem `json:"item"`
	Status   string               `json:"status"`
	Request  *entity.StockRequest `json:"request,omitempty"`
}

// ItemView artículo con su estado y valor calculados.
type ItemView struct {
	entity.InventoryItem
	Status       string          `json:"status"`
	Value        decimal.Decimal `json:"value"`
	LowThreshold decimal.Decimal `json:"lowThreshold"`
}

// ItemDetail artículo con sus lotes (FIFO) y últimos movimientos.
type ItemDetail struct {
	ItemView
	Batches   []*entity.StockBatch    `json:"batches"`
	Movements []*entity.StockMovement `json:"movements"`
}

// ItemFilter parámetros de GET /api/items.
type ItemFilter struct {
	Category string `query:"category"`
	Status   string `query:"status"` // good | low | critical
	Search   string `query:"q"`
}

// MovementQuery parámetros de GET /api/movements.
type MovementQuery struct {
	ItemID  string `query:"itemId"`
	BatchID string `query:"batchId"`
	Type    string `query:"type"`
	From    string `query:"from"` // YYYY-MM-DD inclusive
	To      string `query:"to"`   // YYYY-MM-DD inclusive
	PageRequest
}

// ExpiryEntry lote en el informe de caducidad.
type ExpiryEntry struct {
	BatchID           string          `json:"batchId"`
	BatchNumber       string          `json:"batchNumber"`
	ItemID            string          `json:"itemId"`
	ItemName          string          `json:"itemName"`
	Unit              string          `json:"unit"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	Value             decimal.Decimal `json:"value"`
	ExpiryDate        string          `json:"expiryDate"`
	DaysUntilExpiry   int             `json:"daysUntilExpiry"`
}

// ExpiryReportDTO respuesta de GET /api/expiry.
type ExpiryReportDTO struct {
	Today        string        `json:"today"`
	WindowDays   int           `json:"windowDays"`
	ExpiringSoon []ExpiryEntry `json:"expiringSoon"`
	Expired      []ExpiryEntry `json:"expired"`
}

// SweepResult respuesta de POST /api/expiry/sweep.
type SweepResult struct {
	ExpiredBatches int                     `json:"expiredBatches"`
	Movements      []*entity.StockMovement `json:"movements"`
}

// StockDriftDTO diferencia entre la caché de un artículo y sus lotes.
type StockDriftDTO struct {
	ItemID      string          `json:"itemId"`
	ItemName    string          `json:"itemName"`
	Cached      decimal.Decimal `json:"cached"`
	FromBatches decimal.Decimal `json:"fromBatches"`
}

// BatchDriftDTO diferencia entre un lote y la suma de sus movimientos.
type BatchDriftDTO struct {
	BatchID       string          `json:"batchId"`
	ItemID        string          `json:"itemId"`
	Remaining     decimal.Decimal `json:"remaining"`
	FromMovements decimal.Decimal `json:"fromMovements"`
}

// ReconcileReport respuesta de GET /api/reconcile.
type ReconcileReport struct {
	Consistent bool            `json:"consistent"`
	Items      []StockDriftDTO `json:"items"`
	Batches    []BatchDriftDTO `json:"batches"`
	// Artículos cuya caché no coincide con la suma calculada por la base. Vacío si el
	// backend no la ofrece.
	Store      []StockDriftDTO `json:"store"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un artículo en estado low o critical.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"itemId"`
	ItemName           string          `json:"itemName"`
	Category           string          `json:"category"`
	Unit               string          `json:"unit"`
	Status             string          `json:"status"`
	CurrentStock       decimal.Decimal `json:"currentStock"`
	MinStockLevel      decimal.Decimal `json:"minStockLevel"`
	TargetStock        decimal.Decimal `json:"targetStock"`        // max, o min*1.5 si no hay max
	SuggestedOrderQty  decimal.Decimal `json:"suggestedOrderQty"`  // TargetStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unitCost"`           // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimatedOrderCost"` // SuggestedOrderQty * UnitCost
	OpenRequestQty     decimal.Decimal `json:"openRequestQty"`     // solicitudes pendientes o aprobadas
	Priority           int             `json:"priority"`           // 1 = más urgente
}
