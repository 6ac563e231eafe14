package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeAdd        = "add"        // entrada de un lote nuevo
	MovementTypeIssue      = "issue"      // salida a cocina
	MovementTypeWastage    = "wastage"    // merma
	MovementTypeAdjustment = "adjustment" // ajuste de conteo
	MovementTypeRework     = "rework"     // corrección de un movimiento previo
)

// StockMovement es el registro de auditoría, inmutable y solo de inserción, de un cambio de cantidad.
// Quantity es el delta aplicado al stock: positivo en add, negativo en issue/wastage,
// cualquier signo en adjustment/rework.
type StockMovement struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	BatchID     string          `json:"batchId,omitempty"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Reason      string          `json:"reason"`
	Actor       string          `json:"actor"`
	ReferenceID string          `json:"referenceId,omitempty"` // rework: movimiento original; add: solicitud
	CreatedAt   time.Time       `json:"createdAt"`
}

// GetID implementa recordstore.Record.
func (m StockMovement) GetID() string { return m.ID }

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeAdd, MovementTypeIssue, MovementTypeWastage, MovementTypeAdjustment, MovementTypeRework:
		return true
	}
	return false
}
