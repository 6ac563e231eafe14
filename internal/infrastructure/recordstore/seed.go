package recordstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// Seeds registros estáticos que se superponen bajo los datos del usuario.
type Seeds struct {
	Items     []entity.InventoryItem
	Batches   []entity.StockBatch
	Movements []entity.StockMovement
	Requests  []entity.StockRequest
	Users     []entity.User
}

// AdminSeed operador administrador inicial. Vive solo como semilla: nunca se persiste
// salvo que se modifique.
func AdminSeed(email, passwordHash string) entity.User {
	ts := seedDate(2026, time.January, 1)
	return entity.User{
		ID:           "usr-admin",
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

func seedDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedDatePtr(y int, m time.Month, d int) *time.Time {
	t := seedDate(y, m, d)
	return &t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DemoSeeds conjunto de demostración de la cocina del templo. Los saldos de los artículos
// coinciden con sus lotes y los lotes con sus movimientos.
func DemoSeeds() Seeds {
	created := seedDate(2026, time.June, 1)

	item := func(id, name, cat, unit, loc, minL, maxL, cost, stock string) entity.InventoryItem {
		return entity.InventoryItem{
			ID: id, Name: name, Category: cat, Unit: unit, Location: loc,
			MinStockLevel: dec(minL), MaxStockLevel: dec(maxL),
			CostPerUnit: dec(cost), CurrentStock: dec(stock),
			CreatedAt: created, UpdatedAt: created,
		}
	}
	batch := func(id, itemID, number, qty, remaining, cost string, purchased time.Time, expiry *time.Time) entity.StockBatch {
		return entity.StockBatch{
			ID: id, ItemID: itemID, BatchNumber: number,
			Quantity: dec(qty), RemainingQuantity: dec(remaining), CostPerUnit: dec(cost),
			PurchaseDate: purchased, ExpiryDate: expiry, Supplier: "Proveedor del templo",
			Status: entity.BatchStatusActive, CreatedAt: purchased, UpdatedAt: purchased,
		}
	}
	move := func(id, itemID, batchID, typ, qty, cost, reason string, at time.Time) entity.StockMovement {
		return entity.StockMovement{
			ID: id, ItemID: itemID, BatchID: batchID, Type: typ,
			Quantity: dec(qty), UnitCost: dec(cost), Reason: reason, Actor: "seed", CreatedAt: at,
		}
	}

	return Seeds{
		Items: []entity.InventoryItem{
			item("itm-rice", "Arroz basmati", "Granos", "kg", "Despensa A", "50", "300", "2.4143", "140"),
			item("itm-dal", "Dal toor", "Legumbres", "kg", "Despensa A", "20", "120", "3.1", "25"),
			item("itm-ghee", "Ghee", "Lácteos", "kg", "Cámara fría", "10", "60", "11.5", "8"),
			item("itm-jaggery", "Jaggery", "Endulzantes", "kg", "Despensa B", "15", "80", "2.9", "40"),
			item("itm-milk", "Leche", "Lácteos", "l", "Cámara fría", "40", "150", "1.05", "30"),
			item("itm-camphor", "Alcanfor", "Ofrendas", "unidad", "Almacén de altar", "100", "500", "0.2", "400"),
		},
		Batches: []entity.StockBatch{
			batch("bat-rice-1", "itm-rice", "AR-0801", "100", "60", "2.3", seedDate(2026, time.August, 1), seedDatePtr(2027, time.August, 1)),
			batch("bat-rice-2", "itm-rice", "AR-0915", "80", "80", "2.5", seedDate(2026, time.September, 15), seedDatePtr(2027, time.September, 15)),
			batch("bat-dal-1", "itm-dal", "DT-0901", "50", "25", "3.1", seedDate(2026, time.September, 1), seedDatePtr(2027, time.March, 1)),
			batch("bat-ghee-1", "itm-ghee", "GH-0710", "20", "8", "11.5", seedDate(2026, time.July, 10), seedDatePtr(2026, time.December, 31)),
			batch("bat-jaggery-1", "itm-jaggery", "JG-0920", "40", "40", "2.9", seedDate(2026, time.September, 20), seedDatePtr(2027, time.September, 20)),
			batch("bat-milk-1", "itm-milk", "LE-1015", "60", "30", "1.05", seedDate(2026, time.October, 15), seedDatePtr(2026, time.October, 22)),
			batch("bat-camphor-1", "itm-camphor", "AL-0601", "400", "400", "0.2", seedDate(2026, time.June, 1), nil),
		},
		Movements: []entity.StockMovement{
			move("mov-seed-01", "itm-rice", "bat-rice-1", entity.MovementTypeAdd, "100", "2.3", "Compra mensual", seedDate(2026, time.August, 1)),
			move("mov-seed-02", "itm-rice", "bat-rice-1", entity.MovementTypeIssue, "-40", "2.3", "Prasadam de festival", seedDate(2026, time.August, 20)),
			move("mov-seed-03", "itm-rice", "bat-rice-2", entity.MovementTypeAdd, "80", "2.5", "Compra mensual", seedDate(2026, time.September, 15)),
			move("mov-seed-04", "itm-dal", "bat-dal-1", entity.MovementTypeAdd, "50", "3.1", "Compra mensual", seedDate(2026, time.September, 1)),
			move("mov-seed-05", "itm-dal", "bat-dal-1", entity.MovementTypeIssue, "-25", "3.1", "Cocina diaria", seedDate(2026, time.September, 30)),
			move("mov-seed-06", "itm-ghee", "bat-ghee-1", entity.MovementTypeAdd, "20", "11.5", "Compra trimestral", seedDate(2026, time.July, 10)),
			move("mov-seed-07", "itm-ghee", "bat-ghee-1", entity.MovementTypeIssue, "-12", "11.5", "Lámparas y dulces", seedDate(2026, time.September, 5)),
			move("mov-seed-08", "itm-jaggery", "bat-jaggery-1", entity.MovementTypeAdd, "40", "2.9", "Compra mensual", seedDate(2026, time.September, 20)),
			move("mov-seed-09", "itm-milk", "bat-milk-1", entity.MovementTypeAdd, "60", "1.05", "Entrega semanal", seedDate(2026, time.October, 15)),
			move("mov-seed-10", "itm-milk", "bat-milk-1", entity.MovementTypeIssue, "-30", "1.05", "Abhishekam", seedDate(2026, time.October, 17)),
			move("mov-seed-11", "itm-camphor", "bat-camphor-1", entity.MovementTypeAdd, "400", "0.2", "Compra semestral", seedDate(2026, time.June, 1)),
		},
		Requests: []entity.StockRequest{
			{
				ID: "req-seed-ghee", ItemID: "itm-ghee", Quantity: dec("20"),
				Reason: "Festival de lámparas", RequestedBy: "seed",
				Status: entity.RequestStatusPending, CreatedAt: seedDate(2026, time.October, 10), UpdatedAt: seedDate(2026, time.October, 10),
			},
		},
	}
}
