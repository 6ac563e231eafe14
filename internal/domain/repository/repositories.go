package repository

// Repositories agrupa los repositorios atados a una misma unidad de trabajo.
// Lo entrega el TxRunner: todo lo escrito a través de ellos se persiste junto o no se persiste.
type Repositories struct {
	Items     InventoryItemRepository
	Batches   StockBatchRepository
	Movements StockMovementRepository
	Requests  StockRequestRepository
	Users     UserRepository
}
