package domain

type Store struct {
	ID       int64
	Name     string
	Location string
}

// InventoryRow is one per-(store, product) stock quantity. Absence of a row
// means zero stock; quantity never goes negative.
type InventoryRow struct {
	StoreID      int64
	ProductID    int64
	ProductTitle string
	Quantity     int64
}
