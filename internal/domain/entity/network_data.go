package entity

// NetworkData volcado completo de una red: configuración de sitios, existencias,
// transferencias en curso, pacientes y catálogo. Es la unidad de importación.
type NetworkData struct {
	NetworkID string
	Sites     []Site
	Inventory []InventoryRecord
	Transfers []TransferRequest
	Patients  []Patient
	Catalog   []CatalogDrug
}
