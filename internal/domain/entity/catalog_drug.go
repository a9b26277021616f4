package entity

import "github.com/shopspring/decimal"

// CatalogDrug medicamento seguido por la red.
// UnitPrice es el precio de lista (WAC) usado cuando el marketplace no responde.
type CatalogDrug struct {
	NDC       string
	Name      string
	UnitPrice decimal.Decimal
	ColdChain bool
	Orphan    bool
}
