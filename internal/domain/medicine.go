package domain

import "github.com/shopspring/decimal"

func init() {
	// prices travel as JSON numbers in both directions
	decimal.MarshalJSONWithoutQuotes = true
}

// Medicine catalog entry. Quantity is the units in stock.
type Medicine struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Manufacturer string          `json:"manufacturer"`
}

// MedicineForm is the shared create/update body. Pointers distinguish a
// missing field from a zero value.
type MedicineForm struct {
	Name         string           `json:"name" validate:"required,max=200"`
	Price        *decimal.Decimal `json:"price"`
	Quantity     *int             `json:"quantity" validate:"required,gte=0"`
	Manufacturer string           `json:"manufacturer" validate:"required,max=200"`
}

// FormOf pre-fills the form from an existing medicine.
func FormOf(m Medicine) MedicineForm {
	price := m.Price
	qty := m.Quantity
	return MedicineForm{
		Name:         m.Name,
		Price:        &price,
		Quantity:     &qty,
		Manufacturer: m.Manufacturer,
	}
}
