package domain

import "github.com/shopspring/decimal"

// SaleLine is one cart entry as submitted to the gateway.
type SaleLine struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// SaleCreate body of POST /sales/
type SaleCreate struct {
	Cart []SaleLine `json:"cart"`
}

// Sale is a recorded sale row as listed by GET /sales/.
type Sale struct {
	ID         string          `json:"id"`
	MedicineID string          `json:"medicine_id"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	SaleDate   Time            `json:"sale_date"`
}
