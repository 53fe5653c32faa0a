package domain

// OrderStatus is the fixed order lifecycle enumeration.
type OrderStatus string

const (
	StatusInProgress OrderStatus = "in_progress"
	StatusTransit    OrderStatus = "transit"
	StatusCompleted  OrderStatus = "completed"
	StatusReceived   OrderStatus = "received"
)

// OrderStatuses in display order.
var OrderStatuses = []OrderStatus{StatusInProgress, StatusTransit, StatusCompleted, StatusReceived}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusTransit, StatusCompleted, StatusReceived:
		return true
	}
	return false
}

// Editable reports whether an order in this status may be re-composed.
func (s OrderStatus) Editable() bool {
	return s == StatusInProgress || s == StatusTransit
}

func (s OrderStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusTransit:
		return "Transit"
	case StatusCompleted:
		return "Completed"
	case StatusReceived:
		return "Received"
	}
	return string(s)
}

// OrderMedicine is one line of an order as the gateway lists it.
type OrderMedicine struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID         int64           `json:"id"`
	VendorID   int64           `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	OrderDate  Time            `json:"order_date"`
	Status     OrderStatus     `json:"status"`
	Medicines  []OrderMedicine `json:"medicines"`
}

// OrderLine references a vendor medicine in create/update bodies.
type OrderLine struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int   `json:"quantity"`
}

// OrderCreate body of POST /api/orders/
type OrderCreate struct {
	VendorID  int64       `json:"vendor_id"`
	Medicines []OrderLine `json:"medicines"`
	Status    OrderStatus `json:"status"`
	OrderDate string      `json:"order_date"`
}

// OrderUpdate body of PUT /api/orders/{id}
type OrderUpdate struct {
	VendorID  int64       `json:"vendor_id"`
	OrderDate string      `json:"order_date"`
	Medicines []OrderLine `json:"medicines"`
}

// StatusPatch body of PATCH /api/orders/{id}/status
type StatusPatch struct {
	Status OrderStatus `json:"status"`
}
