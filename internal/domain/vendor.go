package domain

// Vendor is a supplier. The gateway listing only carries id and name;
// contact, address and medicines are filled on creation payloads.
type Vendor struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Contact   string   `json:"contact,omitempty"`
	Address   string   `json:"address,omitempty"`
	Medicines []string `json:"medicines,omitempty"`
}

// VendorMedicine is a medicine as supplied by one vendor. Order lines
// reference these ids, not catalog medicine ids.
type VendorMedicine struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VendorCreate body of POST /api/vendors/
type VendorCreate struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Contact   string   `json:"contact" validate:"required,max=100"`
	Address   string   `json:"address" validate:"omitempty,max=500"`
	Medicines []string `json:"medicines" validate:"required,min=1,dive,required"`
}

// VendorCreated is the gateway acknowledgement for a new vendor.
type VendorCreated struct {
	VendorID int64  `json:"vendor_id"`
	Message  string `json:"message"`
}
