package catalog

import (
	"io"

	"github.com/gocarina/gocsv"
)

type medicineRow struct {
	ID           string `csv:"id"`
	Name         string `csv:"name"`
	Price        string `csv:"price"`
	Quantity     int    `csv:"quantity"`
	Manufacturer string `csv:"manufacturer"`
}

// ExportCSV writes the currently loaded catalog as CSV.
func (s *Store) ExportCSV(w io.Writer) error {
	meds := s.Medicines()
	rows := make([]*medicineRow, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, &medicineRow{
			ID:           m.ID,
			Name:         m.Name,
			Price:        m.Price.StringFixed(2),
			Quantity:     m.Quantity,
			Manufacturer: m.Manufacturer,
		})
	}
	return gocsv.Marshal(rows, w)
}
