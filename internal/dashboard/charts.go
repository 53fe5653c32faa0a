package dashboard

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/talkincode/pharmadesk/internal/domain"
)

const (
	monthLayout       = "2006-01"
	topSellingLimit   = 5
	lowStockThreshold = 10
)

type MonthUnits struct {
	Month string `json:"month"`
	Units int    `json:"units"`
}

type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type MedicineUnits struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Units      int    `json:"units"`
}

type StatusCount struct {
	Status domain.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
}

type Summary struct {
	Sales       int             `json:"sales"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	MeanSale    float64         `json:"mean_sale"`
	MedianSale  float64         `json:"median_sale"`
	Medicines   int             `json:"medicines"`
	LowStock    int             `json:"low_stock"`
	OpenOrders  int             `json:"open_orders"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Snapshot is every dashboard chart computed from one fetch.
type Snapshot struct {
	SalesTrend     []MonthUnits    `json:"sales_trend"`
	RevenueByMonth []MonthRevenue  `json:"revenue_by_month"`
	TopSelling     []MedicineUnits `json:"top_selling"`
	StockLevels    []MedicineUnits `json:"stock_levels"`
	OrdersByStatus []StatusCount   `json:"orders_by_status"`
	Summary        Summary         `json:"summary"`
}

// Compute builds the charts. Sales without a date are left out of the
// monthly series but still count towards the totals.
func Compute(sales []domain.Sale, medicines []domain.Medicine, orders []domain.Order, now time.Time) Snapshot {
	names := make(map[string]string, len(medicines))
	for _, m := range medicines {
		names[m.ID] = m.Name
	}

	units := map[string]int{}
	revenue := map[string]decimal.Decimal{}
	sold := map[string]int{}
	values := make(stats.Float64Data, 0, len(sales))
	sum := Summary{Revenue: decimal.Zero, Medicines: len(medicines), GeneratedAt: now}

	for _, s := range sales {
		sum.Sales++
		sum.UnitsSold += s.Quantity
		sum.Revenue = sum.Revenue.Add(s.TotalPrice)
		values = append(values, s.TotalPrice.InexactFloat64())
		sold[s.MedicineID] += s.Quantity
		if s.SaleDate.IsZero() {
			continue
		}
		month := s.SaleDate.Format(monthLayout)
		units[month] += s.Quantity
		r, ok := revenue[month]
		if !ok {
			r = decimal.Zero
		}
		revenue[month] = r.Add(s.TotalPrice)
	}
	if mean, err := stats.Mean(values); err == nil {
		sum.MeanSale, _ = stats.Round(mean, 2)
	}
	if median, err := stats.Median(values); err == nil {
		sum.MedianSale, _ = stats.Round(median, 2)
	}

	snap := Snapshot{
		SalesTrend:     make([]MonthUnits, 0, len(units)),
		RevenueByMonth: make([]MonthRevenue, 0, len(revenue)),
		TopSelling:     make([]MedicineUnits, 0, topSellingLimit),
		StockLevels:    make([]MedicineUnits, 0, len(medicines)),
	}
	for _, month := range sortedKeys(units) {
		snap.SalesTrend = append(snap.SalesTrend, MonthUnits{Month: month, Units: units[month]})
		snap.RevenueByMonth = append(snap.RevenueByMonth, MonthRevenue{Month: month, Revenue: revenue[month]})
	}

	top := make([]MedicineUnits, 0, len(sold))
	for id, n := range sold {
		name := names[id]
		if name == "" {
			name = id
		}
		top = append(top, MedicineUnits{MedicineID: id, Name: name, Units: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Units != top[j].Units {
			return top[i].Units > top[j].Units
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topSellingLimit {
		top = top[:topSellingLimit]
	}
	snap.TopSelling = append(snap.TopSelling, top...)

	for _, m := range medicines {
		snap.StockLevels = append(snap.StockLevels, MedicineUnits{MedicineID: m.ID, Name: m.Name, Units: m.Quantity})
		if m.Quantity < lowStockThreshold {
			sum.LowStock++
		}
	}
	sort.SliceStable(snap.StockLevels, func(i, j int) bool {
		return snap.StockLevels[i].Units < snap.StockLevels[j].Units
	})

	counts := map[domain.OrderStatus]int{}
	for _, o := range orders {
		counts[o.Status]++
		if o.Status.Editable() {
			sum.OpenOrders++
		}
	}
	for _, st := range domain.OrderStatuses {
		snap.OrdersByStatus = append(snap.OrdersByStatus, StatusCount{Status: st, Label: st.Label(), Count: counts[st]})
	}

	snap.Summary = sum
	return snap
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
