package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/talkincode/pharmadesk/config"
	"github.com/talkincode/pharmadesk/internal/domain"
	"github.com/talkincode/pharmadesk/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the remote pharmacy API. It is safe for concurrent use
// and never retries; a failed call is reported once.
type Client struct {
	baseURL string
	timeout time.Duration
	headers gout.H
	debug   bool
	httpc   *http.Client
	metrics *metrics.Registry
}

func New(cfg config.GatewayConfig, reg *metrics.Registry) *Client {
	headers := gout.H{"Accept": "application/json"}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		headers: headers,
		debug:   cfg.Debug,
		httpc:   &http.Client{},
		metrics: reg,
	}
}

// BaseURL of the remote API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	var out []domain.Medicine
	err := c.do(ctx, "list_medicines", http.MethodGet, "/medicines/", nil, &out)
	return out, err
}

func (c *Client) CreateMedicine(ctx context.Context, form domain.MedicineForm) (domain.Medicine, error) {
	var out domain.Medicine
	err := c.do(ctx, "create_medicine", http.MethodPost, "/medicines/", form, &out)
	return out, err
}

func (c *Client) UpdateMedicine(ctx context.Context, id string, form domain.MedicineForm) (domain.Medicine, error) {
	var out domain.Medicine
	err := c.do(ctx, "update_medicine", http.MethodPut, "/medicines/"+url.PathEscape(id), form, &out)
	return out, err
}

func (c *Client) DeleteMedicine(ctx context.Context, id string) error {
	return c.do(ctx, "delete_medicine", http.MethodDelete, "/medicines/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ConfirmSale(ctx context.Context, sale domain.SaleCreate) error {
	return c.do(ctx, "confirm_sale", http.MethodPost, "/sales/", sale, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var out []domain.Sale
	err := c.do(ctx, "list_sales", http.MethodGet, "/sales/", nil, &out)
	return out, err
}

func (c *Client) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	var out []domain.Vendor
	err := c.do(ctx, "list_vendors", http.MethodGet, "/api/vendors/", nil, &out)
	return out, err
}

func (c *Client) CreateVendor(ctx context.Context, v domain.VendorCreate) (domain.VendorCreated, error) {
	var out domain.VendorCreated
	err := c.do(ctx, "create_vendor", http.MethodPost, "/api/vendors/", v, &out)
	return out, err
}

func (c *Client) VendorMedicines(ctx context.Context, vendorID int64) ([]domain.VendorMedicine, error) {
	var out []domain.VendorMedicine
	err := c.do(ctx, "vendor_medicines", http.MethodGet, fmt.Sprintf("/api/vendors/%d/medicines", vendorID), nil, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, "list_orders", http.MethodGet, "/api/orders/", nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, o domain.OrderCreate) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, "create_order", http.MethodPost, "/api/orders/", o, &out)
	return out, err
}

func (c *Client) UpdateOrder(ctx context.Context, id int64, o domain.OrderUpdate) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, "update_order", http.MethodPut, fmt.Sprintf("/api/orders/%d", id), o, &out)
	return out, err
}

func (c *Client) PatchOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return c.do(ctx, "patch_order_status", http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id),
		domain.StatusPatch{Status: status}, nil)
}

// do performs one round trip. out may be nil when the response body is
// not needed.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveGateway(op, started, err)
		if err != nil {
			zap.L().Warn("gateway call failed",
				zap.String("namespace", "gateway"),
				zap.String("op", op),
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err),
			)
		}
	}()

	var (
		raw  string
		code int
	)
	target := c.baseURL + path
	client := gout.New(c.httpc)

	var df *dataflow.DataFlow
	switch method {
	case http.MethodGet:
		df = client.GET(target)
	case http.MethodPost:
		df = client.POST(target)
	case http.MethodPut:
		df = client.PUT(target)
	case http.MethodPatch:
		df = client.PATCH(target)
	case http.MethodDelete:
		df = client.DELETE(target)
	default:
		return &Error{Op: op, Method: method, Path: path, Err: fmt.Errorf("unsupported method")}
	}

	df = df.WithContext(ctx).SetHeader(c.headers)
	if body != nil {
		df = df.SetJSON(body)
	}
	if doErr := df.BindBody(&raw).Code(&code).SetTimeout(c.timeout).Debug(c.debug).Do(); doErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			doErr = ctxErr
		}
		return &Error{Op: op, Method: method, Path: path, Err: doErr}
	}

	if code < 200 || code > 299 {
		return &Error{Op: op, Method: method, Path: path, Status: code, Detail: detailOf(raw)}
	}
	if out == nil || strings.TrimSpace(raw) == "" {
		return nil
	}
	if decErr := json.UnmarshalFromString(raw, out); decErr != nil {
		return &Error{Op: op, Method: method, Path: path, Status: code, Err: fmt.Errorf("decode response: %w", decErr)}
	}
	return nil
}

// detailOf extracts the FastAPI style {"detail": ...} reason.
func detailOf(raw string) string {
	var payload struct {
		Detail interface{} `json:"detail"`
	}
	if err := json.UnmarshalFromString(raw, &payload); err != nil || payload.Detail == nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return fmt.Sprint(payload.Detail)
}
