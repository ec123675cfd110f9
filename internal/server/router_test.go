package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/internal/db"
	"github.com/diewo77/go-quotes/internal/handlers"
	"github.com/diewo77/go-quotes/internal/models"
)

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	opts := Options{List: handlers.ListOptions{DefaultPageSize: 10, MaxPageSize: 50}}
	return New(conn, opts, zap.NewNop()), conn
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	for _, path := range []string{"/health", "/healthz"} {
		w := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUnknownRouteIsJSON(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "Not found", body["message"])
}

func TestClientListFilterAndPaging(t *testing.T) {
	h, conn := newTestServer(t)
	for i := range 10 {
		conn.Create(&models.Client{Name: "Record " + strconv.Itoa(i)})
	}
	conn.Create(&models.Client{Name: "Alice"})
	conn.Create(&models.Client{Name: "Bob"})
	conn.Create(&models.Client{Name: "Alicia"})

	w := do(t, h, http.MethodGet, "/api/clients?q=ALI", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[handlers.ListResponse[models.Client]](t, w)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Alice", list.Items[0].Name)
	assert.Equal(t, "Alicia", list.Items[1].Name)

	w = do(t, h, http.MethodGet, "/api/clients?page_index=1&page_size=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[handlers.ListResponse[models.Client]](t, w)
	assert.Equal(t, 13, list.Total)
	assert.Equal(t, 4, list.TotalPages)
	assert.Len(t, list.Items, 4)

	w = do(t, h, http.MethodGet, "/api/clients?page_index=9&page_size=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[handlers.ListResponse[models.Client]](t, w)
	assert.Empty(t, list.Items)

	w = do(t, h, http.MethodGet, "/api/clients?page_size=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_argument", decode[map[string]any](t, w)["error"])
}

func TestHugePageIndexIsEmptyPage(t *testing.T) {
	h, conn := newTestServer(t)
	for _, name := range []string{"Alice", "Bob", "Alicia"} {
		conn.Create(&models.Client{Name: name})
	}
	const huge = 1 << 62

	for _, size := range []int{2, 4} {
		path := "/api/clients?page_index=" + strconv.Itoa(huge) + "&page_size=" + strconv.Itoa(size)
		w := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		list := decode[handlers.ListResponse[models.Client]](t, w)
		assert.Equal(t, 3, list.Total)
		assert.Empty(t, list.Items, path)

		w = do(t, h, http.MethodPost, "/api/clients/view", handlers.ViewRequest{PageIndex: huge, PageSize: size})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view struct {
			Page struct {
				Rows    []models.Client `json:"rows"`
				HasNext bool            `json:"has_next"`
			} `json:"page"`
			Header string `json:"header"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Empty(t, view.Page.Rows)
		assert.False(t, view.Page.HasNext)
		assert.Equal(t, "none", view.Header)
	}
}

func TestItemCRUD(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/items", map[string]any{"code": "dev", "name": "Dev", "unit_cost": "80,50"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.Item](t, w)
	assert.Equal(t, "DEV", item.Code)
	assert.Equal(t, "80.5", item.UnitCost.String())
	assert.True(t, item.IsActive)

	w = do(t, h, http.MethodPost, "/api/items", map[string]any{"code": "DEV", "name": "Again", "unit_cost": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errBody := decode[map[string]any](t, w)
	assert.Equal(t, map[string]any{"code": "code_already_exists"}, errBody["details"])

	w = do(t, h, http.MethodPost, "/api/items", map[string]any{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPut, "/api/items/"+strconv.Itoa(int(item.ID)), map[string]any{"code": "DEV", "name": "Développement", "unit_cost": 90, "is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	item = decode[models.Item](t, w)
	assert.Equal(t, "Développement", item.Name)
	assert.False(t, item.IsActive)

	w = do(t, h, http.MethodGet, "/api/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/api/items/"+strconv.Itoa(int(item.ID)), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/api/items/"+strconv.Itoa(int(item.ID)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewAndBulkDelete(t *testing.T) {
	h, conn := newTestServer(t)
	for i := range 5 {
		conn.Create(&models.Client{Name: "Client " + strconv.Itoa(i)})
	}

	w := do(t, h, http.MethodPost, "/api/clients/view", handlers.ViewRequest{PageSize: 2, Action: handlers.ActionToggleAll})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view struct {
		Selected []uint `json:"selected"`
		Header   string `json:"header"`
		Page     struct {
			TotalPages int `json:"total_pages"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.ElementsMatch(t, []uint{1, 2}, view.Selected)
	assert.Equal(t, "all", view.Header)
	assert.Equal(t, 3, view.Page.TotalPages)

	w = do(t, h, http.MethodPost, "/api/clients/view", handlers.ViewRequest{PageSize: 2, Action: "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/clients/bulk-delete", handlers.BulkDeleteRequest{IDs: view.Selected})
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	conn.Model(&models.Client{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestQuotationFlow(t *testing.T) {
	h, conn := newTestServer(t)
	client := models.Client{Name: "Alice"}
	conn.Create(&client)

	form := map[string]any{
		"client_id":      client.ID,
		"issue_date":     "2025-04-02",
		"discount_kind":  "percentage",
		"discount_value": 10,
		"tax_rate":       20,
		"items": []map[string]any{
			{"description": "Design", "unit_cost": 100, "quantity": 2},
			{"description": "Hosting", "unit_cost": "25", "quantity": "2"},
		},
	}

	w := do(t, h, http.MethodPost, "/api/quotations/preview", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview struct {
		Totals map[string]string `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, "250", preview.Totals["subtotal"])
	assert.Equal(t, "25", preview.Totals["discount"])
	assert.Equal(t, "225", preview.Totals["net_total"])
	assert.Equal(t, "270", preview.Totals["gross_total"])

	w = do(t, h, http.MethodPost, "/api/quotations", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "QUO-2025-0001", created["number"])
	id := strconv.Itoa(int(created["id"].(float64)))

	w = do(t, h, http.MethodGet, "/api/quotations/"+id+"/totals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var totals struct {
		Totals    map[string]string `json:"totals"`
		Formatted map[string]string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, "45", totals.Totals["tax"])
	assert.Equal(t, "€270.00", totals.Formatted["gross_total"])

	w = do(t, h, http.MethodGet, "/api/quotations?q=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["total"])

	w = do(t, h, http.MethodPost, "/api/quotations/"+id+"/status", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPut, "/api/quotations/"+id, form)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_editable", decode[map[string]any](t, w)["error"])

	w = do(t, h, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Quotations        int64             `json:"quotations"`
		Accepted          map[string]string `json:"accepted"`
		AcceptedFormatted map[string]string `json:"accepted_formatted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, int64(1), dash.Quotations)
	assert.Equal(t, "270", dash.Accepted["gross_total"])
	assert.Equal(t, "€270.00", dash.AcceptedFormatted["gross_total"])
}

func TestQuotationValidation(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodPost, "/api/quotations", map[string]any{"client_id": 99})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, map[string]any{"client_id": "client_not_found"}, body["details"])

	w = do(t, h, http.MethodPost, "/api/quotations", map[string]any{"discount_kind": "coupon"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/api/quotations", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuotationUnknownCatalogueItem(t *testing.T) {
	h, conn := newTestServer(t)
	client := models.Client{Name: "Alice"}
	conn.Create(&client)

	form := map[string]any{
		"client_id": client.ID,
		"items": []map[string]any{
			{"description": "Design", "unit_cost": 100},
			{"item_id": 999},
		},
	}
	for _, path := range []string{"/api/quotations", "/api/quotations/preview"} {
		w := do(t, h, http.MethodPost, path, form)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "validation_failed", body["error"])
		assert.Equal(t, map[string]any{"items[1].item_id": "item_not_found"}, body["details"])
	}
}

func TestPreviewGroupedAmounts(t *testing.T) {
	h, _ := newTestServer(t)
	form := map[string]any{
		"discount_kind":  "amount",
		"discount_value": "1,234,567",
		"tax_rate":       0,
		"items": []map[string]any{
			{"description": "Building", "unit_cost": "2,000,000", "quantity": 1},
		},
	}
	w := do(t, h, http.MethodPost, "/api/quotations/preview", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview struct {
		DiscountValue string `json:"discount_value"`
		Items         []struct {
			UnitCost  string `json:"unit_cost"`
			LineTotal string `json:"line_total"`
		} `json:"items"`
		Totals map[string]string `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	require.Len(t, preview.Items, 1)
	assert.Equal(t, "2000000", preview.Items[0].UnitCost)
	assert.Equal(t, "2000000", preview.Items[0].LineTotal)
	assert.Equal(t, "1234567", preview.DiscountValue)
	assert.Equal(t, "765433", preview.Totals["net_total"])
}

func TestClientInUse(t *testing.T) {
	h, conn := newTestServer(t)
	client := models.Client{Name: "Alice"}
	conn.Create(&client)
	w := do(t, h, http.MethodPost, "/api/quotations", map[string]any{"client_id": client.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/clients/"+strconv.Itoa(int(client.ID)), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "client_in_use", decode[map[string]any](t, w)["error"])
}
