package handlers_test_suite

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

func createOrder(t *testing.T, r http.Handler, customerID int64) models.SalesOrder {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/sales-orders", handler.SalesOrderRequest{
		CustomerID: customerID,
		PONumber:   "PO-100",
		Lines: []service.OrderLineInput{
			{Description: "Cut plate", Quantity: 4, TotalWeight: 163.352, LineTotal: 138.85},
			{Description: "Delivery", Quantity: 1, LineTotal: 45.004},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.SalesOrder](t, w)
}

func TestCreateSalesOrderHandler(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")

	o := createOrder(t, r, c.ID)
	assert.Equal(t, fmt.Sprintf("SO-%d-0001", time.Now().UTC().Year()), o.OrderNumber)
	assert.Nil(t, o.QuoteID)
	assert.Equal(t, models.OrderOpen, o.Status)
	assert.Equal(t, "Acme Fabrication", o.CustomerName)
	assert.Equal(t, 183.85, o.Total)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, 2, o.Lines[1].LineNo)

	w := doJSON(r, http.MethodPost, "/api/sales-orders", handler.SalesOrderRequest{
		CustomerID: 999,
		Lines:      []service.OrderLineInput{{Quantity: 0}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := []string{}
	for _, e := range decode[[]models.FieldError](t, w) {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"customer_id", "lines[0].description", "lines[0].quantity"}, fields)
}

func TestGetSalesOrdersHandler(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")
	first := createOrder(t, r, c.ID)
	createOrder(t, r, c.ID)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, fmt.Sprintf("/api/sales-orders/%d/status", first.ID), handler.StatusRequest{Status: "in_progress"}).Code)

	res := decode[handler.SalesOrdersSearchResult](t, doJSON(r, http.MethodGet, "/api/sales-orders", nil))
	assert.Equal(t, 2, res.Meta.TotalCount)

	res = decode[handler.SalesOrdersSearchResult](t, doJSON(r, http.MethodGet, "/api/sales-orders?status=in_progress", nil))
	require.Len(t, res.Data, 1)
	assert.Equal(t, first.ID, res.Data[0].ID)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/sales-orders?status=lost", nil).Code)
}

func TestUpdateSalesOrderHandler(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")
	o := createOrder(t, r, c.ID)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/sales-orders/%d", o.ID), handler.SalesOrderUpdateRequest{PONumber: " PO-200 ", Notes: "Rush"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.SalesOrder](t, w)
	assert.Equal(t, "PO-200", updated.PONumber)
	assert.Equal(t, "Rush", updated.Notes)
	assert.Equal(t, o.Total, updated.Total)
	assert.Len(t, updated.Lines, 2)
}

func TestChangeSalesOrderStatusHandler(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")
	o := createOrder(t, r, c.ID)
	path := fmt.Sprintf("/api/sales-orders/%d/status", o.ID)

	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, path, handler.StatusRequest{Status: "shipped"}).Code)
	for _, s := range []string{"in_progress", "shipped", "completed"} {
		w := doJSON(r, http.MethodPost, path, handler.StatusRequest{Status: s})
		require.Equal(t, http.StatusOK, w.Code, s)
		assert.Equal(t, models.SalesOrderStatus(s), decode[models.SalesOrder](t, w).Status)
	}
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, path, handler.StatusRequest{Status: "cancelled"}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, path, handler.StatusRequest{Status: "lost"}).Code)
}

func TestDeleteAndRestoreSalesOrderHandler(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")
	o := createOrder(t, r, c.ID)
	path := fmt.Sprintf("/api/sales-orders/%d", o.ID)

	require.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, path, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, path+"/restore", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, path, nil).Code)
}
