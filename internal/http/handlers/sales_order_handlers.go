package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// CreateSalesOrderHandler godoc
// @Summary Create a sales order without a quote
// @Tags sales-orders
// @Accept json
// @Produce json
// @Param order body SalesOrderRequest true "Order to create"
// @Success 201 {object} models.SalesOrder
// @Failure 400 {array} models.FieldError
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders [post]
func CreateSalesOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req SalesOrderRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	o, err := quoteService.CreateOrder(r.Context(), service.OrderInput{
		CustomerID: req.CustomerID,
		PONumber:   req.PONumber,
		Notes:      req.Notes,
		Lines:      req.Lines,
	})
	if err != nil {
		writeError(w, r, err, "create sales order")
		return
	}
	respond(w, r, http.StatusCreated, o)
}

// GetSalesOrdersHandler godoc
// @Summary List and filter sales orders
// @Tags sales-orders
// @Produce json
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param include_deleted query bool false "Include soft deleted orders"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} SalesOrdersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders [get]
func GetSalesOrdersHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePaging(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	customerID, err := parseInt64Ptr(q.Get("customer_id"))
	if err != nil {
		http.Error(w, errInvalidCustomerFilter.Error(), http.StatusBadRequest)
		return
	}
	status := models.SalesOrderStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		http.Error(w, errInvalidStatusFilter.Error(), http.StatusBadRequest)
		return
	}

	orders, total, err := quoteService.ListOrders(r.Context(), repo.SalesOrderFilter{
		Status:         status,
		CustomerID:     customerID,
		IncludeDeleted: parseBool(q.Get("include_deleted")),
		Offset:         offset,
		Limit:          limit,
	})
	if err != nil {
		writeError(w, r, err, "fetch sales orders")
		return
	}
	respond(w, r, http.StatusOK, SalesOrdersSearchResult{Data: orders, Meta: Meta{TotalCount: total}})
}

// GetSalesOrderByIDHandler godoc
// @Summary Get a sales order with its lines
// @Tags sales-orders
// @Produce json
// @Param id path int true "Sales order ID"
// @Success 200 {object} models.SalesOrder
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders/{id} [get]
func GetSalesOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid sales order ID", http.StatusBadRequest)
		return
	}
	o, err := quoteService.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "fetch sales order")
		return
	}
	respond(w, r, http.StatusOK, o)
}

// UpdateSalesOrderHandler godoc
// @Summary Update the PO number and notes of a sales order
// @Tags sales-orders
// @Accept json
// @Produce json
// @Param id path int true "Sales order ID"
// @Param order body SalesOrderUpdateRequest true "Updated fields"
// @Success 200 {object} models.SalesOrder
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders/{id} [put]
func UpdateSalesOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid sales order ID", http.StatusBadRequest)
		return
	}
	var req SalesOrderUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	o, err := quoteService.UpdateOrder(r.Context(), id, req.PONumber, req.Notes)
	if err != nil {
		writeError(w, r, err, "update sales order")
		return
	}
	respond(w, r, http.StatusOK, o)
}

// ChangeSalesOrderStatusHandler godoc
// @Summary Move a sales order to another status
// @Description open -> in_progress|cancelled, in_progress -> shipped|cancelled, shipped -> completed
// @Tags sales-orders
// @Accept json
// @Produce json
// @Param id path int true "Sales order ID"
// @Param status body StatusRequest true "Target status"
// @Success 200 {object} models.SalesOrder
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Invalid transition"
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders/{id}/status [post]
func ChangeSalesOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid sales order ID", http.StatusBadRequest)
		return
	}
	var req StatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	o, err := quoteService.ChangeOrderStatus(r.Context(), id, models.SalesOrderStatus(req.Status))
	if err != nil {
		writeError(w, r, err, "change sales order status")
		return
	}
	respond(w, r, http.StatusOK, o)
}

// DeleteSalesOrderHandler godoc
// @Summary Soft delete a sales order
// @Tags sales-orders
// @Param id path int true "Sales order ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders/{id} [delete]
func DeleteSalesOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid sales order ID", http.StatusBadRequest)
		return
	}
	if err := quoteService.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, err, "delete sales order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreSalesOrderHandler godoc
// @Summary Restore a soft deleted sales order
// @Tags sales-orders
// @Produce json
// @Param id path int true "Sales order ID"
// @Success 200 {object} models.SalesOrder
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/sales-orders/{id}/restore [post]
func RestoreSalesOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid sales order ID", http.StatusBadRequest)
		return
	}
	o, err := quoteService.RestoreOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "restore sales order")
		return
	}
	respond(w, r, http.StatusOK, o)
}
