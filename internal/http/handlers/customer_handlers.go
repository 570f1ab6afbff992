package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

// CreateCustomerHandler godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body CustomerRequest true "Customer to add"
// @Success 201 {object} models.Customer
// @Failure 400 {array} models.FieldError
// @Failure 500 {string} string "Internal error"
// @Router /api/customers [post]
func CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateCustomer(req); len(errs) > 0 {
		writeValidationErrors(w, r, errs)
		return
	}

	now := time.Now().UTC()
	created, err := customerRepo.Create(r.Context(), models.Customer{
		Name:      strings.TrimSpace(req.Name),
		Company:   req.Company,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		writeError(w, r, err, "create customer")
		return
	}
	respond(w, r, http.StatusCreated, created)
}

// GetCustomersHandler godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Param name query string false "Filter by name"
// @Param include_deleted query bool false "Include soft deleted customers"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} CustomersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/customers [get]
func GetCustomersHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePaging(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	customers, total, err := customerRepo.List(r.Context(), repo.CustomerFilter{
		Name:           q.Get("name"),
		IncludeDeleted: parseBool(q.Get("include_deleted")),
		Offset:         offset,
		Limit:          limit,
	})
	if err != nil {
		writeError(w, r, err, "fetch customers")
		return
	}
	respond(w, r, http.StatusOK, CustomersSearchResult{Data: customers, Meta: Meta{TotalCount: total}})
}

func liveCustomer(r *http.Request, id int64) (models.Customer, error) {
	c, err := customerRepo.GetByID(r.Context(), id)
	if err != nil {
		return models.Customer{}, err
	}
	if c.Deleted() {
		return models.Customer{}, repo.ErrCustomerNotFound
	}
	return c, nil
}

// GetCustomerByIDHandler godoc
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/customers/{id} [get]
func GetCustomerByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	c, err := liveCustomer(r, id)
	if err != nil {
		writeError(w, r, err, "fetch customer")
		return
	}
	respond(w, r, http.StatusOK, c)
}

// UpdateCustomerHandler godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param customer body CustomerRequest true "Updated customer"
// @Success 200 {object} models.Customer
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/customers/{id} [put]
func UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateCustomer(req); len(errs) > 0 {
		writeValidationErrors(w, r, errs)
		return
	}

	c, err := liveCustomer(r, id)
	if err != nil {
		writeError(w, r, err, "update customer")
		return
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Company = req.Company
	c.Email = req.Email
	c.Phone = req.Phone
	c.Address = req.Address
	c.Notes = req.Notes
	c.UpdatedAt = time.Now().UTC()

	updated, err := customerRepo.Update(r.Context(), c)
	if err != nil {
		writeError(w, r, err, "update customer")
		return
	}
	respond(w, r, http.StatusOK, updated)
}

// DeleteCustomerHandler godoc
// @Summary Soft delete a customer
// @Tags customers
// @Param id path int true "Customer ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/customers/{id} [delete]
func DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	if err := customerRepo.SoftDelete(r.Context(), id, time.Now().UTC()); err != nil {
		writeError(w, r, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreCustomerHandler godoc
// @Summary Restore a soft deleted customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/customers/{id}/restore [post]
func RestoreCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	if err := customerRepo.Restore(r.Context(), id); err != nil {
		writeError(w, r, err, "restore customer")
		return
	}
	c, err := customerRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "restore customer")
		return
	}
	respond(w, r, http.StatusOK, c)
}
