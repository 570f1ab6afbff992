package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

// CreateMaterialHandler godoc
// @Summary Add a material to the catalog
// @Tags materials
// @Accept json
// @Produce json
// @Param material body MaterialRequest true "Material to add"
// @Success 201 {object} models.Material
// @Failure 400 {array} models.FieldError
// @Failure 409 {string} string "Name already used"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials [post]
func CreateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	var req MaterialRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	family, shape, errs := validateMaterial(req)
	if len(errs) > 0 {
		writeValidationErrors(w, r, errs)
		return
	}

	now := time.Now().UTC()
	created, err := materialRepo.Create(r.Context(), models.Material{
		Name:        strings.TrimSpace(req.Name),
		Family:      family,
		Shape:       shape,
		Grade:       req.Grade,
		Density:     req.Density,
		PricePerLb:  req.PricePerLb,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		writeError(w, r, err, "create material")
		return
	}
	respond(w, r, http.StatusCreated, created)
}

// GetMaterialsHandler godoc
// @Summary List and filter materials
// @Tags materials
// @Produce json
// @Param name query string false "Filter by name"
// @Param family query string false "Filter by family"
// @Param shape query string false "Filter by shape"
// @Param include_deleted query bool false "Include soft deleted materials"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MaterialsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials [get]
func GetMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := materialFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	materials, total, err := materialRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "fetch materials")
		return
	}
	respond(w, r, http.StatusOK, MaterialsSearchResult{Data: materials, Meta: Meta{TotalCount: total}})
}

func materialFilter(r *http.Request) (repo.MaterialFilter, error) {
	offset, limit, err := parsePaging(r)
	if err != nil {
		return repo.MaterialFilter{}, err
	}
	q := r.URL.Query()
	f := repo.MaterialFilter{
		Name:           q.Get("name"),
		IncludeDeleted: parseBool(q.Get("include_deleted")),
		Offset:         offset,
		Limit:          limit,
	}
	if v := q.Get("family"); v != "" {
		if f.Family, err = pricing.ParseFamily(v); err != nil {
			return repo.MaterialFilter{}, err
		}
	}
	if v := q.Get("shape"); v != "" {
		if f.Shape, err = pricing.ParseShape(v); err != nil {
			return repo.MaterialFilter{}, err
		}
	}
	return f, nil
}

func liveMaterial(r *http.Request, id int64) (models.Material, error) {
	m, err := materialRepo.GetByID(r.Context(), id)
	if err != nil {
		return models.Material{}, err
	}
	if m.Deleted() {
		return models.Material{}, repo.ErrMaterialNotFound
	}
	return m, nil
}

// GetMaterialByIDHandler godoc
// @Summary Get material by ID
// @Tags materials
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} models.Material
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials/{id} [get]
func GetMaterialByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}
	m, err := liveMaterial(r, id)
	if err != nil {
		writeError(w, r, err, "fetch material")
		return
	}
	respond(w, r, http.StatusOK, m)
}

// UpdateMaterialHandler godoc
// @Summary Update a material
// @Tags materials
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param material body MaterialRequest true "Updated material"
// @Success 200 {object} models.Material
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Name already used"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials/{id} [put]
func UpdateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}

	var req MaterialRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	family, shape, errs := validateMaterial(req)
	if len(errs) > 0 {
		writeValidationErrors(w, r, errs)
		return
	}

	m, err := liveMaterial(r, id)
	if err != nil {
		writeError(w, r, err, "update material")
		return
	}
	m.Name = strings.TrimSpace(req.Name)
	m.Family = family
	m.Shape = shape
	m.Grade = req.Grade
	m.Density = req.Density
	m.PricePerLb = req.PricePerLb
	m.Description = req.Description
	m.UpdatedAt = time.Now().UTC()

	updated, err := materialRepo.Update(r.Context(), m)
	if err != nil {
		writeError(w, r, err, "update material")
		return
	}
	respond(w, r, http.StatusOK, updated)
}

// DeleteMaterialHandler godoc
// @Summary Soft delete a material
// @Tags materials
// @Param id path int true "Material ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials/{id} [delete]
func DeleteMaterialHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}
	if err := materialRepo.SoftDelete(r.Context(), id, time.Now().UTC()); err != nil {
		writeError(w, r, err, "delete material")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreMaterialHandler godoc
// @Summary Restore a soft deleted material
// @Tags materials
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} models.Material
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials/{id}/restore [post]
func RestoreMaterialHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid material ID", http.StatusBadRequest)
		return
	}
	if err := materialRepo.Restore(r.Context(), id); err != nil {
		writeError(w, r, err, "restore material")
		return
	}
	m, err := materialRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "restore material")
		return
	}
	respond(w, r, http.StatusOK, m)
}
