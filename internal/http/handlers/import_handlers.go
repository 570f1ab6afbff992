package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

type csvRow struct {
	Name        string
	Family      string
	Shape       string
	Grade       string
	Density     string
	PricePerLb  string
	Description string
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "family", "shape"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:        field(record, "name"),
			Family:      field(record, "family"),
			Shape:       field(record, "shape"),
			Grade:       field(record, "grade"),
			Density:     field(record, "density"),
			PricePerLb:  field(record, "price_per_lb"),
			Description: field(record, "description"),
		})
	}
	return rows, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// toMaterial validates a CSV row and converts it into a catalog entry.
func (row csvRow) toMaterial() (models.Material, error) {
	if row.Name == "" {
		return models.Material{}, errors.New("missing name")
	}
	family, err := pricing.ParseFamily(row.Family)
	if err != nil {
		return models.Material{}, errors.New("unknown family")
	}
	shape, err := pricing.ParseShape(row.Shape)
	if err != nil {
		return models.Material{}, errors.New("unknown shape")
	}
	density, err := parseOptionalFloat(row.Density)
	if err != nil || density < 0 {
		return models.Material{}, errors.New("invalid density")
	}
	price, err := parseOptionalFloat(row.PricePerLb)
	if err != nil || price < 0 {
		return models.Material{}, errors.New("invalid price_per_lb")
	}
	return models.Material{
		Name:        row.Name,
		Family:      family,
		Shape:       shape,
		Grade:       row.Grade,
		Density:     density,
		PricePerLb:  price,
		Description: row.Description,
	}, nil
}

// ImportMaterialsHandler godoc
// @Summary Import materials via CSV
// @Description Columns: name, family, shape, grade, density, price_per_lb, description
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportMaterialsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /api/materials/import [post]
func ImportMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var imported int
	errorsList := []models.FieldError{}
	rowError := func(rowNum int, format string, args ...any) {
		errorsList = append(errorsList, models.FieldError{
			Field:       fmt.Sprintf("row %d", rowNum),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		m, err := rec.toMaterial()
		if err != nil {
			rowError(rowNum, "%v", err)
			continue
		}
		now := time.Now().UTC()

		existing, err := materialRepo.GetByName(ctx, m.Name)
		if err == nil && existing.ID != 0 {
			if mode == "skip" {
				rowError(rowNum, "material '%s' already exists", m.Name)
				continue
			}
			existing.Family = m.Family
			existing.Shape = m.Shape
			existing.Grade = m.Grade
			existing.Density = m.Density
			existing.PricePerLb = m.PricePerLb
			existing.Description = m.Description
			existing.UpdatedAt = now
			if _, err := materialRepo.Update(ctx, existing); err != nil {
				rowError(rowNum, "failed to update '%s'", m.Name)
				continue
			}
			imported++
			continue
		}

		m.CreatedAt = now
		m.UpdatedAt = now
		if _, err := materialRepo.Create(ctx, m); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}
		imported++
	}

	reqLog(r).WithField("imported", imported).WithField("rejected", len(errorsList)).Info("materials imported")
	respond(w, r, http.StatusOK, ImportMaterialsResult{
		ImportedMaterialsCount: imported,
		Errors:                 errorsList,
	})
}
