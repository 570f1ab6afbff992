package handlers

import (
	"net/url"
	"strings"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
)

func validateCustomer(c CustomerRequest) []models.FieldError {
	errs := []models.FieldError{}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, models.FieldError{Field: "name", Description: "name is required"})
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		errs = append(errs, models.FieldError{Field: "email", Description: "email is not valid"})
	}
	return errs
}

// validateMaterial also normalizes family and shape names.
func validateMaterial(m MaterialRequest) (pricing.Family, pricing.Shape, []models.FieldError) {
	errs := []models.FieldError{}
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, models.FieldError{Field: "name", Description: "name is required"})
	}
	family, err := pricing.ParseFamily(m.Family)
	if err != nil {
		errs = append(errs, models.FieldError{Field: "family", Description: "unknown material family"})
	}
	shape, err := pricing.ParseShape(m.Shape)
	if err != nil {
		errs = append(errs, models.FieldError{Field: "shape", Description: "unknown shape"})
	}
	if m.Density < 0 {
		errs = append(errs, models.FieldError{Field: "density", Description: "density cannot be negative"})
	}
	if m.PricePerLb < 0 {
		errs = append(errs, models.FieldError{Field: "price_per_lb", Description: "price_per_lb cannot be negative"})
	}
	return family, shape, errs
}

func validateAttachment(a AttachmentRequest) []models.FieldError {
	errs := []models.FieldError{}
	if strings.TrimSpace(a.FileName) == "" {
		errs = append(errs, models.FieldError{Field: "file_name", Description: "file_name is required"})
	}
	if a.SizeBytes < 0 {
		errs = append(errs, models.FieldError{Field: "size_bytes", Description: "size_bytes cannot be negative"})
	}
	if u, err := url.Parse(a.URL); strings.TrimSpace(a.URL) == "" || err != nil || u.Scheme == "" {
		errs = append(errs, models.FieldError{Field: "url", Description: "url must be an absolute URL"})
	}
	return errs
}
