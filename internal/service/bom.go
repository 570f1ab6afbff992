package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/steel-quoter/internal/metrics"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

// LineInput is a BOM row as submitted by the quote builder. When MaterialID
// is set, empty shape, family, grade, description and a zero price are taken
// from the catalog entry.
type LineInput struct {
	MaterialID  *int64 `json:"material_id,omitempty"`
	Description string `json:"description"`
	Shape       string `json:"shape"`
	Family      string `json:"family"`
	Grade       string `json:"grade"`
	pricing.Dimensions
	Quantity   int     `json:"quantity"`
	PricePerLb float64 `json:"price_per_lb"`
	ExtraCost  float64 `json:"extra_cost"`
}

// BuildLine validates a row and prices it. Validation problems are returned
// as models.ValidationErrors with field names under prefix.
func (s *Service) BuildLine(ctx context.Context, in LineInput, prefix string) (models.BOMLine, error) {
	var errs models.ValidationErrors
	field := func(name, desc string) {
		errs = append(errs, models.FieldError{Field: prefix + name, Description: desc})
	}

	line := models.BOMLine{
		MaterialID:  in.MaterialID,
		Description: in.Description,
		Grade:       in.Grade,
		Dimensions:  in.Dimensions,
		Quantity:    in.Quantity,
		PricePerLb:  in.PricePerLb,
		ExtraCost:   in.ExtraCost,
	}
	shapeRaw, familyRaw := in.Shape, in.Family
	density := 0.0

	if in.MaterialID != nil {
		m, err := s.repos.Materials.GetByID(ctx, *in.MaterialID)
		switch {
		case errors.Is(err, repo.ErrMaterialNotFound) || (err == nil && m.Deleted()):
			field("material_id", "material not found")
		case err != nil:
			return models.BOMLine{}, err
		default:
			if shapeRaw == "" {
				shapeRaw = string(m.Shape)
			}
			if familyRaw == "" {
				familyRaw = string(m.Family)
			}
			if line.Grade == "" {
				line.Grade = m.Grade
			}
			if line.Description == "" {
				line.Description = m.Name
			}
			if line.PricePerLb == 0 {
				line.PricePerLb = m.PricePerLb
			}
			density = m.Density
		}
	}

	shape, err := pricing.ParseShape(shapeRaw)
	if err != nil {
		field("shape", "unknown shape")
	}
	family, err := pricing.ParseFamily(familyRaw)
	if err != nil {
		field("family", "unknown material family")
	}
	if line.Quantity < 1 {
		field("quantity", "quantity must be at least 1")
	}
	if line.PricePerLb < 0 {
		field("price_per_lb", "price_per_lb cannot be negative")
	}
	if line.ExtraCost < 0 {
		field("extra_cost", "extra_cost cannot be negative")
	}
	if shape != "" {
		if err := pricing.ValidateDimensions(shape, line.Dimensions); err != nil {
			field("dimensions", err.Error())
		}
	}
	if len(errs) > 0 {
		return models.BOMLine{}, errs
	}

	line.Shape = shape
	line.Family = family
	res, err := pricing.PriceLine(pricing.LineInput{
		Shape:      shape,
		Family:     family,
		Density:    density,
		Dimensions: line.Dimensions,
		Quantity:   line.Quantity,
		PricePerLb: line.PricePerLb,
		ExtraCost:  line.ExtraCost,
	})
	if err != nil {
		return models.BOMLine{}, models.ValidationErrors{{Field: prefix + "dimensions", Description: err.Error()}}
	}
	line.WeightEach = res.WeightEach
	line.TotalWeight = res.TotalWeight
	line.MaterialCost = res.MaterialCost
	line.ExtraCost = res.ExtraCost
	line.LineTotal = res.LineTotal
	return line, nil
}

// BuildLines validates every row and reports all problems at once.
func (s *Service) BuildLines(ctx context.Context, inputs []LineInput) ([]models.BOMLine, error) {
	var all models.ValidationErrors
	lines := make([]models.BOMLine, 0, len(inputs))
	for i, in := range inputs {
		line, err := s.BuildLine(ctx, in, fmt.Sprintf("bom[%d].", i))
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			all = append(all, verrs...)
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if len(all) > 0 {
		return nil, all
	}
	return lines, nil
}

// PreviewQuote prices lines and rolls them up without storing anything.
func (s *Service) PreviewQuote(ctx context.Context, inputs []LineInput, adj pricing.Adjustments) ([]models.BOMLine, pricing.Totals, error) {
	if err := adj.Validate(); err != nil {
		return nil, pricing.Totals{}, models.ValidationErrors{{Field: "adjustments", Description: err.Error()}}
	}
	lines, err := s.BuildLines(ctx, inputs)
	if err != nil {
		return nil, pricing.Totals{}, err
	}
	return lines, rollup(lines, adj), nil
}

func rollup(lines []models.BOMLine, adj pricing.Adjustments) pricing.Totals {
	results := make([]pricing.LineResult, len(lines))
	for i, l := range lines {
		results[i] = l.Result()
	}
	return pricing.Rollup(results, adj)
}

// editableQuote loads a live draft quote.
func (s *Service) editableQuote(ctx context.Context, quoteID int64) (models.Quote, error) {
	q, err := s.liveQuote(ctx, quoteID)
	if err != nil {
		return models.Quote{}, err
	}
	if q.Status != models.QuoteDraft {
		return models.Quote{}, ErrQuoteLocked
	}
	return q, nil
}

// reprice recomputes and stores the totals of q from its current BOM.
func (s *Service) reprice(ctx context.Context, q models.Quote) (models.Quote, error) {
	lines, err := s.repos.BOM.ListByQuote(ctx, q.ID)
	if err != nil {
		return models.Quote{}, err
	}
	q.Totals = rollup(lines, q.Adjustments)
	q.UpdatedAt = s.clock()
	updated, err := s.repos.Quotes.Update(ctx, q)
	if err != nil {
		return models.Quote{}, err
	}
	metrics.RecordQuotePriced()
	updated.BOM = lines
	return updated, nil
}

func (s *Service) ListBOM(ctx context.Context, quoteID int64) ([]models.BOMLine, error) {
	if _, err := s.liveQuote(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.repos.BOM.ListByQuote(ctx, quoteID)
}

func (s *Service) AddBOMLine(ctx context.Context, quoteID int64, in LineInput) (models.Quote, error) {
	q, err := s.editableQuote(ctx, quoteID)
	if err != nil {
		return models.Quote{}, err
	}
	line, err := s.BuildLine(ctx, in, "")
	if err != nil {
		return models.Quote{}, err
	}
	line.QuoteID = quoteID
	added, err := s.repos.BOM.AddLine(ctx, line)
	if err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, quoteID, models.EventBOM, fmt.Sprintf("added line %d", added.LineNo))
	return s.reprice(ctx, q)
}

func (s *Service) ReplaceBOM(ctx context.Context, quoteID int64, inputs []LineInput) (models.Quote, error) {
	q, err := s.editableQuote(ctx, quoteID)
	if err != nil {
		return models.Quote{}, err
	}
	lines, err := s.BuildLines(ctx, inputs)
	if err != nil {
		return models.Quote{}, err
	}
	if _, err := s.repos.BOM.ReplaceAll(ctx, quoteID, lines); err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, quoteID, models.EventBOM, fmt.Sprintf("replaced bom with %d lines", len(lines)))
	return s.reprice(ctx, q)
}

func (s *Service) UpdateBOMLine(ctx context.Context, quoteID, lineID int64, in LineInput) (models.Quote, error) {
	q, err := s.editableQuote(ctx, quoteID)
	if err != nil {
		return models.Quote{}, err
	}
	existing, err := s.repos.BOM.GetLine(ctx, quoteID, lineID)
	if err != nil {
		return models.Quote{}, err
	}
	line, err := s.BuildLine(ctx, in, "")
	if err != nil {
		return models.Quote{}, err
	}
	line.ID = existing.ID
	line.QuoteID = quoteID
	line.LineNo = existing.LineNo
	if _, err := s.repos.BOM.UpdateLine(ctx, line); err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, quoteID, models.EventBOM, fmt.Sprintf("updated line %d", existing.LineNo))
	return s.reprice(ctx, q)
}

func (s *Service) DeleteBOMLine(ctx context.Context, quoteID, lineID int64) (models.Quote, error) {
	q, err := s.editableQuote(ctx, quoteID)
	if err != nil {
		return models.Quote{}, err
	}
	existing, err := s.repos.BOM.GetLine(ctx, quoteID, lineID)
	if err != nil {
		return models.Quote{}, err
	}
	if err := s.repos.BOM.DeleteLine(ctx, quoteID, lineID); err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, quoteID, models.EventBOM, fmt.Sprintf("removed line %d", existing.LineNo))
	return s.reprice(ctx, q)
}
