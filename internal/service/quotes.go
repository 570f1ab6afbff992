package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/metrics"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/pricing"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

// QuoteInput carries the editable header of a quote. A nil BOM leaves the
// existing lines untouched.
type QuoteInput struct {
	QuoteNumber string
	CustomerID  int64
	Title       string
	Description string
	Notes       string
	ValidUntil  *time.Time
	pricing.Adjustments
	BOM []LineInput
}

func (s *Service) validateQuote(ctx context.Context, in QuoteInput) (models.ValidationErrors, error) {
	var errs models.ValidationErrors
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, models.FieldError{Field: "title", Description: "title is required"})
	}
	if in.CustomerID <= 0 {
		errs = append(errs, models.FieldError{Field: "customer_id", Description: "customer_id is required"})
	} else {
		c, err := s.repos.Customers.GetByID(ctx, in.CustomerID)
		switch {
		case errors.Is(err, repo.ErrCustomerNotFound) || (err == nil && c.Deleted()):
			errs = append(errs, models.FieldError{Field: "customer_id", Description: "customer not found"})
		case err != nil:
			return nil, err
		}
	}
	if err := in.Adjustments.Validate(); err != nil {
		errs = append(errs, models.FieldError{Field: "adjustments", Description: err.Error()})
	}
	return errs, nil
}

// liveQuote loads a quote that has not been soft deleted.
func (s *Service) liveQuote(ctx context.Context, id int64) (models.Quote, error) {
	q, err := s.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	if q.Deleted() {
		return models.Quote{}, repo.ErrQuoteNotFound
	}
	return q, nil
}

func (s *Service) CreateQuote(ctx context.Context, in QuoteInput) (models.Quote, error) {
	verrs, err := s.validateQuote(ctx, in)
	if err != nil {
		return models.Quote{}, err
	}
	var lines []models.BOMLine
	if in.BOM != nil {
		lines, err = s.BuildLines(ctx, in.BOM)
		var lineErrs models.ValidationErrors
		if errors.As(err, &lineErrs) {
			verrs = append(verrs, lineErrs...)
		} else if err != nil {
			return models.Quote{}, err
		}
	}
	if len(verrs) > 0 {
		return models.Quote{}, verrs
	}

	now := s.clock()
	q := models.Quote{
		QuoteNumber: strings.TrimSpace(in.QuoteNumber),
		CustomerID:  in.CustomerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      models.QuoteDraft,
		ValidUntil:  in.ValidUntil,
		Adjustments: in.Adjustments,
		Totals:      rollup(lines, in.Adjustments),
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if q.ValidUntil == nil {
		until := startOfDay(now).AddDate(0, 0, s.validDays)
		q.ValidUntil = &until
	}

	created, err := s.createWithNumber(ctx, q)
	if err != nil {
		return models.Quote{}, err
	}
	if len(lines) > 0 {
		if created.BOM, err = s.repos.BOM.ReplaceAll(ctx, created.ID, lines); err != nil {
			if delErr := s.repos.Quotes.SoftDelete(ctx, created.ID, s.clock()); delErr != nil {
				s.log.WithError(delErr).WithField("quote", created.QuoteNumber).Error("failed to discard quote without lines")
			}
			return models.Quote{}, fmt.Errorf("failed to store bom lines: %w", err)
		}
	}
	s.logEvent(ctx, created.ID, models.EventCreated, created.QuoteNumber)
	s.log.WithField("quote", created.QuoteNumber).Info("quote created")
	return s.withCustomer(ctx, created), nil
}

// createWithNumber stores q, generating a number when none was given and
// retrying when a concurrent writer took the same one.
func (s *Service) createWithNumber(ctx context.Context, q models.Quote) (models.Quote, error) {
	if q.QuoteNumber != "" {
		return s.repos.Quotes.Create(ctx, q)
	}
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.nextNumber(ctx, "Q", s.repos.Quotes.LastNumber)
		if err != nil {
			return models.Quote{}, err
		}
		q.QuoteNumber = number
		created, err := s.repos.Quotes.Create(ctx, q)
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			continue
		}
		return created, err
	}
	return models.Quote{}, fmt.Errorf("could not allocate a quote number after %d attempts", numberAttempts)
}

func (s *Service) withCustomer(ctx context.Context, q models.Quote) models.Quote {
	q.CustomerName = s.customerNames(ctx, q.CustomerID)[q.CustomerID]
	return q
}

// GetQuote returns a live quote with its BOM and customer name.
func (s *Service) GetQuote(ctx context.Context, id int64) (models.Quote, error) {
	q, err := s.liveQuote(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	if q.BOM, err = s.repos.BOM.ListByQuote(ctx, id); err != nil {
		return models.Quote{}, err
	}
	return s.withCustomer(ctx, q), nil
}

func (s *Service) ListQuotes(ctx context.Context, f repo.QuoteFilter) ([]models.Quote, int, error) {
	quotes, total, err := s.repos.Quotes.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, len(quotes))
	for i, q := range quotes {
		ids[i] = q.CustomerID
	}
	names := s.customerNames(ctx, ids...)
	for i := range quotes {
		quotes[i].CustomerName = names[quotes[i].CustomerID]
	}
	return quotes, total, nil
}

// UpdateQuote edits the header of a draft quote and reprices it.
func (s *Service) UpdateQuote(ctx context.Context, id int64, in QuoteInput) (models.Quote, error) {
	q, err := s.editableQuote(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	verrs, err := s.validateQuote(ctx, in)
	if err != nil {
		return models.Quote{}, err
	}
	var lines []models.BOMLine
	if in.BOM != nil {
		lines, err = s.BuildLines(ctx, in.BOM)
		var lineErrs models.ValidationErrors
		if errors.As(err, &lineErrs) {
			verrs = append(verrs, lineErrs...)
		} else if err != nil {
			return models.Quote{}, err
		}
	}
	if len(verrs) > 0 {
		return models.Quote{}, verrs
	}

	if n := strings.TrimSpace(in.QuoteNumber); n != "" {
		q.QuoteNumber = n
	}
	q.CustomerID = in.CustomerID
	q.Title = strings.TrimSpace(in.Title)
	q.Description = in.Description
	q.Notes = in.Notes
	if in.ValidUntil != nil {
		q.ValidUntil = in.ValidUntil
	}
	q.Adjustments = in.Adjustments

	if in.BOM != nil {
		if _, err := s.repos.BOM.ReplaceAll(ctx, id, lines); err != nil {
			return models.Quote{}, err
		}
	}
	updated, err := s.reprice(ctx, q)
	if err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, id, models.EventUpdated, "")
	return s.withCustomer(ctx, updated), nil
}

func (s *Service) DeleteQuote(ctx context.Context, id int64) error {
	if err := s.repos.Quotes.SoftDelete(ctx, id, s.clock()); err != nil {
		return err
	}
	s.logEvent(ctx, id, models.EventDeleted, "")
	return nil
}

func (s *Service) RestoreQuote(ctx context.Context, id int64) (models.Quote, error) {
	if err := s.repos.Quotes.Restore(ctx, id); err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, id, models.EventRestored, "")
	return s.GetQuote(ctx, id)
}

// ChangeStatus moves a quote along its lifecycle. Sending requires at least
// one BOM line; reopening an expired quote extends its validity.
func (s *Service) ChangeStatus(ctx context.Context, id int64, next models.QuoteStatus, note string) (models.Quote, error) {
	if !next.Valid() {
		return models.Quote{}, models.ValidationErrors{{Field: "status", Description: "unknown status"}}
	}
	q, err := s.liveQuote(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}
	if !q.Status.CanTransitionTo(next) {
		return models.Quote{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, next)
	}

	if next == models.QuoteSent {
		lines, err := s.repos.BOM.ListByQuote(ctx, id)
		if err != nil {
			return models.Quote{}, err
		}
		if len(lines) == 0 {
			return models.Quote{}, models.ValidationErrors{{Field: "bom", Description: "quote has no lines"}}
		}
	}
	today := startOfDay(s.clock())
	if next == models.QuoteDraft && q.ValidUntil != nil && q.ValidUntil.Before(today) {
		until := today.AddDate(0, 0, s.validDays)
		q.ValidUntil = &until
	}

	prev := q.Status
	q.Status = next
	q.UpdatedAt = s.clock()
	updated, err := s.repos.Quotes.Update(ctx, q)
	if err != nil {
		return models.Quote{}, err
	}

	detail := fmt.Sprintf("%s -> %s", prev, next)
	if note != "" {
		detail += ": " + note
	}
	s.logEvent(ctx, id, models.EventStatus, detail)
	metrics.RecordQuoteTransition(string(next))
	s.log.WithFields(logrus.Fields{"quote": q.QuoteNumber, "from": prev, "to": next}).Info("quote status changed")
	return s.GetQuote(ctx, updated.ID)
}

// DuplicateQuote copies a quote and its BOM into a new draft.
func (s *Service) DuplicateQuote(ctx context.Context, id int64) (models.Quote, error) {
	src, err := s.GetQuote(ctx, id)
	if err != nil {
		return models.Quote{}, err
	}

	now := s.clock()
	until := startOfDay(now).AddDate(0, 0, s.validDays)
	q := models.Quote{
		CustomerID:  src.CustomerID,
		Title:       src.Title,
		Description: src.Description,
		Status:      models.QuoteDraft,
		ValidUntil:  &until,
		Adjustments: src.Adjustments,
		Totals:      src.Totals,
		Notes:       src.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.createWithNumber(ctx, q)
	if err != nil {
		return models.Quote{}, err
	}

	lines := make([]models.BOMLine, len(src.BOM))
	for i, l := range src.BOM {
		l.ID = 0
		lines[i] = l
	}
	if _, err := s.repos.BOM.ReplaceAll(ctx, created.ID, lines); err != nil {
		return models.Quote{}, err
	}
	s.logEvent(ctx, created.ID, models.EventDuplicated, "copied from "+src.QuoteNumber)
	s.logEvent(ctx, src.ID, models.EventDuplicated, "copied to "+created.QuoteNumber)
	return s.GetQuote(ctx, created.ID)
}

func (s *Service) History(ctx context.Context, id int64, f repo.EventFilter) ([]models.QuoteEvent, int, error) {
	if _, err := s.repos.Quotes.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.repos.Events.GetByQuoteID(ctx, id, f)
}

// ExpireQuotes moves sent quotes whose validity ended before asOf's day to
// expired and returns how many were changed.
func (s *Service) ExpireQuotes(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.repos.Quotes.ListExpired(ctx, startOfDay(asOf))
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, q := range due {
		q.Status = models.QuoteExpired
		q.UpdatedAt = s.clock()
		if _, err := s.repos.Quotes.Update(ctx, q); err != nil {
			s.log.WithError(err).WithField("quote", q.QuoteNumber).Error("failed to expire quote")
			continue
		}
		s.logEvent(ctx, q.ID, models.EventStatus, fmt.Sprintf("%s -> %s: validity ended", models.QuoteSent, models.QuoteExpired))
		metrics.RecordQuoteTransition(string(models.QuoteExpired))
		expired++
	}
	return expired, nil
}
