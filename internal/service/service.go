// Package service holds the quoting workflow: quote lifecycle, BOM pricing,
// conversion to sales orders and quote expiry.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/repo"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrQuoteLocked       = errors.New("quote can only be edited while in draft")
	ErrQuoteNotAccepted  = errors.New("only accepted quotes can be converted")
	ErrAlreadyConverted  = errors.New("quote already converted to a sales order")
)

// ConvertedError reports the order a quote was already converted into.
type ConvertedError struct {
	OrderID     int64
	OrderNumber string
}

func (e *ConvertedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyConverted, e.OrderNumber)
}

func (e *ConvertedError) Unwrap() error {
	return ErrAlreadyConverted
}

type Repos struct {
	Customers   repo.CustomerRepository
	Materials   repo.MaterialRepository
	Quotes      repo.QuoteRepository
	BOM         repo.BOMRepository
	Events      repo.QuoteEventRepository
	SalesOrders repo.SalesOrderRepository
	APIKeys     repo.APIKeyRepository
}

type Service struct {
	repos     Repos
	log       logrus.FieldLogger
	now       func() time.Time
	validDays int
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultValidDays sets how long new quotes stay valid.
func WithDefaultValidDays(days int) Option {
	return func(s *Service) { s.validDays = days }
}

func New(repos Repos, log logrus.FieldLogger, opts ...Option) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{
		repos:     repos,
		log:       log,
		now:       time.Now,
		validDays: 30,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const numberAttempts = 5

// nextNumber returns the number following the last one issued this year, for
// example Q-2026-0007 after Q-2026-0006.
func (s *Service) nextNumber(ctx context.Context, kind string, last func(context.Context, string) (string, error)) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", kind, s.clock().Year())
	prev, err := last(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read last %s number: %w", kind, err)
	}
	seq := 0
	if prev != "" {
		seq, err = strconv.Atoi(strings.TrimPrefix(prev, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed %s number %q", kind, prev)
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// logEvent records a history entry; failures are logged and not returned
// since the primary write already succeeded.
func (s *Service) logEvent(ctx context.Context, quoteID int64, kind, detail string) {
	if err := s.repos.Events.Log(ctx, quoteID, kind, detail); err != nil {
		s.log.WithError(err).WithField("quote_id", quoteID).Warn("failed to record quote event")
	}
}

// customerNames resolves names for a set of customers, tolerating missing ones.
func (s *Service) customerNames(ctx context.Context, ids ...int64) map[int64]string {
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if _, seen := names[id]; seen {
			continue
		}
		c, err := s.repos.Customers.GetByID(ctx, id)
		if err != nil {
			names[id] = ""
			continue
		}
		names[id] = c.Name
	}
	return names
}
