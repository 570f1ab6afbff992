package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func reqLog(r *http.Request) logrus.FieldLogger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return logger.WithField("request_id", id)
	}
	return logger
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		reqLog(r).WithError(err).Error("failed to write response")
	}
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, errs []models.FieldError) {
	respond(w, r, http.StatusBadRequest, errs)
}

var notFoundErrors = []error{
	repo.ErrCustomerNotFound,
	repo.ErrMaterialNotFound,
	repo.ErrQuoteNotFound,
	repo.ErrBOMLineNotFound,
	repo.ErrAttachmentNotFound,
	repo.ErrSalesOrderNotFound,
	repo.ErrAPIKeyNotFound,
}

var conflictErrors = []error{
	repo.ErrDuplicatedValueUnique,
	service.ErrInvalidTransition,
	service.ErrQuoteLocked,
	service.ErrQuoteNotAccepted,
	service.ErrAlreadyConverted,
}

// writeError maps domain errors to status codes. Anything unrecognized is a
// 500 carrying "could not <action>" and the error text.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		writeValidationErrors(w, r, verrs)
		return
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			http.Error(w, target.Error(), http.StatusNotFound)
			return
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}

	reqLog(r).WithError(err).Errorf("could not %s", action)
	http.Error(w, fmt.Sprintf("could not %s: %v", action, err), http.StatusInternalServerError)
}

// pathID parses a positive int64 path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func parseIntPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseInt64Ptr(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parsePaging reads offset and limit the way every list endpoint accepts them.
func parsePaging(r *http.Request) (offset, limit *int, err error) {
	q := r.URL.Query()
	if limit, err = parseIntPtr(q.Get("limit")); err != nil {
		return nil, nil, errors.New("invalid limit format")
	}
	if limit != nil && *limit <= 0 {
		return nil, nil, errors.New("limit must be greater than zero")
	}
	if offset, err = parseIntPtr(q.Get("offset")); err != nil {
		return nil, nil, errors.New("invalid offset format")
	}
	if offset != nil && *offset < 0 {
		return nil, nil, errors.New("offset must be zero or positive")
	}
	return offset, limit, nil
}

// parseTimeParam reads an RFC3339 query value. Query decoding turns "+" into
// a space, so an offset such as "+02:00" arrives as " 02:00".
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date format", name)
	}
	return &ts, nil
}

func parseBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}

var (
	errInvalidCustomerFilter = errors.New("invalid customer_id")
	errInvalidStatusFilter   = errors.New("invalid status")
)
