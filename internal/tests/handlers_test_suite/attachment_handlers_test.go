package handlers_test_suite

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

func TestAttachmentHandlers(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")
	q := createQuote(t, r, handler.QuoteRequest{CustomerID: c.ID, Title: "Stair stringers"})
	base := fmt.Sprintf("/api/quotes/%d/attachments", q.ID)

	w := doJSON(r, http.MethodPost, base, handler.AttachmentRequest{
		FileName:  "drawing-rev-a.pdf",
		SizeBytes: 20480,
		URL:       "https://files.example.com/drawing-rev-a.pdf",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decode[models.Attachment](t, w)
	assert.Equal(t, q.ID, a.QuoteID)
	assert.Equal(t, "application/octet-stream", a.ContentType)
	_, err := uuid.Parse(a.StorageKey)
	assert.NoError(t, err, "storage key is a uuid")

	list := decode[[]models.Attachment](t, doJSON(r, http.MethodGet, base, nil))
	require.Len(t, list, 1)

	require.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, fmt.Sprintf("/api/attachments/%d", a.ID), nil).Code)
	assert.Empty(t, decode[[]models.Attachment](t, doJSON(r, http.MethodGet, base, nil)))
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, fmt.Sprintf("/api/attachments/%d", a.ID), nil).Code)
}

func TestCreateAttachmentHandler_Invalid(t *testing.T) {
	r := newTestRouter(t)
	c := createCustomer(t, r, "Acme Fabrication")
	q := createQuote(t, r, handler.QuoteRequest{CustomerID: c.ID, Title: "Stair stringers"})

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/quotes/%d/attachments", q.ID), handler.AttachmentRequest{URL: "drawing.pdf", SizeBytes: -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode[[]models.FieldError](t, w), 3)

	w = doJSON(r, http.MethodPost, "/api/quotes/999/attachments", handler.AttachmentRequest{FileName: "a.pdf", URL: "https://files.example.com/a.pdf"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
