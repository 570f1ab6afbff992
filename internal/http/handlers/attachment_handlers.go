package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

// GetAttachmentsHandler godoc
// @Summary List attachments of a quote
// @Tags attachments
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {array} models.Attachment
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Quote not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/attachments [get]
func GetAttachmentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	if _, err := quoteService.GetQuote(r.Context(), id); err != nil {
		writeError(w, r, err, "fetch attachments")
		return
	}

	attachments, err := attachmentRepo.ListByQuote(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "fetch attachments")
		return
	}
	respond(w, r, http.StatusOK, attachments)
}

// CreateAttachmentHandler godoc
// @Summary Record an attachment for a quote
// @Description Stores metadata for a file that already lives at url.
// @Tags attachments
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param attachment body AttachmentRequest true "Attachment metadata"
// @Success 201 {object} models.Attachment
// @Failure 400 {array} models.FieldError
// @Failure 404 {string} string "Quote not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/quotes/{id}/attachments [post]
func CreateAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid quote ID", http.StatusBadRequest)
		return
	}
	var req AttachmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateAttachment(req); len(errs) > 0 {
		writeValidationErrors(w, r, errs)
		return
	}
	if _, err := quoteService.GetQuote(r.Context(), id); err != nil {
		writeError(w, r, err, "create attachment")
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	created, err := attachmentRepo.Create(r.Context(), models.Attachment{
		QuoteID:     id,
		FileName:    strings.TrimSpace(req.FileName),
		ContentType: contentType,
		SizeBytes:   req.SizeBytes,
		URL:         req.URL,
		StorageKey:  uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		writeError(w, r, err, "create attachment")
		return
	}
	respond(w, r, http.StatusCreated, created)
}

// DeleteAttachmentHandler godoc
// @Summary Delete an attachment record
// @Tags attachments
// @Param id path int true "Attachment ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/attachments/{id} [delete]
func DeleteAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid attachment ID", http.StatusBadRequest)
		return
	}
	if err := attachmentRepo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "delete attachment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
