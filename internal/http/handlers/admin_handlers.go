package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// GetAPIKeysHandler godoc
// @Summary List api keys
// @Tags admin
// @Produce json
// @Success 200 {array} models.APIKey
// @Failure 500 {string} string "Internal error"
// @Router /api/admin/api-keys [get]
func GetAPIKeysHandler(w http.ResponseWriter, r *http.Request) {
	keys, err := quoteService.ListAPIKeys(r.Context())
	if err != nil {
		writeError(w, r, err, "fetch api keys")
		return
	}
	respond(w, r, http.StatusOK, keys)
}

// CreateAPIKeyHandler godoc
// @Summary Issue a new api key
// @Description The plaintext key is only returned in this response.
// @Tags admin
// @Accept json
// @Produce json
// @Param key body APIKeyRequest true "Key name and optional expiry"
// @Success 201 {object} service.IssuedKey
// @Failure 400 {array} models.FieldError
// @Failure 500 {string} string "Internal error"
// @Router /api/admin/api-keys [post]
func CreateAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req APIKeyRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	issued, err := quoteService.CreateAPIKey(r.Context(), req.Name, req.ExpiresAt.ptr())
	if err != nil {
		writeError(w, r, err, "create api key")
		return
	}
	respond(w, r, http.StatusCreated, issued)
}

// UpdateAPIKeyHandler godoc
// @Summary Enable or disable an api key
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "API key ID"
// @Param key body APIKeyUpdateRequest true "New state"
// @Success 200 {object} models.APIKey
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/admin/api-keys/{id} [put]
func UpdateAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid api key ID", http.StatusBadRequest)
		return
	}
	var req APIKeyUpdateRequest
	if err := readJSON(w, r, &req); err != nil || req.Enabled == nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	k, err := quoteService.SetAPIKeyEnabled(r.Context(), id, *req.Enabled)
	if err != nil {
		writeError(w, r, err, "update api key")
		return
	}
	respond(w, r, http.StatusOK, k)
}

// DeleteAPIKeyHandler godoc
// @Summary Delete an api key
// @Tags admin
// @Param id path int true "API key ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/admin/api-keys/{id} [delete]
func DeleteAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid api key ID", http.StatusBadRequest)
		return
	}
	if err := quoteService.DeleteAPIKey(r.Context(), id); err != nil {
		writeError(w, r, err, "delete api key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyAPIKeyHandler godoc
// @Summary Check whether an api key is valid
// @Tags admin
// @Accept json
// @Produce json
// @Param key body VerifyAPIKeyRequest true "Plaintext key"
// @Success 200 {object} VerifyAPIKeyResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {object} VerifyAPIKeyResult
// @Failure 500 {string} string "Internal error"
// @Router /api/admin/api-keys/verify [post]
func VerifyAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyAPIKeyRequest
	if err := readJSON(w, r, &req); err != nil || req.Key == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	k, err := quoteService.VerifyAPIKey(r.Context(), req.Key)
	if errors.Is(err, service.ErrInvalidAPIKey) {
		respond(w, r, http.StatusUnauthorized, VerifyAPIKeyResult{Valid: false})
		return
	}
	if err != nil {
		writeError(w, r, err, "verify api key")
		return
	}
	respond(w, r, http.StatusOK, VerifyAPIKeyResult{Valid: true, Key: &k})
}
