package handlers_test_suite

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	"github.com/rogerio-castellano/steel-quoter/internal/models"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

var keyFormat = regexp.MustCompile(`^qk_[0-9a-f]{8}_[0-9a-f]{32}$`)

func TestAPIKeyHandlers(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/api-keys", handler.APIKeyRequest{Name: "ERP sync"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	issued := decode[service.IssuedKey](t, w)
	assert.Regexp(t, keyFormat, issued.Key)
	assert.True(t, issued.Enabled)

	keys := decode[[]models.APIKey](t, doJSON(r, http.MethodGet, "/api/admin/api-keys", nil))
	require.Len(t, keys, 1)
	assert.Equal(t, issued.Prefix, keys[0].Prefix)

	w = doJSON(r, http.MethodPost, "/api/admin/api-keys/verify", handler.VerifyAPIKeyRequest{Key: issued.Key})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[handler.VerifyAPIKeyResult](t, w).Valid)

	forged := fmt.Sprintf("qk_%s_%s", issued.Prefix, strings.Repeat("0", 32))
	w = doJSON(r, http.MethodPost, "/api/admin/api-keys/verify", handler.VerifyAPIKeyRequest{Key: forged})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode[handler.VerifyAPIKeyResult](t, w).Valid)

	disabled := false
	path := fmt.Sprintf("/api/admin/api-keys/%d", issued.ID)
	w = doJSON(r, http.MethodPut, path, handler.APIKeyUpdateRequest{Enabled: &disabled})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.APIKey](t, w).Enabled)

	w = doJSON(r, http.MethodPost, "/api/admin/api-keys/verify", handler.VerifyAPIKeyRequest{Key: issued.Key})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "disabled keys do not verify")

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, path, map[string]string{}).Code)
	require.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, path, nil).Code)
}

func TestCreateAPIKeyHandler_Invalid(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/api-keys", handler.APIKeyRequest{Name: " "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode[[]models.FieldError](t, w)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)

	w = doJSON(r, http.MethodPost, "/api/admin/api-keys", map[string]string{"name": "x", "expires_at": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
