package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/salesdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetOrgID(t *testing.T) {
	t.Run("reads the organization header", func(t *testing.T) {
		orgID := uuid.New()
		c, _ := testContext(t, map[string]string{"X-Tenant-ID": orgID.String()})

		got, err := getOrgID(c)
		require.NoError(t, err)
		assert.Equal(t, orgID, got)
	})

	t.Run("missing header falls back to the development organization", func(t *testing.T) {
		c, _ := testContext(t, nil)

		got, err := getOrgID(c)
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-000000000001"), got)
	})

	t.Run("missing header is rejected when the fallback is disabled", func(t *testing.T) {
		RequireOrgHeader(true)
		defer RequireOrgHeader(false)
		c, _ := testContext(t, nil)

		_, err := getOrgID(c)
		require.Error(t, err)
	})

	t.Run("header still wins when the fallback is disabled", func(t *testing.T) {
		RequireOrgHeader(true)
		defer RequireOrgHeader(false)
		orgID := uuid.New()
		c, _ := testContext(t, map[string]string{"X-Tenant-ID": orgID.String()})

		got, err := getOrgID(c)
		require.NoError(t, err)
		assert.Equal(t, orgID, got)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		c, _ := testContext(t, map[string]string{"X-Tenant-ID": "not-a-uuid"})

		_, err := getOrgID(c)
		require.Error(t, err)
	})
}

func TestGetActorID(t *testing.T) {
	t.Run("reads the user header", func(t *testing.T) {
		actorID := uuid.New()
		c, _ := testContext(t, map[string]string{"X-User-ID": actorID.String()})

		got, err := getActorID(c)
		require.NoError(t, err)
		assert.Equal(t, actorID, got)
	})

	t.Run("missing header is an error", func(t *testing.T) {
		c, _ := testContext(t, nil)

		_, err := getActorID(c)
		require.Error(t, err)
	})
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("not found maps to 404", func(t *testing.T) {
		c, w := testContext(t, nil)
		h.HandleError(c, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("already exists maps to 409", func(t *testing.T) {
		c, w := testContext(t, nil)
		h.HandleError(c, shared.ErrAlreadyExists)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid state maps to 422", func(t *testing.T) {
		c, w := testContext(t, nil)
		h.HandleError(c, shared.ErrInvalidState)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("allocation failure maps to 503", func(t *testing.T) {
		c, w := testContext(t, nil)
		h.HandleError(c, shared.ErrAllocationFailed)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeAllocationFailed, resp.Error.Code)
	})

	t.Run("domain validation codes map to 400", func(t *testing.T) {
		c, w := testContext(t, nil)
		h.HandleError(c, shared.NewDomainError("INVALID_PUBLIC_ID", "Public identifier cannot be empty"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown errors stay opaque", func(t *testing.T) {
		c, w := testContext(t, nil)
		h.HandleError(c, errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})

	t.Run("request id is echoed back", func(t *testing.T) {
		c, w := testContext(t, nil)
		c.Set("request_id", "req-123")
		h.HandleError(c, shared.ErrNotFound)

		resp := decodeResponse(t, w)
		assert.Equal(t, "req-123", resp.Error.RequestID)
	})
}
