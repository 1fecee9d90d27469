package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, err)
	return w
}

func TestRespond_SentinelMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrEmptyCart, http.StatusBadRequest},
		{ErrInvalidSignature, http.StatusBadRequest},
		{ErrAmountMismatch, http.StatusConflict},
		{ErrPaymentGateway, http.StatusBadGateway},
		{ErrNotFound, http.StatusNotFound},
		{ErrStorage, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := respondWith(tt.err)
		assert.Equal(t, tt.wantStatus, w.Code, "%v", tt.err)
	}
}

func TestRespond_WrappedSentinelsKeepTheirStatus(t *testing.T) {
	w := respondWith(Wrap(ErrPaymentGateway, fmt.Errorf("dial tcp: connection refused")))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = respondWith(Storage(fmt.Errorf("connection pool exhausted")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRespond_NeverLeaksInternals(t *testing.T) {
	w := respondWith(Storage(fmt.Errorf("pq: password authentication failed for user postgres")))
	assert.NotContains(t, w.Body.String(), "postgres")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestWrap(t *testing.T) {
	require.Same(t, ErrEmptyCart, Wrap(ErrEmptyCart, nil))

	wrapped := Wrap(ErrStorage, errors.New("disk full"))
	assert.ErrorIs(t, wrapped, ErrStorage)
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestErrorType(t *testing.T) {
	err := New(http.StatusConflict, "order already placed", errors.New("duplicate key"))
	w := respondWith(err)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "order already placed")
	assert.NotContains(t, w.Body.String(), "duplicate key")
}
