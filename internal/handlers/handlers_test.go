package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"hallbook/internal/apperrors"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("bad date: %w", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("hall 5: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("slot taken: %w", apperrors.ErrConflict), http.StatusConflict},
		{fmt.Errorf("no grant: %w", apperrors.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("bad token: %w", apperrors.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("driver: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		assert.Equal(t, tc.want, w.Code, "error %v", tc.err)
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, fmt.Errorf("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}
