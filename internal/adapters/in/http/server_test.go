package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_MapsApplicationErrorsToStatuses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "missing object is 404",
			err:      errs.NewObjectNotFoundError("order", "a1b2"),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "admission rejection is 409",
			err:      errs.NewAdmissionRejectedError("shop-1", "shop is paused"),
			wantCode: http.StatusConflict,
		},
		{
			name:     "lost race is 409",
			err:      errs.NewStateConflictError("accept order", "Denied"),
			wantCode: http.StatusConflict,
		},
		{
			name:     "wrong pickup token is 409",
			err:      order.ErrPickupTokenMismatch,
			wantCode: http.StatusConflict,
		},
		{
			name:     "partial stock decision is 422",
			err:      errs.NewIncompleteDecisionError([]string{"item-1", "item-2"}),
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "missing value is 400",
			err:      errs.NewValueIsRequiredError("lines"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid value is 400",
			err:      errs.NewValueIsInvalidError("score"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "anything unrecognized is 500",
			err:      assert.AnError,
			wantCode: http.StatusInternalServerError,
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)

			require.NoError(t, errorResponse(ctx, tt.err))
			assert.Equal(t, tt.wantCode, rec.Code)

			var body Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorResponse_HidesInternalErrorDetails(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, errorResponse(ctx, assert.AnError))

	var body Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}
