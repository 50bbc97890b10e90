package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type depositRequest struct {
	UserID  int64  `json:"user_id" validate:"required"`
	Amount  int64  `json:"amount" validate:"ne=0"`
	Comment string `json:"comment"`
}

func TestDecode(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		wantErr   error
		wantField string
	}

	tests := []testCase{
		{name: "Valid", body: `{"user_id": 1, "amount": 100}`},
		{name: "UnknownField", body: `{"user_id": 1, "amount": 100, "Nonsense": 1}`, wantErr: shoperr.ErrUnknownField, wantField: "Nonsense"},
		{name: "WrongType", body: `{"user_id": "one", "amount": 100}`, wantErr: shoperr.ErrWrongType, wantField: "user_id"},
		{name: "Missing", body: `{"amount": 100}`, wantErr: shoperr.ErrDataMissing, wantField: "user_id"},
		{name: "ZeroAmount", body: `{"user_id": 1, "amount": 0}`, wantErr: shoperr.ErrInvalidAmount, wantField: "amount"},
		{name: "Empty", body: ``, wantErr: shoperr.ErrDataMissing},
		{name: "Garbage", body: `{"user_id":`, wantErr: shoperr.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var req depositRequest

			err := respond.Decode(r, &req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, int64(1), req.UserID)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)

			if tt.wantField != "" {
				assert.Contains(t, err.Error(), tt.wantField)
			}
		})
	}
}

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantResult string
	}

	tests := []testCase{
		{name: "NotFound", err: shoperr.ErrEntryNotFound, wantStatus: http.StatusNotFound, wantResult: "EntryNotFound"},
		{name: "State", err: shoperr.ErrStateUnchanged, wantStatus: http.StatusConflict, wantResult: "StateUnchanged"},
		{name: "Domain", err: shoperr.ErrInvalidAmount, wantStatus: http.StatusUnprocessableEntity, wantResult: "InvalidAmount"},
		{name: "Auth", err: shoperr.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantResult: "TokenExpired"},
		{name: "Maintenance", err: shoperr.ErrMaintenanceMode, wantStatus: http.StatusServiceUnavailable, wantResult: "MaintenanceMode"},
		{name: "Unclassified", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantResult: "InternalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Result  string `json:"result"`
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantResult, body.Result)
			assert.NotEmpty(t, body.Message)
		})
	}
}
