package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "divstreak/internal/errors"
	"divstreak/internal/shared/testutil"
)

type rankingQuery struct {
	MinStreak int    `json:"min_streak" validate:"gte=0"`
	Limit     int    `json:"limit" validate:"gte=0,lte=10000"`
	Market    string `json:"market" validate:"max=64"`
	Format    string `query:"format" validate:"omitempty,oneof=json csv"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		input      rankingQuery
		wantFields []string
		wantMsg    string
	}{
		{
			name:  "valid",
			input: rankingQuery{MinStreak: 3, Limit: 10},
		},
		{
			name:       "negative min streak",
			input:      rankingQuery{MinStreak: -1},
			wantFields: []string{"min_streak"},
			wantMsg:    "min_streak must be greater than or equal to 0",
		},
		{
			name:       "limit too large and bad format",
			input:      rankingQuery{Limit: 10001, Format: "xml"},
			wantFields: []string{"limit", "format"},
			wantMsg:    "limit must be less than or equal to 10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.input)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details := apiErr.Details.([]apierrors.ValidationError)
			fields := make([]string, 0, len(details))
			for _, d := range details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, tt.wantMsg, details[0].Message)
		})
	}
}

func TestValidator_NonStruct(t *testing.T) {
	err := NewValidator().ValidateStruct(42)

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierrors.CodeInvalidRequest, apiErr.ErrorCode)
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "missing uses default", query: "", want: 3},
		{name: "blank uses default", query: "min_streak=%20", want: 3},
		{name: "parsed", query: "min_streak=7", want: 7},
		{name: "negative parsed", query: "min_streak=-2", want: -2},
		{name: "not a number", query: "min_streak=abc", wantErr: true},
		{name: "float rejected", query: "min_streak=2.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := QueryInt(q, "min_streak", 3)
			if tt.wantErr {
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRejectInvalid(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := apierrors.NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, RejectInvalid(h, w, r, nil))
	assert.Equal(t, 0, w.Body.Len())

	assert.True(t, RejectInvalid(h, w, r, apierrors.ErrValidation("limit", "bad")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
