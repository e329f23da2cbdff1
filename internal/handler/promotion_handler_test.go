package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPromotionHandler_Validate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectService  bool
		mockReturn     model.PromotionResult
		mockError      error
		expectedStatus int
		expectedValid  bool
	}{
		{
			name:          "Valid code",
			body:          `{"code":"WELCOME10","orderTotal":"60.00"}`,
			expectService: true,
			mockReturn: model.PromotionResult{
				Code:           "WELCOME10",
				Valid:          true,
				DiscountAmount: decimal.RequireFromString("6"),
			},
			expectedStatus: http.StatusOK,
			expectedValid:  true,
		},
		{
			name:          "Rejected code is still 200",
			body:          `{"code":"EXPIRED","orderTotal":"60.00"}`,
			expectService: true,
			mockReturn: model.PromotionResult{
				Code:   "EXPIRED",
				Reason: "Promotion has expired",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing code",
			body:           `{"orderTotal":"60.00"}`,
			expectService:  true,
			mockError:      model.NewDomainError(model.ErrCodeInvalidRequest, "code is required"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `nope`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPromotionService)
			if tt.expectService {
				mockService.On("Validate", mock.Anything, mock.AnythingOfType("*model.ValidatePromotionRequest")).Return(tt.mockReturn, tt.mockError)
			}

			h := NewPromotionHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/promotions/validate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Validate(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var result model.PromotionResult
				require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
				assert.Equal(t, tt.expectedValid, result.Valid)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestPromotionHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *model.Promotion
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Created",
			mockReturn:     &model.Promotion{Code: "SPRING", DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(5), Active: true},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Duplicate",
			mockError:      model.ErrPromotionExists,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPromotionService)
			mockService.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Promotion) bool {
				return p.Code == "SPRING" && p.DiscountType == model.DiscountFixed
			})).Return(tt.mockReturn, tt.mockError)

			h := NewPromotionHandler(mockService, zerolog.Nop())

			body := `{"code":"SPRING","discountType":"fixed","discountValue":"5","active":true}`
			req := httptest.NewRequest(http.MethodPost, "/api/admin/promotions", strings.NewReader(body))
			w := httptest.NewRecorder()

			h.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestPromotionHandler_SetActive(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectService  bool
		mockReturn     *model.Promotion
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Deactivate",
			body:           `{"active":false}`,
			expectService:  true,
			mockReturn:     &model.Promotion{Code: "SPRING"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown code",
			body:           `{"active":false}`,
			expectService:  true,
			mockError:      model.ErrPromotionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Missing active",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPromotionService)
			if tt.expectService {
				mockService.On("SetActive", mock.Anything, "SPRING", false).Return(tt.mockReturn, tt.mockError)
			}

			h := NewPromotionHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPatch, "/api/admin/promotions/SPRING", strings.NewReader(tt.body))
			req.SetPathValue("code", "SPRING")
			w := httptest.NewRecorder()

			h.SetActive(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestPromotionHandler_List(t *testing.T) {
	mockService := new(MockPromotionService)
	mockService.On("List", mock.Anything).Return([]model.Promotion{{Code: "SPRING"}, {Code: "WELCOME10"}}, nil)

	h := NewPromotionHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/promotions", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var promotions []model.Promotion
	require.NoError(t, json.NewDecoder(w.Body).Decode(&promotions))
	assert.Len(t, promotions, 2)
}
