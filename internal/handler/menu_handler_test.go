package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMenuHandler_List(t *testing.T) {
	testItems := []model.MenuItem{
		{ID: "burger", Name: "Smash Burger", Price: decimal.RequireFromString("12.50"), Category: "Mains", Available: true, CreatedAt: time.Now()},
		{ID: "fries", Name: "Fries", Price: decimal.RequireFromString("4.00"), Category: "Sides", Available: true, CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		query          string
		expectCategory string
		expectLimit    int
		expectOffset   int
		expectService  bool
		mockReturn     []model.MenuItem
		mockError      error
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "Success",
			expectService:  true,
			mockReturn:     testItems,
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Category and pagination",
			query:          "?category=Mains&limit=1&offset=0",
			expectCategory: "Mains",
			expectLimit:    1,
			expectService:  true,
			mockReturn:     testItems[:1],
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "Bad limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			expectService:  true,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMenuService)
			if tt.expectService {
				mockService.On("List", mock.Anything, tt.expectCategory, tt.expectLimit, tt.expectOffset).Return(tt.mockReturn, tt.mockError)
			}

			h := NewMenuHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/menu"+tt.query, nil)
			w := httptest.NewRecorder()

			h.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var items []model.MenuItem
				require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
				assert.Len(t, items, tt.expectedCount)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_GetByID(t *testing.T) {
	item := &model.MenuItem{ID: "burger", Name: "Smash Burger", Price: decimal.RequireFromString("12.50")}

	tests := []struct {
		name           string
		id             string
		mockReturn     *model.MenuItem
		mockError      error
		expectedStatus int
	}{
		{name: "Found", id: "burger", mockReturn: item, expectedStatus: http.StatusOK},
		{name: "Not found", id: "pizza", mockError: model.ErrMenuItemNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMenuService)
			mockService.On("GetByID", mock.Anything, tt.id).Return(tt.mockReturn, tt.mockError)

			h := NewMenuHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/menu/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			h.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_Create(t *testing.T) {
	created := &model.MenuItem{ID: "soup", Name: "Soup", Price: decimal.RequireFromString("7.00"), Category: "Starters", Available: true}

	tests := []struct {
		name           string
		body           string
		expectService  bool
		mockReturn     *model.MenuItem
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Created",
			body:           `{"id":"soup","name":"Soup","price":"7.00","category":"Starters"}`,
			expectService:  true,
			mockReturn:     created,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Rejected",
			body:           `{"name":"","price":"7.00"}`,
			expectService:  true,
			mockError:      model.NewDomainError(model.ErrCodeInvalidRequest, "name is required"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMenuService)
			if tt.expectService {
				mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.MenuItemRequest")).Return(tt.mockReturn, tt.mockError)
			}

			h := NewMenuHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/admin/menu", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestMenuHandler_Update(t *testing.T) {
	mockService := new(MockMenuService)
	mockService.On("Update", mock.Anything, "burger", mock.MatchedBy(func(req *model.MenuItemRequest) bool {
		return req.Name == "Double Burger" && req.Price.Equal(decimal.RequireFromString("15"))
	})).Return(&model.MenuItem{ID: "burger", Name: "Double Burger"}, nil)

	h := NewMenuHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/menu/burger", strings.NewReader(`{"name":"Double Burger","price":"15","category":"Mains"}`))
	req.SetPathValue("id", "burger")
	w := httptest.NewRecorder()

	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestMenuHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{name: "Deleted", expectedStatus: http.StatusNoContent},
		{name: "Not found", mockError: model.ErrMenuItemNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMenuService)
			mockService.On("Delete", mock.Anything, "burger").Return(tt.mockError)

			h := NewMenuHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/menu/burger", nil)
			req.SetPathValue("id", "burger")
			w := httptest.NewRecorder()

			h.Delete(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
