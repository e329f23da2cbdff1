package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMenuService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	testItems := []model.MenuItem{
		{ID: "m1", Name: "Margherita", Price: decimal.RequireFromString("12.50"), Category: "pizza", Available: true},
		{ID: "m2", Name: "Tiramisu", Price: decimal.RequireFromString("6.00"), Category: "dessert", Available: true},
	}

	tests := []struct {
		name           string
		category       string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
		mockReturn     []model.MenuItem
		mockError      error
		expectError    bool
	}{
		{
			name:           "default pagination",
			limit:          0,
			offset:         0,
			expectedLimit:  20,
			expectedOffset: 0,
			mockReturn:     testItems,
		},
		{
			name:           "limit clamped to maximum",
			limit:          500,
			offset:         10,
			expectedLimit:  100,
			expectedOffset: 10,
			mockReturn:     testItems,
		},
		{
			name:           "negative offset reset",
			category:       "  pizza ",
			limit:          5,
			offset:         -3,
			expectedLimit:  5,
			expectedOffset: 0,
			mockReturn:     testItems[:1],
		},
		{
			name:           "repository error",
			limit:          10,
			expectedLimit:  10,
			expectedOffset: 0,
			mockError:      errors.New("database error"),
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMenuRepository)
			svc := NewMenuService(mockRepo, logger)

			mockRepo.On("List", ctx, "pizza", tt.expectedLimit, tt.expectedOffset).Return(tt.mockReturn, tt.mockError).Maybe()
			mockRepo.On("List", ctx, "", tt.expectedLimit, tt.expectedOffset).Return(tt.mockReturn, tt.mockError).Maybe()

			items, err := svc.List(ctx, tt.category, tt.limit, tt.offset)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, items)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, items)
			}
			mockRepo.AssertNumberOfCalls(t, "List", 1)
		})
	}
}

func TestMenuService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	item := &model.MenuItem{ID: "m1", Name: "Margherita", Price: decimal.RequireFromString("12.50"), Category: "pizza"}

	tests := []struct {
		name        string
		id          string
		mockReturn  *model.MenuItem
		mockError   error
		expectedErr error
	}{
		{name: "found", id: "m1", mockReturn: item},
		{name: "not found", id: "missing", expectedErr: model.ErrMenuItemNotFound},
		{name: "empty id", id: "", expectedErr: model.ErrMenuItemNotFound},
		{name: "repository error", id: "m1", mockError: errors.New("database error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMenuRepository)
			svc := NewMenuService(mockRepo, logger)

			if tt.id != "" {
				mockRepo.On("GetByID", ctx, tt.id).Return(tt.mockReturn, tt.mockError)
			}

			got, err := svc.GetByID(ctx, tt.id)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
			case tt.mockError != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, model.ErrMenuItemNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, item, got)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Create(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	unavailable := false

	tests := []struct {
		name        string
		req         *model.MenuItemRequest
		wantInvalid bool
		check       func(t *testing.T, item *model.MenuItem)
	}{
		{
			name: "generates id and defaults to available",
			req:  &model.MenuItemRequest{Name: " Margherita ", Category: "pizza", Price: decimal.RequireFromString("12.50")},
			check: func(t *testing.T, item *model.MenuItem) {
				assert.NotEmpty(t, item.ID)
				assert.Equal(t, "Margherita", item.Name)
				assert.True(t, item.Available)
				assert.False(t, item.CreatedAt.IsZero())
			},
		},
		{
			name: "keeps given id and availability",
			req: &model.MenuItemRequest{
				ID: "pizza-1", Name: "Diavola", Category: "pizza",
				Price: decimal.RequireFromString("14"), Available: &unavailable,
			},
			check: func(t *testing.T, item *model.MenuItem) {
				assert.Equal(t, "pizza-1", item.ID)
				assert.False(t, item.Available)
			},
		},
		{name: "nil request", req: nil, wantInvalid: true},
		{name: "missing name", req: &model.MenuItemRequest{Category: "pizza", Price: decimal.NewFromInt(1)}, wantInvalid: true},
		{name: "missing category", req: &model.MenuItemRequest{Name: "Soup", Price: decimal.NewFromInt(1)}, wantInvalid: true},
		{name: "zero price", req: &model.MenuItemRequest{Name: "Soup", Category: "starter"}, wantInvalid: true},
		{
			name:        "fractional cents",
			req:         &model.MenuItemRequest{Name: "Soup", Category: "starter", Price: decimal.RequireFromString("4.999")},
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMenuRepository)
			svc := NewMenuService(mockRepo, logger)

			if !tt.wantInvalid {
				mockRepo.On("Create", ctx, mock.AnythingOfType("*model.MenuItem")).Return(nil)
			}

			item, err := svc.Create(ctx, tt.req)

			if tt.wantInvalid {
				var domainErr *model.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, model.ErrCodeInvalidRequest, domainErr.Code)
				mockRepo.AssertNotCalled(t, "Create")
				return
			}
			require.NoError(t, err)
			tt.check(t, item)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Update(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	created := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

	req := &model.MenuItemRequest{Name: "Margherita", Category: "pizza", Price: decimal.RequireFromString("13.00")}

	t.Run("keeps creation time", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		svc := NewMenuService(mockRepo, logger)

		mockRepo.On("GetByID", ctx, "m1").Return(&model.MenuItem{ID: "m1", CreatedAt: created}, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(item *model.MenuItem) bool {
			return item.ID == "m1" && item.Price.Equal(decimal.RequireFromString("13")) && item.CreatedAt.Equal(created)
		})).Return(nil)

		item, err := svc.Update(ctx, "m1", req)
		require.NoError(t, err)
		assert.Equal(t, created, item.CreatedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockMenuRepository)
		svc := NewMenuService(mockRepo, logger)

		mockRepo.On("GetByID", ctx, "missing").Return(nil, nil)

		_, err := svc.Update(ctx, "missing", req)
		assert.ErrorIs(t, err, model.ErrMenuItemNotFound)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestMenuService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name      string
		mockError error
		check     func(t *testing.T, err error)
	}{
		{name: "deleted", check: func(t *testing.T, err error) { assert.NoError(t, err) }},
		{name: "not found", mockError: model.ErrMenuItemNotFound, check: func(t *testing.T, err error) {
			assert.ErrorIs(t, err, model.ErrMenuItemNotFound)
		}},
		{name: "database error", mockError: errors.New("connection reset"), check: func(t *testing.T, err error) {
			assert.ErrorContains(t, err, "failed to delete menu item")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMenuRepository)
			svc := NewMenuService(mockRepo, logger)
			mockRepo.On("Delete", ctx, "m1").Return(tt.mockError)

			tt.check(t, svc.Delete(ctx, "m1"))
			mockRepo.AssertExpectations(t)
		})
	}
}
