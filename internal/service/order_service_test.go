package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales-order-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter model.OrderFilter, page model.PageRequest) (*model.OrderPage, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderPage), args.Error(1)
}

func (m *MockOrderRepository) Cancel(ctx context.Context, id uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, id, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catalogItem(name, price string) *model.CatalogItem {
	return &model.CatalogItem{
		ID:        uuid.New(),
		Name:      name,
		Price:     money(price),
		CreatedAt: time.Now(),
	}
}

func TestOrderService_Create_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	widget := catalogItem("Widget", "10.00")

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockCatalogRepo.On("GetByID", ctx, widget.ID).Return(widget, nil)
	mockOrderRepo.On("Create", ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	req := &model.OrderRequest{
		CustomerName: "Acme",
		Items: []model.OrderLineRequest{
			{CatalogItemID: widget.ID, Quantity: 3},
		},
	}

	order, err := svc.Create(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, "Acme", order.CustomerName)

	// Worked example: 3 x 10.00 -> subtotal 30.00, vat 3.60, total 33.60.
	assert.True(t, order.Subtotal.Equal(money("30.00")), "subtotal = %s", order.Subtotal)
	assert.True(t, order.VAT.Equal(money("3.60")), "vat = %s", order.VAT)
	assert.True(t, order.Total.Equal(money("33.60")), "total = %s", order.Total)

	require.Len(t, order.Lines, 1)
	line := order.Lines[0]
	assert.Equal(t, "Widget", line.ItemName)
	assert.True(t, line.UnitPrice.Equal(money("10.00")))
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, widget.ID, line.CatalogItemID)
	assert.Equal(t, order.ID, line.OrderID)

	assert.Nil(t, order.CancellationDate)
	assert.Equal(t, order.CreationDate, model.DateOf(order.CreationDate), "creation date has date granularity")

	mockCatalogRepo.AssertExpectations(t)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_Create_AmountInvariants(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	itemA := catalogItem("Item A", "19.99")
	itemB := catalogItem("Item B", "0.05")

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockCatalogRepo.On("GetByID", ctx, itemA.ID).Return(itemA, nil)
	mockCatalogRepo.On("GetByID", ctx, itemB.ID).Return(itemB, nil)
	mockOrderRepo.On("Create", ctx, mock.AnythingOfType("*model.Order")).Return(nil)

	req := &model.OrderRequest{
		CustomerName: "Acme",
		Items: []model.OrderLineRequest{
			{CatalogItemID: itemA.ID, Quantity: 7},
			{CatalogItemID: itemB.ID, Quantity: 3},
		},
	}

	order, err := svc.Create(ctx, req)
	require.NoError(t, err)

	// subtotal = sum of unitPrice * quantity over the lines
	expected := decimal.Zero
	for _, line := range order.Lines {
		expected = expected.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	assert.True(t, order.Subtotal.Equal(expected))

	// total = subtotal + vat, exactly
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.VAT)))

	// vat = subtotal * 0.12 within the currency's minor-unit precision
	exactVAT := order.Subtotal.Mul(VATRate)
	assert.True(t, order.VAT.Sub(exactVAT).Abs().LessThanOrEqual(money("0.005")))

	// Input order is preserved.
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Item A", order.Lines[0].ItemName)
	assert.Equal(t, "Item B", order.Lines[1].ItemName)
	assert.Equal(t, 1, order.Lines[0].LineNo)
	assert.Equal(t, 2, order.Lines[1].LineNo)
}

func TestOrderService_Create_EmptyItems(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	tests := []struct {
		name    string
		req     *model.OrderRequest
		wantErr *model.DomainError
	}{
		{
			name:    "Nil request",
			req:     nil,
			wantErr: model.ErrEmptyOrder,
		},
		{
			name:    "No items",
			req:     &model.OrderRequest{CustomerName: "Acme", Items: []model.OrderLineRequest{}},
			wantErr: model.ErrEmptyOrder,
		},
		{
			name:    "Blank customer name",
			req:     &model.OrderRequest{CustomerName: "  ", Items: []model.OrderLineRequest{{CatalogItemID: uuid.New(), Quantity: 1}}},
			wantErr: model.ErrBlankCustomerName,
		},
		{
			name:    "Zero quantity",
			req:     &model.OrderRequest{CustomerName: "Acme", Items: []model.OrderLineRequest{{CatalogItemID: uuid.New(), Quantity: 0}}},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "Negative quantity",
			req:     &model.OrderRequest{CustomerName: "Acme", Items: []model.OrderLineRequest{{CatalogItemID: uuid.New(), Quantity: -2}}},
			wantErr: model.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.Create(ctx, tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err)
			assert.Nil(t, order)
		})
	}

	// Validation failures never reach the stores.
	mockCatalogRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_UnknownCatalogItem(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	widget := catalogItem("Widget", "10.00")
	missingID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockCatalogRepo.On("GetByID", ctx, widget.ID).Return(widget, nil)
	mockCatalogRepo.On("GetByID", ctx, missingID).Return(nil, nil)

	req := &model.OrderRequest{
		CustomerName: "Acme",
		Items: []model.OrderLineRequest{
			{CatalogItemID: widget.ID, Quantity: 1},
			{CatalogItemID: missingID, Quantity: 2},
		},
	}

	order, err := svc.Create(ctx, req)

	require.Error(t, err)
	assert.Equal(t, model.ErrCatalogItemNotFound, err)
	assert.Nil(t, order)

	// The whole operation aborts; nothing is persisted.
	mockOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_RepositoryFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	widget := catalogItem("Widget", "10.00")

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockCatalogRepo.On("GetByID", ctx, widget.ID).Return(widget, nil)
	mockOrderRepo.On("Create", ctx, mock.AnythingOfType("*model.Order")).Return(errors.New("connection reset"))

	req := &model.OrderRequest{
		CustomerName: "Acme",
		Items:        []model.OrderLineRequest{{CatalogItemID: widget.ID, Quantity: 1}},
	}

	order, err := svc.Create(ctx, req)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.Contains(t, err.Error(), "failed to create order")
}

func TestOrderService_Cancel_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	cancellationDate := model.DateOf(time.Now())
	cancelled := &model.Order{
		ID:               orderID,
		CustomerName:     "Acme",
		CreationDate:     model.DateOf(time.Now()),
		CancellationDate: &cancellationDate,
		Subtotal:         money("30.00"),
		VAT:              money("3.60"),
		Total:            money("33.60"),
		Lines: []model.OrderLine{
			{ID: uuid.New(), OrderID: orderID, LineNo: 1, ItemName: "Widget", UnitPrice: money("10.00"), Quantity: 3},
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockOrderRepo.On("Cancel", ctx, orderID, mock.AnythingOfType("time.Time")).Return(true, nil)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(cancelled, nil)

	order, err := svc.Cancel(ctx, orderID)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.True(t, order.Cancelled())
	// Amounts and lines are untouched by cancellation.
	assert.True(t, order.Total.Equal(money("33.60")))
	assert.Len(t, order.Lines, 1)

	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_Cancel_AlreadyCancelled(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	// The guarded update touches no row, but the order exists: second cancel.
	mockOrderRepo.On("Cancel", ctx, orderID, mock.AnythingOfType("time.Time")).Return(false, nil)
	mockOrderRepo.On("Exists", ctx, orderID).Return(true, nil)

	order, err := svc.Cancel(ctx, orderID)

	require.Error(t, err)
	assert.Equal(t, model.ErrOrderAlreadyCancelled, err)
	assert.Nil(t, order)

	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_Cancel_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockOrderRepo.On("Cancel", ctx, orderID, mock.AnythingOfType("time.Time")).Return(false, nil)
	mockOrderRepo.On("Exists", ctx, orderID).Return(false, nil)

	order, err := svc.Cancel(ctx, orderID)

	require.Error(t, err)
	assert.Equal(t, model.ErrOrderNotFound, err)
	assert.Nil(t, order)
}

func TestOrderService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	existing := &model.Order{ID: orderID, CustomerName: "Acme"}

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockOrderRepo.On("GetByID", ctx, orderID).Return(existing, nil)

	order, err := svc.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, existing, order)

	missingID := uuid.New()
	mockOrderRepo.On("GetByID", ctx, missingID).Return(nil, nil)

	order, err = svc.GetByID(ctx, missingID)
	require.Error(t, err)
	assert.Equal(t, model.ErrOrderNotFound, err)
	assert.Nil(t, order)
}

func TestOrderService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	filter := model.OrderFilter{CustomerName: "acme"}
	page := model.PageRequest{Page: 0, Size: 10}
	expected := &model.OrderPage{
		Orders: []model.Order{{ID: uuid.New(), CustomerName: "Acme Corp"}},
		Total:  1,
		Page:   0,
		Size:   10,
	}

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockOrderRepo.On("List", ctx, filter, page).Return(expected, nil)

	result, err := svc.List(ctx, filter, page)

	require.NoError(t, err)
	assert.Equal(t, expected, result)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	missingID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockCatalogRepo := new(MockCatalogRepository)
	svc := NewOrderService(mockOrderRepo, mockCatalogRepo, logger)

	mockOrderRepo.On("Delete", ctx, orderID).Return(true, nil)
	mockOrderRepo.On("Delete", ctx, missingID).Return(false, nil)

	assert.NoError(t, svc.Delete(ctx, orderID))
	assert.Equal(t, model.ErrOrderNotFound, svc.Delete(ctx, missingID))
}
