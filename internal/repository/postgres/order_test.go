package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/pkg/database"
)

func newOrderRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewOrderRepository(mock), mock
}

func sampleOrderData() domain.OrderData {
	addr := &domain.Address{
		FirstName:  "Amani",
		LastName:   "Otieno",
		Street:     "123 Moi Avenue",
		City:       "Nairobi",
		PostalCode: "00100",
		Country:    "KE",
		Phone:      "254712345678",
	}
	return domain.OrderData{
		CartID:          "cart-001",
		CustomerID:      "cust-001",
		Currency:        "KES",
		BillingAddress:  addr,
		ShippingAddress: addr,
		ShippingMethod:  "flatrate_flatrate",
		PaymentMethod:   domain.MethodCashOnDelivery,
		SubtotalAmount:  10000,
		ShippingAmount:  500,
		GrandTotal:      10500,
		Items: []domain.OrderItem{
			{ProductID: "prod-001", SKU: "WDG-001", Name: "Widget", Price: 5000, Quantity: 2},
		},
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderRepo(t)

	data := sampleOrderData()

	mock.ExpectBegin()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			pgxmock.AnyArg(), // generated order id
			data.CartID,
			&data.CustomerID,
			domain.OrderStatusPending,
			data.Currency,
			pgxmock.AnyArg(), // billing JSON
			pgxmock.AnyArg(), // shipping JSON
			&data.ShippingMethod,
			data.PaymentMethod,
			data.SubtotalAmount,
			data.ShippingAmount,
			data.GrandTotal,
			pgxmock.AnyArg(), // created_at
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, item := range data.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(
				pgxmock.AnyArg(), pgxmock.AnyArg(),
				item.ProductID, item.SKU, item.Name, item.Price, item.Quantity,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	mock.ExpectCommit()

	order, err := repo.Create(context.Background(), data)

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int64(10500), order.GrandTotal)
	assert.Len(t, order.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_BeginError(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	order, err := repo.Create(context.Background(), sampleOrderData())

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestOrderRepository_Create_InsertError_RollsBack(t *testing.T) {
	repo, mock := newOrderRepo(t)

	data := sampleOrderData()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			pgxmock.AnyArg(), data.CartID, &data.CustomerID, domain.OrderStatusPending,
			data.Currency, pgxmock.AnyArg(), pgxmock.AnyArg(), &data.ShippingMethod,
			data.PaymentMethod, data.SubtotalAmount, data.ShippingAmount, data.GrandTotal,
			pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	order, err := repo.Create(context.Background(), data)

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}
