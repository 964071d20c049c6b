package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/floracare/storefront/pkg/db/models"
	"github.com/floracare/storefront/pkg/enums"
	"github.com/floracare/storefront/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}))

	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func sampleOrder() *models.Order {
	return &models.Order{
		CustomerName:    "Marie Dupont",
		CustomerEmail:   "marie@example.com",
		DeliveryAddress: "12 Rue des Fleurs, Lyon",
		Items: types.OrderItems{
			{ProductID: uuid.New(), ProductName: "Lavender Dream Soap", Price: decimal.RequireFromString("7.00"), Quantity: 2},
		},
		TotalAmount: decimal.RequireFromString("14.00"),
		Status:      enums.OrderStatusNew,
	}
}

func TestCreateAssignsIDAndStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	order := sampleOrder()
	order.Status = ""

	id, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	require.Equal(t, enums.OrderStatusNew, order.Status)
}

func TestCreateAndListRoundTrip(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	id, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	listed, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, id, listed[0].ID)
	require.Equal(t, "14.00", listed[0].TotalAmount.StringFixed(2))
	require.Len(t, listed[0].Items, 1)
	require.Equal(t, "Lavender Dream Soap", listed[0].Items[0].ProductName)
}

func TestListNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	first := sampleOrder()
	_, err := repo.Create(context.Background(), first)
	require.NoError(t, err)

	second := sampleOrder()
	second.CustomerName = "Anna Schmidt"
	_, err = repo.Create(context.Background(), second)
	require.NoError(t, err)

	// Force distinct timestamps; sqlite's clock is coarse.
	require.NoError(t, conn.Model(second).Update("created_at", time.Now().Add(time.Hour)).Error)

	listed, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "Anna Schmidt", listed[0].CustomerName)
}
