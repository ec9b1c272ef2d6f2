package queries_test

import (
	"context"
	"testing"
	"time"

	"clickboucher/internal/adapters/out/postgres/orderrepo"
	"clickboucher/internal/adapters/out/postgres/shoprepo"
	"clickboucher/internal/core/application/usecases/queries"
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockAggregateTracker ignores tracked aggregates; the read-side tests do not
// care about post-commit processing.
type mockAggregateTracker struct{}

func (mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type GetKitchenBoardQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetKitchenBoardQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TimelineEventDTO{},
		&shoprepo.AvailabilityDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetKitchenBoardQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, mockAggregateTracker{})
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_timeline").Error
	suite.Require().NoError(err)
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) addOrder(shopID kernel.UUID, createdAt time.Time) *order.Order {
	item, err := order.NewOrderItem(kernel.NewUUID(), kernel.NewUUID(),
		"Entrecôte", order.UnitWeight, 500, 2000)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), shopID, 1, []*order.OrderItem{item},
		order.NewAsapPickup(), order.PaymentOnPickup, "", createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) TestHandle_EmptyShop() {
	now := time.Now().UTC()
	query, err := queries.NewGetKitchenBoardQuery(kernel.NewUUID(), now)
	suite.Require().NoError(err)

	board, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(board.Open)
	suite.Empty(board.Recent)
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) TestHandle_SplitsOpenAndRecent() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	shopID := kernel.NewUUID()

	older := suite.addOrder(shopID, now.Add(-40*time.Minute))
	newer := suite.addOrder(shopID, now.Add(-10*time.Minute))

	denied, err := order.NewOrder(kernel.NewUUID(), shopID, 2,
		[]*order.OrderItem{suite.newItem()}, order.NewAsapPickup(),
		order.PaymentOnPickup, "", now.Add(-2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(denied.Deny("out of stock", now.Add(-90*time.Minute)))
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), denied))

	// Outside the history window: not shown at all.
	ancient, err := order.NewOrder(kernel.NewUUID(), shopID, 3,
		[]*order.OrderItem{suite.newItem()}, order.NewAsapPickup(),
		order.PaymentOnPickup, "", now.Add(-100*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(ancient.Deny("out of stock", now.Add(-99*time.Hour)))
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), ancient))

	query, err := queries.NewGetKitchenBoardQuery(shopID, now)
	suite.Require().NoError(err)

	board, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(board.Open, 2)
	suite.True(board.Open[0].ID.IsEqual(older.ID()))
	suite.True(board.Open[1].ID.IsEqual(newer.ID()))
	suite.Equal(order.Pending.String(), board.Open[0].Status)

	suite.Require().Len(board.Recent, 1)
	suite.True(board.Recent[0].ID.IsEqual(denied.ID()))
	suite.Equal(order.Denied.String(), board.Recent[0].Status)
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) TestHandle_AttachesItems() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	shopID := kernel.NewUUID()
	o := suite.addOrder(shopID, now.Add(-10*time.Minute))

	query, err := queries.NewGetKitchenBoardQuery(shopID, now)
	suite.Require().NoError(err)

	board, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Require().Len(board.Open, 1)
	suite.Require().Len(board.Open[0].Items, 1)
	suite.Equal("Entrecôte", board.Open[0].Items[0].Name)
	suite.Equal(int64(500), board.Open[0].Items[0].Quantity)
	suite.Equal(o.Total(), board.Open[0].Total)
	suite.True(board.Open[0].Items[0].Available)
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) TestHandle_IgnoresOtherShops() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	shopID := kernel.NewUUID()
	suite.addOrder(kernel.NewUUID(), now.Add(-10*time.Minute))

	query, err := queries.NewGetKitchenBoardQuery(shopID, now)
	suite.Require().NoError(err)

	board, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(board.Open)
}

func (suite *GetKitchenBoardQueryHandlerTestSuite) newItem() *order.OrderItem {
	item, err := order.NewOrderItem(kernel.NewUUID(), kernel.NewUUID(),
		"Saucisse de veau", order.UnitCount, 2, 350)
	suite.Require().NoError(err)
	return item
}

func TestGetKitchenBoardQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetKitchenBoardQueryHandlerTestSuite))
}
