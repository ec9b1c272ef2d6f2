package postgres_test

import (
	"context"
	"testing"
	"time"

	"clickboucher/internal/adapters/out/postgres"
	"clickboucher/internal/adapters/out/postgres/offerrepo"
	"clickboucher/internal/adapters/out/postgres/orderrepo"
	"clickboucher/internal/adapters/out/postgres/shoprepo"
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/model/shop"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction semantics across the
// order and shop repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TimelineEventDTO{},
		&orderrepo.OrderCounterDTO{},
		&shoprepo.AvailabilityDTO{},
		&offerrepo.OfferDTO{},
		&offerrepo.ReservationDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_timeline, shop_order_counters, shop_availability, offers, offer_reservations").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(shopID kernel.UUID) *order.Order {
	item, err := order.NewOrderItem(kernel.NewUUID(), kernel.NewUUID(),
		"Côtelette d'agneau", order.UnitWeight, 400, 4500)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), shopID, 1, []*order.OrderItem{item},
		order.NewAsapPickup(), order.PaymentOnPickup, "", time.Now().UTC())
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	shopID := kernel.NewUUID()
	gate, err := shop.NewAvailability(shopID, 10, 20)
	suite.Require().NoError(err)
	testOrder := suite.newOrder(shopID)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShopRepository().Add(ctx, gate))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	var orderCount, shopCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&shoprepo.AvailabilityDTO{}).Count(&shopCount).Error)
	suite.Equal(int64(1), orderCount)
	suite.Equal(int64(1), shopCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	shopID := kernel.NewUUID()
	gate, err := shop.NewAvailability(shopID, 10, 20)
	suite.Require().NoError(err)
	testOrder := suite.newOrder(shopID)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ShopRepository().Add(ctx, gate))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount, shopCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&shoprepo.AvailabilityDTO{}).Count(&shopCount).Error)
	suite.Zero(orderCount)
	suite.Zero(shopCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackAfterCommit_IsHarmless() {
	ctx := context.Background()
	testOrder := suite.newOrder(kernel.NewUUID())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositoriesWithoutTransaction_ExecuteImmediately() {
	ctx := context.Background()
	testOrder := suite.newOrder(kernel.NewUUID())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
