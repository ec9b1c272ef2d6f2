package cmd

import (
	"log/slog"
	"time"

	"clickboucher/internal/adapters/out/kafkabus"
	"clickboucher/internal/adapters/out/notify"
	"clickboucher/internal/adapters/out/payment"
	"clickboucher/internal/adapters/out/postgres"
	"clickboucher/internal/adapters/out/postgres/catalogrepo"
	"clickboucher/internal/core/application/usecases/commands"
	"clickboucher/internal/core/application/usecases/queries"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/core/ports"
	"clickboucher/internal/jobs"
	"clickboucher/internal/pkg/metrics"
	"clickboucher/internal/realtime"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const webhookTimeout = 5 * time.Second

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	catalog ports.CatalogRepository
	weights services.WeightReconciler
	stock   services.StockReconciler

	hub            *realtime.Hub
	kafkaPublisher *kafkabus.Publisher
	effects        *commands.Effects
	logger         *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	weights, err := services.NewWeightReconciler(services.DefaultWeightTolerancePercent)
	if err != nil {
		panic(err)
	}

	hub := realtime.NewHub()
	kafkaPublisher := kafkabus.NewPublisher(config.KafkaHost, config.KafkaOrderChangedTopic)

	sinks := []ports.EventPublisher{hub}
	if kafkaPublisher.Enabled() {
		sinks = append(sinks, kafkaPublisher)
	}
	publisher := realtime.NewFanout(sinks...)

	var notifier ports.Notifier
	if config.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(config.NotifyWebhookURL, webhookTimeout)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	effects := commands.NewEffects(notifier, publisher,
		metrics.New(prometheus.DefaultRegisterer), logger)

	return &CompositionRoot{
		gormDB:         gormDB,
		uowFactory:     *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:        catalogrepo.NewGormCatalogRepository(gormDB),
		weights:        weights,
		stock:          services.NewStockReconciler(),
		hub:            hub,
		kafkaPublisher: kafkaPublisher,
		effects:        effects,
		logger:         logger,
	}
}

// Hub returns the in-process fan-out the SSE feed subscribes to.
func (c *CompositionRoot) Hub() *realtime.Hub {
	return c.hub
}

// Close releases outbound connections.
func (c *CompositionRoot) Close() error {
	return c.kafkaPublisher.Close()
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitOrderCommandHandler(f, c.catalog,
		payment.NewLogGateway(c.logger), c.effects)
}

func (c *CompositionRoot) CreateKitchenActionCommandHandler() commands.KitchenActionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewKitchenActionCommandHandler(f, c.effects)
}

func (c *CompositionRoot) CreateResolveAlternativesCommandHandler() commands.ResolveAlternativesCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveAlternativesCommandHandler(f, c.catalog, c.stock, c.effects)
}

func (c *CompositionRoot) CreateRecordWeighingCommandHandler() commands.RecordWeighingCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordWeighingCommandHandler(f, c.weights, c.effects)
}

func (c *CompositionRoot) CreateReviewWeightCommandHandler() commands.ReviewWeightCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReviewWeightCommandHandler(f, c.effects)
}

func (c *CompositionRoot) CreateRateOrderCommandHandler() commands.RateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRateOrderCommandHandler(f, c.effects)
}

func (c *CompositionRoot) CreateShopStatusCommandHandler() commands.ShopStatusCommandHandler {
	var f commands.ShopUoWFactory = FuncShopUoWFactory(func() commands.ShopUoW {
		return c.uowFactory.Create()
	})
	return commands.NewShopStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateGetKitchenBoardQueryHandler() queries.GetKitchenBoardQueryHandler {
	return queries.NewGetKitchenBoardQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShopAvailabilityQueryHandler() queries.GetShopAvailabilityQueryHandler {
	return queries.NewGetShopAvailabilityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var uowF commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	var offerF commands.OfferUoWFactory = FuncOfferUoWFactory(func() commands.OfferUoW {
		return c.uowFactory.Create()
	})
	var shopF commands.ShopUoWFactory = FuncShopUoWFactory(func() commands.ShopUoW {
		return c.uowFactory.Create()
	})

	return jobs.NewJobManager(
		commands.NewSweepStaleOrdersCommandHandler(uowF, c.effects, c.logger),
		commands.NewSweepStaleReservationsCommandHandler(offerF, c.effects, c.logger),
		commands.NewSweepAvailabilityCommandHandler(shopF, c.logger),
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncShopUoWFactory func() commands.ShopUoW

func (f FuncShopUoWFactory) Create() commands.ShopUoW {
	return f()
}

type FuncOfferUoWFactory func() commands.OfferUoW

func (f FuncOfferUoWFactory) Create() commands.OfferUoW {
	return f()
}
