package cmd

import (
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ordercore/internal/adapters/out/kafka"
	"ordercore/internal/adapters/out/postgres"
	"ordercore/internal/adapters/out/postgres/eventrepo"
	"ordercore/internal/adapters/out/redis"
	"ordercore/internal/core/application/events"
	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/application/usecases/queries"
	"ordercore/internal/jobs"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	cache       *redis.IdempotencyCache
	publisher   *events.Publisher
	relay       *events.Relay
	broadcaster *kafka.Broadcaster
	logger      *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB,
	redisClient *goredis.Client, logger *slog.Logger) (CompositionRoot, error) {
	cache, err := redis.NewIdempotencyCache(redisClient)
	if err != nil {
		return CompositionRoot{}, err
	}

	writer := kafka.NewWriter([]string{config.KafkaHost}, config.KafkaOrderChangedTopic)
	broadcaster, err := kafka.NewBroadcaster(writer)
	if err != nil {
		return CompositionRoot{}, err
	}

	// The publisher and relay mark events published outside any transaction,
	// so they get a repository on the main connection.
	mainEvents := eventrepo.NewGormEventRepository(gormDB)
	publisher := events.NewPublisher(broadcaster, mainEvents, logger)

	relay, err := events.NewRelay(mainEvents, broadcaster, events.DefaultRelayBatchSize, logger)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:       cache,
		publisher:   publisher,
		relay:       relay,
		broadcaster: broadcaster,
		logger:      logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.cache, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.ChangeStatusUoWFactory = FuncChangeStatusUoWFactory(func() commands.ChangeStatusUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.CancelOrderUoWFactory = FuncCancelOrderUoWFactory(func() commands.CancelOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.relay, c.logger)
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncChangeStatusUoWFactory func() commands.ChangeStatusUoW

func (f FuncChangeStatusUoWFactory) Create() commands.ChangeStatusUoW {
	return f()
}

type FuncCancelOrderUoWFactory func() commands.CancelOrderUoW

func (f FuncCancelOrderUoWFactory) Create() commands.CancelOrderUoW {
	return f()
}
