package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/postgres"
	"lastmile/internal/adapters/out/routing"
	"lastmile/internal/adapters/out/s3storage"
	"lastmile/internal/core/application/eventhandlers"
	"lastmile/internal/core/application/events"
	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/batch"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/route"
	"lastmile/internal/core/ports"
	"lastmile/internal/jobs"
	"lastmile/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config       Config
	gormDB       *gorm.DB
	logger       *slog.Logger
	metrics      *metrics.Metrics
	dispatcher   *events.Dispatcher
	uowFactory   *postgres.GormUnitOfWorkFactory
	optimizer    ports.RouteOptimizer
	proofStorage ports.ProofStorage
}

// NewCompositionRoot wires adapters and registers the event reactions.
func NewCompositionRoot(
	ctx context.Context,
	config Config,
	gormDB *gorm.DB,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*CompositionRoot, error) {
	dispatcher := events.NewDispatcher(logger, m)

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		metrics:    m,
		dispatcher: dispatcher,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, dispatcher, logger),
	}

	optimizer, err := c.newRouteOptimizer()
	if err != nil {
		return nil, err
	}
	c.optimizer = optimizer

	if config.S3Bucket != "" {
		store, storeErr := s3storage.New(ctx, s3storage.Config{
			Bucket:          config.S3Bucket,
			Region:          config.S3Region,
			Endpoint:        config.S3Endpoint,
			AccessKeyID:     config.S3AccessKeyID,
			SecretAccessKey: config.S3SecretAccessKey,
			PathStyle:       config.S3PathStyle,
		})
		if storeErr != nil {
			return nil, fmt.Errorf("proof storage: %w", storeErr)
		}
		c.proofStorage = store
	} else {
		logger.Warn("S3 bucket not configured, proof-of-delivery uploads are disabled")
	}

	if err = c.registerEventHandlers(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) newRouteOptimizer() (ports.RouteOptimizer, error) {
	switch c.config.Optimizer {
	case OptimizerORS:
		cfg := routing.DefaultORSConfig()
		cfg.APIKey = c.config.ORSAPIKey
		if c.config.ORSBaseURL != "" {
			cfg.BaseURL = c.config.ORSBaseURL
		}
		if c.config.ORSProfile != "" {
			cfg.Profile = c.config.ORSProfile
		}
		return routing.NewORSOptimizer(cfg, c.logger, c.metrics), nil
	case OptimizerNearestNeighbour, "":
		return routing.NewNearestNeighbourOptimizer(), nil
	default:
		return nil, fmt.Errorf("unknown route optimizer %q", c.config.Optimizer)
	}
}

func (c *CompositionRoot) registerEventHandlers() error {
	depot, err := kernel.NewGeoPoint(c.config.DepotLatitude, c.config.DepotLongitude)
	if err != nil {
		return fmt.Errorf("depot location: %w", err)
	}

	building := eventhandlers.NewRouteBuildingHandler(c.uowFactory, c.optimizer, eventhandlers.RouteBuildingConfig{
		Depot:            depot,
		OptimizerTimeout: c.config.OptimizerTimeout,
	}, c.logger, c.metrics)
	completion := eventhandlers.NewRouteCompletionHandler(c.uowFactory, c.logger, c.metrics)

	c.dispatcher.Register(batch.BatchClosedEventType, building)
	c.dispatcher.Register(route.RouteStartedEventType, eventhandlers.NewRouteStartedHandler(c.uowFactory, completion, c.logger))
	c.dispatcher.Register(route.RouteCancelledEventType, eventhandlers.NewRouteCancelledHandler(c.uowFactory, c.logger))
	c.dispatcher.Register(order.OrderCancelledEventType, completion)
	c.dispatcher.Register(order.OrderDeliveredEventType, completion)
	c.dispatcher.Register(order.OrderIncidentReportedEventType, completion)

	return nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routeUoWFactory() commands.RouteUoWFactory {
	return FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) deliveryZoneUoWFactory() commands.DeliveryZoneUoWFactory {
	return FuncDeliveryZoneUoWFactory(func() commands.DeliveryZoneUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderingUoWFactory = FuncOrderingUoWFactory(func() commands.OrderingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAddOrderItemCommandHandler() commands.AddOrderItemCommandHandler {
	return commands.NewAddOrderItemCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRescheduleOrderCommandHandler() commands.RescheduleOrderCommandHandler {
	return commands.NewRescheduleOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.orderUoWFactory(), c.proofStorage)
}

func (c *CompositionRoot) CreateReportOrderIncidentCommandHandler() commands.ReportOrderIncidentCommandHandler {
	return commands.NewReportOrderIncidentCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCloseBatchCommandHandler() commands.CloseBatchCommandHandler {
	var f commands.BatchUoWFactory = FuncBatchUoWFactory(func() commands.BatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCloseBatchCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignRouteDriverCommandHandler() commands.AssignRouteDriverCommandHandler {
	return commands.NewAssignRouteDriverCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	return commands.NewStartRouteCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateCancelRouteCommandHandler() commands.CancelRouteCommandHandler {
	return commands.NewCancelRouteCommandHandler(c.routeUoWFactory())
}

func (c *CompositionRoot) CreateCreateDeliveryZoneCommandHandler() commands.CreateDeliveryZoneCommandHandler {
	return commands.NewCreateDeliveryZoneCommandHandler(c.deliveryZoneUoWFactory())
}

func (c *CompositionRoot) CreateAssignZoneDriverCommandHandler() commands.AssignZoneDriverCommandHandler {
	return commands.NewAssignZoneDriverCommandHandler(c.deliveryZoneUoWFactory())
}

func (c *CompositionRoot) CreateGetBatchOrdersQueryHandler() queries.GetBatchOrdersQueryHandler {
	return queries.NewGetBatchOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRouteDetailsQueryHandler() queries.GetRouteDetailsQueryHandler {
	return queries.NewGetRouteDetailsQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the echo instance with every API operation wired.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*echo.Echo, error) {
	createOrder := c.CreateCreateOrderCommandHandler()
	addOrderItem := c.CreateAddOrderItemCommandHandler()
	rescheduleOrder := c.CreateRescheduleOrderCommandHandler()
	cancelOrder := c.CreateCancelOrderCommandHandler()
	deliverOrder := c.CreateDeliverOrderCommandHandler()
	reportIncident := c.CreateReportOrderIncidentCommandHandler()
	closeBatch := c.CreateCloseBatchCommandHandler()
	assignRouteDriver := c.CreateAssignRouteDriverCommandHandler()
	startRoute := c.CreateStartRouteCommandHandler()
	cancelRoute := c.CreateCancelRouteCommandHandler()
	createZone := c.CreateCreateDeliveryZoneCommandHandler()
	assignZoneDriver := c.CreateAssignZoneDriverCommandHandler()

	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:         &createOrder,
		AddOrderItem:        &addOrderItem,
		RescheduleOrder:     &rescheduleOrder,
		CancelOrder:         &cancelOrder,
		DeliverOrder:        &deliverOrder,
		ReportOrderIncident: &reportIncident,
		CloseBatch:          &closeBatch,
		AssignRouteDriver:   &assignRouteDriver,
		StartRoute:          &startRoute,
		CancelRoute:         &cancelRoute,
		CreateDeliveryZone:  &createZone,
		AssignZoneDriver:    &assignZoneDriver,
		GetBatchOrders:      c.CreateGetBatchOrdersQueryHandler(),
		GetRouteDetails:     c.CreateGetRouteDetailsQueryHandler(),
	})

	return httpin.NewRouter(ctx, server, c.metrics, c.logger.With("component", "http"))
}

// CreateJobManager builds the scheduled jobs; they are not started.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	closeBatch := c.CreateCloseBatchCommandHandler()
	return jobs.NewJobManager(c.logger,
		jobs.NewBatchClosingJob(&closeBatch, c.config.BatchCloseSchedule, c.logger),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderingUoWFactory func() commands.OrderingUoW

func (f FuncOrderingUoWFactory) Create() commands.OrderingUoW {
	return f()
}

type FuncBatchUoWFactory func() commands.BatchUoW

func (f FuncBatchUoWFactory) Create() commands.BatchUoW {
	return f()
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}

type FuncDeliveryZoneUoWFactory func() commands.DeliveryZoneUoW

func (f FuncDeliveryZoneUoWFactory) Create() commands.DeliveryZoneUoW {
	return f()
}
