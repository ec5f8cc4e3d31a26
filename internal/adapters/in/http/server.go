package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrProofIsUnreadable is returned when the multipart proof part cannot be opened.
var ErrProofIsUnreadable = errs.NewValidationError("Request.ProofUnreadable", "proof file cannot be read")

type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder         CommandHandler[commands.CreateOrderCommand]
	AddOrderItem        CommandHandler[commands.AddOrderItemCommand]
	RescheduleOrder     CommandHandler[commands.RescheduleOrderCommand]
	CancelOrder         CommandHandler[commands.CancelOrderCommand]
	DeliverOrder        CommandHandler[commands.DeliverOrderCommand]
	ReportOrderIncident CommandHandler[commands.ReportOrderIncidentCommand]
	CloseBatch          QueryHandler[commands.CloseBatchCommand, kernel.UUID]
	AssignRouteDriver   CommandHandler[commands.AssignRouteDriverCommand]
	StartRoute          CommandHandler[commands.StartRouteCommand]
	CancelRoute         CommandHandler[commands.CancelRouteCommand]
	CreateDeliveryZone  CommandHandler[commands.CreateDeliveryZoneCommand]
	AssignZoneDriver    CommandHandler[commands.AssignZoneDriverCommand]

	GetBatchOrders  QueryHandler[queries.GetBatchOrdersQuery, []queries.GetBatchOrdersQueryResponse]
	GetRouteDetails QueryHandler[queries.GetRouteDetailsQuery, queries.GetRouteDetailsQueryResponse]
}

// Server implements ServerInterface on top of the application use cases.
// Handler errors are returned unchanged and translated by ErrorHandler.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

var _ ServerInterface = (*Server)(nil)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	orderID, err := domainID(body.ID)
	if err != nil {
		return err
	}
	customerID, err := kernel.UUIDFromBytes(body.CustomerID[:])
	if err != nil {
		return err
	}
	location, err := body.Location.toDomain()
	if err != nil {
		return err
	}
	scheduled, err := parseDate(body.ScheduledDate)
	if err != nil {
		return err
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		productID, idErr := kernel.UUIDFromBytes(item.ProductID[:])
		if idErr != nil {
			return idErr
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, body.DeliveryAddress, location, scheduled, lines)
	if err != nil {
		return err
	}
	if err = s.h.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, Created{ID: orderID.String()})
}

// AddOrderItem handles POST /api/v1/orders/{orderId}/items.
func (s *Server) AddOrderItem(ctx echo.Context, orderID openapi_types.UUID) error {
	var body OrderItem
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	id, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return err
	}
	productID, err := kernel.UUIDFromBytes(body.ProductID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddOrderItemCommand(id, productID, body.Quantity)
	if err != nil {
		return err
	}
	if err = s.h.AddOrderItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RescheduleOrder handles PUT /api/v1/orders/{orderId}/schedule.
func (s *Server) RescheduleOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	var body Reschedule
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	id, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return err
	}
	date, err := parseDate(body.ScheduledDate)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRescheduleOrderCommand(id, date)
	if err != nil {
		return err
	}
	if err = s.h.RescheduleOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeliverOrder handles POST /api/v1/orders/{orderId}/deliver. The body is
// multipart: a receiverName field and an optional proof file.
func (s *Server) DeliverOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return err
	}

	var proof *commands.ProofFile
	header, err := ctx.FormFile("proof")
	switch {
	case err == nil:
		file, openErr := header.Open()
		if openErr != nil {
			return ErrProofIsUnreadable.WithMessage("proof file cannot be read: %v", openErr)
		}
		defer file.Close()

		proof = &commands.ProofFile{
			Body:        file,
			Filename:    header.Filename,
			ContentType: header.Header.Get(echo.HeaderContentType),
		}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return echo.NewHTTPError(http.StatusBadRequest, "malformed multipart body")
	}

	cmd, err := commands.NewDeliverOrderCommand(id, ctx.FormValue("receiverName"), proof)
	if err != nil {
		return err
	}
	if err = s.h.DeliverOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportOrderIncident handles POST /api/v1/orders/{orderId}/incident.
func (s *Server) ReportOrderIncident(ctx echo.Context, orderID openapi_types.UUID) error {
	var body Incident
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	id, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewReportOrderIncidentCommand(id, order.IncidentKind(body.Kind), body.Description)
	if err != nil {
		return err
	}
	if err = s.h.ReportOrderIncident.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CloseBatch handles POST /api/v1/batches/close.
func (s *Server) CloseBatch(ctx echo.Context) error {
	closedID, err := s.h.CloseBatch.Handle(ctx.Request().Context(), commands.NewCloseBatchCommand())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, Created{ID: closedID.String()})
}

// GetBatchOrders handles GET /api/v1/batches/{batchId}/orders.
func (s *Server) GetBatchOrders(ctx echo.Context, batchID openapi_types.UUID, params GetBatchOrdersParams) error {
	id, err := kernel.UUIDFromBytes(batchID[:])
	if err != nil {
		return err
	}

	var statuses []order.Status
	if params.Status != nil {
		for _, name := range *params.Status {
			status, parseErr := order.ParseStatus(name)
			if parseErr != nil {
				return parseErr
			}
			statuses = append(statuses, status)
		}
	}

	query, err := queries.NewGetBatchOrdersQuery(id, statuses...)
	if err != nil {
		return err
	}
	orders, err := s.h.GetBatchOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		response = append(response, orderSummaryOf(o))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetRoute handles GET /api/v1/routes/{routeId}.
func (s *Server) GetRoute(ctx echo.Context, routeID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(routeID[:])
	if err != nil {
		return err
	}

	query, err := queries.NewGetRouteDetailsQuery(id)
	if err != nil {
		return err
	}
	details, err := s.h.GetRouteDetails.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, routeDetailsOf(details))
}

// AssignRouteDriver handles PUT /api/v1/routes/{routeId}/driver.
func (s *Server) AssignRouteDriver(ctx echo.Context, routeID openapi_types.UUID) error {
	var body DriverAssignment
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	id, err := kernel.UUIDFromBytes(routeID[:])
	if err != nil {
		return err
	}
	driverID, err := optionalDomainID(body.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignRouteDriverCommand(id, driverID)
	if err != nil {
		return err
	}
	if err = s.h.AssignRouteDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartRoute handles POST /api/v1/routes/{routeId}/start.
func (s *Server) StartRoute(ctx echo.Context, routeID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(routeID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewStartRouteCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.StartRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelRoute handles POST /api/v1/routes/{routeId}/cancel.
func (s *Server) CancelRoute(ctx echo.Context, routeID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(routeID[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelRouteCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.CancelRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateDeliveryZone handles POST /api/v1/delivery-zones.
func (s *Server) CreateDeliveryZone(ctx echo.Context) error {
	var body NewDeliveryZone
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	zoneID, err := domainID(body.ID)
	if err != nil {
		return err
	}
	driverID, err := optionalDomainID(body.DriverID)
	if err != nil {
		return err
	}

	points := make([]kernel.GeoPoint, 0, len(body.Boundary))
	for _, p := range body.Boundary {
		point, pointErr := p.toDomain()
		if pointErr != nil {
			return pointErr
		}
		points = append(points, point)
	}

	cmd, err := commands.NewCreateDeliveryZoneCommand(zoneID, body.Code, body.Name, points, driverID)
	if err != nil {
		return err
	}
	if err = s.h.CreateDeliveryZone.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, Created{ID: zoneID.String()})
}

// AssignZoneDriver handles PUT /api/v1/delivery-zones/{zoneId}/driver.
func (s *Server) AssignZoneDriver(ctx echo.Context, zoneID openapi_types.UUID) error {
	var body DriverAssignment
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	id, err := kernel.UUIDFromBytes(zoneID[:])
	if err != nil {
		return err
	}
	driverID, err := optionalDomainID(body.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignZoneDriverCommand(id, driverID)
	if err != nil {
		return err
	}
	if err = s.h.AssignZoneDriver.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func bindAndValidate(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return err
	}
	return ctx.Validate(body)
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("scheduled date", err)
	}
	return date, nil
}
