package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface has one method per operation of openapi.yaml. Path and
// query parameters arrive already bound.
type ServerInterface interface {
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (POST /orders/{orderId}/items)
	AddOrderItem(ctx echo.Context, orderID openapi_types.UUID) error
	// (PUT /orders/{orderId}/schedule)
	RescheduleOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/deliver)
	DeliverOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/incident)
	ReportOrderIncident(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /batches/close)
	CloseBatch(ctx echo.Context) error
	// (GET /batches/{batchId}/orders)
	GetBatchOrders(ctx echo.Context, batchID openapi_types.UUID, params GetBatchOrdersParams) error
	// (GET /routes/{routeId})
	GetRoute(ctx echo.Context, routeID openapi_types.UUID) error
	// (PUT /routes/{routeId}/driver)
	AssignRouteDriver(ctx echo.Context, routeID openapi_types.UUID) error
	// (POST /routes/{routeId}/start)
	StartRoute(ctx echo.Context, routeID openapi_types.UUID) error
	// (POST /routes/{routeId}/cancel)
	CancelRoute(ctx echo.Context, routeID openapi_types.UUID) error
	// (POST /delivery-zones)
	CreateDeliveryZone(ctx echo.Context) error
	// (PUT /delivery-zones/{zoneId}/driver)
	AssignZoneDriver(ctx echo.Context, zoneID openapi_types.UUID) error
}

type GetBatchOrdersParams struct {
	// Status restricts the result to these statuses; nil means all.
	Status *[]string `form:"status,omitempty" json:"status,omitempty"`
}

// ServerInterfaceWrapper binds parameters and forwards to the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindUUIDPathParam(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) AddOrderItem(ctx echo.Context) error {
	orderID, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.AddOrderItem(ctx, orderID)
}

func (w *ServerInterfaceWrapper) RescheduleOrder(ctx echo.Context) error {
	orderID, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.RescheduleOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderID, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) DeliverOrder(ctx echo.Context) error {
	orderID, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.DeliverOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) ReportOrderIncident(ctx echo.Context) error {
	orderID, err := bindUUIDPathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ReportOrderIncident(ctx, orderID)
}

func (w *ServerInterfaceWrapper) CloseBatch(ctx echo.Context) error {
	return w.Handler.CloseBatch(ctx)
}

func (w *ServerInterfaceWrapper) GetBatchOrders(ctx echo.Context) error {
	batchID, err := bindUUIDPathParam(ctx, "batchId")
	if err != nil {
		return err
	}

	var params GetBatchOrdersParams
	err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.GetBatchOrders(ctx, batchID, params)
}

func (w *ServerInterfaceWrapper) GetRoute(ctx echo.Context) error {
	routeID, err := bindUUIDPathParam(ctx, "routeId")
	if err != nil {
		return err
	}
	return w.Handler.GetRoute(ctx, routeID)
}

func (w *ServerInterfaceWrapper) AssignRouteDriver(ctx echo.Context) error {
	routeID, err := bindUUIDPathParam(ctx, "routeId")
	if err != nil {
		return err
	}
	return w.Handler.AssignRouteDriver(ctx, routeID)
}

func (w *ServerInterfaceWrapper) StartRoute(ctx echo.Context) error {
	routeID, err := bindUUIDPathParam(ctx, "routeId")
	if err != nil {
		return err
	}
	return w.Handler.StartRoute(ctx, routeID)
}

func (w *ServerInterfaceWrapper) CancelRoute(ctx echo.Context) error {
	routeID, err := bindUUIDPathParam(ctx, "routeId")
	if err != nil {
		return err
	}
	return w.Handler.CancelRoute(ctx, routeID)
}

func (w *ServerInterfaceWrapper) CreateDeliveryZone(ctx echo.Context) error {
	return w.Handler.CreateDeliveryZone(ctx)
}

func (w *ServerInterfaceWrapper) AssignZoneDriver(ctx echo.Context) error {
	zoneID, err := bindUUIDPathParam(ctx, "zoneId")
	if err != nil {
		return err
	}
	return w.Handler.AssignZoneDriver(ctx, zoneID)
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlersWithBaseURL mounts every operation under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.POST(baseURL+"/orders/:orderId/items", wrapper.AddOrderItem)
	router.PUT(baseURL+"/orders/:orderId/schedule", wrapper.RescheduleOrder)
	router.POST(baseURL+"/orders/:orderId/cancel", wrapper.CancelOrder)
	router.POST(baseURL+"/orders/:orderId/deliver", wrapper.DeliverOrder)
	router.POST(baseURL+"/orders/:orderId/incident", wrapper.ReportOrderIncident)
	router.POST(baseURL+"/batches/close", wrapper.CloseBatch)
	router.GET(baseURL+"/batches/:batchId/orders", wrapper.GetBatchOrders)
	router.GET(baseURL+"/routes/:routeId", wrapper.GetRoute)
	router.PUT(baseURL+"/routes/:routeId/driver", wrapper.AssignRouteDriver)
	router.POST(baseURL+"/routes/:routeId/start", wrapper.StartRoute)
	router.POST(baseURL+"/routes/:routeId/cancel", wrapper.CancelRoute)
	router.POST(baseURL+"/delivery-zones", wrapper.CreateDeliveryZone)
	router.PUT(baseURL+"/delivery-zones/:zoneId/driver", wrapper.AssignZoneDriver)
}
