package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "lastmile/internal/adapters/in/http"
	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/zone"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCommandHandler[C any] struct{ mock.Mock }

func (m *mockCommandHandler[C]) Handle(ctx context.Context, cmd C) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockQueryHandler[Q, R any] struct{ mock.Mock }

func (m *mockQueryHandler[Q, R]) Handle(ctx context.Context, q Q) (R, error) {
	args := m.Called(ctx, q)
	r, _ := args.Get(0).(R)
	return r, args.Error(1)
}

type fixture struct {
	createOrder    *mockCommandHandler[commands.CreateOrderCommand]
	addItem        *mockCommandHandler[commands.AddOrderItemCommand]
	cancelOrder    *mockCommandHandler[commands.CancelOrderCommand]
	deliverOrder   *mockCommandHandler[commands.DeliverOrderCommand]
	reportIncident *mockCommandHandler[commands.ReportOrderIncidentCommand]
	closeBatch     *mockQueryHandler[commands.CloseBatchCommand, kernel.UUID]
	assignDriver   *mockCommandHandler[commands.AssignRouteDriverCommand]
	createZone     *mockCommandHandler[commands.CreateDeliveryZoneCommand]
	batchOrders    *mockQueryHandler[queries.GetBatchOrdersQuery, []queries.GetBatchOrdersQueryResponse]
	routeDetails   *mockQueryHandler[queries.GetRouteDetailsQuery, queries.GetRouteDetailsQueryResponse]

	metrics *metrics.Metrics
	e       *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		createOrder:    &mockCommandHandler[commands.CreateOrderCommand]{},
		addItem:        &mockCommandHandler[commands.AddOrderItemCommand]{},
		cancelOrder:    &mockCommandHandler[commands.CancelOrderCommand]{},
		deliverOrder:   &mockCommandHandler[commands.DeliverOrderCommand]{},
		reportIncident: &mockCommandHandler[commands.ReportOrderIncidentCommand]{},
		closeBatch:     &mockQueryHandler[commands.CloseBatchCommand, kernel.UUID]{},
		assignDriver:   &mockCommandHandler[commands.AssignRouteDriverCommand]{},
		createZone:     &mockCommandHandler[commands.CreateDeliveryZoneCommand]{},
		batchOrders:    &mockQueryHandler[queries.GetBatchOrdersQuery, []queries.GetBatchOrdersQueryResponse]{},
		routeDetails:   &mockQueryHandler[queries.GetRouteDetailsQuery, queries.GetRouteDetailsQueryResponse]{},
		metrics:        metrics.New(),
	}

	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:         f.createOrder,
		AddOrderItem:        f.addItem,
		RescheduleOrder:     &mockCommandHandler[commands.RescheduleOrderCommand]{},
		CancelOrder:         f.cancelOrder,
		DeliverOrder:        f.deliverOrder,
		ReportOrderIncident: f.reportIncident,
		CloseBatch:          f.closeBatch,
		AssignRouteDriver:   f.assignDriver,
		StartRoute:          &mockCommandHandler[commands.StartRouteCommand]{},
		CancelRoute:         &mockCommandHandler[commands.CancelRouteCommand]{},
		CreateDeliveryZone:  f.createZone,
		AssignZoneDriver:    &mockCommandHandler[commands.AssignZoneDriverCommand]{},
		GetBatchOrders:      f.batchOrders,
		GetRouteDetails:     f.routeDetails,
	})

	e, err := httpadapter.NewRouter(t.Context(), server, f.metrics, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	f.e = e

	return f
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doJSON(method, target, body string) *httptest.ResponseRecorder {
	return f.do(method, target, strings.NewReader(body), echo.MIMEApplicationJSON)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.Error {
	t.Helper()
	var body httpadapter.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const validOrder = `{
	"customerId": "5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01",
	"deliveryAddress": "Av. Paulista 1000",
	"location": {"latitude": -23.5614, "longitude": -46.6559},
	"scheduledDate": "2030-05-10",
	"items": [{"productId": "0b7c2f3e-1d5a-4e8f-9a6b-2c4d6e8f0a1b", "quantity": 2}]
}`

func TestCreateOrder_Created(t *testing.T) {
	f := newFixture(t)

	var captured commands.CreateOrderCommand
	f.createOrder.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(commands.CreateOrderCommand) }).
		Return(nil)

	rec := f.doJSON(http.MethodPost, "/api/v1/orders", validOrder)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created httpadapter.Created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, captured.OrderID().String(), created.ID)

	assert.Equal(t, "5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01", captured.CustomerID().String())
	assert.Equal(t, "Av. Paulista 1000", captured.DeliveryAddress())
	assert.InDelta(t, -23.5614, captured.Location().Latitude(), 1e-9)
	assert.Equal(t, time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC), captured.ScheduledDate())
	require.Len(t, captured.Lines(), 1)
	assert.Equal(t, 2, captured.Lines()[0].Quantity)
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"customerId":`},
		{name: "missing location", body: `{"customerId":"5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01","deliveryAddress":"x","scheduledDate":"2030-05-10"}`},
		{name: "latitude out of range", body: strings.Replace(validOrder, "-23.5614", "-123.5", 1)},
		{name: "bad date", body: strings.Replace(validOrder, "2030-05-10", "10/05/2030", 1)},
		{name: "zero quantity", body: strings.Replace(validOrder, `"quantity": 2`, `"quantity": 0`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.doJSON(http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Request.Invalid", decodeError(t, rec).Code)
			f.createOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        errs.NewObjectNotFoundError("order", "42"),
			wantStatus: http.StatusNotFound,
			wantCode:   "General.NotFound",
		},
		{
			name:       "invalid transition",
			err:        order.ErrCannotModifyOrderThatIsNotPending,
			wantStatus: http.StatusBadRequest,
			wantCode:   "Order.CannotModifyOrderThatIsNotPending",
		},
		{
			name:       "conflict",
			err:        commands.ErrZoneCodeAlreadyExists,
			wantStatus: http.StatusConflict,
			wantCode:   commands.ErrZoneCodeAlreadyExists.Code,
		},
		{
			name:       "unexpected",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "General.Problem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cancelOrder.On("Handle", mock.Anything, mock.Anything).Return(tt.err)

			rec := f.do(http.MethodPost, "/api/v1/orders/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/cancel", nil, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Message, "connection refused")
		})
	}
}

func TestPathParameter_InvalidUUID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders/not-a-uuid/cancel", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request.Invalid", decodeError(t, rec).Code)
	f.cancelOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAddOrderItem(t *testing.T) {
	f := newFixture(t)
	f.addItem.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AddOrderItemCommand) bool {
		return cmd.OrderID().String() == "5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01" && cmd.Quantity() == 3
	})).Return(nil)

	rec := f.doJSON(http.MethodPost, "/api/v1/orders/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/items",
		`{"productId":"0b7c2f3e-1d5a-4e8f-9a6b-2c4d6e8f0a1b","quantity":3}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.addItem.AssertExpectations(t)
}

func TestDeliverOrder_Multipart(t *testing.T) {
	f := newFixture(t)

	var (
		receiver string
		filename string
		content  []byte
	)
	f.deliverOrder.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(commands.DeliverOrderCommand)
			receiver = cmd.ReceiverName()
			filename = cmd.Proof().Filename
			content, _ = io.ReadAll(cmd.Proof().Body)
		}).
		Return(nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("receiverName", "Maria Silva"))
	part, err := w.CreateFormFile("proof", "signature.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := f.do(http.MethodPost, "/api/v1/orders/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/deliver",
		&body, w.FormDataContentType())

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, "Maria Silva", receiver)
	assert.Equal(t, "signature.jpg", filename)
	assert.Equal(t, []byte("jpeg-bytes"), content)
}

func TestDeliverOrder_WithoutProof(t *testing.T) {
	f := newFixture(t)
	f.deliverOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DeliverOrderCommand) bool {
		return cmd.Proof() == nil && cmd.ReceiverName() == "Maria Silva"
	})).Return(nil)

	rec := f.do(http.MethodPost, "/api/v1/orders/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/deliver",
		strings.NewReader("receiverName=Maria+Silva"), echo.MIMEApplicationForm)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.deliverOrder.AssertExpectations(t)
}

func TestReportOrderIncident_UnknownKind(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(http.MethodPost, "/api/v1/orders/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/incident",
		`{"kind":"Abducted"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.reportIncident.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCloseBatch(t *testing.T) {
	f := newFixture(t)
	closedID := kernel.NewUUID()
	f.closeBatch.On("Handle", mock.Anything, mock.Anything).Return(closedID, nil)

	rec := f.do(http.MethodPost, "/api/v1/batches/close", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var created httpadapter.Created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, closedID.String(), created.ID)
}

func TestCloseBatch_NoOpenBatch(t *testing.T) {
	f := newFixture(t)
	f.closeBatch.On("Handle", mock.Anything, mock.Anything).
		Return(kernel.UUID{}, errs.NewObjectNotFoundError("open batch", "-"))

	rec := f.do(http.MethodPost, "/api/v1/batches/close", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBatchOrders_StatusFilter(t *testing.T) {
	f := newFixture(t)
	location, err := kernel.NewGeoPoint(-23.56, -46.65)
	require.NoError(t, err)
	routeID := kernel.NewUUID()
	sequence := 1

	f.batchOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetBatchOrdersQuery) bool {
		return assert.ObjectsAreEqual([]order.Status{order.Pending, order.InTransit}, q.Statuses())
	})).Return([]queries.GetBatchOrdersQueryResponse{{
		ID:                    kernel.NewUUID(),
		CustomerID:            kernel.NewUUID(),
		RouteID:               &routeID,
		DeliverySequence:      &sequence,
		Status:                "InTransit",
		ScheduledDeliveryDate: time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC),
		DeliveryAddress:       "Rua Augusta 500",
		Location:              location,
	}}, nil)

	rec := f.do(http.MethodGet,
		"/api/v1/batches/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/orders?status=Pending&status=InTransit", nil, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var orders []httpadapter.OrderSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, routeID.String(), *orders[0].RouteID)
	assert.Equal(t, "2030-05-10", orders[0].ScheduledDate)
	assert.Equal(t, 1, *orders[0].DeliverySequence)
}

func TestGetBatchOrders_UnknownStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/batches/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/orders?status=Lost", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.batchOrders.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestGetRoute(t *testing.T) {
	f := newFixture(t)
	origin, err := kernel.NewGeoPoint(-23.55, -46.63)
	require.NoError(t, err)
	routeID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	f.routeDetails.On("Handle", mock.Anything, mock.Anything).Return(queries.GetRouteDetailsQueryResponse{
		ID:             routeID,
		BatchID:        kernel.NewUUID(),
		DeliveryZoneID: kernel.NewUUID(),
		Status:         "Pending",
		Origin:         origin,
		CreatedAt:      time.Date(2030, 5, 9, 18, 0, 0, 0, time.UTC),
		Stops: []queries.RouteStop{{
			OrderID:         orderID,
			Sequence:        1,
			Status:          "InTransit",
			DeliveryAddress: "Rua Augusta 500",
			Location:        origin,
		}},
	}, nil)

	rec := f.do(http.MethodGet, "/api/v1/routes/"+routeID.String(), nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var details httpadapter.RouteDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, routeID.String(), details.ID)
	assert.Nil(t, details.DriverID)
	assert.Nil(t, details.StartedAt)
	require.Len(t, details.Stops, 1)
	assert.Equal(t, orderID.String(), details.Stops[0].OrderID)
}

func TestAssignRouteDriver_NullClearsDriver(t *testing.T) {
	f := newFixture(t)
	f.assignDriver.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignRouteDriverCommand) bool {
		return cmd.DriverID() == nil
	})).Return(nil)

	rec := f.doJSON(http.MethodPut, "/api/v1/routes/5a0f0d6e-8a43-4b8b-9d4a-3f7c1a2b9c01/driver", `{"driverId":null}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.assignDriver.AssertExpectations(t)
}

const paulistaZone = `{
	"code": "SPA-001",
	"name": "Paulista",
	"boundary": [
		{"latitude": -23.55, "longitude": -46.66},
		{"latitude": -23.55, "longitude": -46.64},
		{"latitude": -23.57, "longitude": -46.65}
	]
}`

func TestCreateDeliveryZone(t *testing.T) {
	f := newFixture(t)
	f.createZone.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateDeliveryZoneCommand) bool {
		coords := cmd.Boundary().Coordinates()
		return cmd.Code() == "SPA-001" && len(coords) == 4 && coords[0].IsEqual(coords[3])
	})).Return(nil)

	rec := f.doJSON(http.MethodPost, "/api/v1/delivery-zones", paulistaZone)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f.createZone.AssertExpectations(t)
}

func TestCreateDeliveryZone_InvalidCode(t *testing.T) {
	f := newFixture(t)
	f.createZone.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateDeliveryZoneCommand) bool {
		return cmd.Code() == "SP-01"
	})).Return(zone.ErrInvalidCode.WithMessage("zone code %q must match AAA-000", "SP-01"))

	rec := f.doJSON(http.MethodPost, "/api/v1/delivery-zones", strings.Replace(paulistaZone, "SPA-001", "SP-01", 1))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, zone.ErrInvalidCode.Code, decodeError(t, rec).Code)
	f.createZone.AssertExpectations(t)
}

func TestCreateDeliveryZone_TooFewPoints(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(http.MethodPost, "/api/v1/delivery-zones",
		`{"code":"SPA-001","name":"Paulista","boundary":[{"latitude":1,"longitude":1}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.createZone.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServiceEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/openapi.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/routes/{routeId}")

	rec = f.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/health")
}

func TestOpenAPIDocument_IsValid(t *testing.T) {
	doc, err := httpadapter.OpenAPIDocument(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/orders/{orderId}/deliver"))
}
