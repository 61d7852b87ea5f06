// Package http exposes the order management API over echo.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/application/usecases/queries"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/core/domain/model/order"
	"ordercore/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler  commands.CreateOrderCommandHandler
	changeStatusHandler commands.ChangeOrderStatusCommandHandler
	cancelOrderHandler  commands.CancelOrderCommandHandler
	getOrderHandler     queries.GetOrderQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:  createOrderHandler,
		changeStatusHandler: changeStatusHandler,
		cancelOrderHandler:  cancelOrderHandler,
		getOrderHandler:     getOrderHandler,
	}
}

// RegisterRoutes attaches the API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PATCH("/orders/:orderId/status", s.ChangeOrderStatus)
	api.DELETE("/orders/:orderId", s.CancelOrder)
}

// ErrorResponse is the JSON error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItemRequest is one requested order line.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerID     string             `json:"customer_id"`
	IdempotencyKey string             `json:"idempotency_key"`
	Observations   string             `json:"observations"`
	Items          []OrderItemRequest `json:"items"`
}

// ChangeOrderStatusRequest is the body of PATCH /orders/{id}/status.
type ChangeOrderStatusRequest struct {
	Status    string  `json:"status"`
	ChangedBy *string `json:"changed_by"`
	Note      string  `json:"note"`
}

// CancelOrderRequest is the optional body of DELETE /orders/{id}.
type CancelOrderRequest struct {
	CanceledBy *string `json:"canceled_by"`
	Note       string  `json:"note"`
}

// OrderSummaryResponse is the order representation returned by commands.
type OrderSummaryResponse struct {
	ID     string          `json:"id"`
	Number string          `json:"number"`
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

// OrderItemResponse is one order line of the read model.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// StatusChangeResponse is one audit record of the read model.
type StatusChangeResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  *string   `json:"changed_by"`
	Note       string    `json:"note"`
}

// OrderResponse is the full order returned by GET /orders/{id}.
type OrderResponse struct {
	ID           string                 `json:"id"`
	CustomerID   string                 `json:"customer_id"`
	Number       string                 `json:"number"`
	Status       string                 `json:"status"`
	Total        decimal.Decimal        `json:"total"`
	Observations string                 `json:"observations,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Items        []OrderItemResponse    `json:"items"`
	History      []StatusChangeResponse `json:"history"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders. Returns 201 when a new order was
// created and 200 with the existing order when the idempotency key was seen
// before.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("customerId", err))
	}

	items := make([]commands.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, parseErr := kernel.UUIDFromString(item.ProductID)
		if parseErr != nil {
			return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("productId", parseErr))
		}

		input, inputErr := commands.NewOrderItemInput(productID, item.Quantity)
		if inputErr != nil {
			return errorJSON(ctx, inputErr)
		}
		items = append(items, input)
	}

	cmd, err := commands.NewCreateOrderCommand(customerID, req.IdempotencyKey, req.Observations, items)
	if err != nil {
		return errorJSON(ctx, err)
	}

	anOrder, created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return ctx.JSON(status, orderSummary(anOrder))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorJSON(ctx, err)
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderView(resp))
}

// ChangeOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	var req ChangeOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	changedBy, err := optionalUUID(req.ChangedBy, "changedBy")
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Status(req.Status), changedBy, req.Note)
	if err != nil {
		return errorJSON(ctx, err)
	}

	anOrder, err := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderSummary(anOrder))
}

// CancelOrder handles DELETE /api/v1/orders/{orderId}. The order is retained
// in CANCELED status with its audit history.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorJSON(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	var req CancelOrderRequest
	// The body is optional on cancel.
	_ = ctx.Bind(&req)

	canceledBy, err := optionalUUID(req.CanceledBy, "canceledBy")
	if err != nil {
		return errorJSON(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, canceledBy, req.Note)
	if err != nil {
		return errorJSON(ctx, err)
	}

	anOrder, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderSummary(anOrder))
}

func optionalUUID(raw *string, paramName string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(paramName, err)
	}
	return &id, nil
}

func orderSummary(anOrder *order.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:     anOrder.ID().String(),
		Number: anOrder.Number(),
		Status: anOrder.Status().String(),
		Total:  anOrder.Total(),
	}
}

func orderView(resp queries.GetOrderQueryResponse) OrderResponse {
	items := make([]OrderItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	history := make([]StatusChangeResponse, 0, len(resp.History))
	for _, change := range resp.History {
		var changedBy *string
		if change.ChangedBy != nil {
			s := change.ChangedBy.String()
			changedBy = &s
		}
		history = append(history, StatusChangeResponse{
			FromStatus: change.FromStatus,
			ToStatus:   change.ToStatus,
			ChangedAt:  change.ChangedAt,
			ChangedBy:  changedBy,
			Note:       change.Note,
		})
	}

	return OrderResponse{
		ID:           resp.ID.String(),
		CustomerID:   resp.CustomerID.String(),
		Number:       resp.Number,
		Status:       resp.Status,
		Total:        resp.Total,
		Observations: resp.Observations,
		CreatedAt:    resp.CreatedAt,
		UpdatedAt:    resp.UpdatedAt,
		Items:        items,
		History:      history,
	}
}

// errorJSON maps application errors to HTTP status codes: validation
// failures to 400, missing objects to 404, business conflicts to 409,
// anything else to 500.
func errorJSON(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}
