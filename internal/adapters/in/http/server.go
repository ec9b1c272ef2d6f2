package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"clickboucher/internal/core/application/usecases/commands"
	"clickboucher/internal/core/application/usecases/queries"
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/realtime"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles the HTTP surface of the shop: customer admission, kitchen
// actions, the weighing flow, availability changes and the read side. It
// coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	submitOrderHandler         commands.SubmitOrderCommandHandler
	kitchenActionHandler       commands.KitchenActionCommandHandler
	resolveAlternativesHandler commands.ResolveAlternativesCommandHandler
	recordWeighingHandler      commands.RecordWeighingCommandHandler
	reviewWeightHandler        commands.ReviewWeightCommandHandler
	rateOrderHandler           commands.RateOrderCommandHandler
	shopStatusHandler          commands.ShopStatusCommandHandler

	// Query handlers
	getKitchenBoardHandler     queries.GetKitchenBoardQueryHandler
	getShopAvailabilityHandler queries.GetShopAvailabilityQueryHandler

	// Realtime fan-out for the kitchen feed
	hub *realtime.Hub
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	kitchenActionHandler commands.KitchenActionCommandHandler,
	resolveAlternativesHandler commands.ResolveAlternativesCommandHandler,
	recordWeighingHandler commands.RecordWeighingCommandHandler,
	reviewWeightHandler commands.ReviewWeightCommandHandler,
	rateOrderHandler commands.RateOrderCommandHandler,
	shopStatusHandler commands.ShopStatusCommandHandler,
	getKitchenBoardHandler queries.GetKitchenBoardQueryHandler,
	getShopAvailabilityHandler queries.GetShopAvailabilityQueryHandler,
	hub *realtime.Hub,
) *Server {
	return &Server{
		submitOrderHandler:         submitOrderHandler,
		kitchenActionHandler:       kitchenActionHandler,
		resolveAlternativesHandler: resolveAlternativesHandler,
		recordWeighingHandler:      recordWeighingHandler,
		reviewWeightHandler:        reviewWeightHandler,
		rateOrderHandler:           rateOrderHandler,
		shopStatusHandler:          shopStatusHandler,
		getKitchenBoardHandler:     getKitchenBoardHandler,
		getShopAvailabilityHandler: getShopAvailabilityHandler,
		hub:                        hub,
	}
}

// RegisterRoutes wires all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/shops/:shopId/orders", s.SubmitOrder)
	api.GET("/shops/:shopId/orders", s.GetKitchenBoard)
	api.GET("/shops/:shopId/orders/feed", s.StreamOrderFeed)
	api.GET("/shops/:shopId/availability", s.GetShopAvailability)
	api.POST("/shops/:shopId/status", s.ChangeShopStatus)

	api.POST("/orders/:orderId/actions", s.ApplyKitchenAction)
	api.POST("/orders/:orderId/resolution", s.ResolveAlternatives)
	api.POST("/orders/:orderId/weighing", s.RecordWeighing)
	api.POST("/orders/:orderId/weight-review", s.ReviewWeight)
	api.POST("/orders/:orderId/rating", s.RateOrder)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// SubmitOrder handles POST /api/v1/shops/:shopId/orders - admits a new
// order through the availability gate.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	shopID, err := kernel.UUIDFromString(ctx.Param("shopId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shop id: " + err.Error(),
		})
	}

	var request SubmitOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID := kernel.NewUUID()
	if request.OrderID != "" {
		orderID, err = kernel.UUIDFromString(request.OrderID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid order id: " + err.Error(),
			})
		}
	}

	lines := make([]commands.SubmitOrderLine, 0, len(request.Lines))
	for _, line := range request.Lines {
		productID, err := kernel.UUIDFromString(line.ProductID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid product id: " + err.Error(),
			})
		}
		lines = append(lines, commands.SubmitOrderLine{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}

	pickup := order.NewAsapPickup()
	if !request.Pickup.Asap {
		var start, end time.Time
		if request.Pickup.SlotStart != nil {
			start = *request.Pickup.SlotStart
		}
		if request.Pickup.SlotEnd != nil {
			end = *request.Pickup.SlotEnd
		}
		pickup, err = order.NewSlotPickup(start, end)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid pickup slot: " + err.Error(),
			})
		}
	}

	command, err := commands.NewSubmitOrderCommand(orderID, shopID, lines, pickup,
		order.PaymentMethod(request.PaymentMethod), request.CustomerNote, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	admitted, prepMinutes, err := s.submitOrderHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, SubmitOrderResponse{
		Order:       orderToResponse(admitted),
		PrepMinutes: prepMinutes,
	})
}

// ApplyKitchenAction handles POST /api/v1/orders/:orderId/actions - applies
// one lifecycle action (accept, deny, start_preparing, mark_ready,
// confirm_pickup, manual_pickup, add_time, item_unavailable, cancel).
func (s *Server) ApplyKitchenAction(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	var request KitchenActionRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	itemIDs := make([]kernel.UUID, 0, len(request.ItemIDs))
	for _, raw := range request.ItemIDs {
		itemID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid item id: " + err.Error(),
			})
		}
		itemIDs = append(itemIDs, itemID)
	}

	command, err := commands.NewKitchenActionCommand(orderID,
		commands.KitchenAction(request.Action), request.Minutes, request.Reason,
		itemIDs, request.PresentedCode, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid action data: " + err.Error(),
		})
	}

	updated, err := s.kitchenActionHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// ResolveAlternatives handles POST /api/v1/orders/:orderId/resolution - the
// customer's decisions on flagged items.
func (s *Server) ResolveAlternatives(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	var request ResolutionRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	decisions := make([]services.Decision, 0, len(request.Decisions))
	for _, raw := range request.Decisions {
		itemID, err := kernel.UUIDFromString(raw.ItemID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid item id: " + err.Error(),
			})
		}
		decision := services.Decision{ItemID: itemID, Remove: raw.Remove}
		if raw.ReplacementProductID != nil {
			replacementID, err := kernel.UUIDFromString(*raw.ReplacementProductID)
			if err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: "Invalid replacement product id: " + err.Error(),
				})
			}
			decision.ReplacementProductID = &replacementID
		}
		decisions = append(decisions, decision)
	}

	command, err := commands.NewResolveAlternativesCommand(orderID, decisions, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid resolution data: " + err.Error(),
		})
	}

	updated, err := s.resolveAlternativesHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// RecordWeighing handles POST /api/v1/orders/:orderId/weighing - the
// kitchen reports the actually weighed quantities.
func (s *Server) RecordWeighing(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	var request RecordWeighingRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	measurements := make([]services.Measurement, 0, len(request.Measurements))
	for _, raw := range request.Measurements {
		itemID, err := kernel.UUIDFromString(raw.ItemID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid item id: " + err.Error(),
			})
		}
		grams, err := kernel.NewGrams(raw.ActualGrams)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid weight: " + err.Error(),
			})
		}
		measurements = append(measurements, services.Measurement{
			ItemID:      itemID,
			ActualGrams: grams,
		})
	}

	command, err := commands.NewRecordWeighingCommand(orderID, measurements, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid weighing data: " + err.Error(),
		})
	}

	updated, checks, err := s.recordWeighingHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, RecordWeighingResponse{
		Order:  orderToResponse(updated),
		Checks: weightChecksToResponse(checks),
	})
}

// ReviewWeight handles POST /api/v1/orders/:orderId/weight-review - the
// customer validates or rejects the adjusted price.
func (s *Server) ReviewWeight(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	var request WeightReviewRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	command, err := commands.NewReviewWeightCommand(orderID, request.Approve, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid review data: " + err.Error(),
		})
	}

	updated, err := s.reviewWeightHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// RateOrder handles POST /api/v1/orders/:orderId/rating - rates a collected
// order.
func (s *Server) RateOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	var request RateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	command, err := commands.NewRateOrderCommand(orderID, request.Score,
		request.Comment, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid rating data: " + err.Error(),
		})
	}

	updated, err := s.rateOrderHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// ChangeShopStatus handles POST /api/v1/shops/:shopId/status - one
// availability change (pause, resume, busy, end_busy, vacation,
// end_vacation, close).
func (s *Server) ChangeShopStatus(ctx echo.Context) error {
	shopID, err := kernel.UUIDFromString(ctx.Param("shopId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shop id: " + err.Error(),
		})
	}

	var request ShopStatusRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	command, err := commands.NewShopStatusCommand(shopID,
		commands.ShopStatusAction(request.Action), request.Minutes,
		request.ExtraMinutes, request.Reason, request.Until, request.Message,
		time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid status data: " + err.Error(),
		})
	}

	if _, err := s.shopStatusHandler.Handle(ctx.Request().Context(), command); err != nil {
		return errorResponse(ctx, err)
	}

	return s.availabilitySnapshot(ctx, shopID)
}

// GetKitchenBoard handles GET /api/v1/shops/:shopId/orders - the kitchen
// board snapshot (open orders plus recent history).
func (s *Server) GetKitchenBoard(ctx echo.Context) error {
	shopID, err := kernel.UUIDFromString(ctx.Param("shopId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shop id: " + err.Error(),
		})
	}

	query, err := queries.NewGetKitchenBoardQuery(shopID, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query data: " + err.Error(),
		})
	}

	board, err := s.getKitchenBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, boardToResponse(board))
}

// GetShopAvailability handles GET /api/v1/shops/:shopId/availability - the
// resolved effective state with countdowns.
func (s *Server) GetShopAvailability(ctx echo.Context) error {
	shopID, err := kernel.UUIDFromString(ctx.Param("shopId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shop id: " + err.Error(),
		})
	}

	return s.availabilitySnapshot(ctx, shopID)
}

// StreamOrderFeed handles GET /api/v1/shops/:shopId/orders/feed - streams
// order-changed events for one shop as server-sent events until the client
// disconnects.
func (s *Server) StreamOrderFeed(ctx echo.Context) error {
	shopID, err := kernel.UUIDFromString(ctx.Param("shopId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shop id: " + err.Error(),
		})
	}

	// Subscribe before reading the snapshot so no transition committed in
	// between is lost; a duplicate event is harmless, a gap is not.
	subscription := s.hub.Subscribe(shopID, realtime.DefaultSubscriptionBuffer)
	defer subscription.Close()

	query, err := queries.NewGetKitchenBoardQuery(shopID, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query data: " + err.Error(),
		})
	}
	board, err := s.getKitchenBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")
	response.WriteHeader(http.StatusOK)

	if snapshot, err := json.Marshal(boardToResponse(board)); err == nil {
		fmt.Fprintf(response, "event: snapshot\ndata: %s\n\n", snapshot)
	}
	response.Flush()

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event, ok := <-subscription.Events():
			if !ok {
				return nil
			}
			payload, err := json.Marshal(feedEvent{
				OrderID: event.OrderID.String(),
				Number:  event.Number,
				Status:  event.Status.String(),
				At:      event.At,
			})
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(response, "event: order_changed\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			response.Flush()
		}
	}
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// feedEvent is the SSE wire form of one order-changed event.
type feedEvent struct {
	OrderID string    `json:"order_id"`
	Number  int64     `json:"number"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

func (s *Server) availabilitySnapshot(ctx echo.Context, shopID kernel.UUID) error {
	query, err := queries.NewGetShopAvailabilityQuery(shopID, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query data: " + err.Error(),
		})
	}

	snapshot, err := s.getShopAvailabilityHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, availabilityToResponse(snapshot))
}

// errorResponse maps application errors onto HTTP statuses: missing objects
// to 404, lost races and rejected admissions to 409, partial stock
// decisions to 422, bad values to 400. Everything unrecognized stays a 500
// with a generic message.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrAdmissionRejected),
		errors.Is(err, errs.ErrStateConflict),
		errors.Is(err, order.ErrPickupTokenMismatch):
		code, message = http.StatusConflict, err.Error()
	case errors.Is(err, errs.ErrIncompleteDecision):
		code, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		code, message = http.StatusBadRequest, err.Error()
	}

	return ctx.JSON(code, Error{Code: code, Message: message})
}
