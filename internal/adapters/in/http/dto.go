package http

import (
	"time"

	"clickboucher/internal/core/application/usecases/queries"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/services"
)

// Error is the JSON error body every failing endpoint returns.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SubmitOrderRequest is the admission payload. OrderID is the client-side
// identity of the order, supplied so retries stay idempotent; when omitted
// the server mints one.
type SubmitOrderRequest struct {
	OrderID       string             `json:"order_id,omitempty"`
	Lines         []OrderLineRequest `json:"lines"`
	Pickup        PickupRequest      `json:"pickup"`
	PaymentMethod string             `json:"payment_method"`
	CustomerNote  string             `json:"customer_note,omitempty"`
}

// OrderLineRequest is one requested position: grams for weight goods,
// pieces for count goods.
type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// PickupRequest is the requested collection time.
type PickupRequest struct {
	Asap      bool       `json:"asap"`
	SlotStart *time.Time `json:"slot_start,omitempty"`
	SlotEnd   *time.Time `json:"slot_end,omitempty"`
}

// KitchenActionRequest is one lifecycle action on an order. The payload
// fields are action-specific; unused ones stay empty.
type KitchenActionRequest struct {
	Action        string   `json:"action"`
	Minutes       int      `json:"minutes,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	ItemIDs       []string `json:"item_ids,omitempty"`
	PresentedCode string   `json:"presented_code,omitempty"`
}

// ResolutionRequest carries the customer's verdict for every flagged item.
type ResolutionRequest struct {
	Decisions []DecisionRequest `json:"decisions"`
}

// DecisionRequest is one verdict: remove the item, or replace it.
type DecisionRequest struct {
	ItemID               string  `json:"item_id"`
	Remove               bool    `json:"remove"`
	ReplacementProductID *string `json:"replacement_product_id,omitempty"`
}

// RecordWeighingRequest carries the actually weighed quantities.
type RecordWeighingRequest struct {
	Measurements []MeasurementRequest `json:"measurements"`
}

// MeasurementRequest is one item's weighed quantity in grams.
type MeasurementRequest struct {
	ItemID      string `json:"item_id"`
	ActualGrams int64  `json:"actual_grams"`
}

// WeightReviewRequest is the customer's answer to a frozen new price.
type WeightReviewRequest struct {
	Approve bool `json:"approve"`
}

// RateOrderRequest is the post-pickup rating.
type RateOrderRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// ShopStatusRequest is one availability change. Payload fields are
// action-specific: minutes and reason for pause, extra and duration minutes
// for busy, until and message for vacation.
type ShopStatusRequest struct {
	Action       string     `json:"action"`
	Minutes      int        `json:"minutes,omitempty"`
	ExtraMinutes int        `json:"extra_minutes,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Until        *time.Time `json:"until,omitempty"`
	Message      string     `json:"message,omitempty"`
}

// OrderResponse is the full order view returned by every order endpoint.
type OrderResponse struct {
	ID             string                  `json:"id"`
	ShopID         string                  `json:"shop_id"`
	Number         int64                   `json:"number"`
	Status         string                  `json:"status"`
	Items          []OrderItemResponse     `json:"items"`
	Total          int64                   `json:"total"`
	Pickup         PickupRequest           `json:"pickup"`
	PaymentMethod  string                  `json:"payment_method"`
	CustomerNote   string                  `json:"customer_note,omitempty"`
	BoucherNote    string                  `json:"boucher_note,omitempty"`
	DenyReason     string                  `json:"deny_reason,omitempty"`
	PickupToken    string                  `json:"pickup_token,omitempty"`
	Rating         *RatingResponse         `json:"rating,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	AcceptedAt     *time.Time              `json:"accepted_at,omitempty"`
	EstimatedReady *time.Time              `json:"estimated_ready,omitempty"`
	ActualReady    *time.Time              `json:"actual_ready,omitempty"`
	PickedUpAt     *time.Time              `json:"picked_up_at,omitempty"`
	Timeline       []TimelineEventResponse `json:"timeline"`
}

// OrderItemResponse is one order line in the order view.
type OrderItemResponse struct {
	ID                string  `json:"id"`
	ProductID         string  `json:"product_id"`
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	Quantity          int64   `json:"quantity"`
	UnitPrice         int64   `json:"unit_price"`
	LineTotal         int64   `json:"line_total"`
	Available         bool    `json:"available"`
	ReplacedProductID *string `json:"replaced_product_id,omitempty"`
}

// TimelineEventResponse is one committed transition in the order view.
type TimelineEventResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// RatingResponse is the customer's post-pickup score.
type RatingResponse struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// SubmitOrderResponse pairs the admitted order with the quoted prep time.
type SubmitOrderResponse struct {
	Order       OrderResponse `json:"order"`
	PrepMinutes int           `json:"prep_minutes"`
}

// RecordWeighingResponse pairs the updated order with the per-item checks.
type RecordWeighingResponse struct {
	Order  OrderResponse         `json:"order"`
	Checks []WeightCheckResponse `json:"checks"`
}

// WeightCheckResponse is the outcome of reconciling one measurement.
type WeightCheckResponse struct {
	ItemID           string `json:"item_id"`
	RequestedGrams   int64  `json:"requested_grams"`
	ActualGrams      int64  `json:"actual_grams"`
	DeviationPercent string `json:"deviation_percent"`
	AdjustedPrice    int64  `json:"adjusted_price"`
	Exceeds          bool   `json:"exceeds"`
	Underweight      bool   `json:"underweight"`
}

// KitchenBoardResponse is the board snapshot: open orders plus recent
// history.
type KitchenBoardResponse struct {
	Open   []KitchenBoardOrderResponse `json:"open"`
	Recent []KitchenBoardOrderResponse `json:"recent"`
}

// KitchenBoardOrderResponse is one order on the board.
type KitchenBoardOrderResponse struct {
	ID             string                     `json:"id"`
	Number         int64                      `json:"number"`
	Status         string                     `json:"status"`
	Total          int64                      `json:"total"`
	CustomerNote   string                     `json:"customer_note,omitempty"`
	PickupAsap     bool                       `json:"pickup_asap"`
	CreatedAt      time.Time                  `json:"created_at"`
	EstimatedReady *time.Time                 `json:"estimated_ready,omitempty"`
	Items          []KitchenBoardItemResponse `json:"items"`
}

// KitchenBoardItemResponse is one order line on the board.
type KitchenBoardItemResponse struct {
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Quantity  int64  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
	Available bool   `json:"available"`
}

// ShopAvailabilityResponse is the resolved availability snapshot shown to
// customers before ordering.
type ShopAvailabilityResponse struct {
	ShopID             string  `json:"shop_id"`
	EffectiveState     string  `json:"effective_state"`
	Admitting          bool    `json:"admitting"`
	PrepMinutes        int     `json:"prep_minutes"`
	BusyEndsInSeconds  int64   `json:"busy_ends_in_seconds,omitempty"`
	PauseReason        string  `json:"pause_reason,omitempty"`
	PauseEndsInSeconds int64   `json:"pause_ends_in_seconds,omitempty"`
	VacationMessage    string  `json:"vacation_message,omitempty"`
	RatingAverage      float64 `json:"rating_average,omitempty"`
	RatingCount        int64   `json:"rating_count,omitempty"`
}

func orderToResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		line := OrderItemResponse{
			ID:        item.ID().String(),
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Unit:      item.Unit().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Int64(),
			LineTotal: item.LineTotal().Int64(),
			Available: item.IsAvailable(),
		}
		if replaced := item.ReplacedProductID(); replaced != nil {
			id := replaced.String()
			line.ReplacedProductID = &id
		}
		items = append(items, line)
	}

	timeline := make([]TimelineEventResponse, 0, len(o.Timeline()))
	for _, event := range o.Timeline() {
		timeline = append(timeline, TimelineEventResponse{
			Status:  event.Status.String(),
			Message: event.Message,
			At:      event.At,
		})
	}

	pickup := PickupRequest{Asap: o.Pickup().IsAsap()}
	if !pickup.Asap {
		start, end := o.Pickup().Slot()
		pickup.SlotStart = &start
		pickup.SlotEnd = &end
	}

	response := OrderResponse{
		ID:             o.ID().String(),
		ShopID:         o.ShopID().String(),
		Number:         o.Number(),
		Status:         o.Status().String(),
		Items:          items,
		Total:          o.Total().Int64(),
		Pickup:         pickup,
		PaymentMethod:  string(o.PaymentMethod()),
		CustomerNote:   o.CustomerNote(),
		BoucherNote:    o.BoucherNote(),
		DenyReason:     o.DenyReason(),
		PickupToken:    o.PickupToken(),
		CreatedAt:      o.CreatedAt(),
		AcceptedAt:     o.AcceptedAt(),
		EstimatedReady: o.EstimatedReady(),
		ActualReady:    o.ActualReady(),
		PickedUpAt:     o.PickedUpAt(),
		Timeline:       timeline,
	}
	if rating := o.Rating(); rating != nil {
		response.Rating = &RatingResponse{Score: rating.Score, Comment: rating.Comment}
	}
	return response
}

func boardToResponse(board queries.GetKitchenBoardQueryResponse) KitchenBoardResponse {
	return KitchenBoardResponse{
		Open:   boardOrdersToResponse(board.Open),
		Recent: boardOrdersToResponse(board.Recent),
	}
}

func boardOrdersToResponse(orders []queries.KitchenBoardOrder) []KitchenBoardOrderResponse {
	out := make([]KitchenBoardOrderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]KitchenBoardItemResponse, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, KitchenBoardItemResponse{
				Name:      item.Name,
				Unit:      item.Unit,
				Quantity:  item.Quantity,
				LineTotal: item.LineTotal.Int64(),
				Available: item.Available,
			})
		}
		out = append(out, KitchenBoardOrderResponse{
			ID:             o.ID.String(),
			Number:         o.Number,
			Status:         o.Status,
			Total:          o.Total.Int64(),
			CustomerNote:   o.CustomerNote,
			PickupAsap:     o.PickupAsap,
			CreatedAt:      o.CreatedAt,
			EstimatedReady: o.EstimatedReady,
			Items:          items,
		})
	}
	return out
}

func availabilityToResponse(snapshot queries.GetShopAvailabilityQueryResponse) ShopAvailabilityResponse {
	return ShopAvailabilityResponse{
		ShopID:             snapshot.ShopID.String(),
		EffectiveState:     snapshot.EffectiveState,
		Admitting:          snapshot.Admitting,
		PrepMinutes:        snapshot.PrepMinutes,
		BusyEndsInSeconds:  snapshot.BusyEndsInSeconds,
		PauseReason:        snapshot.PauseReason,
		PauseEndsInSeconds: snapshot.PauseEndsInSeconds,
		VacationMessage:    snapshot.VacationMessage,
		RatingAverage:      snapshot.RatingAverage,
		RatingCount:        snapshot.RatingCount,
	}
}

func weightChecksToResponse(checks []services.WeightCheck) []WeightCheckResponse {
	out := make([]WeightCheckResponse, 0, len(checks))
	for _, check := range checks {
		out = append(out, WeightCheckResponse{
			ItemID:           check.ItemID.String(),
			RequestedGrams:   check.RequestedGrams.Int64(),
			ActualGrams:      check.ActualGrams.Int64(),
			DeviationPercent: check.Deviation.String(),
			AdjustedPrice:    check.AdjustedPrice.Int64(),
			Exceeds:          check.Exceeds,
			Underweight:      check.Underweight,
		})
	}
	return out
}
