package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pizzaria-pos/api/internal/auth"
	"github.com/pizzaria-pos/api/internal/cart"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/middleware"
	"github.com/pizzaria-pos/api/internal/orderstate"
	"github.com/pizzaria-pos/api/internal/pricing"
	"github.com/pizzaria-pos/api/internal/printer"
	"github.com/pizzaria-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error)
	CreateOrder(ctx context.Context, p auth.Principal, req service.CreateOrderRequest) (*service.OrderDetail, error)
	Transition(ctx context.Context, p auth.Principal, req service.TransitionRequest) (*database.Order, error)
}

// ReceiptPrinter prints an order receipt.
// Satisfied by *service.ReceiptService.
type ReceiptPrinter interface {
	Print(ctx context.Context, p auth.Principal, orderID uuid.UUID) error
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderStatusLogs(ctx context.Context, orderID uuid.UUID) ([]database.OrderStatusLog, error)
}

// OrderHandler handles order and cart endpoints.
type OrderHandler struct {
	svc     OrderServicer
	store   OrderStore
	printer ReceiptPrinter
	loc     *time.Location
}

// NewOrderHandler creates a new OrderHandler. loc is the business timezone
// used to interpret date filters.
func NewOrderHandler(svc OrderServicer, store OrderStore, receipts ReceiptPrinter, loc *time.Location) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, printer: receipts, loc: loc}
}

// RegisterRoutes registers order endpoints: /orders
// Expects Authenticate to run first.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/status", h.UpdateStatus)
	r.With(middleware.RequireStaff).Post("/{id}/print", h.Print)
}

// RegisterCartRoutes registers the public pricing endpoint: /cart
func (h *OrderHandler) RegisterCartRoutes(r chi.Router) {
	r.Post("/quote", h.Quote)
}

// --- Request / Response types ---

type cartExtraRequest struct {
	ExtraID  string `json:"extra_id"`
	Quantity int    `json:"quantity"`
}

type quoteRequest struct {
	DeliveryType   string            `json:"delivery_type"`
	DeliveryAreaID string            `json:"delivery_area_id"`
	Items          []cartLineRequest `json:"items"`
}

type cartLineRequest struct {
	ComboID         string             `json:"combo_id"`
	SizeID          string             `json:"size_id"`
	FlavorIDs       []string           `json:"flavor_ids"`
	SecondFlavorIDs []string           `json:"second_flavor_ids"`
	Extras          []cartExtraRequest `json:"extras"`
	StuffedCrust    bool               `json:"stuffed_crust"`
	Observations    string             `json:"observations"`
	Quantity        int                `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	DeliveryType    string            `json:"delivery_type"`
	DeliveryAreaID  string            `json:"delivery_area_id"`
	DeliveryAddress string            `json:"delivery_address"`
	PaymentMethod   string            `json:"payment_method"`
	ChangeFor       string            `json:"change_for"`
	Notes           string            `json:"notes"`
	Items           []cartLineRequest `json:"items"`
}

type updateStatusRequest struct {
	Status         string `json:"status"`
	DeliveryPerson string `json:"delivery_person"`
	Note           string `json:"note"`
}

type orderResponse struct {
	ID              uuid.UUID  `json:"id"`
	OrderNumber     string     `json:"order_number"`
	UserID          *string    `json:"user_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   *string    `json:"customer_phone"`
	DeliveryType    string     `json:"delivery_type"`
	DeliveryAreaID  *string    `json:"delivery_area_id"`
	DeliveryAddress *string    `json:"delivery_address"`
	DeliveryFee     string     `json:"delivery_fee"`
	PaymentMethod   string     `json:"payment_method"`
	ChangeFor       *string    `json:"change_for"`
	Subtotal        string     `json:"subtotal"`
	Total           string     `json:"total"`
	Status          string     `json:"status"`
	Source          string     `json:"source"`
	IfoodOrderID    *string    `json:"ifood_order_id"`
	Notes           *string    `json:"notes"`
	DeliveryPerson  *string    `json:"delivery_person"`
	CancelReason    *string    `json:"cancel_reason"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	ConfirmedBy     *string    `json:"confirmed_by"`
	DeliveredAt     *time.Time `json:"delivered_at"`
	DeliveredBy     *string    `json:"delivered_by"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	CancelledBy     *string    `json:"cancelled_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type orderItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ComboID       uuid.UUID `json:"combo_id"`
	ComboName     string    `json:"combo_name"`
	SizeName      *string   `json:"size_name"`
	Flavors       []string  `json:"flavors"`
	SecondFlavors []string  `json:"second_flavors"`
	Extras        []string  `json:"extras"`
	StuffedCrust  bool      `json:"stuffed_crust"`
	Observations  *string   `json:"observations"`
	Quantity      int32     `json:"quantity"`
	UnitPrice     string    `json:"unit_price"`
	TotalPrice    string    `json:"total_price"`
}

type statusLogResponse struct {
	Status    string    `json:"status"`
	ChangedBy *string   `json:"changed_by"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type orderDetailResponse struct {
	orderResponse
	Items      []orderItemResponse `json:"items"`
	StatusLogs []statusLogResponse `json:"status_logs,omitempty"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type quoteItemResponse struct {
	ComboID       uuid.UUID `json:"combo_id"`
	ComboName     string    `json:"combo_name"`
	SizeName      string    `json:"size_name,omitempty"`
	Flavors       []string  `json:"flavors"`
	SecondFlavors []string  `json:"second_flavors"`
	Extras        []string  `json:"extras"`
	StuffedCrust  bool      `json:"stuffed_crust"`
	Observations  string    `json:"observations,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unit_price"`
	TotalPrice    string    `json:"total_price"`
}

type quoteResponse struct {
	Items       []quoteItemResponse `json:"items"`
	Subtotal    string              `json:"subtotal"`
	DeliveryFee string              `json:"delivery_fee"`
	Total       string              `json:"total"`
}

// --- Handlers ---

// Quote handles POST /cart/quote.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.DeliveryType == "" {
		req.DeliveryType = enum.DeliveryTypePickup
	}

	q, err := h.svc.Quote(r.Context(), service.QuoteRequest{
		DeliveryType:   req.DeliveryType,
		DeliveryAreaID: req.DeliveryAreaID,
		Items:          toCartItemRequests(req.Items),
	})
	if err != nil {
		h.writeServiceError(w, "quote cart", err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	detail, err := h.svc.CreateOrder(r.Context(), p, service.CreateOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryType:    req.DeliveryType,
		DeliveryAreaID:  req.DeliveryAreaID,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		ChangeFor:       req.ChangeFor,
		Notes:           req.Notes,
		Items:           toCartItemRequests(req.Items),
	})
	if err != nil {
		h.writeServiceError(w, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, orderDetailResponse{
		orderResponse: toOrderResponse(detail.Order),
		Items:         toOrderItemResponses(detail.Items),
	})
}

// List handles GET /orders. Customers only see their own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		if !orderstate.IsValid(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, h.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, h.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		// Inclusive: the whole end day.
		params.EndDate = pgtype.Timestamptz{Time: t.AddDate(0, 0, 1).Add(-time.Nanosecond), Valid: true}
	}
	if p.Role == enum.UserRoleClient {
		params.UserID = pgtype.UUID{Bytes: p.UserID, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := orderListResponse{
		Orders: make([]orderResponse, len(orders)),
		Limit:  limit,
		Offset: offset,
	}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id} with items and status history.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Another customer's order is reported as missing.
	if p.Role == enum.UserRoleClient && (!order.UserID.Valid || uuid.UUID(order.UserID.Bytes) != p.UserID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	logs, err := h.store.ListOrderStatusLogs(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: list order status logs: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := orderDetailResponse{
		orderResponse: toOrderResponse(order),
		Items:         toOrderItemResponses(items),
		StatusLogs:    make([]statusLogResponse, len(logs)),
	}
	for i, l := range logs {
		resp.StatusLogs[i] = statusLogResponse{
			Status:    l.Status,
			ChangedBy: uuidPtr(l.ChangedBy),
			Note:      textPtr(l.Note),
			CreatedAt: l.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles POST /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	order, err := h.svc.Transition(r.Context(), p, service.TransitionRequest{
		OrderID:        id,
		Status:         req.Status,
		DeliveryPerson: req.DeliveryPerson,
		Note:           req.Note,
	})
	if err != nil {
		h.writeServiceError(w, "transition order", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Print handles POST /orders/{id}/print.
func (h *OrderHandler) Print(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if err := h.printer.Print(r.Context(), p, id); err != nil {
		switch {
		case errors.Is(err, printer.ErrNotConfigured):
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "printer not configured"})
		case errors.Is(err, service.ErrPrinterUnavailable):
			log.Printf("WARN: print order %s: %v", id, err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "printer unavailable"})
		default:
			h.writeServiceError(w, "print order", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "printed"})
}

// writeServiceError maps service errors to HTTP status codes.
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, orderstate.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrStoreClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidDeliveryType) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrCustomerNameRequired) ||
		errors.Is(err, service.ErrAddressRequired) ||
		errors.Is(err, service.ErrDeliveryAreaRequired) ||
		errors.Is(err, service.ErrDeliveryAreaNotFound) ||
		errors.Is(err, service.ErrComboNotFound) ||
		errors.Is(err, service.ErrSizeNotFound) ||
		errors.Is(err, service.ErrSizeMismatch) ||
		errors.Is(err, service.ErrFlavorNotFound) ||
		errors.Is(err, service.ErrExtraNotFound) ||
		errors.Is(err, service.ErrSecondPizzaNotAllowed) ||
		errors.Is(err, service.ErrNotCustomizable) ||
		errors.Is(err, service.ErrInvalidComboID) ||
		errors.Is(err, service.ErrInvalidSizeID) ||
		errors.Is(err, service.ErrInvalidFlavorID) ||
		errors.Is(err, service.ErrInvalidExtraID) ||
		errors.Is(err, service.ErrInvalidDeliveryAreaID) ||
		errors.Is(err, service.ErrInvalidChangeFor) ||
		errors.Is(err, pricing.ErrInvalidSelection)
}

// --- Conversions ---

func toCartItemRequests(lines []cartLineRequest) []service.CartItemRequest {
	out := make([]service.CartItemRequest, len(lines))
	for i, l := range lines {
		extras := make([]service.ExtraRequest, len(l.Extras))
		for j, e := range l.Extras {
			extras[j] = service.ExtraRequest{ExtraID: e.ExtraID, Quantity: e.Quantity}
		}
		out[i] = service.CartItemRequest{
			ComboID:         l.ComboID,
			SizeID:          l.SizeID,
			FlavorIDs:       l.FlavorIDs,
			SecondFlavorIDs: l.SecondFlavorIDs,
			Extras:          extras,
			StuffedCrust:    l.StuffedCrust,
			Observations:    l.Observations,
			Quantity:        l.Quantity,
		}
	}
	return out
}

func toQuoteResponse(q *service.Quote) quoteResponse {
	resp := quoteResponse{
		Items:       make([]quoteItemResponse, len(q.Items)),
		Subtotal:    q.Subtotal.StringFixed(2),
		DeliveryFee: q.DeliveryFee.StringFixed(2),
		Total:       q.Total.StringFixed(2),
	}
	for i, it := range q.Items {
		resp.Items[i] = toQuoteItemResponse(it)
	}
	return resp
}

func toQuoteItemResponse(it cart.Item) quoteItemResponse {
	extras := make([]string, len(it.Extras))
	for i, e := range it.Extras {
		extras[i] = strconv.Itoa(e.Quantity) + "x " + e.Name
	}
	return quoteItemResponse{
		ComboID:       it.ComboID,
		ComboName:     it.ComboName,
		SizeName:      it.SizeName,
		Flavors:       nonNil(it.Flavors),
		SecondFlavors: nonNil(it.SecondFlavors),
		Extras:        extras,
		StuffedCrust:  it.StuffedCrust,
		Observations:  it.Observations,
		Quantity:      it.Quantity,
		UnitPrice:     it.UnitPrice.StringFixed(2),
		TotalPrice:    it.TotalPrice.StringFixed(2),
	}
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          uuidPtr(o.UserID),
		CustomerName:    o.CustomerName,
		CustomerPhone:   textPtr(o.CustomerPhone),
		DeliveryType:    o.DeliveryType,
		DeliveryAreaID:  uuidPtr(o.DeliveryAreaID),
		DeliveryAddress: textPtr(o.DeliveryAddress),
		DeliveryFee:     numericToString(o.DeliveryFee),
		PaymentMethod:   o.PaymentMethod,
		ChangeFor:       numericPtr(o.ChangeFor),
		Subtotal:        numericToString(o.Subtotal),
		Total:           numericToString(o.Total),
		Status:          o.Status,
		Source:          o.Source,
		IfoodOrderID:    textPtr(o.IfoodOrderID),
		Notes:           textPtr(o.Notes),
		DeliveryPerson:  textPtr(o.DeliveryPerson),
		CancelReason:    textPtr(o.CancelReason),
		ConfirmedAt:     timePtr(o.ConfirmedAt),
		ConfirmedBy:     uuidPtr(o.ConfirmedBy),
		DeliveredAt:     timePtr(o.DeliveredAt),
		DeliveredBy:     uuidPtr(o.DeliveredBy),
		CancelledAt:     timePtr(o.CancelledAt),
		CancelledBy:     uuidPtr(o.CancelledBy),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderItemResponses(items []database.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, len(items))
	for i, it := range items {
		out[i] = orderItemResponse{
			ID:            it.ID,
			ComboID:       it.ComboID,
			ComboName:     it.ComboName,
			SizeName:      textPtr(it.SizeName),
			Flavors:       nonNil(it.Flavors),
			SecondFlavors: nonNil(it.SecondFlavors),
			Extras:        nonNil(it.Extras),
			StuffedCrust:  it.StuffedCrust,
			Observations:  textPtr(it.Observations),
			Quantity:      it.Quantity,
			UnitPrice:     numericToString(it.UnitPrice),
			TotalPrice:    numericToString(it.TotalPrice),
		}
	}
	return out
}

// numericToString formats a pgtype.Numeric with two decimal places.
func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	v, err := n.Value()
	if err != nil {
		return "0.00"
	}
	s, ok := v.(string)
	if !ok {
		return "0.00"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func numericPtr(n pgtype.Numeric) *string {
	if !n.Valid {
		return nil
	}
	s := numericToString(n)
	return &s
}

func uuidPtr(u pgtype.UUID) *string {
	if !u.Valid {
		return nil
	}
	s := uuid.UUID(u.Bytes).String()
	return &s
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
