package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pizzaria-pos/api/internal/auth"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/ledger"
	"github.com/pizzaria-pos/api/internal/middleware"
	"github.com/pizzaria-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// CashRegister defines the service methods needed by cash handlers.
// Satisfied by *service.CashRegisterService.
type CashRegister interface {
	Open(ctx context.Context, p auth.Principal, amount decimal.Decimal, description string) (*database.CashLog, error)
	Status(ctx context.Context, p auth.Principal) (*service.RegisterStatus, error)
	CloseDay(ctx context.Context, p auth.Principal, date time.Time) (*ledger.Report, error)
	ListLogs(ctx context.Context, p auth.Principal, start, end time.Time) ([]database.CashLog, error)
}

// CashHandler handles cash register endpoints.
type CashHandler struct {
	svc CashRegister
	loc *time.Location
	now func() time.Time
}

// NewCashHandler creates a new CashHandler. Dates without a time are read in loc.
func NewCashHandler(svc CashRegister, loc *time.Location) *CashHandler {
	return &CashHandler{svc: svc, loc: loc, now: time.Now}
}

// RegisterRoutes registers cash endpoints: /cash
func (h *CashHandler) RegisterRoutes(r chi.Router) {
	r.Post("/open", h.Open)
	r.Get("/status", h.Status)
	r.Post("/close-day", h.CloseDay)
	r.Get("/logs", h.Logs)
}

type openRegisterRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type closeDayRequest struct {
	Date string `json:"date"`
}

type cashLogResponse struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	OrderID       *string   `json:"order_id"`
	PaymentMethod *string   `json:"payment_method"`
	Description   *string   `json:"description"`
	UserID        *string   `json:"user_id"`
	BusinessDate  string    `json:"business_date"`
	CreatedAt     time.Time `json:"created_at"`
}

type registerStatusResponse struct {
	IsOpen    bool             `json:"is_open"`
	LastEntry *cashLogResponse `json:"last_entry"`
}

func toCashLogResponse(l database.CashLog) cashLogResponse {
	resp := cashLogResponse{
		ID:            l.ID,
		Type:          l.Type,
		Amount:        numericToString(l.Amount),
		OrderID:       uuidPtr(l.OrderID),
		PaymentMethod: textPtr(l.PaymentMethod),
		Description:   textPtr(l.Description),
		UserID:        uuidPtr(l.UserID),
		CreatedAt:     l.CreatedAt,
	}
	if l.BusinessDate.Valid {
		resp.BusinessDate = l.BusinessDate.Time.Format("2006-01-02")
	}
	return resp
}

// Open handles POST /cash/open.
func (h *CashHandler) Open(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req openRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.Open(r.Context(), p, req.Amount, req.Description)
	if err != nil {
		writeCashError(w, "open register", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCashLogResponse(*entry))
}

// Status handles GET /cash/status.
func (h *CashHandler) Status(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	st, err := h.svc.Status(r.Context(), p)
	if err != nil {
		writeCashError(w, "register status", err)
		return
	}

	resp := registerStatusResponse{IsOpen: st.IsOpen}
	if st.LastEntry != nil {
		last := toCashLogResponse(*st.LastEntry)
		resp.LastEntry = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

// CloseDay handles POST /cash/close-day. An empty date closes today.
func (h *CashHandler) CloseDay(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req closeDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	date := h.now().In(h.loc)
	if req.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Date, h.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
			return
		}
		date = d
	}

	report, err := h.svc.CloseDay(r.Context(), p, date)
	if err != nil {
		writeCashError(w, "close day", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Logs handles GET /cash/logs?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Both bounds default to today and cover whole days.
func (h *CashHandler) Logs(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	now := h.now().In(h.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)

	start, end := today, today
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, h.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start format, use YYYY-MM-DD"})
			return
		}
		start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, h.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end format, use YYYY-MM-DD"})
			return
		}
		end = t
	}

	logs, err := h.svc.ListLogs(r.Context(), p, start, end.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		writeCashError(w, "list cash logs", err)
		return
	}

	resp := make([]cashLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = toCashLogResponse(l)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCashError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
	case errors.Is(err, service.ErrAlreadyClosed), errors.Is(err, service.ErrRegisterAlreadyOpen):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
