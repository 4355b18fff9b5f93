package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// ComboStore defines the database methods needed by combo and size handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ComboStore interface {
	ListActiveCombos(ctx context.Context) ([]database.Combo, error)
	GetCombo(ctx context.Context, id uuid.UUID) (database.Combo, error)
	CreateCombo(ctx context.Context, arg database.CreateComboParams) (database.Combo, error)
	UpdateCombo(ctx context.Context, arg database.UpdateComboParams) (database.Combo, error)
	DeactivateCombo(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

	ListSizesByCombo(ctx context.Context, comboID uuid.UUID) ([]database.PizzaSize, error)
	CreatePizzaSize(ctx context.Context, arg database.CreatePizzaSizeParams) (database.PizzaSize, error)
	DeletePizzaSize(ctx context.Context, arg database.DeletePizzaSizeParams) (uuid.UUID, error)
}

// ComboHandler handles combo (menu product) endpoints and their pizza sizes.
type ComboHandler struct {
	store ComboStore
}

// NewComboHandler creates a new ComboHandler.
func NewComboHandler(store ComboStore) *ComboHandler {
	return &ComboHandler{store: store}
}

// RegisterPublicRoutes registers the read-only catalog endpoints: /catalog/combos
func (h *ComboHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterRoutes registers combo CRUD endpoints on the given Chi router.
// Expected to be mounted behind ADMIN/MANAGER role middleware: /admin/combos
func (h *ComboHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/sizes", h.CreateSize)
	r.Delete("/{id}/sizes/{sid}", h.DeleteSize)
}

// --- Request / Response types ---

type comboRequest struct {
	CategoryID         string `json:"category_id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Price              string `json:"price"`
	ImageURL           string `json:"image_url"`
	IsPizza            bool   `json:"is_pizza"`
	PizzaQuantity      int32  `json:"pizza_quantity"`
	AllowCustomization *bool  `json:"allow_customization"` // defaults to is_pizza
}

type sizeRequest struct {
	Name       string `json:"name"`
	Slices     int32  `json:"slices"`
	MaxFlavors int32  `json:"max_flavors"`
	BasePrice  string `json:"base_price"`
	SortOrder  int32  `json:"sort_order"`
}

type comboResponse struct {
	ID                 uuid.UUID      `json:"id"`
	CategoryID         uuid.UUID      `json:"category_id"`
	Name               string         `json:"name"`
	Description        *string        `json:"description"`
	Price              string         `json:"price"`
	ImageURL           *string        `json:"image_url"`
	IsPizza            bool           `json:"is_pizza"`
	PizzaQuantity      int32          `json:"pizza_quantity"`
	AllowCustomization bool           `json:"allow_customization"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Sizes              []sizeResponse `json:"sizes,omitempty"`
}

type sizeResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slices     int32     `json:"slices"`
	MaxFlavors int32     `json:"max_flavors"`
	BasePrice  string    `json:"base_price"`
	SortOrder  int32     `json:"sort_order"`
}

func toComboResponse(c database.Combo) comboResponse {
	return comboResponse{
		ID:                 c.ID,
		CategoryID:         c.CategoryID,
		Name:               c.Name,
		Description:        textPtr(c.Description),
		Price:              numericToString(c.Price),
		ImageURL:           textPtr(c.ImageUrl),
		IsPizza:            c.IsPizza,
		PizzaQuantity:      c.PizzaQuantity,
		AllowCustomization: c.AllowCustomization,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toSizeResponse(s database.PizzaSize) sizeResponse {
	return sizeResponse{
		ID:         s.ID,
		Name:       s.Name,
		Slices:     s.Slices,
		MaxFlavors: s.MaxFlavors,
		BasePrice:  numericToString(s.BasePrice),
		SortOrder:  s.SortOrder,
	}
}

// --- Helpers ---

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var errNegativePrice = errors.New("negative price")

func parsePrice(s string) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if d.IsNegative() {
		return pgtype.Numeric{}, errNegativePrice
	}
	var n pgtype.Numeric
	if err := n.Scan(d.StringFixed(2)); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

// writePriceError reports a parsePrice failure for the named field.
func writePriceError(w http.ResponseWriter, field string, err error) {
	if errors.Is(err, errNegativePrice) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": field + " must be >= 0"})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + field})
}

// comboParams validates req and returns the shared create/update fields.
func comboParams(w http.ResponseWriter, req comboRequest) (database.CreateComboParams, bool) {
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return database.CreateComboParams{}, false
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
		return database.CreateComboParams{}, false
	}
	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return database.CreateComboParams{}, false
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writePriceError(w, "price", err)
		return database.CreateComboParams{}, false
	}

	qty := req.PizzaQuantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 || qty > 2 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pizza_quantity must be 1 or 2"})
		return database.CreateComboParams{}, false
	}

	customizable := req.IsPizza
	if req.AllowCustomization != nil {
		customizable = *req.AllowCustomization
	}
	if req.IsPizza && !customizable {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pizza combos must allow customization"})
		return database.CreateComboParams{}, false
	}

	return database.CreateComboParams{
		CategoryID:         categoryID,
		Name:               req.Name,
		Description:        optionalText(req.Description),
		Price:              price,
		ImageUrl:           optionalText(req.ImageURL),
		IsPizza:            req.IsPizza,
		PizzaQuantity:      qty,
		AllowCustomization: customizable,
	}, true
}

// --- Handlers ---

// List returns all active combos.
func (h *ComboHandler) List(w http.ResponseWriter, r *http.Request) {
	combos, err := h.store.ListActiveCombos(r.Context())
	if err != nil {
		log.Printf("ERROR: list combos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]comboResponse, len(combos))
	for i, c := range combos {
		resp[i] = toComboResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a combo with its sizes.
func (h *ComboHandler) Get(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	combo, err := h.store.GetCombo(r.Context(), comboID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
			return
		}
		log.Printf("ERROR: get combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sizes, err := h.store.ListSizesByCombo(r.Context(), comboID)
	if err != nil {
		log.Printf("ERROR: list sizes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toComboResponse(combo)
	resp.Sizes = make([]sizeResponse, len(sizes))
	for i, s := range sizes {
		resp.Sizes[i] = toSizeResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new combo.
func (h *ComboHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req comboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, ok := comboParams(w, req)
	if !ok {
		return
	}

	combo, err := h.store.CreateCombo(r.Context(), params)
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		log.Printf("ERROR: create combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toComboResponse(combo))
}

// Update modifies an active combo.
func (h *ComboHandler) Update(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	var req comboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, ok := comboParams(w, req)
	if !ok {
		return
	}

	combo, err := h.store.UpdateCombo(r.Context(), database.UpdateComboParams{
		ID:                 comboID,
		CategoryID:         params.CategoryID,
		Name:               params.Name,
		Description:        params.Description,
		Price:              params.Price,
		ImageUrl:           params.ImageUrl,
		IsPizza:            params.IsPizza,
		PizzaQuantity:      params.PizzaQuantity,
		AllowCustomization: params.AllowCustomization,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		log.Printf("ERROR: update combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toComboResponse(combo))
}

// Delete deactivates a combo. Order history keeps referencing it.
func (h *ComboHandler) Delete(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	if _, err := h.store.DeactivateCombo(r.Context(), comboID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
			return
		}
		log.Printf("ERROR: deactivate combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateSize adds a pizza size to a pizza combo.
func (h *ComboHandler) CreateSize(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Slices < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slices must be >= 1"})
		return
	}
	if req.MaxFlavors < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_flavors must be >= 1"})
		return
	}
	price, err := parsePrice(req.BasePrice)
	if err != nil {
		writePriceError(w, "base_price", err)
		return
	}

	combo, err := h.store.GetCombo(r.Context(), comboID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
			return
		}
		log.Printf("ERROR: get combo for size: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if !combo.IsPizza {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "combo is not a pizza"})
		return
	}

	size, err := h.store.CreatePizzaSize(r.Context(), database.CreatePizzaSizeParams{
		ComboID:    comboID,
		Name:       req.Name,
		Slices:     req.Slices,
		MaxFlavors: req.MaxFlavors,
		BasePrice:  price,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "size already exists for this combo"})
			return
		}
		log.Printf("ERROR: create size: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSizeResponse(size))
}

// DeleteSize removes a pizza size from a combo.
func (h *ComboHandler) DeleteSize(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}
	sizeID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size ID"})
		return
	}

	if _, err := h.store.DeletePizzaSize(r.Context(), database.DeletePizzaSizeParams{ID: sizeID, ComboID: comboID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "size not found"})
			return
		}
		log.Printf("ERROR: delete size: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
