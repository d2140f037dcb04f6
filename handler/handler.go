package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	models "shopping-cart/model"
	"shopping-cart/service"
	"shopping-cart/store"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
	log logrus.FieldLogger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, log logrus.FieldLogger) *Handler {
	return &Handler{svc: s, log: log}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Inventory
	r.HandleFunc("/inventory", h.ListInventory).Methods("GET")

	// Cart
	r.HandleFunc("/cart", h.ListCart).Methods("GET")
	r.HandleFunc("/cart", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/{id:[0-9]+}", h.UpdateCart).Methods("PATCH")
	r.HandleFunc("/cart/{id:[0-9]+}", h.RemoveFromCart).Methods("DELETE")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}

// --- request / response shapes ---
type addToCartReq struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Amount  int    `json:"amount"`
}

type updateAmountReq struct {
	Amount int `json:"amount"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// fail maps service and store errors to status codes
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case service.IsValidation(err):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "cart item not found")
	default:
		h.log.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("request failed")
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// --- Handler ---

// ListInventory handles GET /inventory
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListInventory(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListCart handles GET /cart
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListCart(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddToCart handles POST /cart
// body: { "id": 1, "content": "apple", "amount": 2 }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	item, err := h.svc.AddToCart(r.Context(), models.CartItem{ID: req.ID, Content: req.Content, Amount: req.Amount})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateCart handles PATCH /cart/{id}
// body: { "amount": 5 }
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateAmountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	item, err := h.svc.UpdateCartAmount(r.Context(), id, req.Amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// RemoveFromCart handles DELETE /cart/{id}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	item, err := h.svc.RemoveFromCart(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
