package cart

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rosa-studio-server/modules/studio"
)

type CartHandler struct {
	service *Service
}

func NewCartHandler(service *Service) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes - register cart endpoints
func (h *CartHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/cart/{sessionId}/add", h.Add).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/cart/{sessionId}/quantity", h.UpdateQuantity).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/cart/{sessionId}/remove", h.Remove).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/cart/{sessionId}/open", h.Open).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/cart/{sessionId}/close", h.Close).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/cart/{sessionId}/checkout", h.Checkout).Methods("POST", "OPTIONS")
	log.Println("✅ Cart routes registered: /api/cart/*")
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		studio.WriteInvalidRequest(w, "Missing required field: itemId")
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.Add(sessionID, req.ItemID))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		studio.WriteInvalidRequest(w, "Missing required field: itemId")
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.UpdateQuantity(sessionID, req.ItemID, req.Delta))
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req RemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		studio.WriteInvalidRequest(w, "Missing required field: itemId")
		return
	}

	studio.WriteJSON(w, http.StatusOK, h.service.Remove(sessionID, req.ItemID))
}

func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	studio.WriteJSON(w, http.StatusOK, h.service.SetOpen(sessionID, true))
}

func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	studio.WriteJSON(w, http.StatusOK, h.service.SetOpen(sessionID, false))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	studio.WriteJSON(w, http.StatusOK, h.service.Checkout(sessionID))
}
